package domain

import "time"

// User is a library account. Admins manage inventory and accounts but do not
// borrow or return books themselves.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Book is an inventory entry. Stocks counts the copies currently available
// to borrow and never goes negative.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	Stocks    int       `json:"stocks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BorrowRecord is one loan of one or more copies of a single book.
// Quantity counts the copies still outstanding; it starts at Borrowed and
// only ever decreases. Returned flips to true exactly when Quantity hits 0,
// after which the record accepts no further returns.
type BorrowRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	BookID     string     `json:"bookId"`
	Borrowed   int        `json:"borrowed"`
	Quantity   int        `json:"quantity"`
	BorrowDate time.Time  `json:"borrowDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Returned   bool       `json:"returned"`
}

// LoanState describes where a borrow record sits in its lifecycle.
type LoanState string

const (
	LoanOpen              LoanState = "open"
	LoanPartiallyReturned LoanState = "partially_returned"
	LoanClosed            LoanState = "closed"
)

// State derives the lifecycle state from the record counters.
func (r BorrowRecord) State() LoanState {
	switch {
	case r.Quantity == 0:
		return LoanClosed
	case r.Quantity < r.Borrowed:
		return LoanPartiallyReturned
	default:
		return LoanOpen
	}
}

// Return status strings reported to callers. These are part of the API
// contract, not display text.
const (
	StatusAllReturned   = "All books returned"
	StatusPartialReturn = "Partial books returned"
)
