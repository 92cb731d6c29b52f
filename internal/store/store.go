package store

import (
	"errors"

	"bookstack/pkg/domain"
)

// ErrInsufficientStock is returned by AdjustStock when a negative delta
// would drive a book's stock below zero. The store leaves the row untouched.
var ErrInsufficientStock = errors.New("insufficient stock")

// Store defines persistence for users, books, and borrow records.
//
// Lookups return (value, found, error) with found=false as the not-found
// sentinel, distinct from an actual error. Borrow-record state is written
// only by the lending engine in internal/app.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	ListUsers() ([]domain.User, error)
	UserCount() (int, error)
	DeleteUser(id string) error

	// books
	SaveBook(domain.Book) error
	GetBook(id string) (domain.Book, bool, error)
	GetBookByTitle(title string) (domain.Book, bool, error)
	ListBooks() ([]domain.Book, error)
	SearchBooks(title, author, genre string) ([]domain.Book, error)
	DeleteBook(id string) error
	// AdjustStock applies a stock delta atomically. It returns the updated
	// book, found=false for an unknown id, or ErrInsufficientStock when the
	// delta would make the stock negative.
	AdjustStock(id string, delta int) (domain.Book, bool, error)

	// borrow records
	SaveLoan(domain.BorrowRecord) error
	GetLoan(id string) (domain.BorrowRecord, bool, error)
	ListLoans() ([]domain.BorrowRecord, error)
	ListLoansByUser(userID string) ([]domain.BorrowRecord, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
