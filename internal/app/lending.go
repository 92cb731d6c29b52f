package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookstack/internal/store"
	"bookstack/pkg/domain"
)

// BorrowResult reports a successful borrow: the new open record and what is
// left on the shelf.
type BorrowResult struct {
	Record          domain.BorrowRecord
	RemainingStocks int
}

// ReturnResult reports a successful return. Status is one of
// domain.StatusAllReturned / domain.StatusPartialReturn and is part of the
// API contract.
type ReturnResult struct {
	Record domain.BorrowRecord
	Book   domain.Book
	Status string
}

// Borrow checks out qty copies of a book for a member. The stock decrement
// and the record creation happen as one unit: operations on the same book
// are serialized by a per-book lock, and a ledger write failure rolls the
// stock back.
func (a *App) Borrow(caller domain.User, bookID string, qty int) (BorrowResult, error) {
	if err := a.require(caller, CapBorrow); err != nil {
		return BorrowResult{}, err
	}
	if strings.TrimSpace(bookID) == "" {
		return BorrowResult{}, ErrInvalidID
	}
	if qty <= 0 {
		return BorrowResult{}, ErrInvalidQuantity
	}

	a.bookLocks.lock(bookID)
	defer a.bookLocks.unlock(bookID)

	book, found, err := a.store.AdjustStock(bookID, -qty)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			return BorrowResult{}, ErrInsufficientStock
		}
		return BorrowResult{}, fmt.Errorf("adjust stock: %w", err)
	}
	if !found {
		return BorrowResult{}, ErrBookNotFound
	}

	record := domain.BorrowRecord{
		ID:         uuid.NewString(),
		UserID:     caller.ID,
		BookID:     bookID,
		Borrowed:   qty,
		Quantity:   qty,
		BorrowDate: time.Now().UTC(),
	}
	if err := a.store.SaveLoan(record); err != nil {
		if _, _, restoreErr := a.store.AdjustStock(bookID, qty); restoreErr != nil {
			slog.Error("failed to restore stock after loan write failure",
				"book_id", bookID, "quantity", qty, "err", restoreErr)
		}
		return BorrowResult{}, fmt.Errorf("save loan: %w", err)
	}
	return BorrowResult{Record: record, RemainingStocks: book.Stocks}, nil
}

// Return gives back qty copies against a borrow record. Only the record's
// owner may return; a closed record accepts nothing further. The ledger
// decrement and the stock increment happen as one unit under the record and
// book locks, with the ledger rolled back if the stock write fails.
func (a *App) Return(caller domain.User, recordID string, qty int) (ReturnResult, error) {
	if err := a.require(caller, CapReturn); err != nil {
		return ReturnResult{}, err
	}
	if strings.TrimSpace(recordID) == "" {
		return ReturnResult{}, ErrInvalidID
	}
	if qty <= 0 {
		return ReturnResult{}, ErrInvalidQuantity
	}

	// Lock order: record first, then its book. Borrow takes only book
	// locks, so the two paths cannot deadlock.
	a.loanLocks.lock(recordID)
	defer a.loanLocks.unlock(recordID)

	record, found, err := a.store.GetLoan(recordID)
	if err != nil {
		return ReturnResult{}, fmt.Errorf("fetch loan: %w", err)
	}
	if !found {
		return ReturnResult{}, ErrRecordNotFound
	}
	if record.UserID != caller.ID {
		return ReturnResult{}, ErrForbidden
	}
	if record.Returned {
		return ReturnResult{}, ErrAlreadyReturned
	}
	if qty > record.Quantity {
		return ReturnResult{}, ErrOverReturn
	}

	a.bookLocks.lock(record.BookID)
	defer a.bookLocks.unlock(record.BookID)

	prev := record
	now := time.Now().UTC()
	record.Quantity -= qty
	record.Returned = record.Quantity == 0
	record.ReturnDate = &now
	if err := a.store.SaveLoan(record); err != nil {
		return ReturnResult{}, fmt.Errorf("save loan: %w", err)
	}

	book, found, err := a.store.AdjustStock(record.BookID, qty)
	if err != nil || !found {
		// Roll the ledger back so the record and the shelf stay consistent.
		if restoreErr := a.store.SaveLoan(prev); restoreErr != nil {
			slog.Error("failed to restore loan after stock write failure",
				"record_id", recordID, "err", restoreErr)
		}
		if err != nil {
			return ReturnResult{}, fmt.Errorf("adjust stock: %w", err)
		}
		return ReturnResult{}, ErrBookNotFound
	}

	status := domain.StatusPartialReturn
	if record.Returned {
		status = domain.StatusAllReturned
	}
	return ReturnResult{Record: record, Book: book, Status: status}, nil
}

// ListLoans returns the ledger view the caller is entitled to: admins see
// every record, members only their own.
func (a *App) ListLoans(caller domain.User) ([]domain.BorrowRecord, error) {
	if caller.IsAdmin {
		return a.store.ListLoans()
	}
	return a.store.ListLoansByUser(caller.ID)
}

// ListLoansForUser returns one member's records. Admin only.
func (a *App) ListLoansForUser(caller domain.User, userID string) ([]domain.BorrowRecord, error) {
	if err := a.require(caller, CapListAllLoans); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidID
	}
	_, found, err := a.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return a.store.ListLoansByUser(userID)
}
