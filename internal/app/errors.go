package app

import "errors"

// Error kinds surfaced to callers. The HTTP layer maps these to status
// codes with errors.Is; anything else is treated as an internal failure and
// not exposed.
var (
	ErrForbidden = errors.New("forbidden")

	ErrBookNotFound   = errors.New("book not found")
	ErrRecordNotFound = errors.New("borrow record not found")
	ErrUserNotFound   = errors.New("user not found")

	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrMissingFields   = errors.New("required fields missing")

	ErrInsufficientStock = errors.New("insufficient stock for borrowing")
	ErrOverReturn        = errors.New("cannot return more copies than outstanding")
	ErrAlreadyReturned   = errors.New("borrow record already fully returned")

	ErrTitleExists = errors.New("book title already exists")
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is shown on login failure without revealing
	// whether the account exists.
	ErrInvalidCredentials = errors.New("incorrect email address or password")
)
