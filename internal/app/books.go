package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookstack/pkg/domain"
)

// CreateBook adds an inventory entry. Admin only; titles are unique.
func (a *App) CreateBook(caller domain.User, title, author, genre string, stocks int) (domain.Book, error) {
	if err := a.require(caller, CapManageInventory); err != nil {
		return domain.Book{}, err
	}
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	genre = strings.TrimSpace(genre)
	if title == "" || author == "" || genre == "" {
		return domain.Book{}, ErrMissingFields
	}
	if stocks < 0 {
		return domain.Book{}, ErrInvalidQuantity
	}
	_, exists, err := a.store.GetBookByTitle(title)
	if err != nil {
		return domain.Book{}, fmt.Errorf("check title: %w", err)
	}
	if exists {
		return domain.Book{}, ErrTitleExists
	}
	now := time.Now().UTC()
	book := domain.Book{
		ID:        uuid.NewString(),
		Title:     title,
		Author:    author,
		Genre:     genre,
		Stocks:    stocks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// BookUpdate carries optional inventory edits. A nil field is left as is.
type BookUpdate struct {
	Title  *string
	Author *string
	Genre  *string
	Stocks *int
}

// UpdateBook edits an inventory entry. Admin only. Stock edits here are
// direct admin overrides; they bypass the lending conservation property by
// design of the inventory contract, but still may not go negative.
func (a *App) UpdateBook(caller domain.User, id string, upd BookUpdate) (domain.Book, error) {
	if err := a.require(caller, CapManageInventory); err != nil {
		return domain.Book{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Book{}, ErrInvalidID
	}

	// Serialize against concurrent borrow/return on the same book.
	a.bookLocks.lock(id)
	defer a.bookLocks.unlock(id)

	book, found, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("fetch book: %w", err)
	}
	if !found {
		return domain.Book{}, ErrBookNotFound
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return domain.Book{}, ErrMissingFields
		}
		if title != book.Title {
			existing, ok, err := a.store.GetBookByTitle(title)
			if err != nil {
				return domain.Book{}, fmt.Errorf("check title: %w", err)
			}
			if ok && existing.ID != book.ID {
				return domain.Book{}, ErrTitleExists
			}
			book.Title = title
		}
	}
	if upd.Author != nil {
		author := strings.TrimSpace(*upd.Author)
		if author == "" {
			return domain.Book{}, ErrMissingFields
		}
		book.Author = author
	}
	if upd.Genre != nil {
		genre := strings.TrimSpace(*upd.Genre)
		if genre == "" {
			return domain.Book{}, ErrMissingFields
		}
		book.Genre = genre
	}
	if upd.Stocks != nil {
		if *upd.Stocks < 0 {
			return domain.Book{}, ErrInvalidQuantity
		}
		book.Stocks = *upd.Stocks
	}
	book.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// DeleteBook removes an inventory entry. Admin only.
func (a *App) DeleteBook(caller domain.User, id string) error {
	if err := a.require(caller, CapManageInventory); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	_, found, err := a.store.GetBook(id)
	if err != nil {
		return fmt.Errorf("fetch book: %w", err)
	}
	if !found {
		return ErrBookNotFound
	}
	return a.store.DeleteBook(id)
}

// GetBook returns one inventory entry. Public read.
func (a *App) GetBook(id string) (domain.Book, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Book{}, ErrInvalidID
	}
	book, found, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("fetch book: %w", err)
	}
	if !found {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

// ListBooks returns the whole inventory. Public read.
func (a *App) ListBooks() ([]domain.Book, error) {
	return a.store.ListBooks()
}

// SearchBooks matches case-insensitive substrings on title/author/genre.
// Public read.
func (a *App) SearchBooks(title, author, genre string) ([]domain.Book, error) {
	return a.store.SearchBooks(strings.TrimSpace(title), strings.TrimSpace(author), strings.TrimSpace(genre))
}
