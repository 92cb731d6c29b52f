package store

import (
	"time"

	"bookstack/pkg/domain"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BookModel struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"uniqueIndex;not null"`
	Author    string `gorm:"not null;index"`
	Genre     string `gorm:"index"`
	Stocks    int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LoanModel struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"not null;index"`
	BookID     string `gorm:"not null;index"`
	Borrowed   int    `gorm:"not null"`
	Quantity   int    `gorm:"not null"`
	BorrowDate time.Time
	ReturnDate *time.Time
	Returned   bool `gorm:"not null"`
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Genre:     b.Genre,
		Stocks:    b.Stocks,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Genre:     m.Genre,
		Stocks:    m.Stocks,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func loanToModel(r domain.BorrowRecord) LoanModel {
	return LoanModel{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		Borrowed:   r.Borrowed,
		Quantity:   r.Quantity,
		BorrowDate: r.BorrowDate,
		ReturnDate: r.ReturnDate,
		Returned:   r.Returned,
	}
}

func loanFromModel(m LoanModel) domain.BorrowRecord {
	return domain.BorrowRecord{
		ID:         m.ID,
		UserID:     m.UserID,
		BookID:     m.BookID,
		Borrowed:   m.Borrowed,
		Quantity:   m.Quantity,
		BorrowDate: m.BorrowDate,
		ReturnDate: m.ReturnDate,
		Returned:   m.Returned,
	}
}
