package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bookstack/pkg/domain"
)

// MemoryStore keeps everything in-process. It backs tests and local runs;
// every read-check-write sequence holds the store mutex so the same
// atomicity contract as the SQL store applies.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	email map[string]string // email -> user ID
	books map[string]domain.Book
	loans map[string]domain.BorrowRecord
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		email: make(map[string]string),
		books: make(map[string]domain.Book),
		loans: make(map[string]domain.BorrowRecord),
	}
}

// SaveUser inserts or updates a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.users[u.ID]; ok && prev.Email != u.Email {
		delete(m.email, prev.Email)
	}
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// ListUsers returns all users ordered by creation time.
func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

// UserCount returns the number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// DeleteUser removes a user.
func (m *MemoryStore) DeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		delete(m.email, u.Email)
		delete(m.users, id)
	}
	return nil
}

// SaveBook inserts or updates a book.
func (m *MemoryStore) SaveBook(b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[b.ID] = b
	return nil
}

// GetBook retrieves a book by ID.
func (m *MemoryStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// GetBookByTitle looks up a book by exact title.
func (m *MemoryStore) GetBookByTitle(title string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.books {
		if b.Title == title {
			return b, true, nil
		}
	}
	return domain.Book{}, false, nil
}

// ListBooks returns all books ordered by creation time.
func (m *MemoryStore) ListBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.books))
	for _, b := range m.books {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

// SearchBooks matches case-insensitive substrings on title/author/genre.
func (m *MemoryStore) SearchBooks(title, author, genre string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	title, author, genre = strings.ToLower(title), strings.ToLower(author), strings.ToLower(genre)
	res := make([]domain.Book, 0)
	for _, b := range m.books {
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			continue
		}
		if genre != "" && !strings.Contains(strings.ToLower(b.Genre), genre) {
			continue
		}
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

// DeleteBook removes a book.
func (m *MemoryStore) DeleteBook(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

// AdjustStock applies a stock delta under the store lock, rejecting deltas
// that would make the count negative.
func (m *MemoryStore) AdjustStock(id string, delta int) (domain.Book, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return domain.Book{}, false, nil
	}
	if b.Stocks+delta < 0 {
		return domain.Book{}, true, ErrInsufficientStock
	}
	b.Stocks += delta
	b.UpdatedAt = time.Now().UTC()
	m.books[id] = b
	return b, true, nil
}

// SaveLoan inserts or updates a borrow record.
func (m *MemoryStore) SaveLoan(r domain.BorrowRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[r.ID] = r
	return nil
}

// GetLoan retrieves a borrow record by ID.
func (m *MemoryStore) GetLoan(id string) (domain.BorrowRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.loans[id]
	return r, ok, nil
}

// ListLoans returns every borrow record ordered by borrow date.
func (m *MemoryStore) ListLoans() ([]domain.BorrowRecord, error) {
	return m.listLoans(func(domain.BorrowRecord) bool { return true })
}

// ListLoansByUser returns a user's borrow records ordered by borrow date.
func (m *MemoryStore) ListLoansByUser(userID string) ([]domain.BorrowRecord, error) {
	return m.listLoans(func(r domain.BorrowRecord) bool { return r.UserID == userID })
}

func (m *MemoryStore) listLoans(keep func(domain.BorrowRecord) bool) ([]domain.BorrowRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.BorrowRecord, 0)
	for _, r := range m.loans {
		if keep(r) {
			res = append(res, r)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].BorrowDate.Before(res[j].BorrowDate) })
	return res, nil
}
