package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"bookstack/internal/app"
	"bookstack/internal/ratelimit"
	"bookstack/internal/store"
	"bookstack/pkg/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := app.New(app.Config{
		Store:      store.NewMemoryStore(),
		Sessions:   store.NewJWTSessionStore("test-secret", time.Hour),
		SessionTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(New(Config{App: a}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	payload := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func signup(t *testing.T, srv *httptest.Server, name, email string) (domain.User, string) {
	t.Helper()
	resp, payload := doJSON(t, http.MethodPost, srv.URL+"/api/users/signup", "", map[string]string{
		"name": name, "email": email, "password": "password1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: status %d", email, resp.StatusCode)
	}
	var user domain.User
	if err := json.Unmarshal(payload["user"], &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	var token string
	if err := json.Unmarshal(payload["token"], &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return user, token
}

func createBook(t *testing.T, srv *httptest.Server, adminToken, title string, stocks int) domain.Book {
	t.Helper()
	resp, payload := doJSON(t, http.MethodPost, srv.URL+"/api/books", adminToken, map[string]any{
		"title": title, "author": "Author", "genre": "Fiction", "stocks": stocks,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create book: status %d", resp.StatusCode)
	}
	raw, _ := json.Marshal(payload)
	var book domain.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		t.Fatalf("decode book: %v", err)
	}
	return book
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestBorrowReturnFlow(t *testing.T) {
	srv := newTestServer(t)
	_, adminToken := signup(t, srv, "Admin", "admin@example.com")
	_, memberToken := signup(t, srv, "Member", "member@example.com")
	book := createBook(t, srv, adminToken, "Dune", 5)

	resp, payload := doJSON(t, http.MethodPost, srv.URL+"/api/loans", memberToken, map[string]any{
		"bookId": book.ID, "quantity": 3,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("borrow: status %d", resp.StatusCode)
	}
	var remaining int
	if err := json.Unmarshal(payload["remainingStocks"], &remaining); err != nil {
		t.Fatalf("decode remainingStocks: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("remainingStocks = %d, want 2", remaining)
	}
	var rec domain.BorrowRecord
	if err := json.Unmarshal(payload["record"], &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}

	resp, payload = doJSON(t, http.MethodPost, srv.URL+"/api/loans/"+rec.ID+"/return", memberToken, map[string]any{
		"quantity": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("partial return: status %d", resp.StatusCode)
	}
	var msg string
	if err := json.Unmarshal(payload["message"], &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg != domain.StatusPartialReturn {
		t.Fatalf("message = %q, want %q", msg, domain.StatusPartialReturn)
	}

	resp, payload = doJSON(t, http.MethodPost, srv.URL+"/api/loans/"+rec.ID+"/return", memberToken, map[string]any{
		"quantity": 1,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("final return: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(payload["message"], &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg != domain.StatusAllReturned {
		t.Fatalf("message = %q, want %q", msg, domain.StatusAllReturned)
	}
	if err := json.Unmarshal(payload["remainingStocks"], &remaining); err != nil {
		t.Fatalf("decode remainingStocks: %v", err)
	}
	if remaining != 5 {
		t.Fatalf("remainingStocks = %d, want 5", remaining)
	}

	// Further returns on the closed record conflict.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/loans/"+rec.ID+"/return", memberToken, map[string]any{
		"quantity": 1,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("return on closed record: status %d, want 409", resp.StatusCode)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newTestServer(t)
	_, adminToken := signup(t, srv, "Admin", "admin@example.com")
	_, memberToken := signup(t, srv, "Member", "member@example.com")
	book := createBook(t, srv, adminToken, "Dune", 1)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"borrow without token", http.MethodPost, "/api/loans", "", map[string]any{"bookId": book.ID, "quantity": 1}, http.StatusUnauthorized},
		{"borrow with bad token", http.MethodPost, "/api/loans", "not-a-token", map[string]any{"bookId": book.ID, "quantity": 1}, http.StatusUnauthorized},
		{"admin borrows", http.MethodPost, "/api/loans", adminToken, map[string]any{"bookId": book.ID, "quantity": 1}, http.StatusForbidden},
		{"unknown book", http.MethodPost, "/api/loans", memberToken, map[string]any{"bookId": "missing", "quantity": 1}, http.StatusNotFound},
		{"zero quantity", http.MethodPost, "/api/loans", memberToken, map[string]any{"bookId": book.ID, "quantity": 0}, http.StatusBadRequest},
		{"over stock", http.MethodPost, "/api/loans", memberToken, map[string]any{"bookId": book.ID, "quantity": 5}, http.StatusConflict},
		{"member creates book", http.MethodPost, "/api/books", memberToken, map[string]any{"title": "X", "author": "Y", "genre": "Z", "stocks": 1}, http.StatusForbidden},
		{"duplicate title", http.MethodPost, "/api/books", adminToken, map[string]any{"title": "Dune", "author": "Y", "genre": "Z", "stocks": 1}, http.StatusConflict},
		{"member lists users", http.MethodGet, "/api/users", memberToken, nil, http.StatusForbidden},
		{"unknown user", http.MethodGet, "/api/users/missing", adminToken, nil, http.StatusNotFound},
		{"duplicate signup email", http.MethodPost, "/api/users/signup", "", map[string]string{"name": "A", "email": "admin@example.com", "password": "password1"}, http.StatusConflict},
		{"bad credentials", http.MethodPost, "/api/users/login", "", map[string]string{"email": "admin@example.com", "password": "wrong-password"}, http.StatusUnauthorized},
		{"wrong method on loans", http.MethodDelete, "/api/loans", memberToken, nil, http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doJSON(t, tc.method, srv.URL+tc.path, tc.token, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestLoanVisibilityOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, adminToken := signup(t, srv, "Admin", "admin@example.com")
	member, memberToken := signup(t, srv, "Member", "member@example.com")
	_, otherToken := signup(t, srv, "Other", "other@example.com")
	book := createBook(t, srv, adminToken, "Dune", 10)

	for _, token := range []string{memberToken, otherToken} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/loans", token, map[string]any{
			"bookId": book.ID, "quantity": 1,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("borrow: status %d", resp.StatusCode)
		}
	}

	count := func(resp *http.Response, payload map[string]json.RawMessage) int {
		t.Helper()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list loans: status %d", resp.StatusCode)
		}
		var n int
		if err := json.Unmarshal(payload["count"], &n); err != nil {
			t.Fatalf("decode count: %v", err)
		}
		return n
	}

	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/loans", adminToken, nil)
	if got := count(resp, payload); got != 2 {
		t.Fatalf("admin sees %d loans, want 2", got)
	}
	resp, payload = doJSON(t, http.MethodGet, srv.URL+"/api/loans", memberToken, nil)
	if got := count(resp, payload); got != 1 {
		t.Fatalf("member sees %d loans, want 1", got)
	}
	resp, payload = doJSON(t, http.MethodGet, srv.URL+"/api/loans/user/"+member.ID, adminToken, nil)
	if got := count(resp, payload); got != 1 {
		t.Fatalf("per-user listing sees %d loans, want 1", got)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/loans/user/"+member.ID, otherToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("member per-user listing: status %d, want 403", resp.StatusCode)
	}
}

func TestPublicBookReads(t *testing.T) {
	srv := newTestServer(t)
	_, adminToken := signup(t, srv, "Admin", "admin@example.com")
	book := createBook(t, srv, adminToken, "The Hobbit", 3)

	// No token required for catalog reads.
	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/books", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list books: status %d", resp.StatusCode)
	}
	var n int
	if err := json.Unmarshal(payload["count"], &n); err != nil || n != 1 {
		t.Fatalf("count = %d (err %v), want 1", n, err)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/books/"+book.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get book: status %d", resp.StatusCode)
	}

	resp, payload = doJSON(t, http.MethodGet, srv.URL+"/api/books/search?title=hobbit", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(payload["count"], &n); err != nil || n != 1 {
		t.Fatalf("search count = %d (err %v), want 1", n, err)
	}
}

func TestSignupRateLimit(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(redis.Addr(), "", "bookstack:ratelimit:signup", 2, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	a, err := app.New(app.Config{
		Store:      store.NewMemoryStore(),
		Sessions:   store.NewJWTSessionStore("test-secret", time.Hour),
		SessionTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(New(Config{App: a, SignupLimiter: limiter}).Router())
	defer srv.Close()

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/users/signup", "", map[string]string{
			"name": "U", "email": fmt.Sprintf("u%d@example.com", i), "password": "password1",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("request %d: status %d, want 201", i, resp.StatusCode)
		}
	}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/users/signup", "", map[string]string{
		"name": "U", "email": "u3@example.com", "password": "password1",
	})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q, want 60", got)
	}
}
