package server

import "bookstack/pkg/domain"

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type createBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Stocks int    `json:"stocks"`
}

type updateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
	Stocks *int    `json:"stocks"`
}

type borrowRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type borrowResponse struct {
	Record          domain.BorrowRecord `json:"record"`
	RemainingStocks int                 `json:"remainingStocks"`
}

type returnRequest struct {
	Quantity int `json:"quantity"`
}

type returnResponse struct {
	Message         string              `json:"message"`
	Record          domain.BorrowRecord `json:"record"`
	RemainingStocks int                 `json:"remainingStocks"`
}
