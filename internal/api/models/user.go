package models

import "github.com/golang-jwt/jwt/v5"

// User represents a user in the database.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// RegisterRequest defines the structure for a user registration request.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by login and guest login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Guest    bool   `json:"guest"`
}

// Claims are carried by every issued token.
type Claims struct {
	Username string `json:"un"`
	Guest    bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}
