package domain

import (
	"errors"
	"time"
)

// Role values are stored verbatim in user profiles; Librarian is the sole
// gate for catalog-management operations.
const (
	RoleUser      = "User"
	RoleLibrarian = "Librarian"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an authenticated library member or librarian.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
