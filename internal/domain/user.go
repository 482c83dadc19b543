package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrTokenInvalid       = errors.New("token or email is invalid")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is not active")
	ErrUserActive         = errors.New("user is already active")
	ErrUnauthorized       = errors.New("unauthorized")
)

type UserType string

const (
	UserTypeBuyer UserType = "buyer"
	UserTypeShop  UserType = "shop"
)

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Company      string
	Position     string
	Type         UserType
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ConfirmToken is a one-shot email confirmation token. Only the SHA-256 of
// the raw token is stored.
type ConfirmToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
