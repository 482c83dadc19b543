package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/domain"
)

// UserRepository is consumed by the auth and account usecases and by the
// auth middleware. Implementations map missing rows to domain.ErrUserNotFound
// and unique email violations to domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	// DeleteInactive removes a user that never confirmed its email. Active
	// users are left untouched.
	DeleteInactive(ctx context.Context, id int64) error

	CreateConfirmToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// ConsumeConfirmToken deletes the unexpired token matching tokenHash that
	// belongs to the user with the given email, and activates that user.
	// Returns domain.ErrTokenInvalid when no such token exists.
	ConsumeConfirmToken(ctx context.Context, email, tokenHash string, now time.Time) (*domain.User, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
