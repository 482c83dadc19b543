package repository

import (
	"context"

	"github.com/ErlanBelekov/shop-api/internal/domain"
)

// ContactRepository scopes every read and write by the owning user id.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Contact, error)
	Get(ctx context.Context, id, userID int64) (*domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error)
	Delete(ctx context.Context, userID int64, ids []int64) (int64, error)
}
