package repository

import (
	"context"

	"github.com/ErlanBelekov/shop-api/internal/domain"
)

type ShopFilter struct {
	ShopID     *int64
	CategoryID *int64
	OnlyActive bool
}

type ListShopsInput struct {
	Filter ShopFilter
	Limit  int
	Offset int
}

type ProductFilter struct {
	ShopID     *int64
	CategoryID *int64
}

type CatalogRepository interface {
	ListShops(ctx context.Context, input ListShopsInput) ([]*domain.Shop, error)
	CountShops(ctx context.Context, filter ShopFilter) (int, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	// ListProducts returns product infos of active shops only.
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.ProductInfo, error)

	ShopByOwner(ctx context.Context, userID int64) (*domain.Shop, error)
	SetShopState(ctx context.Context, userID int64, state bool) (*domain.Shop, error)
	// ImportPriceList replaces the owner's shop offering in one transaction.
	ImportPriceList(ctx context.Context, ownerID int64, pl *domain.PriceList) (*domain.ImportResult, error)
}
