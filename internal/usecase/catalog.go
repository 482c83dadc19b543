package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/repository"
	"github.com/jellydator/ttlcache/v3"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type ShopQuery struct {
	ShopID     *int64
	CategoryID *int64
	Limit      int
	Offset     int
}

// ShopPage is one window of the active shop list plus the total match count.
type ShopPage struct {
	Count   int
	Limit   int
	Offset  int
	Results []*domain.Shop
}

type CatalogUsecase struct {
	repo       repository.CatalogRepository
	categories *ttlcache.Cache[string, []*domain.Category]
	shops      *ttlcache.Cache[string, *ShopPage]
	logger     *slog.Logger
}

// NewCatalogUsecase caches read results for ttl. A ttl of zero disables caching.
func NewCatalogUsecase(repo repository.CatalogRepository, ttl time.Duration, logger *slog.Logger) *CatalogUsecase {
	u := &CatalogUsecase{repo: repo, logger: logger.With("component", "catalog_usecase")}
	if ttl > 0 {
		u.categories = ttlcache.New(
			ttlcache.WithTTL[string, []*domain.Category](ttl),
			ttlcache.WithDisableTouchOnHit[string, []*domain.Category](),
		)
		u.shops = ttlcache.New(
			ttlcache.WithTTL[string, *ShopPage](ttl),
			ttlcache.WithDisableTouchOnHit[string, *ShopPage](),
			ttlcache.WithCapacity[string, *ShopPage](1024),
		)
	}
	return u
}

// Invalidate drops every cached listing. Called after catalog writes.
func (u *CatalogUsecase) Invalidate() {
	if u.categories == nil {
		return
	}
	u.categories.DeleteAll()
	u.shops.DeleteAll()
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func optKey(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

// ListShops pages through shops that are accepting orders.
func (u *CatalogUsecase) ListShops(ctx context.Context, q ShopQuery) (*ShopPage, error) {
	q.Limit, q.Offset = normalizePage(q.Limit, q.Offset)
	key := fmt.Sprintf("%s:%s:%d:%d", optKey(q.ShopID), optKey(q.CategoryID), q.Limit, q.Offset)

	if u.shops != nil {
		if item := u.shops.Get(key); item != nil {
			return item.Value(), nil
		}
	}

	filter := repository.ShopFilter{ShopID: q.ShopID, CategoryID: q.CategoryID, OnlyActive: true}
	count, err := u.repo.CountShops(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count shops: %w", err)
	}
	shops, err := u.repo.ListShops(ctx, repository.ListShopsInput{Filter: filter, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}

	page := &ShopPage{Count: count, Limit: q.Limit, Offset: q.Offset, Results: shops}
	if u.shops != nil {
		u.shops.Set(key, page, ttlcache.DefaultTTL)
	}
	return page, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	const key = "all"
	if u.categories != nil {
		if item := u.categories.Get(key); item != nil {
			return item.Value(), nil
		}
	}

	categories, err := u.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if u.categories != nil {
		u.categories.Set(key, categories, ttlcache.DefaultTTL)
	}
	return categories, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, shopID, categoryID *int64) ([]*domain.ProductInfo, error) {
	infos, err := u.repo.ListProducts(ctx, repository.ProductFilter{ShopID: shopID, CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return infos, nil
}
