package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCatalogRepository(pool *pgxpool.Pool, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{pool: pool, logger: logger.With("component", "catalog_repo")}
}

func shopWhere(filter repository.ShopFilter) (string, []any) {
	var args []any
	where := []string{"TRUE"}

	if filter.OnlyActive {
		where = append(where, "s.state = TRUE")
	}
	if filter.ShopID != nil {
		args = append(args, *filter.ShopID)
		where = append(where, fmt.Sprintf("s.id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM shop_categories sc WHERE sc.shop_id = s.id AND sc.category_id = $%d)", len(args)))
	}
	return strings.Join(where, " AND "), args
}

func (r *CatalogRepository) ListShops(ctx context.Context, input repository.ListShopsInput) ([]*domain.Shop, error) {
	where, args := shopWhere(input.Filter)
	args = append(args, input.Limit, input.Offset)

	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.url, s.user_id, s.state
		FROM shops s
		WHERE %s
		ORDER BY s.id ASC
		LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	shops := make([]*domain.Shop, 0)
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shops: %w", err)
	}
	return shops, nil
}

func (r *CatalogRepository) CountShops(ctx context.Context, filter repository.ShopFilter) (int, error) {
	where, args := shopWhere(filter)

	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM shops s WHERE `+where, args...,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shops: %w", err)
	}
	return n, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.ProductInfo, error) {
	var args []any
	where := []string{"s.state = TRUE"}

	if filter.ShopID != nil {
		args = append(args, *filter.ShopID)
		where = append(where, fmt.Sprintf("pi.shop_id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT pi.id, pi.product_id, pi.shop_id, pi.model, pi.external_id,
		       pi.quantity, pi.price, pi.price_rrc,
		       p.name, p.category_id, c.name, s.name
		FROM product_infos pi
		JOIN products p   ON p.id = pi.product_id
		JOIN categories c ON c.id = p.category_id
		JOIN shops s      ON s.id = pi.shop_id
		WHERE %s
		ORDER BY pi.id ASC`,
		strings.Join(where, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	infos := make([]*domain.ProductInfo, 0)
	byID := make(map[int64]*domain.ProductInfo)
	ids := make([]int64, 0)
	for rows.Next() {
		var pi domain.ProductInfo
		if err := rows.Scan(
			&pi.ID, &pi.ProductID, &pi.ShopID, &pi.Model, &pi.ExternalID,
			&pi.Quantity, &pi.Price, &pi.PriceRRC,
			&pi.Product.Name, &pi.Product.CategoryID, &pi.Product.Category, &pi.ShopName,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product info: %w", err)
		}
		pi.Product.ID = pi.ProductID
		infos = append(infos, &pi)
		byID[pi.ID] = &pi
		ids = append(ids, pi.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product infos: %w", err)
	}

	if len(ids) == 0 {
		return infos, nil
	}

	paramRows, err := r.pool.Query(ctx, `
		SELECT pp.product_info_id, pa.name, pp.value
		FROM product_parameters pp
		JOIN parameters pa ON pa.id = pp.parameter_id
		WHERE pp.product_info_id = ANY($1)
		ORDER BY pp.product_info_id, pa.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("list product parameters: %w", err)
	}
	defer paramRows.Close()

	for paramRows.Next() {
		var infoID int64
		var p domain.ProductParameter
		if err := paramRows.Scan(&infoID, &p.Name, &p.Value); err != nil {
			return nil, fmt.Errorf("scan product parameter: %w", err)
		}
		if pi, ok := byID[infoID]; ok {
			pi.Parameters = append(pi.Parameters, p)
		}
	}
	if err := paramRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product parameters: %w", err)
	}
	return infos, nil
}

func (r *CatalogRepository) ShopByOwner(ctx context.Context, userID int64) (*domain.Shop, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.url, s.user_id, s.state FROM shops s WHERE s.user_id = $1`, userID)
	return scanShop(row)
}

func (r *CatalogRepository) SetShopState(ctx context.Context, userID int64, state bool) (*domain.Shop, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE shops s SET state = $2
		WHERE s.user_id = $1
		RETURNING s.id, s.name, s.url, s.user_id, s.state`, userID, state)
	return scanShop(row)
}

// ImportPriceList upserts the owner's shop, its categories and products, then
// replaces the shop's product infos and their parameters. Nothing is written
// unless the whole document applies.
func (r *CatalogRepository) ImportPriceList(ctx context.Context, ownerID int64, pl *domain.PriceList) (*domain.ImportResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var shopID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO shops (name, url, user_id) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, url = EXCLUDED.url
		RETURNING id`, pl.Shop, pl.URL, ownerID,
	).Scan(&shopID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrShopNameTaken
		}
		return nil, fmt.Errorf("upsert shop: %w", err)
	}

	// Categories are shared by every shop, so the first name stored for an id wins.
	for _, c := range pl.Categories {
		if _, err := tx.Exec(ctx, `
			INSERT INTO categories (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING`, c.ID, c.Name,
		); err != nil {
			return nil, fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO shop_categories (shop_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, shopID, c.ID,
		); err != nil {
			return nil, fmt.Errorf("link category %d: %w", c.ID, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_infos WHERE shop_id = $1`, shopID); err != nil {
		return nil, fmt.Errorf("clear product infos: %w", err)
	}

	for _, g := range pl.Goods {
		var productID int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO products (name, category_id) VALUES ($1, $2)
			ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, g.Name, g.CategoryID,
		).Scan(&productID); err != nil {
			return nil, fmt.Errorf("upsert product %d: %w", g.ID, err)
		}

		var infoID int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO product_infos (product_id, shop_id, model, external_id, quantity, price, price_rrc)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			productID, shopID, g.Model, g.ID, g.Quantity, g.Price, g.PriceRRC,
		).Scan(&infoID); err != nil {
			return nil, fmt.Errorf("insert product info %d: %w", g.ID, err)
		}

		for _, p := range g.Parameters {
			var paramID int64
			if err := tx.QueryRow(ctx, `
				INSERT INTO parameters (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, p.Name,
			).Scan(&paramID); err != nil {
				return nil, fmt.Errorf("upsert parameter %q: %w", p.Name, err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO product_parameters (product_info_id, parameter_id, value)
				VALUES ($1, $2, $3)`, infoID, paramID, p.Value,
			); err != nil {
				return nil, fmt.Errorf("insert parameter %q: %w", p.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	r.logger.InfoContext(ctx, "price list imported",
		"shop_id", shopID, "categories", len(pl.Categories), "goods", len(pl.Goods))

	return &domain.ImportResult{
		ShopID:     shopID,
		Categories: len(pl.Categories),
		Products:   len(pl.Goods),
	}, nil
}

func scanShop(row pgx.Row) (*domain.Shop, error) {
	var s domain.Shop
	if err := row.Scan(&s.ID, &s.Name, &s.URL, &s.UserID, &s.State); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShopNotFound
		}
		return nil, fmt.Errorf("scan shop: %w", err)
	}
	return &s, nil
}
