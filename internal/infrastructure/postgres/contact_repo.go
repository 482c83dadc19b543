package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactColumns = `id, user_id, country, region, city, street, house, structure,
		building, apartment, phone, postal_code`

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	query := `
		INSERT INTO contacts (
			user_id, country, region, city, street, house, structure,
			building, apartment, phone, postal_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + contactColumns

	row := r.pool.QueryRow(ctx, query,
		c.UserID, c.Country, c.Region, c.City, c.Street, c.House, c.Structure,
		c.Building, c.Apartment, c.Phone, c.PostalCode,
	)
	return scanContact(row)
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) Get(ctx context.Context, id, userID int64) (*domain.Contact, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND user_id = $2`, id, userID)
	return scanContact(row)
}

func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	query := `
		UPDATE contacts
		SET    country     = $3,
		       region      = $4,
		       city        = $5,
		       street      = $6,
		       house       = $7,
		       structure   = $8,
		       building    = $9,
		       apartment   = $10,
		       phone       = $11,
		       postal_code = $12
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns

	row := r.pool.QueryRow(ctx, query,
		c.ID, c.UserID, c.Country, c.Region, c.City, c.Street, c.House, c.Structure,
		c.Building, c.Apartment, c.Phone, c.PostalCode,
	)
	return scanContact(row)
}

func (r *ContactRepository) Delete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM contacts WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete contacts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID, &c.UserID, &c.Country, &c.Region, &c.City, &c.Street, &c.House, &c.Structure,
		&c.Building, &c.Apartment, &c.Phone, &c.PostalCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}
