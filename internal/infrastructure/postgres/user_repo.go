package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, first_name, last_name, email, password_hash, company, position,
		type, is_active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, company, position, type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		u.FirstName, u.LastName, u.Email, u.PasswordHash,
		u.Company, u.Position, u.Type, u.IsActive,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET    first_name    = $2,
		       last_name     = $3,
		       email         = $4,
		       password_hash = $5,
		       company       = $6,
		       position      = $7,
		       type          = $8,
		       updated_at    = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
		u.Company, u.Position, u.Type,
	)
	updated, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) DeleteInactive(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM users WHERE id = $1 AND is_active = FALSE`, id,
	); err != nil {
		return fmt.Errorf("delete inactive user: %w", err)
	}
	return nil
}

func (r *UserRepository) CreateConfirmToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO confirm_email_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`,
		userID, tokenHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create confirm token: %w", err)
	}
	return nil
}

// ConsumeConfirmToken deletes the token and activates its owner in a single
// statement, so a token can never be redeemed twice.
func (r *UserRepository) ConsumeConfirmToken(ctx context.Context, email, tokenHash string, now time.Time) (*domain.User, error) {
	query := `
		WITH consumed AS (
			DELETE FROM confirm_email_tokens t
			USING  users u
			WHERE  t.user_id    = u.id
			  AND  u.email      = $1
			  AND  t.token_hash = $2
			  AND  t.expires_at > $3
			RETURNING t.user_id
		)
		UPDATE users
		SET    is_active  = TRUE,
		       updated_at = NOW()
		WHERE id IN (SELECT user_id FROM consumed)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, email, tokenHash, now)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM confirm_email_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Company, &u.Position,
		&u.Type, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
