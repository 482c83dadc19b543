package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/repository"
)

// AccountDetails is a user together with their delivery contacts.
type AccountDetails struct {
	User     *domain.User
	Contacts []*domain.Contact
}

type AccountUsecase struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	auth     *AuthUsecase
	logger   *slog.Logger
}

// NewAccountUsecase reuses auth for password rules and hashing.
func NewAccountUsecase(users repository.UserRepository, contacts repository.ContactRepository, auth *AuthUsecase, logger *slog.Logger) *AccountUsecase {
	return &AccountUsecase{
		users:    users,
		contacts: contacts,
		auth:     auth,
		logger:   logger.With("component", "account_usecase"),
	}
}

func (u *AccountUsecase) Details(ctx context.Context, userID int64) (*AccountDetails, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	contacts, err := u.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return &AccountDetails{User: user, Contacts: contacts}, nil
}

// UpdateDetailsInput holds the fields to change. Nil fields are left as is.
type UpdateDetailsInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Company   *string
	Position  *string
	Type      *domain.UserType
}

func (u *AccountUsecase) UpdateDetails(ctx context.Context, userID int64, input UpdateDetailsInput) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	set := func(dst *string, src *string, field string) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrValidation, field)
		}
		*dst = v
		return nil
	}
	for _, f := range []struct {
		dst   *string
		src   *string
		field string
	}{
		{&user.FirstName, input.FirstName, "first_name"},
		{&user.LastName, input.LastName, "last_name"},
		{&user.Company, input.Company, "company"},
		{&user.Position, input.Position, "position"},
	} {
		if err := set(f.dst, f.src, f.field); err != nil {
			return nil, err
		}
	}

	if input.Email != nil {
		addr := NormalizeEmail(*input.Email)
		if addr == "" {
			return nil, fmt.Errorf("%w: email must not be empty", domain.ErrValidation)
		}
		user.Email = addr
	}
	if input.Type != nil {
		if err := validateUserType(*input.Type); err != nil {
			return nil, err
		}
		user.Type = *input.Type
	}
	if input.Password != nil {
		if err := u.auth.validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := u.auth.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	updated, err := u.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	u.logger.InfoContext(ctx, "account updated", "user_id", updated.ID)
	return updated, nil
}
