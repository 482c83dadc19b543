package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/repository"
)

type ContactUsecase struct {
	repo repository.ContactRepository
}

func NewContactUsecase(repo repository.ContactRepository) *ContactUsecase {
	return &ContactUsecase{repo: repo}
}

// ContactInput carries contact fields. Create treats nil as empty; Update
// leaves nil fields untouched.
type ContactInput struct {
	Country    *string
	Region     *string
	City       *string
	Street     *string
	House      *string
	Structure  *string
	Building   *string
	Apartment  *string
	Phone      *string
	PostalCode *string
}

func (in ContactInput) apply(c *domain.Contact) {
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&c.Country, in.Country},
		{&c.Region, in.Region},
		{&c.City, in.City},
		{&c.Street, in.Street},
		{&c.House, in.House},
		{&c.Structure, in.Structure},
		{&c.Building, in.Building},
		{&c.Apartment, in.Apartment},
		{&c.Phone, in.Phone},
		{&c.PostalCode, in.PostalCode},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
}

func validateContact(c *domain.Contact) error {
	var missing []string
	if c.City == "" {
		missing = append(missing, "city")
	}
	if c.Street == "" {
		missing = append(missing, "street")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func (u *ContactUsecase) List(ctx context.Context, userID int64) ([]*domain.Contact, error) {
	contacts, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (u *ContactUsecase) Create(ctx context.Context, userID int64, input ContactInput) (*domain.Contact, error) {
	c := &domain.Contact{UserID: userID}
	input.apply(c)
	if err := validateContact(c); err != nil {
		return nil, err
	}

	created, err := u.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

func (u *ContactUsecase) Update(ctx context.Context, userID, contactID int64, input ContactInput) (*domain.Contact, error) {
	c, err := u.repo.Get(ctx, contactID, userID)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	input.apply(c)
	if err := validateContact(c); err != nil {
		return nil, err
	}

	updated, err := u.repo.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return updated, nil
}

// Delete removes the caller's contacts among ids and reports how many went.
func (u *ContactUsecase) Delete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no contact ids given", domain.ErrValidation)
	}
	n, err := u.repo.Delete(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete contacts: %w", err)
	}
	return n, nil
}
