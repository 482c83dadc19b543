package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
)

func strPtr(s string) *string { return &s }

func storedUser() *domain.User {
	return &domain.User{
		ID: 42, FirstName: "Arkady", LastName: "Podkolzin", Email: "arkady@example.com",
		PasswordHash: "plain$888", Company: "Google", Position: "DevOps",
		Type: domain.UserTypeBuyer, IsActive: true,
	}
}

func newAccountUsecase(users *fakeUserRepo, contacts *fakeContactRepo) *usecase.AccountUsecase {
	auth := newAuthUsecase(users, &fakeEmailSender{})
	return usecase.NewAccountUsecase(users, contacts, auth, discardLogger)
}

func TestDetails_ReturnsUserAndContacts(t *testing.T) {
	users := &fakeUserRepo{
		findByID: func(_ context.Context, _ int64) (*domain.User, error) { return storedUser(), nil },
	}
	contacts := &fakeContactRepo{
		listByUser: func(_ context.Context, userID int64) ([]*domain.Contact, error) {
			return []*domain.Contact{{ID: 1, UserID: userID, City: "Krasnoyarsk"}}, nil
		},
	}

	details, err := newAccountUsecase(users, contacts).Details(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.User.Email != "arkady@example.com" {
		t.Errorf("email = %q", details.User.Email)
	}
	if len(details.Contacts) != 1 || details.Contacts[0].UserID != 42 {
		t.Errorf("contacts = %+v", details.Contacts)
	}
}

func TestDetails_UserNotFound(t *testing.T) {
	users := &fakeUserRepo{
		findByID: func(_ context.Context, _ int64) (*domain.User, error) { return nil, domain.ErrUserNotFound },
	}

	_, err := newAccountUsecase(users, &fakeContactRepo{}).Details(context.Background(), 1)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestUpdateDetails_PartialUpdate(t *testing.T) {
	var saved *domain.User
	users := &fakeUserRepo{
		findByID: func(_ context.Context, _ int64) (*domain.User, error) { return storedUser(), nil },
		update: func(_ context.Context, u *domain.User) (*domain.User, error) {
			saved = u
			return u, nil
		},
	}
	shop := domain.UserTypeShop

	_, err := newAccountUsecase(users, &fakeContactRepo{}).UpdateDetails(context.Background(), 42, usecase.UpdateDetailsInput{
		Company:  strPtr("Yandex"),
		Email:    strPtr(" NEW@example.com"),
		Password: strPtr("secret"),
		Type:     &shop,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved.Company != "Yandex" {
		t.Errorf("company = %q", saved.Company)
	}
	if saved.FirstName != "Arkady" {
		t.Errorf("untouched field changed: first_name = %q", saved.FirstName)
	}
	if saved.Email != "new@example.com" {
		t.Errorf("email = %q, want normalized", saved.Email)
	}
	if saved.PasswordHash != "plain$secret" {
		t.Errorf("password not rehashed: %q", saved.PasswordHash)
	}
	if saved.Type != domain.UserTypeShop {
		t.Errorf("type = %q", saved.Type)
	}
}

func TestUpdateDetails_Rejections(t *testing.T) {
	bad := domain.UserType("admin")
	tests := []struct {
		name  string
		input usecase.UpdateDetailsInput
	}{
		{"blank first name", usecase.UpdateDetailsInput{FirstName: strPtr("  ")}},
		{"blank email", usecase.UpdateDetailsInput{Email: strPtr("")}},
		{"unknown type", usecase.UpdateDetailsInput{Type: &bad}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUserRepo{
				findByID: func(_ context.Context, _ int64) (*domain.User, error) { return storedUser(), nil },
				update: func(_ context.Context, _ *domain.User) (*domain.User, error) {
					t.Error("update must not be called")
					return nil, nil
				},
			}
			_, err := newAccountUsecase(users, &fakeContactRepo{}).UpdateDetails(context.Background(), 42, tc.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateDetails_EmailTaken(t *testing.T) {
	users := &fakeUserRepo{
		findByID: func(_ context.Context, _ int64) (*domain.User, error) { return storedUser(), nil },
		update: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}

	_, err := newAccountUsecase(users, &fakeContactRepo{}).UpdateDetails(context.Background(), 42, usecase.UpdateDetailsInput{
		Email: strPtr("taken@example.com"),
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}
