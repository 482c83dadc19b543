package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

func newAccountEngine(auth *fakeAuth, account *fakeAccount) *gin.Engine {
	h := handler.NewAccountHandler(auth, account, discardLogger)
	r := gin.New()
	r.POST("/user/register", h.Register)
	r.POST("/user/register/confirm", h.Confirm)
	r.POST("/user/register/resend", h.Resend)
	r.POST("/user/login", h.Login)
	r.GET("/user/details", withUser(42), h.Details)
	r.POST("/user/details", withUser(42), h.UpdateDetails)
	return r
}

const registerBody = `{
	"first_name": "Arkady",
	"last_name": "Podkolzin",
	"email": "arkadypodkolzin@yandex.ru",
	"password": "888",
	"company": "Google",
	"position": "DevOps"
}`

// ---- Register ----

func TestRegister_Returns201WithStatusTrue(t *testing.T) {
	var got usecase.RegisterInput
	auth := &fakeAuth{
		register: func(_ context.Context, in usecase.RegisterInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: 1}, nil
		},
	}

	w := do(t, newAccountEngine(auth, nil), http.MethodPost, "/user/register", "application/json", registerBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var resp envelope
	decode(t, w, &resp)
	if !resp.Status {
		t.Error("Status = false, want true")
	}
	if got.Company != "Google" || got.Password != "888" {
		t.Errorf("usecase got %+v", got)
	}
}

func TestRegister_AcceptsFormEncoding(t *testing.T) {
	auth := &fakeAuth{
		register: func(_ context.Context, in usecase.RegisterInput) (*domain.User, error) {
			if in.FirstName != "coil" {
				t.Errorf("first_name = %q", in.FirstName)
			}
			return &domain.User{ID: 1}, nil
		},
	}

	body := "first_name=coil&last_name=xcestim&email=memory%40gmail.com&password=346346&company=Yandex&position=DevOps"
	w := do(t, newAccountEngine(auth, nil), http.MethodPost, "/user/register", "application/x-www-form-urlencoded", body)
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
}

func TestRegister_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", fmt.Errorf("%w: missing required fields: company", domain.ErrValidation), http.StatusBadRequest},
		{"duplicate", domain.ErrEmailTaken, http.StatusConflict},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuth{
				register: func(_ context.Context, _ usecase.RegisterInput) (*domain.User, error) { return nil, tc.err },
			}
			w := do(t, newAccountEngine(auth, nil), http.MethodPost, "/user/register", "application/json", registerBody)
			if w.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tc.wantCode)
			}
			var resp envelope
			decode(t, w, &resp)
			if resp.Status || resp.Errors == nil {
				t.Errorf("want Status false with Errors, got %s", w.Body.String())
			}
		})
	}
}

func TestRegister_BadEmail_Returns400(t *testing.T) {
	w := do(t, newAccountEngine(&fakeAuth{}, nil), http.MethodPost, "/user/register", "application/json",
		`{"email": "not-an-email", "password": "x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---- Confirm ----

func TestConfirm_WrongThenRightToken(t *testing.T) {
	auth := &fakeAuth{
		confirm: func(_ context.Context, _, token string) (*domain.User, error) {
			if token != "right_key" {
				return nil, domain.ErrTokenInvalid
			}
			return &domain.User{ID: 1, IsActive: true}, nil
		},
	}
	r := newAccountEngine(auth, nil)

	w := do(t, r, http.MethodPost, "/user/register/confirm", "application/x-www-form-urlencoded",
		"email=a%40example.com&token=wrong_key")
	var resp envelope
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.Status {
		t.Errorf("wrong token: status = %d, Status = %v; want 200, false", w.Code, resp.Status)
	}

	w = do(t, r, http.MethodPost, "/user/register/confirm", "application/x-www-form-urlencoded",
		"email=a%40example.com&token=right_key")
	resp = envelope{}
	decode(t, w, &resp)
	if w.Code != http.StatusOK || !resp.Status {
		t.Errorf("right token: status = %d, Status = %v; want 200, true", w.Code, resp.Status)
	}
}

func TestConfirm_MissingToken_Returns400(t *testing.T) {
	w := do(t, newAccountEngine(&fakeAuth{}, nil), http.MethodPost, "/user/register/confirm", "application/json",
		`{"email": "a@example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---- Resend ----

func TestResend_AlwaysOK(t *testing.T) {
	auth := &fakeAuth{
		resend: func(_ context.Context, _ string) error { return errors.New("smtp down") },
	}
	w := do(t, newAccountEngine(auth, nil), http.MethodPost, "/user/register/resend", "application/json",
		`{"email": "a@example.com"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// ---- Login ----

func TestLogin_ReturnsToken(t *testing.T) {
	auth := &fakeAuth{
		login: func(_ context.Context, email, password string) (string, error) {
			if email != "memory@gmail.com" || password != "346346" {
				return "", domain.ErrInvalidCredentials
			}
			return "jwt-token", nil
		},
	}

	w := do(t, newAccountEngine(auth, nil), http.MethodPost, "/user/login", "application/x-www-form-urlencoded",
		"email=memory%40gmail.com&password=346346")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp envelope
	decode(t, w, &resp)
	if !resp.Status || resp.Token != "jwt-token" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestLogin_Failures_Return401(t *testing.T) {
	for _, err := range []error{domain.ErrInvalidCredentials, domain.ErrUserInactive} {
		auth := &fakeAuth{
			login: func(_ context.Context, _, _ string) (string, error) { return "", err },
		}
		w := do(t, newAccountEngine(auth, nil), http.MethodPost, "/user/login", "application/json",
			`{"email": "a@example.com", "password": "x"}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%v: status = %d, want 401", err, w.Code)
		}
	}
}

// ---- Details ----

func TestDetails_Get(t *testing.T) {
	account := &fakeAccount{
		details: func(_ context.Context, userID int64) (*usecase.AccountDetails, error) {
			return &usecase.AccountDetails{
				User:     &domain.User{ID: userID, Email: "a@example.com", Type: domain.UserTypeBuyer},
				Contacts: []*domain.Contact{{ID: 3, City: "Krasnoyarsk"}},
			}, nil
		},
	}

	w := do(t, newAccountEngine(nil, account), http.MethodGet, "/user/details", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Contacts []struct {
			City string `json:"city"`
		} `json:"contacts"`
	}
	decode(t, w, &resp)
	if resp.ID != 42 || resp.Email != "a@example.com" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Contacts) != 1 || resp.Contacts[0].City != "Krasnoyarsk" {
		t.Errorf("contacts = %+v", resp.Contacts)
	}
}

func TestDetails_Update(t *testing.T) {
	var got usecase.UpdateDetailsInput
	account := &fakeAccount{
		updateDetails: func(_ context.Context, userID int64, in usecase.UpdateDetailsInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: userID}, nil
		},
	}

	body := "first_name=Ivan&last_name=Mishin&email=vanya%40yandex.ru&password=1111&company=Cengort&position=Engineer"
	w := do(t, newAccountEngine(nil, account), http.MethodPost, "/user/details", "application/x-www-form-urlencoded", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if got.FirstName == nil || *got.FirstName != "Ivan" {
		t.Errorf("first_name = %v", got.FirstName)
	}
	if got.Type != nil {
		t.Errorf("type should be untouched, got %v", *got.Type)
	}
}

func TestDetails_UpdateEmailTaken_Returns409(t *testing.T) {
	account := &fakeAccount{
		updateDetails: func(_ context.Context, _ int64, _ usecase.UpdateDetailsInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	w := do(t, newAccountEngine(nil, account), http.MethodPost, "/user/details", "application/json",
		`{"email": "taken@example.com"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}
