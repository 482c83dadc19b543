package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// withUser stands in for the auth middleware.
func withUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func do(t *testing.T, r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

type envelope struct {
	Status bool   `json:"Status"`
	Errors any    `json:"Errors"`
	Token  string `json:"Token"`
}

// ---- usecase fakes ----

type fakeAuth struct {
	register func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	confirm  func(ctx context.Context, email, token string) (*domain.User, error)
	resend   func(ctx context.Context, email string) error
	login    func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuth) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return f.register(ctx, input)
}

func (f *fakeAuth) ConfirmEmail(ctx context.Context, email, token string) (*domain.User, error) {
	return f.confirm(ctx, email, token)
}

func (f *fakeAuth) ResendConfirmation(ctx context.Context, email string) error {
	return f.resend(ctx, email)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

type fakeAccount struct {
	details       func(ctx context.Context, userID int64) (*usecase.AccountDetails, error)
	updateDetails func(ctx context.Context, userID int64, input usecase.UpdateDetailsInput) (*domain.User, error)
}

func (f *fakeAccount) Details(ctx context.Context, userID int64) (*usecase.AccountDetails, error) {
	return f.details(ctx, userID)
}

func (f *fakeAccount) UpdateDetails(ctx context.Context, userID int64, input usecase.UpdateDetailsInput) (*domain.User, error) {
	return f.updateDetails(ctx, userID, input)
}

type fakeContacts struct {
	list   func(ctx context.Context, userID int64) ([]*domain.Contact, error)
	create func(ctx context.Context, userID int64, input usecase.ContactInput) (*domain.Contact, error)
	update func(ctx context.Context, userID, contactID int64, input usecase.ContactInput) (*domain.Contact, error)
	delete func(ctx context.Context, userID int64, ids []int64) (int64, error)
}

func (f *fakeContacts) List(ctx context.Context, userID int64) ([]*domain.Contact, error) {
	return f.list(ctx, userID)
}

func (f *fakeContacts) Create(ctx context.Context, userID int64, input usecase.ContactInput) (*domain.Contact, error) {
	return f.create(ctx, userID, input)
}

func (f *fakeContacts) Update(ctx context.Context, userID, contactID int64, input usecase.ContactInput) (*domain.Contact, error) {
	return f.update(ctx, userID, contactID, input)
}

func (f *fakeContacts) Delete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return f.delete(ctx, userID, ids)
}

type fakeCatalog struct {
	listShops      func(ctx context.Context, q usecase.ShopQuery) (*usecase.ShopPage, error)
	listCategories func(ctx context.Context) ([]*domain.Category, error)
	listProducts   func(ctx context.Context, shopID, categoryID *int64) ([]*domain.ProductInfo, error)
}

func (f *fakeCatalog) ListShops(ctx context.Context, q usecase.ShopQuery) (*usecase.ShopPage, error) {
	return f.listShops(ctx, q)
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return f.listCategories(ctx)
}

func (f *fakeCatalog) ListProducts(ctx context.Context, shopID, categoryID *int64) ([]*domain.ProductInfo, error) {
	return f.listProducts(ctx, shopID, categoryID)
}

type fakePartner struct {
	importPriceList func(ctx context.Context, userID int64, r io.Reader) (*domain.ImportResult, error)
	importFromURL   func(ctx context.Context, userID int64, rawURL string) (*domain.ImportResult, error)
	state           func(ctx context.Context, userID int64) (*domain.Shop, error)
	setState        func(ctx context.Context, userID int64, state bool) (*domain.Shop, error)
}

func (f *fakePartner) ImportPriceList(ctx context.Context, userID int64, r io.Reader) (*domain.ImportResult, error) {
	return f.importPriceList(ctx, userID, r)
}

func (f *fakePartner) ImportFromURL(ctx context.Context, userID int64, rawURL string) (*domain.ImportResult, error) {
	return f.importFromURL(ctx, userID, rawURL)
}

func (f *fakePartner) State(ctx context.Context, userID int64) (*domain.Shop, error) {
	return f.state(ctx, userID)
}

func (f *fakePartner) SetState(ctx context.Context, userID int64, state bool) (*domain.Shop, error) {
	return f.setState(ctx, userID, state)
}
