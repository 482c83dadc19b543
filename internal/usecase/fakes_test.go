package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/repository"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ---- user repo ----

type fakeUserRepo struct {
	create             func(ctx context.Context, u *domain.User) (*domain.User, error)
	findByID           func(ctx context.Context, id int64) (*domain.User, error)
	findByEmail        func(ctx context.Context, email string) (*domain.User, error)
	update             func(ctx context.Context, u *domain.User) (*domain.User, error)
	deleteInactive     func(ctx context.Context, id int64) error
	createConfirmToken func(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	consumeToken       func(ctx context.Context, email, tokenHash string, now time.Time) (*domain.User, error)
	purgeExpired       func(ctx context.Context, now time.Time) (int64, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.create(ctx, u)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.update(ctx, u)
}

func (r *fakeUserRepo) DeleteInactive(ctx context.Context, id int64) error {
	return r.deleteInactive(ctx, id)
}

func (r *fakeUserRepo) CreateConfirmToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	return r.createConfirmToken(ctx, userID, tokenHash, expiresAt)
}

func (r *fakeUserRepo) ConsumeConfirmToken(ctx context.Context, email, tokenHash string, now time.Time) (*domain.User, error) {
	return r.consumeToken(ctx, email, tokenHash, now)
}

func (r *fakeUserRepo) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.purgeExpired(ctx, now)
}

// ---- contact repo ----

type fakeContactRepo struct {
	create     func(ctx context.Context, c *domain.Contact) (*domain.Contact, error)
	listByUser func(ctx context.Context, userID int64) ([]*domain.Contact, error)
	get        func(ctx context.Context, id, userID int64) (*domain.Contact, error)
	update     func(ctx context.Context, c *domain.Contact) (*domain.Contact, error)
	delete     func(ctx context.Context, userID int64, ids []int64) (int64, error)
}

func (r *fakeContactRepo) Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	return r.create(ctx, c)
}

func (r *fakeContactRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Contact, error) {
	return r.listByUser(ctx, userID)
}

func (r *fakeContactRepo) Get(ctx context.Context, id, userID int64) (*domain.Contact, error) {
	return r.get(ctx, id, userID)
}

func (r *fakeContactRepo) Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	return r.update(ctx, c)
}

func (r *fakeContactRepo) Delete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return r.delete(ctx, userID, ids)
}

// ---- catalog repo ----

type fakeCatalogRepo struct {
	listShops       func(ctx context.Context, input repository.ListShopsInput) ([]*domain.Shop, error)
	countShops      func(ctx context.Context, filter repository.ShopFilter) (int, error)
	listCategories  func(ctx context.Context) ([]*domain.Category, error)
	listProducts    func(ctx context.Context, filter repository.ProductFilter) ([]*domain.ProductInfo, error)
	shopByOwner     func(ctx context.Context, userID int64) (*domain.Shop, error)
	setShopState    func(ctx context.Context, userID int64, state bool) (*domain.Shop, error)
	importPriceList func(ctx context.Context, ownerID int64, pl *domain.PriceList) (*domain.ImportResult, error)
}

func (r *fakeCatalogRepo) ListShops(ctx context.Context, input repository.ListShopsInput) ([]*domain.Shop, error) {
	return r.listShops(ctx, input)
}

func (r *fakeCatalogRepo) CountShops(ctx context.Context, filter repository.ShopFilter) (int, error) {
	return r.countShops(ctx, filter)
}

func (r *fakeCatalogRepo) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return r.listCategories(ctx)
}

func (r *fakeCatalogRepo) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.ProductInfo, error) {
	return r.listProducts(ctx, filter)
}

func (r *fakeCatalogRepo) ShopByOwner(ctx context.Context, userID int64) (*domain.Shop, error) {
	return r.shopByOwner(ctx, userID)
}

func (r *fakeCatalogRepo) SetShopState(ctx context.Context, userID int64, state bool) (*domain.Shop, error) {
	return r.setShopState(ctx, userID, state)
}

func (r *fakeCatalogRepo) ImportPriceList(ctx context.Context, ownerID int64, pl *domain.PriceList) (*domain.ImportResult, error) {
	return r.importPriceList(ctx, ownerID, pl)
}

// ---- email ----

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// plainHasher keeps tests fast; argon2 itself is covered in the security package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain$" + p, nil }

func (plainHasher) Verify(p, encoded string) (bool, error) {
	return encoded == "plain$"+p, nil
}
