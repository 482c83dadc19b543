package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/metrics"
	"github.com/ErlanBelekov/shop-api/internal/pricelist"
	"github.com/ErlanBelekov/shop-api/internal/repository"
)

var errNonPublicAddress = errors.New("refusing to connect to non-public address")

// cgnat is the carrier-grade NAT range, private in practice but not covered by
// netip.Addr.IsPrivate.
var cgnat = netip.MustParsePrefix("100.64.0.0/10")

// CacheInvalidator is satisfied by *CatalogUsecase.
type CacheInvalidator interface {
	Invalidate()
}

type PartnerUsecase struct {
	users   repository.UserRepository
	catalog repository.CatalogRepository
	cache   CacheInvalidator
	client  *http.Client
	logger  *slog.Logger
}

func NewPartnerUsecase(users repository.UserRepository, catalog repository.CatalogRepository, cache CacheInvalidator, client *http.Client, logger *slog.Logger) *PartnerUsecase {
	if client == nil {
		client = publicOnlyClient(30 * time.Second)
	}
	return &PartnerUsecase{
		users:   users,
		catalog: catalog,
		cache:   cache,
		client:  client,
		logger:  logger.With("component", "partner_usecase"),
	}
}

func (u *PartnerUsecase) requireShopUser(ctx context.Context, userID int64) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.Type != domain.UserTypeShop {
		return domain.ErrNotShopUser
	}
	return nil
}

// ImportPriceList parses r and replaces the user's shop offering with it.
func (u *PartnerUsecase) ImportPriceList(ctx context.Context, userID int64, r io.Reader) (*domain.ImportResult, error) {
	res, err := u.importPriceList(ctx, userID, r)
	switch {
	case err == nil:
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	case errors.Is(err, domain.ErrInvalidPriceList), errors.Is(err, domain.ErrNotShopUser),
		errors.Is(err, domain.ErrShopNameTaken), errors.Is(err, domain.ErrPriceListFetch),
		errors.Is(err, domain.ErrValidation):
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	}
	return res, err
}

func (u *PartnerUsecase) importPriceList(ctx context.Context, userID int64, r io.Reader) (*domain.ImportResult, error) {
	if err := u.requireShopUser(ctx, userID); err != nil {
		return nil, err
	}

	pl, err := pricelist.Parse(r)
	if err != nil {
		return nil, err
	}

	res, err := u.catalog.ImportPriceList(ctx, userID, pl)
	if err != nil {
		return nil, fmt.Errorf("import price list: %w", err)
	}
	if u.cache != nil {
		u.cache.Invalidate()
	}

	u.logger.InfoContext(ctx, "price list imported",
		"user_id", userID, "shop_id", res.ShopID, "products", res.Products)
	return res, nil
}

// ImportFromURL downloads a price list over HTTP(S) and imports it.
func (u *PartnerUsecase) ImportFromURL(ctx context.Context, userID int64, rawURL string) (*domain.ImportResult, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: url must be an absolute http(s) address", domain.ErrValidation)
	}
	if err := u.requireShopUser(ctx, userID); err != nil {
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceListFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.PriceListImportsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: status %d", domain.ErrPriceListFetch, resp.StatusCode)
	}

	return u.ImportPriceList(ctx, userID, resp.Body)
}

// State returns the user's shop.
func (u *PartnerUsecase) State(ctx context.Context, userID int64) (*domain.Shop, error) {
	if err := u.requireShopUser(ctx, userID); err != nil {
		return nil, err
	}
	shop, err := u.catalog.ShopByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("shop by owner: %w", err)
	}
	return shop, nil
}

// SetState opens or closes the user's shop for orders.
func (u *PartnerUsecase) SetState(ctx context.Context, userID int64, state bool) (*domain.Shop, error) {
	if err := u.requireShopUser(ctx, userID); err != nil {
		return nil, err
	}
	shop, err := u.catalog.SetShopState(ctx, userID, state)
	if err != nil {
		return nil, fmt.Errorf("set shop state: %w", err)
	}
	if u.cache != nil {
		u.cache.Invalidate()
	}

	u.logger.InfoContext(ctx, "shop state changed", "shop_id", shop.ID, "state", shop.State)
	return shop, nil
}

// publicOnlyClient fetches partner URLs without letting a shop user reach
// loopback, private or link-local hosts. The check runs on every dial, so
// redirects and DNS answers are covered too.
func publicOnlyClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: refuseNonPublic}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

func refuseNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	ip = ip.Unmap()
	if !ip.IsGlobalUnicast() || ip.IsPrivate() || cgnat.Contains(ip) {
		return fmt.Errorf("%w: %s", errNonPublicAddress, ip)
	}
	return nil
}
