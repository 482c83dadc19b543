package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type catalogUsecaser interface {
	ListShops(ctx context.Context, q usecase.ShopQuery) (*usecase.ShopPage, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListProducts(ctx context.Context, shopID, categoryID *int64) ([]*domain.ProductInfo, error)
}

type CatalogHandler struct {
	catalog catalogUsecaser
	logger  *slog.Logger
}

func NewCatalogHandler(catalog catalogUsecaser, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger.With("component", "catalog_handler")}
}

type shopResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	State bool   `json:"state"`
}

type shopPageResponse struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []shopResponse `json:"results"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type productParameterResponse struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

type productInfoResponse struct {
	ID                int64                      `json:"id"`
	Model             string                     `json:"model"`
	Product           productResponse            `json:"product"`
	Shop              int64                      `json:"shop"`
	ShopName          string                     `json:"shop_name"`
	Quantity          int                        `json:"quantity"`
	Price             int64                      `json:"price"`
	PriceRRC          int64                      `json:"price_rrc"`
	ProductParameters []productParameterResponse `json:"product_parameters"`
}

func toShopResponse(s *domain.Shop) shopResponse {
	return shopResponse{ID: s.ID, Name: s.Name, URL: s.URL, State: s.State}
}

// optionalID reads a positive integer query parameter; absent means nil.
func optionalID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

func optionalInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// pageURL returns the current request URL with limit and offset replaced.
func pageURL(c *gin.Context, limit, offset int) *string {
	u := *c.Request.URL
	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}

// GET /shops?shop_id=&category_id=&limit=&offset=
func (h *CatalogHandler) ListShops(c *gin.Context) {
	shopID, ok1 := optionalID(c, "shop_id")
	categoryID, ok2 := optionalID(c, "category_id")
	limit, ok3 := optionalInt(c, "limit")
	offset, ok4 := optionalInt(c, "offset")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		fail(c, http.StatusBadRequest, errInvalidQuery)
		return
	}

	page, err := h.catalog.ListShops(c.Request.Context(), usecase.ShopQuery{
		ShopID:     shopID,
		CategoryID: categoryID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list shops", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	resp := shopPageResponse{
		Count:   page.Count,
		Results: make([]shopResponse, len(page.Results)),
	}
	for i, s := range page.Results {
		resp.Results[i] = toShopResponse(s)
	}
	if page.Offset+page.Limit < page.Count {
		resp.Next = pageURL(c, page.Limit, page.Offset+page.Limit)
	}
	if page.Offset > 0 {
		resp.Previous = pageURL(c, page.Limit, max(page.Offset-page.Limit, 0))
	}

	c.JSON(http.StatusOK, resp)
}

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list categories", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, cat := range categories {
		resp[i] = categoryResponse{ID: cat.ID, Name: cat.Name}
	}
	c.JSON(http.StatusOK, resp)
}

// GET /products?shop_id=&category_id=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	shopID, ok1 := optionalID(c, "shop_id")
	categoryID, ok2 := optionalID(c, "category_id")
	if !ok1 || !ok2 {
		fail(c, http.StatusBadRequest, errInvalidQuery)
		return
	}

	infos, err := h.catalog.ListProducts(c.Request.Context(), shopID, categoryID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list products", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	resp := make([]productInfoResponse, len(infos))
	for i, pi := range infos {
		params := make([]productParameterResponse, len(pi.Parameters))
		for j, p := range pi.Parameters {
			params[j] = productParameterResponse{Parameter: p.Name, Value: p.Value}
		}
		resp[i] = productInfoResponse{
			ID:                pi.ID,
			Model:             pi.Model,
			Product:           productResponse{Name: pi.Product.Name, Category: pi.Product.Category},
			Shop:              pi.ShopID,
			ShopName:          pi.ShopName,
			Quantity:          pi.Quantity,
			Price:             pi.Price,
			PriceRRC:          pi.PriceRRC,
			ProductParameters: params,
		}
	}
	c.JSON(http.StatusOK, resp)
}
