package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/gin-gonic/gin"
)

type partnerUsecaser interface {
	ImportPriceList(ctx context.Context, userID int64, r io.Reader) (*domain.ImportResult, error)
	ImportFromURL(ctx context.Context, userID int64, rawURL string) (*domain.ImportResult, error)
	State(ctx context.Context, userID int64) (*domain.Shop, error)
	SetState(ctx context.Context, userID int64, state bool) (*domain.Shop, error)
}

type PartnerHandler struct {
	partner partnerUsecaser
	logger  *slog.Logger
}

func NewPartnerHandler(partner partnerUsecaser, logger *slog.Logger) *PartnerHandler {
	return &PartnerHandler{partner: partner, logger: logger.With("component", "partner_handler")}
}

type importURLRequest struct {
	URL string `json:"url" form:"url" binding:"required,url,max=2048"`
}

type stateRequest struct {
	State string `json:"state" form:"state" binding:"required"`
}

var yamlContentTypes = map[string]bool{
	"application/yaml":   true,
	"application/x-yaml": true,
	"text/yaml":          true,
	"text/x-yaml":        true,
}

func parseState(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func (h *PartnerHandler) writeImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotShopUser):
		fail(c, http.StatusForbidden, errNotShopUser)
	case errors.Is(err, domain.ErrInvalidPriceList), errors.Is(err, domain.ErrValidation):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPriceListFetch):
		fail(c, http.StatusBadRequest, errPriceListFetch)
	case errors.Is(err, domain.ErrShopNameTaken):
		fail(c, http.StatusConflict, errShopNameTaken)
	default:
		h.logger.ErrorContext(c.Request.Context(), "import price list", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
	}
}

// POST /partner/update
// Accepts a YAML body, a multipart "file" upload, or {"url": ...} to fetch.
func (h *PartnerHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt64("userID")

	var (
		res *domain.ImportResult
		err error
	)
	switch ct := c.ContentType(); {
	case yamlContentTypes[ct]:
		res, err = h.partner.ImportPriceList(ctx, userID, c.Request.Body)
	case ct == gin.MIMEMultipartPOSTForm && c.PostForm("url") == "":
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			fail(c, http.StatusBadRequest, errNoPriceList)
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			fail(c, http.StatusBadRequest, errNoPriceList)
			return
		}
		defer f.Close()
		res, err = h.partner.ImportPriceList(ctx, userID, f)
	default:
		var req importURLRequest
		if berr := c.ShouldBind(&req); berr != nil {
			fail(c, http.StatusBadRequest, errNoPriceList)
			return
		}
		res, err = h.partner.ImportFromURL(ctx, userID, req.URL)
	}
	if err != nil {
		h.writeImportError(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"Shop":       res.ShopID,
		"Categories": res.Categories,
		"Products":   res.Products,
	})
}

// GET /partner/state
func (h *PartnerHandler) State(c *gin.Context) {
	shop, err := h.partner.State(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		h.writeShopError(c, "shop state", err)
		return
	}
	c.JSON(http.StatusOK, toShopResponse(shop))
}

// POST /partner/state
func (h *PartnerHandler) SetState(c *gin.Context) {
	var req stateRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	state, err := parseState(req.State)
	if err != nil {
		fail(c, http.StatusBadRequest, errInvalidState)
		return
	}

	if _, err := h.partner.SetState(c.Request.Context(), c.GetInt64("userID"), state); err != nil {
		h.writeShopError(c, "set shop state", err)
		return
	}
	ok(c, http.StatusOK, nil)
}

func (h *PartnerHandler) writeShopError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotShopUser):
		fail(c, http.StatusForbidden, errNotShopUser)
	case errors.Is(err, domain.ErrShopNotFound):
		fail(c, http.StatusNotFound, errShopNotFound)
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
	}
}
