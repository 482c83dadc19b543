package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type contactUsecaser interface {
	List(ctx context.Context, userID int64) ([]*domain.Contact, error)
	Create(ctx context.Context, userID int64, input usecase.ContactInput) (*domain.Contact, error)
	Update(ctx context.Context, userID, contactID int64, input usecase.ContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, userID int64, ids []int64) (int64, error)
}

type ContactHandler struct {
	contacts contactUsecaser
	logger   *slog.Logger
}

func NewContactHandler(contacts contactUsecaser, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger.With("component", "contact_handler")}
}

type contactFields struct {
	Country    *string `json:"country"     form:"country"     binding:"omitempty,max=50"`
	Region     *string `json:"region"      form:"region"      binding:"omitempty,max=100"`
	City       *string `json:"city"        form:"city"        binding:"omitempty,max=50"`
	Street     *string `json:"street"      form:"street"      binding:"omitempty,max=100"`
	House      *string `json:"house"       form:"house"       binding:"omitempty,max=15"`
	Structure  *string `json:"structure"   form:"structure"   binding:"omitempty,max=15"`
	Building   *string `json:"building"    form:"building"    binding:"omitempty,max=15"`
	Apartment  *string `json:"apartment"   form:"apartment"   binding:"omitempty,max=15"`
	Phone      *string `json:"phone"       form:"phone"       binding:"omitempty,max=20"`
	PostalCode *string `json:"postal_code" form:"postal_code" binding:"omitempty,max=20"`
}

func (f contactFields) input() usecase.ContactInput {
	return usecase.ContactInput{
		Country:    f.Country,
		Region:     f.Region,
		City:       f.City,
		Street:     f.Street,
		House:      f.House,
		Structure:  f.Structure,
		Building:   f.Building,
		Apartment:  f.Apartment,
		Phone:      f.Phone,
		PostalCode: f.PostalCode,
	}
}

type updateContactRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,min=1"`
	contactFields
}

type deleteContactsRequest struct {
	Items string `json:"items" form:"items" binding:"required"`
}

type contactResponse struct {
	ID         int64  `json:"id"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	City       string `json:"city"`
	Street     string `json:"street"`
	House      string `json:"house"`
	Structure  string `json:"structure"`
	Building   string `json:"building"`
	Apartment  string `json:"apartment"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
}

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:         c.ID,
		Country:    c.Country,
		Region:     c.Region,
		City:       c.City,
		Street:     c.Street,
		House:      c.House,
		Structure:  c.Structure,
		Building:   c.Building,
		Apartment:  c.Apartment,
		Phone:      c.Phone,
		PostalCode: c.PostalCode,
	}
}

// parseIDs splits "1,2, 3" into ids.
func parseIDs(items string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(items, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New(errInvalidItems)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New(errInvalidItems)
	}
	return ids, nil
}

// GET /user/contact
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list contacts", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	resp := make([]contactResponse, len(contacts))
	for i, ct := range contacts {
		resp[i] = toContactResponse(ct)
	}
	c.JSON(http.StatusOK, resp)
}

// POST /user/contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactFields
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.contacts.Create(c.Request.Context(), c.GetInt64("userID"), req.input())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create contact", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusCreated, gin.H{"Contact": toContactResponse(created)})
}

// PUT /user/contact
func (h *ContactHandler) Update(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.contacts.Update(c.Request.Context(), c.GetInt64("userID"), req.ID, req.contactFields.input())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrContactNotFound):
			fail(c, http.StatusNotFound, errContactNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "update contact", "contact_id", req.ID, "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"Contact": toContactResponse(updated)})
}

// DELETE /user/contact
func (h *ContactHandler) Delete(c *gin.Context) {
	var req deleteContactsRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ids, err := parseIDs(req.Items)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.contacts.Delete(c.Request.Context(), c.GetInt64("userID"), ids)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "delete contacts", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusOK, gin.H{"Deleted": n})
}
