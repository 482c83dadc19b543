package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	ConfirmEmail(ctx context.Context, email, rawToken string) (*domain.User, error)
	ResendConfirmation(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (string, error)
}

type accountUsecaser interface {
	Details(ctx context.Context, userID int64) (*usecase.AccountDetails, error)
	UpdateDetails(ctx context.Context, userID int64, input usecase.UpdateDetailsInput) (*domain.User, error)
}

type AccountHandler struct {
	auth    authUsecaser
	account accountUsecaser
	logger  *slog.Logger
}

func NewAccountHandler(auth authUsecaser, account accountUsecaser, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		auth:    auth,
		account: account,
		logger:  logger.With("component", "account_handler"),
	}
}

type registerRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name"  form:"last_name"`
	Email     string `json:"email"      form:"email"    binding:"required,email,max=254"`
	Password  string `json:"password"   form:"password" binding:"required"`
	Company   string `json:"company"    form:"company"`
	Position  string `json:"position"   form:"position"`
	Type      string `json:"type"       form:"type"     binding:"omitempty,oneof=buyer shop"`
}

type confirmRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
	Token string `json:"token" form:"token" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type updateDetailsRequest struct {
	FirstName *string `json:"first_name" form:"first_name"`
	LastName  *string `json:"last_name"  form:"last_name"`
	Email     *string `json:"email"      form:"email"    binding:"omitempty,email,max=254"`
	Password  *string `json:"password"   form:"password"`
	Company   *string `json:"company"    form:"company"`
	Position  *string `json:"position"   form:"position"`
	Type      *string `json:"type"       form:"type"     binding:"omitempty,oneof=buyer shop"`
}

type userResponse struct {
	ID        int64             `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	Type      domain.UserType   `json:"type"`
	Contacts  []contactResponse `json:"contacts"`
}

// POST /user/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Company:   req.Company,
		Position:  req.Position,
		Type:      domain.UserType(req.Type),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			fail(c, http.StatusConflict, errEmailTaken)
		default:
			h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusCreated, nil)
}

// POST /user/register/confirm
// A token that does not match answers 200 with Status false.
func (h *AccountHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.auth.ConfirmEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			fail(c, http.StatusOK, errTokenInvalid)
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm email", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusOK, nil)
}

// POST /user/register/resend
// Always answers 200 to avoid revealing whether the email exists.
func (h *AccountHandler) Resend(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "resend confirmation", "error", err)
	}

	ok(c, http.StatusOK, nil)
}

// POST /user/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, errInvalidCredential)
		case errors.Is(err, domain.ErrUserInactive):
			fail(c, http.StatusUnauthorized, errUserInactive)
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"Token": token})
}

// GET /user/details
func (h *AccountHandler) Details(c *gin.Context) {
	details, err := h.account.Details(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, errUserNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "account details", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	u := details.User
	contacts := make([]contactResponse, len(details.Contacts))
	for i, ct := range details.Contacts {
		contacts[i] = toContactResponse(ct)
	}
	c.JSON(http.StatusOK, userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Company:   u.Company,
		Position:  u.Position,
		Type:      u.Type,
		Contacts:  contacts,
	})
}

// POST /user/details
// Only the fields present in the request are changed.
func (h *AccountHandler) UpdateDetails(c *gin.Context) {
	var req updateDetailsRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	input := usecase.UpdateDetailsInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Company:   req.Company,
		Position:  req.Position,
	}
	if req.Type != nil {
		t := domain.UserType(*req.Type)
		input.Type = &t
	}

	if _, err := h.account.UpdateDetails(c.Request.Context(), c.GetInt64("userID"), input); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			fail(c, http.StatusConflict, errEmailTaken)
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, errUserNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "update details", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusOK, nil)
}
