package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/email"
	"github.com/ErlanBelekov/shop-api/internal/metrics"
	"github.com/ErlanBelekov/shop-api/internal/repository"
	"github.com/ErlanBelekov/shop-api/internal/security"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultConfirmTokenTTL = 24 * time.Hour
	defaultJWTTTL          = 24 * time.Hour
	maxPasswordLength      = 128
)

// PasswordHasher is satisfied by *security.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type AuthConfig struct {
	JWTKey            []byte
	JWTTTL            time.Duration
	ConfirmTokenTTL   time.Duration
	PasswordMinLength int
}

type AuthUsecase struct {
	users     repository.UserRepository
	email     email.Sender
	hasher    PasswordHasher
	jwtKey    []byte
	jwtTTL    time.Duration
	tokenTTL  time.Duration
	minPasswd int
	now       func() time.Time
	logger    *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, hasher PasswordHasher, cfg AuthConfig, logger *slog.Logger) *AuthUsecase {
	u := &AuthUsecase{
		users:     users,
		email:     emailSender,
		hasher:    hasher,
		jwtKey:    cfg.JWTKey,
		jwtTTL:    cfg.JWTTTL,
		tokenTTL:  cfg.ConfirmTokenTTL,
		minPasswd: cfg.PasswordMinLength,
		now:       time.Now,
		logger:    logger.With("component", "auth_usecase"),
	}
	if u.jwtTTL <= 0 {
		u.jwtTTL = defaultJWTTTL
	}
	if u.tokenTTL <= 0 {
		u.tokenTTL = defaultConfirmTokenTTL
	}
	if u.minPasswd <= 0 {
		u.minPasswd = 1
	}
	return u
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Company   string
	Position  string
	Type      domain.UserType
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func (u *AuthUsecase) validatePassword(p string) error {
	if len(p) < u.minPasswd {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, u.minPasswd)
	}
	if len(p) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d characters", domain.ErrValidation, maxPasswordLength)
	}
	return nil
}

func validateUserType(t domain.UserType) error {
	switch t {
	case domain.UserTypeBuyer, domain.UserTypeShop:
		return nil
	default:
		return fmt.Errorf("%w: type must be %q or %q", domain.ErrValidation, domain.UserTypeBuyer, domain.UserTypeShop)
	}
}

// Register creates an inactive user and emails a confirmation token.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := u.register(ctx, input)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmailTaken):
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	}
	return user, err
}

func (u *AuthUsecase) register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	var missing []string
	for name, v := range map[string]string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
		"password":   input.Password,
		"company":    input.Company,
		"position":   input.Position,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, fmt.Errorf("%w: missing required fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	if err := u.validatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Type == "" {
		input.Type = domain.UserTypeBuyer
	}
	if err := validateUserType(input.Type); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        NormalizeEmail(input.Email),
		PasswordHash: hash,
		Company:      strings.TrimSpace(input.Company),
		Position:     strings.TrimSpace(input.Position),
		Type:         input.Type,
		IsActive:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := u.sendConfirmation(ctx, user); err != nil {
		// Drop the half-registered user so the same request can be retried.
		if delErr := u.users.DeleteInactive(context.WithoutCancel(ctx), user.ID); delErr != nil {
			u.logger.ErrorContext(ctx, "roll back registration", "user_id", user.ID, "error", delErr)
		}
		return nil, err
	}

	u.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "type", user.Type)
	return user, nil
}

func (u *AuthUsecase) sendConfirmation(ctx context.Context, user *domain.User) error {
	rawToken, tokenHash, err := security.NewToken()
	if err != nil {
		return err
	}

	if err := u.users.CreateConfirmToken(ctx, user.ID, tokenHash, u.now().Add(u.tokenTTL)); err != nil {
		return fmt.Errorf("store confirm token: %w", err)
	}

	subject := "Confirm your email"
	body := fmt.Sprintf(
		`<p>Hello, %s!</p><p>Your confirmation token (valid for %s):</p><p><code>%s</code></p>`,
		html.EscapeString(user.FirstName), u.tokenTTL, rawToken,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

// ConfirmEmail activates the user owning emailAddr when rawToken matches one
// of that user's unexpired tokens. The token is consumed.
func (u *AuthUsecase) ConfirmEmail(ctx context.Context, emailAddr, rawToken string) (*domain.User, error) {
	if strings.TrimSpace(emailAddr) == "" || rawToken == "" {
		return nil, fmt.Errorf("%w: email and token are required", domain.ErrValidation)
	}

	user, err := u.users.ConsumeConfirmToken(ctx, NormalizeEmail(emailAddr), security.HashToken(rawToken), u.now())
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, domain.ErrTokenInvalid
		}
		metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("consume confirm token: %w", err)
	}

	metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	u.logger.InfoContext(ctx, "email confirmed", "user_id", user.ID)
	return user, nil
}

// ResendConfirmation issues a fresh token for an inactive user. Unknown and
// already active addresses are ignored so callers cannot probe for accounts.
func (u *AuthUsecase) ResendConfirmation(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsActive {
		return nil
	}
	return u.sendConfirmation(ctx, user)
}

// Login checks credentials and returns a signed JWT for an active user.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	signed, err := u.login(ctx, emailAddr, password)
	switch {
	case err == nil:
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserInactive):
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	}
	return signed, err
}

func (u *AuthUsecase) login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	// Checked after the password so inactive accounts are not disclosed to guessers.
	if !user.IsActive {
		return "", domain.ErrUserInactive
	}

	return u.issueJWT(user)
}

func (u *AuthUsecase) issueJWT(user *domain.User) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"type":  string(user.Type),
		"iat":   now.Unix(),
		"exp":   now.Add(u.jwtTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
