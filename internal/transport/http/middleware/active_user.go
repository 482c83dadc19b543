package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// UserFinder is satisfied by repository.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// ActiveUser runs after Auth. It rejects tokens whose user was deleted or
// has not confirmed their email, and stores the user under "user".
func ActiveUser(users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByID(c.Request.Context(), c.GetInt64("userID"))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				unauthorized(c)
				return
			}
			logger.ErrorContext(c.Request.Context(), "load user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"Status": false, "Errors": "Internal server error"})
			return
		}
		if !user.IsActive {
			unauthorized(c)
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
