package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/shop-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/shop-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Account *handler.AccountHandler
	Contact *handler.ContactHandler
	Catalog *handler.CatalogHandler
	Partner *handler.PartnerHandler
}

type RouterConfig struct {
	JWTKey         []byte
	AllowedOrigins []string
}

func NewRouter(logger *slog.Logger, cfg RouterConfig, h Handlers, users middleware.UserFinder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	api := r.Group("/api/v1")

	// Public account routes
	api.POST("/user/register", h.Account.Register)
	api.POST("/user/register/confirm", h.Account.Confirm)
	api.POST("/user/register/resend", h.Account.Resend)
	api.POST("/user/login", h.Account.Login)

	// Public catalog routes
	api.GET("/shops", h.Catalog.ListShops)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/products", h.Catalog.ListProducts)

	authed := api.Group("", middleware.Auth(cfg.JWTKey), middleware.ActiveUser(users, logger))

	// Protected user routes
	authed.GET("/user/details", h.Account.Details)
	authed.POST("/user/details", h.Account.UpdateDetails)
	authed.GET("/user/contact", h.Contact.List)
	authed.POST("/user/contact", h.Contact.Create)
	authed.PUT("/user/contact", h.Contact.Update)
	authed.DELETE("/user/contact", h.Contact.Delete)

	// Protected partner routes
	authed.POST("/partner/update", h.Partner.Update)
	authed.GET("/partner/state", h.Partner.State)
	authed.POST("/partner/state", h.Partner.SetState)

	return r
}
