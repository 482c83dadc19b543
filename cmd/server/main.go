package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/shop-api/config"
	"github.com/ErlanBelekov/shop-api/internal/email"
	"github.com/ErlanBelekov/shop-api/internal/health"
	"github.com/ErlanBelekov/shop-api/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/shop-api/internal/log"
	"github.com/ErlanBelekov/shop-api/internal/metrics"
	"github.com/ErlanBelekov/shop-api/internal/security"
	httptransport "github.com/ErlanBelekov/shop-api/internal/transport/http"
	"github.com/ErlanBelekov/shop-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	// Users
	userRepo := postgres.NewUserRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	sender := email.NewSender(email.Options{
		Env:          cfg.Env,
		Provider:     cfg.EmailProvider,
		From:         cfg.EmailFrom,
		ResendAPIKey: cfg.ResendAPIKey,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
	}, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, sender, security.NewPasswordHasher(security.DefaultParams), usecase.AuthConfig{
		JWTKey:            []byte(cfg.JWTSecret),
		JWTTTL:            cfg.JWTTTL(),
		ConfirmTokenTTL:   cfg.ConfirmTokenTTL(),
		PasswordMinLength: cfg.PasswordMinLength,
	}, logger)
	accountUsecase := usecase.NewAccountUsecase(userRepo, contactRepo, authUsecase, logger)
	contactUsecase := usecase.NewContactUsecase(contactRepo)

	// Catalog
	catalogRepo := postgres.NewCatalogRepository(pool, logger)
	catalogUsecase := usecase.NewCatalogUsecase(catalogRepo, cfg.CatalogCacheTTL(), logger)
	partnerUsecase := usecase.NewPartnerUsecase(userRepo, catalogRepo, catalogUsecase, nil, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)
	if relay, ok := sender.(*email.SMTPSender); ok {
		checker.Add("smtp", relay)
	}

	router := httptransport.NewRouter(logger, httptransport.RouterConfig{
		JWTKey:         []byte(cfg.JWTSecret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, httptransport.Handlers{
		Account: handler.NewAccountHandler(authUsecase, accountUsecase, logger),
		Contact: handler.NewContactHandler(contactUsecase, logger),
		Catalog: handler.NewCatalogHandler(catalogUsecase, logger),
		Partner: handler.NewPartnerHandler(partnerUsecase, logger),
	}, userRepo)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
