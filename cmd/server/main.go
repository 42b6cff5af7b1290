package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"cartify/docs"
	"cartify/internal/auth"
	"cartify/internal/cache"
	"cartify/internal/config"
	"cartify/internal/db"
	"cartify/internal/events"
	"cartify/internal/handler"
	"cartify/internal/logging"
	"cartify/internal/repository"
	"cartify/internal/router"
	"cartify/internal/service"
)

// @title Cartify API
// @version 1.0
// @description E-commerce storefront API with JWT access and refresh sessions.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Error("database init", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, os.Getenv("RESET_DB") == "true"); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cache.Options{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPass,
		DB:        cfg.RedisDB,
		Namespace: "cartify",
	})
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, caching and rate limiting degrade to pass-through", "error", err)
	}
	cancelPing()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = events.NewAMQPPublisher(cfg.AMQPURL, logger)
	}
	defer publisher.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	addressRepo := repository.NewAddressRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.BcryptCost)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, cacheClient, cfg.ProductCacheTTL)
	addressService := service.NewAddressService(addressRepo)
	orderService := service.NewOrderService(orderRepo, publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, productService)

	cookies := handler.CookieConfig{Secure: cfg.CookieSecure}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookies, jwtService.AccessTTL()),
		User:    handler.NewUserHandler(userService, cookies),
		Product: handler.NewProductHandler(productService),
		Address: handler.NewAddressHandler(addressService),
		Order:   handler.NewOrderHandler(orderService),
		Review:  handler.NewReviewHandler(reviewService),
		Seed:    handler.NewSeedHandler(productService),
	}, router.Deps{
		Tokens:   jwtService,
		DenyList: tokenStore,
		Users:    userService,
		Redis:    cacheClient.Redis(),
		Ready: func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	docs.SwaggerInfo.Host = swaggerHost(cfg.SwaggerHost)
	logger.Info("swagger documentation available", "url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "env", cfg.AppEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// swaggerHost strips any scheme, since swagger expects a bare host.
func swaggerHost(host string) string {
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimPrefix(host, "https://")
}

func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
