package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cartify/internal/auth"
	"cartify/internal/config"
	"cartify/internal/handler"
	"cartify/internal/metrics"
	appmw "cartify/internal/middleware"
	"cartify/internal/model"
)

// importBodyLimit matches catalog.MaxDocumentBytes.
const importBodyLimit = "5M"

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Address *handler.AddressHandler
	Order   *handler.OrderHandler
	Review  *handler.ReviewHandler
	Seed    *handler.SeedHandler
}

// Deps are the collaborators of the session middleware and rate limiter.
type Deps struct {
	Tokens   appmw.AccessTokenParser
	DenyList auth.TokenStoreInterface
	Users    appmw.UserResolver
	Redis    *redis.Client
	// Ready reports whether backing services are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, deps Deps) {
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())

	e.GET("/health", func(c echo.Context) error {
		if deps.Ready != nil {
			if err := deps.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	session := appmw.RequireSession(deps.Tokens, deps.DenyList, deps.Users)
	admin := appmw.RequireRole(model.RoleAdmin)
	limited := appmw.RateLimit(cfg.RateLimit, deps.Redis)

	users := api.Group("/users")
	users.POST("/signup", h.Auth.Signup, limited)
	users.POST("/login", h.Auth.Login, limited)
	users.POST("/refreshtoken", h.Auth.Refresh, limited)
	users.POST("/logout", h.Auth.Logout, session)
	users.GET("/me", h.User.Me, session)
	users.DELETE("/me", h.User.DeleteMe, session)

	products := api.Group("/products")
	products.GET("/getallproducts", h.Product.List)
	products.GET("/getproductbyid/:id", h.Product.Get)
	products.GET("/search-index", h.Product.SearchIndex)
	products.POST("/addproduct", h.Product.Create, session, admin)
	products.PUT("/updateproduct/:id", h.Product.Update, session, admin)
	products.DELETE("/deleteproduct/:id", h.Product.Delete, session, admin)
	products.POST("/import", h.Seed.ImportProducts, session, admin, middleware.BodyLimit(importBodyLimit))

	addresses := api.Group("/addresses", session)
	addresses.GET("", h.Address.List)
	addresses.POST("", h.Address.Add)
	addresses.PUT("/id/:id", h.Address.Update)
	addresses.DELETE("/id/:id", h.Address.Delete)
	addresses.PUT("/:index", h.Address.UpdateAt)
	addresses.DELETE("/:index", h.Address.DeleteAt)

	orders := api.Group("/orders", session)
	orders.POST("", h.Order.Create)
	orders.GET("/mine", h.Order.ListMine)
	orders.GET("/:id", h.Order.Get)
	orders.DELETE("/:id", h.Order.Delete)
	orders.PATCH("/:id/cancel", h.Order.Cancel)
	orders.PATCH("/:id/status", h.Order.UpdateStatus, admin)

	reviews := api.Group("/reviews")
	reviews.GET("", h.Review.List)
	reviews.POST("", h.Review.Create, session)
	reviews.PUT("/:id", h.Review.Update, session)
	reviews.DELETE("/:id", h.Review.Delete, session)
}

func requestLoggerConfig() middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
