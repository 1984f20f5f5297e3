// Package router assembles the echo instance: global middleware, the
// error handler and every route.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-reservations/internal/config"
	"github.com/iliyamo/restaurant-reservations/internal/handler"
	"github.com/iliyamo/restaurant-reservations/internal/logger"
	"github.com/iliyamo/restaurant-reservations/internal/metrics"
	"github.com/iliyamo/restaurant-reservations/internal/middleware"
	"github.com/iliyamo/restaurant-reservations/internal/utils"
)

// Handlers are the endpoint implementations. Auth may be nil when staff
// login is disabled.
type Handlers struct {
	Reservations *handler.ReservationHandler
	Tables       *handler.TableHandler
	Auth         *handler.AuthHandler
}

// Options carry the cross-cutting dependencies. A nil Redis disables rate
// limiting and caching; a nil Gatherer hides /metrics.
type Options struct {
	Auth      config.AuthConfig
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Logger    *logger.Logger
	Metrics   *metrics.HTTPMetrics
	Gatherer  prometheus.Gatherer
	DB        handler.Pinger
}

// New returns an echo instance with every route registered.
func New(h Handlers, o Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(o.Logger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(o.Logger, o.Metrics))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, o)
	limiter := middleware.NewTokenBucket(o.RateLimit, o.Redis, o.Logger)
	if o.Auth.Enabled && h.Auth != nil {
		RegisterAuth(e, h.Auth, limiter)
	}

	api := []echo.MiddlewareFunc{}
	if o.Auth.Enabled {
		api = append(api, middleware.JWTAuth(o.Auth.JWTSecret), middleware.RequireRole(utils.RoleStaff))
	}
	api = append(api, limiter, middleware.NewRedisCache(o.Cache, o.Redis, o.Logger))

	RegisterReservations(e.Group("/reservations", api...), h.Reservations)
	RegisterTables(e.Group("/tables", api...), h.Tables)
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, o Options) {
	e.GET("/healthz", handler.Health(o.DB))
	if o.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth exposes the staff login. It is rate limited but needs no
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m ...echo.MiddlewareFunc) {
	g := e.Group("/auth", m...)
	g.POST("/login", a.Login)
}
