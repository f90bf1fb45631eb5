package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orbital-exchange/trading-api/internal/api/handler"
	"github.com/orbital-exchange/trading-api/internal/api/middleware"
	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Redis is nil when the
// in-process fallbacks are in use.
type Deps struct {
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Accounts ports.AccountService
	Trades   ports.TradeService
	Executor ports.TradeExecutor
	Dedup    ports.TradeDedup
	Denylist ports.TokenDenylist

	JWTSecret string

	Mongo *mongo.Database
	Redis *redis.Client

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops routes (no auth required) ---
	deps := []handlers.Dependency{handlers.RedisDependency(d.Redis)}
	if d.Mongo != nil {
		deps = append([]handlers.Dependency{handlers.MongoDependency(d.Mongo)}, deps...)
	}
	readiness := handlers.NewReadinessHandler(deps...)

	e.GET("/health", handlers.Liveness)
	e.GET("/health/ready", readiness.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	planetHandler := handler.NewPlanetHandler(d.Catalog)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	tradeHandler := handler.NewTradeHandler(d.Trades, d.Executor, d.Dedup, d.Logger)

	// --- Public auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret, d.Denylist))

	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/me", authHandler.Me)

	v1.GET("/planets", planetHandler.List)
	v1.GET("/planets/:id", planetHandler.Get)
	v1.GET("/prices", planetHandler.Prices)

	v1.POST("/trades/quote", tradeHandler.Quote)
	v1.POST("/planets/:id/buy", tradeHandler.Buy)
	v1.POST("/trades/sell", tradeHandler.Sell)

	v1.GET("/account", accountHandler.Summary)

	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.POST("/catalog/seed", planetHandler.Seed)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
