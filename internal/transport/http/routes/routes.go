// Package routes assembles the Gin engine from middleware and handlers.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	"github.com/stringuers/Secure-SAAS-platform/internal/eventbus"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/config"
	"github.com/stringuers/Secure-SAAS-platform/internal/transport/http/handlers"
	"github.com/stringuers/Secure-SAAS-platform/internal/transport/http/middleware"
	"github.com/stringuers/Secure-SAAS-platform/internal/usecase"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Auth        *usecase.AuthService
	Hasher      port.PasswordHasher
	Events      port.EventPublisher
	Bus         *eventbus.Bus
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	secure := deps.Config.TLS.Enabled

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger, deps.Events, secure))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessionGate := middleware.RequireSession(deps.Auth)

	api := r.Group("/api")
	{
		healthHandler := handlers.NewHealthHandler(secure)
		healthHandler.RegisterRoutes(api)

		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Auth)
		authHandler.RegisterRoutes(authGroup, buildLoginMiddlewares(deps)...)

		userGroup := api.Group("/user")
		userGroup.Use(sessionGate)
		userHandler := handlers.NewUserHandler(deps.Auth)
		userHandler.RegisterRoutes(userGroup)

		if deps.Bus != nil {
			eventsGroup := api.Group("/events")
			streamHandler := handlers.NewStreamHandler(deps.Bus, deps.Logger)
			streamHandler.RegisterRoutes(eventsGroup)
		}

		if deps.Config.Demo.Enabled {
			demoGroup := api.Group("/demo")
			demoHandler := handlers.NewDemoHandler(deps.Hasher, deps.Events)
			demoHandler.RegisterRoutes(demoGroup)
		}
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.Window
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:   "auth_login_ip",
		Limit:  limit,
		Window: window,
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
