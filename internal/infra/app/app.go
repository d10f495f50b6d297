// Package app wires configuration, infrastructure, and transport into a
// runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	"github.com/stringuers/Secure-SAAS-platform/internal/eventbus"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/config"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/database"
	kafkainfra "github.com/stringuers/Secure-SAAS-platform/internal/infra/kafka"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/logger"
	redisinfra "github.com/stringuers/Secure-SAAS-platform/internal/infra/redis"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/security"
	memoryrepo "github.com/stringuers/Secure-SAAS-platform/internal/repository/memory"
	postgresrepo "github.com/stringuers/Secure-SAAS-platform/internal/repository/postgres"
	redisrepo "github.com/stringuers/Secure-SAAS-platform/internal/repository/redis"
	"github.com/stringuers/Secure-SAAS-platform/internal/transport/http/middleware"
	"github.com/stringuers/Secure-SAAS-platform/internal/transport/http/routes"
	"github.com/stringuers/Secure-SAAS-platform/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	bus      *eventbus.Bus
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	bus := eventbus.New(cfg.Events.BufferSize)
	// Server log lines ride the same bus as security events so dashboards
	// see both.
	log = eventbus.Attach(log, bus)

	var events port.EventPublisher = bus

	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, security events stay local", zap.Error(err))
		} else {
			events = kafkainfra.NewMirror(bus, producer, cfg.App, log)
			log.Info("kafka mirror initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	}

	var users port.UserStore
	var pool *pgxpool.Pool
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err = database.NewPostgresPool(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		users = postgresrepo.NewUserStore(pool)
		log.Info("using postgres credential store")
	default:
		users = memoryrepo.NewUserStore()
		log.Info("using in-memory credential store: accounts vanish on restart")
	}

	var redisClient *redisinfra.Client
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Host != "" {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}

		window := cfg.RateLimit.Window
		if window <= 0 {
			window = time.Minute
		}
		store := redisrepo.NewRateLimitStore(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: "authdemo:rate-limit",
			TTL:       window * 2,
		})
		rateLimiter = middleware.NewRateLimiter(store, events, log)
	}

	hasher := security.NewHasher(cfg.Auth.BcryptCost)
	issuer, err := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	authService := usecase.NewAuthService(users, hasher, issuer, events, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Auth:        authService,
		Hasher:      hasher,
		Events:      events,
		Bus:         bus,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		bus:      bus,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.bus.Close()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	// No WriteTimeout: the SSE stream holds its response open indefinitely.
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth demo API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.Bool("tls", a.cfg.TLS.Enabled),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		var err error
		if a.cfg.TLS.Enabled {
			a.bus.PublishSecurityEvent(ctx, domain.SecurityEvent{
				Category: domain.CategoryEncryption,
				Action:   "TLS_STARTUP",
				Status:   domain.StatusSecure,
				Detail:   map[string]any{"cert_file": a.cfg.TLS.CertFile},
			})
			err = srv.ListenAndServeTLS(a.cfg.TLS.CertFile, a.cfg.TLS.KeyFile)
		} else {
			a.logger.Warn("TLS disabled: credentials travel in cleartext")
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		a.logger.Info("server stopped")
		return nil
	case err := <-serverErrCh:
		return err
	}
}
