package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cepetdeal/marketplace/internal/app"
	catalogdomain "github.com/cepetdeal/marketplace/internal/catalog/domain"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	messagedomain "github.com/cepetdeal/marketplace/internal/message/domain"
	receiptdomain "github.com/cepetdeal/marketplace/internal/receipt/domain"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/cache"
	"github.com/cepetdeal/marketplace/pkg/config"
	"github.com/cepetdeal/marketplace/pkg/database"
	"github.com/cepetdeal/marketplace/pkg/health"
	"github.com/cepetdeal/marketplace/pkg/logger"
	"github.com/cepetdeal/marketplace/pkg/ratelimit"
	"github.com/cepetdeal/marketplace/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.ServiceName, cfg.AppEnv, cfg.LogLevel)
	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Starting marketplace service")

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: serviceVersion,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	db, err := database.NewGormConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := database.Migrate(db,
		&userdomain.User{},
		&userdomain.Dealer{},
		&catalogdomain.Brand{},
		&catalogdomain.CarModel{},
		&listingdomain.Listing{},
		&listingdomain.Favorite{},
		&messagedomain.Message{},
		&receiptdomain.Receipt{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	checker := health.NewChecker(cfg.ServiceName, 2*time.Second)
	checker.Register("postgres", sqlDB.PingContext)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store cache.Cache = cache.Nop{}
	var authLimiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		} else {
			defer client.Close()
			store = cache.NewRedisCache(client, "cepetdeal")
			if cfg.RateLimit.AuthRequests > 0 {
				authLimiter = ratelimit.NewRedisLimiter(client, "cepetdeal", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)
			}
			checker.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
		}
	}

	var publisher kafka.EventPublisher = kafka.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, event publishing disabled")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	handlers := app.InitializeHandlers(
		app.NewGormRepositories(db),
		app.Settings{
			JWTSecret: cfg.Auth.JWTSecret,
			TokenTTL:  cfg.Auth.TokenTTL,
			CacheTTL:  cfg.Redis.CacheTTL,
		},
		store,
		publisher,
		prometheus.DefaultRegisterer,
	)

	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID,
			[]string{kafka.TopicListingEvents, kafka.TopicReceiptEvents})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, dashboard refreshes on cache expiry only")
		} else {
			defer consumer.Close()
			app.RegisterEventHandlers(consumer, handlers)
			consumer.Start(ctx)
		}
	}

	srv := &http.Server{
		Addr: ":" + cfg.HTTP.Port,
		Handler: app.NewRouter(handlers, checker, app.RouterConfig{
			ServiceName:    cfg.ServiceName,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RequestTimeout: cfg.HTTP.RequestTimeout,
			Gatherer:       prometheus.DefaultGatherer,
			AuthLimiter:    authLimiter,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}
}
