package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wuchinator/artisan-market/internal/analytics"
	"github.com/Wuchinator/artisan-market/internal/artisan"
	"github.com/Wuchinator/artisan-market/internal/config"
	"github.com/Wuchinator/artisan-market/internal/dashboard"
	"github.com/Wuchinator/artisan-market/internal/favorite"
	"github.com/Wuchinator/artisan-market/internal/httpapi"
	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/internal/review"
	"github.com/Wuchinator/artisan-market/internal/tracking"
	"github.com/Wuchinator/artisan-market/pkg/cache"
	"github.com/Wuchinator/artisan-market/pkg/grpcserver"
	"github.com/Wuchinator/artisan-market/pkg/kafka"
	"github.com/Wuchinator/artisan-market/pkg/logger"
	"github.com/Wuchinator/artisan-market/pkg/metrics"
	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"go.uber.org/zap"
)

const serviceName = "marketplace-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Error loading config: %v", err))
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		Service:     serviceName,
	})
	if err != nil {
		panic(fmt.Sprintf("Error initializing logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Marketplace API",
		zap.String("environment", cfg.Environment),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
	)
	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is empty, every request will be anonymous")
	}

	db, err := postgres.Open(context.Background(), postgres.Config{
		DSN:             cfg.Postgres.PostgresDSN(),
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal("Error initializing postgres client", zap.Error(err))
	}
	defer db.Close()

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:          cfg.Kafka.Brokers,
		Topic:            cfg.Kafka.Topic,
		ClientID:         serviceName,
		Retries:          cfg.Kafka.ProducerRetries,
		Timeout:          cfg.Kafka.ProducerTimeout,
		RequiredAcks:     cfg.Kafka.RequiredAcks,
		Compression:      cfg.Kafka.CompressionType,
		IdempotentWrites: cfg.Kafka.IdempotentWrites,
		MaxMessageBytes:  cfg.Kafka.MaxMessageBytes,
	}, log)
	if err != nil {
		log.Fatal("Error initializing kafka", zap.Error(err))
	}
	defer producer.Close()

	profileCache := cache.NewRedis(cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, "artisan", log)
	defer profileCache.Close()

	m := metrics.New()
	m.Registry().MustRegister(db.StatsCollector("marketplace"))

	artisanService := artisan.NewService(artisan.NewRepository(db, log), profileCache, cfg.Redis.ArtisanCacheTTL, log)
	reviewService := review.NewService(review.NewRepository(db, log), artisanService, log)
	favoriteService := favorite.NewService(favorite.NewRepository(db, log), artisanService, producer, m, log)
	trackingService := tracking.NewService(tracking.NewRepository(db, log), producer, m, log)
	analyticsService := analytics.NewService(analytics.NewRepository(db, log), m, log)
	dashboardService := dashboard.NewService(
		artisanService,
		reviewService,
		trackingService,
		favoriteService,
		analyticsService,
		log,
	)

	router := httpapi.NewRouter(httpapi.Handlers{
		Artisans:  artisan.NewHandler(artisanService, log),
		Reviews:   review.NewHandler(reviewService, log),
		Favorites: favorite.NewHandler(favoriteService, log),
		Tracking:  tracking.NewHandler(trackingService, cfg.SecureCookies, log),
		Dashboard: dashboard.NewHandler(dashboardService, log),
		Analytics: analytics.NewHandler(analyticsService, log),
	}, httpapi.Options{
		Resolver: identity.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Metrics:  m,
		HealthChecks: map[string]httpapi.HealthChecker{
			"postgres": db,
			"redis":    profileCache,
		},
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error serving HTTP", zap.Error(err))
		}
	}()

	grpcServer := grpcserver.New(serviceName, log)
	listener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatal("Error initializing gRPC listener", zap.Error(err))
	}

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal("Error serving gRPC", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down servers")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	grpcServer.Shutdown(ctx)
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn("HTTP server shutdown timed out", zap.Error(err))
	}

	log.Info("Marketplace API stopped")
}
