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
	"github.com/Wuchinator/artisan-market/internal/config"
	"github.com/Wuchinator/artisan-market/pkg/grpcserver"
	"github.com/Wuchinator/artisan-market/pkg/kafka"
	"github.com/Wuchinator/artisan-market/pkg/logger"
	"github.com/Wuchinator/artisan-market/pkg/metrics"
	"github.com/Wuchinator/artisan-market/pkg/postgres"
	"go.uber.org/zap"
)

const serviceName = "analytics-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		Service:     serviceName,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Analytics Service",
		zap.String("environment", cfg.Environment),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("consumer_group", cfg.Kafka.ConsumerGroup),
	)

	db, err := postgres.Open(context.Background(), postgres.Config{
		DSN:             cfg.Postgres.PostgresDSN(),
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	m := metrics.New()
	m.Registry().MustRegister(db.StatsCollector("marketplace"))
	analyticsService := analytics.NewService(analytics.NewRepository(db, log), m, log)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:           cfg.Kafka.Brokers,
		Topics:            []string{cfg.Kafka.Topic},
		GroupID:           cfg.Kafka.ConsumerGroup,
		AutoCommit:        true,
		CommitInterval:    1 * time.Second,
		SessionTimeout:    10 * time.Second,
		RebalanceStrategy: "sticky",
	}, analyticsService.CreateMessageHandler(), log)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Start(ctx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	go func() {
		select {
		case <-consumer.WaitReady():
			log.Info("Kafka consumer is ready and consuming messages")
		case <-ctx.Done():
		}
	}()

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				analyticsService.CleanupOldCache(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	// metrics only; the interaction API lives in marketplace-api
	metricsServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Starting metrics server", zap.String("port", cfg.HTTPPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	grpcServer := grpcserver.New(serviceName, log)
	listener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatal("Error initializing gRPC listener", zap.Error(err))
	}
	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Error("gRPC server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.Shutdown(shutdownCtx)
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Metrics server shutdown timed out", zap.Error(err))
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn("Consumer did not stop before the shutdown timeout")
	}

	log.Info("Analytics Service stopped")
}
