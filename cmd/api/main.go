package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tally-ledger/tally/internal/config"
	"github.com/tally-ledger/tally/internal/infra"
	"github.com/tally-ledger/tally/internal/ledger"
	"github.com/tally-ledger/tally/internal/logging"
	"github.com/tally-ledger/tally/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	var backends server.Backends

	if cfg.DatabaseURL != "" {
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := ledger.NewPostgresStore(db).Migrate(ctx); err != nil {
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}
		backends.DB = db
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory ledger store")
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		backends.Cache = cache
	} else {
		logger.Warn("REDIS_URL not set, idempotency and rate limiting disabled")
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer, err := infra.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Error("configure kafka", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Warn("close kafka writer", "error", err)
			}
		}()
		backends.Events = writer
	} else {
		logger.Info("KAFKA_BROKERS not set, transaction events go to the log")
	}

	srv, err := server.New(cfg, backends, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
