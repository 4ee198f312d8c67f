package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ongfinanzas/internal/cli"
	"ongfinanzas/internal/log"
	"ongfinanzas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting ongfinanzas-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	factory, backendCfg, res := cli.OpenBackend(context.Background(), logger, cfg)

	writer, err := factory.CreateBalanceWriter(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize balance writer", log.FieldError, err)
		_ = res.Cleanup()
		os.Exit(1)
	}

	syncWorker := worker.NewBalanceSyncWorker(res.Store, writer, worker.Config{Interval: cfg.SyncInterval}).
		WithLogger(logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := syncWorker.Stop(stopCtx); err != nil {
			logger.Warn("Worker stop error", log.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	// Startup sync plus periodic resync for any missed events
	if err := syncWorker.Start(ctx); err != nil {
		logger.Error("Failed to start balance sync worker", log.FieldError, err)
		os.Exit(1)
	}

	if res.Events != nil {
		go func() {
			err := res.Events.ConsumeLedgerEvents(ctx, syncWorker.HandleLedgerEvent)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Ledger event consumption failed", log.FieldError, err)
			}
		}()
		logger.Info("Consuming ledger events", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Skipping AMQP consumption - no AMQP_URL provided, relying on periodic sync")
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
