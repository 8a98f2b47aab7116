package main

import (
	"context"
	"errors"
	"os"
	"time"

	"finanzo/internal/amqp"
	"finanzo/internal/cli"
	"finanzo/internal/export/gsheet"
	"finanzo/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting finanzo-worker")

	store := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer store.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Sheets mirroring is optional; without a spreadsheet id the worker
	// only evaluates achievements.
	var mirror worker.LedgerMirror
	if cfg.SheetsSpreadsheetID != "" {
		m, err := gsheet.NewFromEnv(context.Background(), cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
		if err != nil {
			logger.Error("Failed to initialize sheets mirror", "error", err)
			os.Exit(1)
		}
		mirror = m
		logger.Info("Sheets mirror enabled", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		logger.Info("Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	deliveries, err := amqpClient.Consume(cfg.ConsumerPrefetch)
	if err != nil {
		logger.Error("Failed to start consumer", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	shutdownCtx, done := cli.GracefulShutdown(logger, 5*time.Second, func(context.Context) {
		cancel()
	})

	w := worker.NewEventWorker(store, mirror, logger)
	logger.Info("Worker consuming events", "queue", cfg.AMQPQueue, "prefetch", cfg.ConsumerPrefetch)
	if err := w.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}

	<-shutdownCtx.Done()
	<-done
}
