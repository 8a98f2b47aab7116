package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finanzo/internal/amqp"
	"finanzo/internal/auth"
	"finanzo/internal/cli"
	apphttp "finanzo/internal/http"
	"finanzo/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer store.Close()

	// The broker is optional for the API: events are best-effort and the
	// worker catches up once the broker is back.
	var publisher services.Publisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	goalSvc := services.NewGoalService(store, publisher, logger)
	txSvc := services.NewTransactionService(store, store, publisher, cfg.RecurrenceMaxCount, logger)
	challengeSvc := services.NewChallengeService(store, store, goalSvc, nil, logger)

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, txSvc, goalSvc, challengeSvc, store, logger)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting finanzo server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
}
