package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"cartify/internal/config"
	"cartify/internal/events"
	"cartify/internal/logging"
)

// The worker drains the order queue and appends every placed order to
// ORDER_LOG_DIR/orders.log.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the order worker")
		os.Exit(1)
	}
	dir := os.Getenv("ORDER_LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("order worker started", "log_dir", dir)
	err := events.Consume(ctx, cfg.AMQPURL, events.FileLogHandler(dir), logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("order worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("order worker stopped")
}
