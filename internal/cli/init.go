// Package cli provides common initialization utilities for the fintrack
// commands: environment loading, logging, ledger seeding and shutdown.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// DefaultShutdownTimeout bounds the cleanup run after a shutdown signal.
const DefaultShutdownTimeout = 30 * time.Second

// LoadEnvFile loads a .env file for local development.
// A missing file is not an error since production sets the environment directly.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg, writes to out and
// installs it as the slog default.
func SetupLogger(cfg *config.Config, out io.Writer) (*log.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logCfg := log.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.LogFormat
	if out != nil {
		logCfg.Output = out
	}
	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger, nil
}

// InitLedger creates the in-memory ledger and applies the seed file, if any.
func InitLedger(logger *log.Logger, seedFile string) (*ledger.Store, error) {
	store := ledger.New()
	if seedFile == "" {
		return store, nil
	}
	seed, err := ledger.ReadSeed(seedFile)
	if err != nil {
		return nil, err
	}
	expenses, incomes := seed.Apply(store)
	logger.Info("Ledger seeded", "path", seedFile, "expenses", expenses, "incomes", incomes)
	return store, nil
}

// InitPublisher connects the ledger event publisher when AMQP is configured.
// Failing to connect is logged and publishing is disabled; the ledger works
// without it. The returned close function is always safe to call.
func InitPublisher(cfg *config.Config, logger *log.Logger) (services.Publisher, func()) {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP not configured, ledger events disabled")
		return nil, func() {}
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP, ledger events disabled",
			log.FieldError, err, "exchange", cfg.AMQPExchange)
		return nil, func() {}
	}
	logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	}
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
// The stop function releases the signal handler.
func GracefulShutdown(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// RunCleanup runs each cleanup step under a shared timeout and joins their errors.
func RunCleanup(timeout time.Duration, steps ...func(context.Context) error) error {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, step := range steps {
		if err := step(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
