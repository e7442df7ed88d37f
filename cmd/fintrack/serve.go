package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	"fintrack/internal/classifier"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func newServeCmd(a *app) *cobra.Command {
	var port, seed string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			if seed != "" {
				a.cfg.SeedFile = seed
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&seed, "seed", "", "YAML file with initial ledger entries (overrides SEED_FILE)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	cfg, logger := a.cfg, a.logger
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := cli.GracefulShutdown(parent, logger)
	defer stop()

	store, err := cli.InitLedger(logger.WithComponent(log.ComponentLedger), cfg.SeedFile)
	if err != nil {
		return err
	}

	cls, err := classifier.NewFromSettings(ctx, cfg.ClassifierSettings(), logger.WithComponent(log.ComponentClassifier).Slog())
	if err != nil {
		return err
	}

	publisher, closePublisher := cli.InitPublisher(cfg, logger.WithComponent(log.ComponentAMQP))
	ledger := services.NewLedgerService(store, publisher)
	drafts := services.NewDraftService(ledger, cls, cfg.SuggestOptions(), cfg.DraftTTL, cfg.MaxDrafts)

	caches := cache.NewManager()
	caches.Register(drafts.Sessions())
	caches.StartCleanup(cleanupInterval(cfg.DraftTTL))

	srv := apphttp.NewServer(":"+cfg.Port, ledger, drafts, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port, "classifier", cls.Enabled(), "events", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return cli.RunCleanup(cli.DefaultShutdownTimeout,
			srv.Shutdown,
			func(context.Context) error { caches.Stop(); return nil },
			func(context.Context) error { return drafts.Close() },
			func(context.Context) error { closePublisher(); return nil },
			func(context.Context) error { return cls.Close() },
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// cleanupInterval sweeps expired drafts a few times per TTL, at most once a minute.
func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
