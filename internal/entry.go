// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/zttl/internal/convert"
	"github.com/starford/zttl/internal/ledger"
	"github.com/starford/zttl/internal/mcpserver"
	"github.com/starford/zttl/internal/storage"
)

// runtime holds everything a command needs; close releases the ledger.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	svc    *convert.Service
	close  func()
}

func setup(opts ...Option) (*runtime, error) {
	app := &application{logOutput: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Structured JSON logs go to stderr; stdout belongs to the MCP transport.
	runID := uuid.NewString()
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	})).With(slog.String("run_id", runID))
	slog.SetDefault(logger)

	ledgerPath := cfg.Ledger.ResolvePath(cfg.Vault.Path)
	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("ledger_driver", cfg.Ledger.Driver),
		slog.String("ledger_path", ledgerPath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	l, err := ledger.Open(cfg.Ledger.Driver, ledgerPath, runID)
	if err != nil {
		return nil, fmt.Errorf("init ledger: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		store:  store,
		svc:    convert.NewService(store, l, cfg.Vault.Filter(), logger),
		close: func() {
			if err := l.Close(); err != nil {
				logger.Warn("ledger close failed", slog.String("error", err.Error()))
			}
		},
	}, nil
}

// Run converts the vault once: every eligible note is renamed, then links are
// rewritten from the ledger. It returns an error if any note failed.
func Run(_ context.Context, opts ...Option) (*convert.Report, error) {
	rt, err := setup(opts...)
	if err != nil {
		return nil, err
	}
	defer rt.close()

	rt.logger.Info("Renaming notes", slog.String("vault_path", rt.store.Root()))
	report, err := rt.svc.Run()
	if err != nil {
		rt.logger.Error("Conversion aborted", slog.String("error", err.Error()))
		return report, err
	}

	rt.logger.Info("Conversion finished",
		slog.Int("renamed", len(report.Renamed)),
		slog.Int("skipped", report.Skipped),
		slog.Int("relinked", len(report.Relinked)),
		slog.Int("failed", len(report.Failed)))
	return report, report.Err()
}

// Watch converts the vault once and then again after every change until ctx
// is cancelled or the process receives SIGINT/SIGTERM.
func Watch(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	if report, err := rt.svc.Run(); err != nil {
		return err
	} else if err := report.Err(); err != nil {
		rt.logger.Warn("initial pass incomplete", slog.String("error", err.Error()))
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)

	g.Go(func() error {
		defer stop()
		return rt.svc.Watch(watchCtx, rt.store.Root(), rt.cfg.Watch.Debounce, func(report *convert.Report, err error) {
			if err == nil && len(report.Renamed) > 0 {
				rt.logger.Info("watcher: converted", slog.Int("renamed", len(report.Renamed)))
			}
		})
	})

	g.Go(func() error {
		waitForShutdown(watchCtx, rt.logger)
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	rt.logger.Info("Watcher stopped successfully")
	return nil
}

// ServeMCP exposes the conversion tools over MCP stdio until stdin closes or
// the process receives SIGINT/SIGTERM.
func ServeMCP(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	srv := mcpserver.New(rt.svc)

	g, gCtx := errgroup.WithContext(ctx)
	serveCtx, stop := context.WithCancel(gCtx)

	g.Go(func() error {
		defer stop()
		return srv.Serve(serveCtx, os.Stdin, os.Stdout)
	})

	g.Go(func() error {
		waitForShutdown(serveCtx, rt.logger)
		stop()
		return nil
	})

	return g.Wait()
}

func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}
}
