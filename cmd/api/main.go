package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/shoplite/internal/catalog/store"
	"github.com/MrJamesThe3rd/shoplite/internal/config"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/export"
	shopHttp "github.com/MrJamesThe3rd/shoplite/internal/http"
	catalogHandler "github.com/MrJamesThe3rd/shoplite/internal/http/catalog"
	exportHandler "github.com/MrJamesThe3rd/shoplite/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/shoplite/internal/http/importcsv"
	purchaseHandler "github.com/MrJamesThe3rd/shoplite/internal/http/purchase"
	reportHandler "github.com/MrJamesThe3rd/shoplite/internal/http/report"
	stockHandler "github.com/MrJamesThe3rd/shoplite/internal/http/stock"
	txHandler "github.com/MrJamesThe3rd/shoplite/internal/http/transaction"
	"github.com/MrJamesThe3rd/shoplite/internal/importer"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/shoplite/internal/inventory/store"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
	purchaseStore "github.com/MrJamesThe3rd/shoplite/internal/purchase/store"
	"github.com/MrJamesThe3rd/shoplite/internal/report"
	reportStore "github.com/MrJamesThe3rd/shoplite/internal/report/store"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.App.LogFormat, cfg.App.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	connStr := cfg.ConnectionString()

	if err := database.Migrate(connStr); err != nil {
		return err
	}

	db, err := database.New(ctx, connStr, database.PoolOptions{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	retry := database.RetryPolicy{
		Retries: cfg.Stock.BusyRetries,
		Backoff: cfg.Stock.BusyBackoff,
	}

	var (
		inventoryService = inventory.NewService(inventoryStore.New(db, cfg.Stock.LockTimeout), retry)
		purchaseService  = purchase.NewService(purchaseStore.New(db, cfg.Stock.LockTimeout), inventoryService, retry)
		catalogService   = catalog.NewService(catalogStore.New(db, cfg.Stock.LockTimeout), inventoryService, retry)
		reportService    = report.NewService(reportStore.New(db))
		importService    = importer.NewService()
		exportService    = export.NewService(catalogService, reportService, purchaseService)
	)

	router := shopHttp.New(shopHttp.Handlers{
		Stock:        stockHandler.NewHandler(inventoryService),
		Transactions: txHandler.NewHandler(inventoryService),
		Purchase:     purchaseHandler.NewHandler(purchaseService),
		Catalog:      catalogHandler.NewHandler(catalogService),
		Report:       reportHandler.NewHandler(reportService),
		Import:       importHandler.NewHandler(importService, catalogService),
		Export:       exportHandler.NewHandler(exportService),
	}, db, shopHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthSecret:     []byte(cfg.Auth.Secret),
		Timeout:        cfg.Server.Timeout,
	})

	if cfg.Auth.Secret == "" {
		slog.Warn("AUTH_SECRET is empty, the API accepts unauthenticated requests")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newLogger(format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
