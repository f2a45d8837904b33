// Package server owns the process lifecycle: configuration, document store,
// cache, payment provider, HTTP listener and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/config"
	_ "github.com/resellbd/resell-api/database/migrations"
	"github.com/resellbd/resell-api/internal/kernel"
	"github.com/resellbd/resell-api/pkg/cache"
	"github.com/resellbd/resell-api/pkg/database"
	"github.com/resellbd/resell-api/pkg/logger"
	"github.com/resellbd/resell-api/pkg/middleware"
	"github.com/resellbd/resell-api/pkg/migration"
	"github.com/resellbd/resell-api/pkg/payment"
)

// Resources are the long-lived collaborators opened at boot.
// Conn is nil when STORE_DRIVER=memory.
type Resources struct {
	Conn  *database.Conn
	Store *repositories.Store
}

// OpenStore connects the configured store driver.
func OpenStore(ctx context.Context) (*Resources, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	if config.StoreDriver() == "memory" {
		logger.Warn("store: using in-memory driver; data is lost on exit")
		return &Resources{Store: repositories.NewMemoryStore()}, nil
	}

	conn, err := database.Connect(ctx, database.Options{
		URI:      config.MongoURI(),
		Database: config.DatabaseName(),
		Attempts: config.ConnectRetries(),
		Backoff:  2 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Resources{Conn: conn, Store: repositories.NewMongoStore(conn.DB)}, nil
}

// Migrate applies pending index migrations. A no-op for the memory driver,
// which enforces the same unique keys itself.
func (r *Resources) Migrate(ctx context.Context, out io.Writer) error {
	if r.Conn == nil {
		fmt.Fprintln(out, "Nothing to migrate (memory store).")
		return nil
	}
	return migration.New(r.Conn.DB, out).Run(ctx)
}

// MigrateAtBoot applies pending migrations without stopping at a failure.
// A unique index cannot be built over legacy duplicate documents; that
// migration stays pending until `resell dedupe` has cleaned the data.
func (r *Resources) MigrateAtBoot(ctx context.Context) error {
	if r.Conn == nil {
		return nil
	}
	return migration.New(r.Conn.DB, io.Discard).RunAll(ctx)
}

func (r *Resources) Close(ctx context.Context) error {
	return r.Conn.Close(ctx)
}

// Start boots every dependency and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := res.Close(closeCtx); err != nil {
			logger.Error("database: disconnect failed", "error", err)
		}
	}()

	if err := res.MigrateAtBoot(ctx); err != nil {
		logger.Warn("migrate at boot incomplete; serving without the failed indexes", "error", err)
	}

	if config.LogToMongo() && res.Conn != nil {
		sink := logger.NewMongoHandler(res.Conn.DB.Collection(repositories.LogsCollection), slog.LevelInfo)
		logger.Tee(sink)
		defer sink.Close()
	}

	c, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "resell:")
	if err != nil {
		logger.Warn("cache disabled", "addr", config.RedisAddr(), "error", err)
	}
	defer c.Close()

	k := kernel.NewHTTPKernel(kernel.Deps{
		Store:    res.Store,
		Cache:    c,
		Payments: payment.NewStripe(config.StripeSecretKey()),
		Currency: config.PaymentCurrency(),
		CacheTTL: config.CacheTTL(),
		CORS:     middleware.DefaultCORSOptions(),
	})
	defer k.Close()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, config.ShutdownGrace())
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
// for at most grace.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Resell BD API listening", "addr", srv.Addr, "env", config.AppEnv())
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

	logger.Info("shutting down", "grace", grace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
