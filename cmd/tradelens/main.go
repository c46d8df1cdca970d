// Command tradelens serves the dashboard's dataset documents over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/api"
	"github.com/tradelens/tradelens/internal/config"
	"github.com/tradelens/tradelens/internal/db"
	"github.com/tradelens/tradelens/internal/db/migrations"
	"github.com/tradelens/tradelens/internal/dbpool"
	"github.com/tradelens/tradelens/internal/service"
	"github.com/tradelens/tradelens/internal/store"
	"github.com/tradelens/tradelens/internal/ws"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("tradelens exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var hub *ws.Hub
	if cfg.EnableWS {
		hub = ws.NewHub(log)
		go hub.Run(ctx)
	}

	docs, closeStore, err := openStorage(ctx, cfg, log, hub)
	if err != nil {
		return err
	}
	defer closeStore()

	// With Postgres, events reach the hub through LISTEN/NOTIFY so every
	// instance sees every save. The file store announces saves itself.
	var direct service.Broadcaster
	if hub != nil && cfg.StorageDriver == config.DriverFile {
		direct = hub
	}

	svc := service.NewDocumentService(docs, direct, log)

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Documents:   svc,
		Storage:     docs,
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go serve(srv, errCh)
	go serve(metricsSrv, errCh)

	log.WithFields(logrus.Fields{
		"addr":    cfg.Addr(),
		"metrics": cfg.MetricsAddr(),
		"storage": docs.Driver(),
		"ws":      cfg.EnableWS,
		"version": config.Version,
	}).Info("tradelens listening")

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.WithError(err).Error("listener failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if hub != nil {
		hub.Shutdown()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("metrics shutdown")
	}

	return nil
}

func serve(srv *http.Server, errCh chan<- error) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- fmt.Errorf("serving %s: %w", srv.Addr, err)
	}
}

// openStorage builds the configured document store. The returned func
// releases it.
func openStorage(ctx context.Context, cfg *config.Config, log *logrus.Logger, hub *ws.Hub) (store.DocumentStore, func(), error) {
	if cfg.StorageDriver != config.DriverPostgres {
		fs := store.NewFileStore(cfg.DataDir, log)
		if err := fs.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("preparing data dir: %w", err)
		}

		return fs, func() {}, nil
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if hub != nil {
		if err := db.NewNotifyBridge(log, pool, hub).Start(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	return store.NewPostgresStore(pool, log), pool.Close, nil
}
