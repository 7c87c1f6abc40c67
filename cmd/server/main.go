package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/config"
	"github.com/mamadbah2/buffalo/internal/repository"
	"github.com/mamadbah2/buffalo/internal/repository/archive"
	"github.com/mamadbah2/buffalo/internal/repository/memory"
	"github.com/mamadbah2/buffalo/internal/repository/mongodb"
	"github.com/mamadbah2/buffalo/internal/repository/sheets"
	"github.com/mamadbah2/buffalo/internal/repository/sqlite"
	"github.com/mamadbah2/buffalo/internal/scheduler"
	"github.com/mamadbah2/buffalo/internal/server/handlers"
	"github.com/mamadbah2/buffalo/internal/server/metrics"
	"github.com/mamadbah2/buffalo/internal/server/router"
	buffalosvc "github.com/mamadbah2/buffalo/internal/service/buffalos"
	"github.com/mamadbah2/buffalo/internal/service/notify"
	reportingsvc "github.com/mamadbah2/buffalo/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/buffalo/pkg/clients/whatsapp"
	"github.com/mamadbah2/buffalo/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		baseLogger.Fatal("failed to init record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()
	baseLogger.Info("record store ready", zap.String("driver", cfg.Store.Driver))

	m := metrics.New()
	store = repository.Instrument(store, m)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	buffaloSvc := buffalosvc.NewService(store, nil, baseLogger.Named("svc.buffalos"))
	reportingSvc := reportingsvc.NewService(store, loc, baseLogger.Named("svc.reporting"))

	sinks := buildSinks(ctx, cfg, baseLogger)
	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, sinks, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Buffalos:          handlers.NewBuffaloHandler(buffaloSvc, baseLogger.Named("handlers.buffalos")),
		ExpenseDrafts:     handlers.NewDraftHandler(buffaloSvc.ExpenseDrafts(), baseLogger.Named("handlers.drafts")),
		ShareholderDrafts: handlers.NewDraftHandler(buffaloSvc.ShareholderDrafts(), baseLogger.Named("handlers.drafts")),
		Reports:           handlers.NewReportHandler(sched, baseLogger.Named("handlers.reports")),
	}, router.Options{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Metrics:            m,
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.Collection)
	case config.DriverSQLite:
		return sqlite.NewStore(ctx, cfg.Store.SQLitePath)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// buildSinks enables each report destination that is configured. A
// destination that fails to initialize is logged and left disabled.
func buildSinks(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) scheduler.Sinks {
	var sinks scheduler.Sinks

	if cfg.WhatsApp.Enabled() {
		client := whatsappclient.NewClient(cfg.WhatsApp)
		sinks.Notifier = notify.NewWhatsAppNotifier(client, cfg.WhatsApp.ReportTo, baseLogger.Named("notify.whatsapp"))
		baseLogger.Info("whatsapp report delivery enabled", zap.Int("recipients", len(cfg.WhatsApp.ReportTo)))
	} else {
		baseLogger.Warn("whatsapp token missing, report delivery disabled")
	}

	if cfg.Sheets.Enabled() {
		exporter, err := sheets.NewGoogleSheetExporter(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Error("failed to init sheets exporter", zap.Error(err))
		} else {
			sinks.Sheets = exporter
		}
	}

	if cfg.Archive.Enabled() {
		archiver, err := archive.NewS3Archiver(ctx, cfg.Archive, archive.Options{}, baseLogger.Named("repo.archive"))
		if err != nil {
			baseLogger.Error("failed to init s3 archive", zap.Error(err))
		} else {
			sinks.Archive = archiver
		}
	}

	return sinks
}
