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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/config"
	"github.com/mamadbah2/ridershift/internal/metrics"
	"github.com/mamadbah2/ridershift/internal/repository"
	"github.com/mamadbah2/ridershift/internal/repository/memory"
	"github.com/mamadbah2/ridershift/internal/repository/mongodb"
	"github.com/mamadbah2/ridershift/internal/repository/sheets"
	"github.com/mamadbah2/ridershift/internal/scheduler"
	"github.com/mamadbah2/ridershift/internal/server/handlers"
	"github.com/mamadbah2/ridershift/internal/server/router"
	duesvc "github.com/mamadbah2/ridershift/internal/service/dues"
	feesvc "github.com/mamadbah2/ridershift/internal/service/fees"
	"github.com/mamadbah2/ridershift/internal/service/notify"
	reportingsvc "github.com/mamadbah2/ridershift/internal/service/reporting"
	ridersvc "github.com/mamadbah2/ridershift/internal/service/riders"
	shiftsvc "github.com/mamadbah2/ridershift/internal/service/shifts"
	whatsappsvc "github.com/mamadbah2/ridershift/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/ridershift/pkg/clients/whatsapp"
	"github.com/mamadbah2/ridershift/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := openStore(context.Background(), cfg, baseLogger.Named("repo"))
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets credentials missing, sheet export disabled")
	}

	var (
		notifier    notify.Notifier
		whatsClient *whatsappclient.APIClient
	)
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		whatsNotifier := notify.NewWhatsAppNotifier(whatsClient, cfg.WhatsApp.AdminRecipient, baseLogger.Named("svc.notify"))
		defer whatsNotifier.Close()
		notifier = whatsNotifier
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		notifier = notify.NewLogNotifier(baseLogger.Named("svc.notify"))
		baseLogger.Warn("whatsapp token missing, notifications are only logged")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	loc := cfg.Location()
	accounts := ridersvc.NewService(store, cfg.Auth, baseLogger.Named("svc.riders"))
	feeService := feesvc.NewService(store, baseLogger.Named("svc.fees"))
	shiftService := shiftsvc.NewService(store, feeService, notifier, appMetrics, cfg.Shift, loc, baseLogger.Named("svc.shifts"))
	dueService := duesvc.NewService(store, appMetrics, baseLogger.Named("svc.dues"))
	reportingService := reportingsvc.NewService(shiftService, dueService, accounts, store, sheetsRepo, notifier, loc, baseLogger.Named("svc.reporting"))

	if err := accounts.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
		baseLogger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	routes := router.Handlers{
		Auth:   handlers.NewAuthHandler(accounts, baseLogger.Named("handlers.auth")),
		Shifts: handlers.NewShiftHandler(shiftService, reportingService, baseLogger.Named("handlers.shifts")),
		Dues:   handlers.NewDueHandler(dueService, baseLogger.Named("handlers.dues")),
		Admin:  handlers.NewAdminHandler(accounts, feeService, baseLogger.Named("handlers.admin")),
	}
	if whatsClient != nil {
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, shiftService, dueService, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
	}
	engine := router.New(routes, accounts, appMetrics, registry, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingService, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
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

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	case "mongo":
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
