package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/calendar-core/internal/application"
	"github.com/example/calendar-core/internal/config"
	httptransport "github.com/example/calendar-core/internal/http"
	"github.com/example/calendar-core/internal/logging"
	"github.com/example/calendar-core/internal/seed"
	"github.com/example/calendar-core/internal/store"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		bootstrap.Error("failed to build logger", "error", err)
		os.Exit(1)
	}

	app, err := newApp(ctx, cfg, logger, uuid.NewString, time.Now)
	if err != nil {
		logger.Error("failed to start calendar", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("calendar API listening",
		"addr", server.Addr,
		"timezone", cfg.Location.String(),
		"week_start", cfg.WeekStart.String(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	Store   *store.Store
	Events  *application.EventService
	Views   *application.ViewService
	Handler http.Handler
}

func (a *app) Close() {
	if a != nil && a.Views != nil {
		a.Views.Close()
	}
}

// newApp wires the store, services and router. When cfg.SeedFile is set the
// store is populated from it before the router is returned.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, idGenerator func() string, now func() time.Time) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}

	events := store.New()
	eventService := application.NewEventService(events, idGenerator, now, application.EventServiceOptions{
		Location:     cfg.Location,
		UpcomingDays: cfg.UpcomingDays,
		Logger:       logger,
	})
	viewService, err := application.NewViewService(events, now, application.ViewServiceOptions{
		Location:  cfg.Location,
		WeekStart: cfg.WeekStart,
		CacheSize: cfg.ViewCacheSize,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build view service: %w", err)
	}

	a := &app{Store: events, Events: eventService, Views: viewService}

	if cfg.SeedFile != "" {
		if err := seedStore(ctx, cfg, eventService, logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Events:     httptransport.NewEventHandler(eventService, cfg.Location, logger),
		Views:      httptransport.NewViewHandler(viewService, logger),
		Navigation: httptransport.NewNavigationHandler(viewService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})
	a.Handler = router
	return a, nil
}

func seedStore(ctx context.Context, cfg config.Config, events *application.EventService, logger *slog.Logger) error {
	loaded, err := seed.Load(cfg.SeedFile, cfg.Location)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}

	result, err := events.ImportEvents(ctx, loaded.Events)
	if err != nil {
		return fmt.Errorf("import seed events: %w", err)
	}

	skipped := len(result.Skipped) + len(loaded.Skipped)
	for _, reason := range loaded.Skipped {
		logger.Warn("seed entry skipped", "file", cfg.SeedFile, "reason", reason.Error())
	}
	for _, reason := range result.Skipped {
		logger.Warn("seed entry skipped", "file", cfg.SeedFile, "reason", reason)
	}
	logger.Info("seed file loaded",
		"file", cfg.SeedFile,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", skipped,
	)
	return nil
}
