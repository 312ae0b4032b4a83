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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/example/booking-screen/internal/application"
	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/calendar"
	"github.com/example/booking-screen/internal/config"
	"github.com/example/booking-screen/internal/diagnostics"
	httptransport "github.com/example/booking-screen/internal/http"
	"github.com/example/booking-screen/internal/logging"
	"github.com/example/booking-screen/internal/observability/metrics"
	"github.com/example/booking-screen/internal/persistence"
	"github.com/example/booking-screen/internal/persistence/memory"
	redisstore "github.com/example/booking-screen/internal/persistence/redis"
	"github.com/example/booking-screen/internal/persistence/sqlite"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := config.LoadDotEnv(os.Getenv("BOOKING_ENV_FILE")); err != nil {
		bootstrap.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("booking service stopped with error", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	now := time.Now

	catalog, err := booking.NewCatalog(cfg.TimeSlots...)
	if err != nil {
		return fmt.Errorf("invalid slot catalog: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	sessions, closeSessions, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	journal, closeJournal, err := openJournal(ctx, cfg, now, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	sinks := diagnostics.Tee{diagnostics.NewSlogSink(logger)}
	var journalReader application.DiagnosticsJournal
	if journal != nil {
		sinks = append(sinks, diagnostics.NewJournalSink(newJournalWriterAdapter(journal), logger, now))
		journalReader = newDiagnosticsJournalAdapter(journal)
	}
	bridge := diagnostics.NewBridge(cfg.DiagnosticsEnabled)
	bridge.Init(sinks)
	defer func() {
		if err := bridge.Shutdown(); err != nil {
			logger.Error("failed to shut down diagnostics", "error", err)
		}
	}()

	diagnosticsService := application.NewDiagnosticsService(journalReader, now, logger)
	if journalReader != nil {
		if removed, err := diagnosticsService.Prune(ctx, cfg.DiagnosticsRetention); err != nil {
			logger.Warn("failed to prune diagnostics journal", "error", err)
		} else if removed > 0 {
			logger.Info("pruned diagnostics journal", "removed", removed)
		}
	}

	screenService := application.NewScreenService(application.ScreenServiceDeps{
		Store:       newScreenStoreAdapter(sessions),
		Validator:   calendar.NewValidator(now, cfg.Location),
		Catalog:     catalog,
		IDGenerator: uuid.NewString,
		Now:         now,
		Logger:      logger,
		Metrics:     bookingMetrics,
		Diagnostics: bridge,
	})

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Screens:     httptransport.NewScreenHandler(screenService, logger),
		Diagnostics: httptransport.NewDiagnosticsHandler(diagnosticsService, logger),
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Observer:    httpMetrics,
		Middleware:  []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
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

	logger.Info("booking API listening",
		"addr", server.Addr,
		"session_store", cfg.SessionStore,
		"diagnostics_enabled", cfg.DiagnosticsEnabled,
		"journal", journal != nil,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	return nil
}

func openSessionStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.ScreenSessionRepository, func(), error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		store := redisstore.NewScreenSessionStore(client, redisstore.DefaultPrefix, cfg.SessionTTL)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		return store, func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}, nil
	default:
		logger.Info("using in-memory session store", "max_sessions", cfg.MaxSessions, "ttl", cfg.SessionTTL)
		return memory.NewScreenSessionStore(cfg.MaxSessions, cfg.SessionTTL), func() {}, nil
	}
}

// openJournal returns a nil repository when no DSN is configured.
func openJournal(ctx context.Context, cfg config.Config, now func() time.Time, logger *slog.Logger) (*sqlite.DiagnosticsRepository, func(), error) {
	if cfg.DiagnosticsDSN == "" {
		return nil, func() {}, nil
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.DiagnosticsDSN))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostics journal: %w", err)
	}
	applied, err := pool.Migrate(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("failed to apply journal migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("journal migrations applied", "versions", applied)
	}

	return sqlite.NewDiagnosticsRepository(pool, now), func() {
		if err := pool.Close(); err != nil {
			logger.Error("failed to close diagnostics journal", "error", err)
		}
	}, nil
}

type screenStoreAdapter struct {
	repo persistence.ScreenSessionRepository
}

func newScreenStoreAdapter(repo persistence.ScreenSessionRepository) *screenStoreAdapter {
	return &screenStoreAdapter{repo: repo}
}

func (a *screenStoreAdapter) SaveScreen(ctx context.Context, record application.ScreenRecord) error {
	return a.repo.SaveScreenSession(ctx, toPersistenceSession(record))
}

func (a *screenStoreAdapter) GetScreen(ctx context.Context, id string) (application.ScreenRecord, error) {
	stored, err := a.repo.GetScreenSession(ctx, id)
	if err != nil {
		return application.ScreenRecord{}, err
	}
	return toScreenRecord(stored), nil
}

func (a *screenStoreAdapter) DeleteScreen(ctx context.Context, id string) error {
	return a.repo.DeleteScreenSession(ctx, id)
}

func (a *screenStoreAdapter) CountScreens(ctx context.Context) (int, error) {
	return a.repo.CountScreenSessions(ctx)
}

type journalWriterAdapter struct {
	repo persistence.DiagnosticsRepository
}

func newJournalWriterAdapter(repo persistence.DiagnosticsRepository) *journalWriterAdapter {
	return &journalWriterAdapter{repo: repo}
}

func (a *journalWriterAdapter) WriteEntry(ctx context.Context, entry diagnostics.Entry) error {
	_, err := a.repo.AppendEntry(ctx, persistence.DiagnosticEntry{
		Level:      entry.Level.String(),
		Screen:     entry.Screen,
		Message:    entry.Message,
		Payload:    entry.Payload,
		RecordedAt: entry.RecordedAt,
	})
	return err
}

type diagnosticsJournalAdapter struct {
	repo persistence.DiagnosticsRepository
}

func newDiagnosticsJournalAdapter(repo persistence.DiagnosticsRepository) *diagnosticsJournalAdapter {
	return &diagnosticsJournalAdapter{repo: repo}
}

func (a *diagnosticsJournalAdapter) ListEntries(ctx context.Context, query application.DiagnosticQuery) ([]application.DiagnosticEntry, error) {
	models, err := a.repo.ListEntries(ctx, persistence.DiagnosticFilter{
		Screen: query.Screen,
		Level:  query.Level,
		Since:  query.Since,
		Limit:  query.Limit,
	})
	if err != nil {
		return nil, err
	}
	entries := make([]application.DiagnosticEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, application.DiagnosticEntry{
			ID:         model.ID,
			Level:      model.Level,
			Screen:     model.Screen,
			Message:    model.Message,
			Payload:    model.Payload,
			RecordedAt: model.RecordedAt,
		})
	}
	return entries, nil
}

func (a *diagnosticsJournalAdapter) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return a.repo.DeleteEntriesBefore(ctx, cutoff)
}

func toPersistenceSession(record application.ScreenRecord) persistence.ScreenSession {
	return persistence.ScreenSession{
		ID:           record.ID,
		Year:         record.Snapshot.Year,
		MonthIndex:   record.Snapshot.MonthIndex,
		SelectedDate: record.Snapshot.SelectedDate,
		SelectedTime: record.Snapshot.SelectedTime,
		Confirmed:    record.Snapshot.Confirmed,
		Stage:        record.Snapshot.Stage,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toScreenRecord(session persistence.ScreenSession) application.ScreenRecord {
	return application.ScreenRecord{
		ID: session.ID,
		Snapshot: booking.Snapshot{
			Year:         session.Year,
			MonthIndex:   session.MonthIndex,
			SelectedDate: session.SelectedDate,
			SelectedTime: session.SelectedTime,
			Confirmed:    session.Confirmed,
			Stage:        session.Stage,
		},
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
