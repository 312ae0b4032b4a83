package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/calendar"
	"github.com/example/booking-screen/internal/config"
	"github.com/example/booking-screen/internal/diagnostics"
	"github.com/example/booking-screen/internal/logging"
	"github.com/example/booking-screen/internal/persistence"
	"github.com/example/booking-screen/internal/persistence/sqlite"
	"github.com/example/booking-screen/internal/tui"
)

func main() {
	if err := config.LoadDotEnv(os.Getenv("BOOKING_ENV_FILE")); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load env file:", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	// The terminal belongs to the program; logs go to a file when one is named.
	var logOut io.Writer = io.Discard
	if path := os.Getenv("BOOKING_TUI_LOG_FILE"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to open log file:", err)
			os.Exit(1)
		}
		defer file.Close()
		logOut = file
	}
	logger := logging.NewWithWriter(logOut, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("booking tui stopped with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	catalog, err := booking.NewCatalog(cfg.TimeSlots...)
	if err != nil {
		return fmt.Errorf("invalid slot catalog: %w", err)
	}

	sinks := diagnostics.Tee{diagnostics.NewSlogSink(logger)}
	if cfg.DiagnosticsDSN != "" {
		pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.DiagnosticsDSN))
		if err != nil {
			return fmt.Errorf("failed to open diagnostics journal: %w", err)
		}
		defer pool.Close()
		if _, err := pool.Migrate(context.Background()); err != nil {
			return fmt.Errorf("failed to apply journal migrations: %w", err)
		}
		repo := sqlite.NewDiagnosticsRepository(pool, time.Now)
		sinks = append(sinks, diagnostics.NewJournalSink(journalWriter{repo: repo}, logger, time.Now))
	}

	bridge := diagnostics.NewBridge(cfg.DiagnosticsEnabled)
	bridge.Init(sinks)
	defer func() {
		if err := bridge.Shutdown(); err != nil {
			logger.Error("failed to shut down diagnostics", "error", err)
		}
	}()

	screen := booking.NewScreen(calendar.NewValidator(time.Now, cfg.Location), catalog)
	model := tui.New(screen, bridge)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal program failed: %w", err)
	}

	if to, ok := model.NavigatedTo(); ok {
		fmt.Println("navigate:", to)
	}
	return nil
}

type journalWriter struct {
	repo persistence.DiagnosticsRepository
}

func (w journalWriter) WriteEntry(ctx context.Context, entry diagnostics.Entry) error {
	_, err := w.repo.AppendEntry(ctx, persistence.DiagnosticEntry{
		Level:      entry.Level.String(),
		Screen:     entry.Screen,
		Message:    entry.Message,
		Payload:    entry.Payload,
		RecordedAt: entry.RecordedAt,
	})
	return err
}
