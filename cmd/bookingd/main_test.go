package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/booking-screen/internal/application"
	"github.com/example/booking-screen/internal/config"
	"github.com/example/booking-screen/internal/diagnostics"
	"github.com/example/booking-screen/internal/persistence"
	"github.com/example/booking-screen/internal/persistence/memory"
	"github.com/example/booking-screen/internal/testfixtures"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScreenStoreAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newScreenStoreAdapter(memory.NewScreenSessionStore(8, time.Minute))
	fixture := testfixtures.NewScreenFixture(
		testfixtures.WithScreenID("screen-a"),
		testfixtures.WithScreenSelection("2024-01-15", "10:00 AM"),
		testfixtures.WithScreenConfirmed(),
	)

	if err := adapter.SaveScreen(ctx, fixture.Record()); err != nil {
		t.Fatalf("SaveScreen returned error: %v", err)
	}

	got, err := adapter.GetScreen(ctx, "screen-a")
	if err != nil {
		t.Fatalf("GetScreen returned error: %v", err)
	}
	if got.Snapshot != fixture.Snapshot {
		t.Fatalf("snapshot mismatch: got %+v want %+v", got.Snapshot, fixture.Snapshot)
	}
	if !got.CreatedAt.Equal(fixture.CreatedAt) {
		t.Fatalf("created timestamp mismatch: %v", got.CreatedAt)
	}

	if count, _ := adapter.CountScreens(ctx); count != 1 {
		t.Fatalf("expected one screen, got %d", count)
	}
	if err := adapter.DeleteScreen(ctx, "screen-a"); err != nil {
		t.Fatalf("DeleteScreen returned error: %v", err)
	}
	if _, err := adapter.GetScreen(ctx, "screen-a"); err == nil {
		t.Fatalf("expected error for deleted screen")
	}
}

func TestScreenStoreAdapterMapsNotFound(t *testing.T) {
	factory := testfixtures.NewServiceFactory()
	store := newScreenStoreAdapter(memory.NewScreenSessionStore(8, time.Minute))
	svc := factory.NewScreenService(testfixtures.ScreenServiceDeps{Store: store})

	if _, err := svc.View(context.Background(), "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJournalAdapters(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	harness := testfixtures.NewSQLiteHarness(t, clock)
	ctx := context.Background()

	writer := newJournalWriterAdapter(harness.Diagnostics)
	recorded := clock.Now()
	if err := writer.WriteEntry(ctx, diagnostics.Entry{
		Level:      diagnostics.LevelWarn,
		Screen:     "BookingScreen",
		Message:    "Date selection ignored",
		Payload:    `{"day":3}`,
		RecordedAt: recorded,
	}); err != nil {
		t.Fatalf("WriteEntry returned error: %v", err)
	}
	if err := writer.WriteEntry(ctx, diagnostics.Entry{Level: diagnostics.LevelInfo, Screen: "BookingScreen", Message: "Screen opened", RecordedAt: recorded.Add(time.Second)}); err != nil {
		t.Fatalf("WriteEntry returned error: %v", err)
	}

	journal := newDiagnosticsJournalAdapter(harness.Diagnostics)
	entries, err := journal.ListEntries(ctx, application.DiagnosticQuery{Level: "warn"})
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if entries[0].Message != "Date selection ignored" || entries[0].Payload != `{"day":3}` {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if !entries[0].RecordedAt.Equal(recorded) {
		t.Fatalf("recorded_at mismatch: %v", entries[0].RecordedAt)
	}

	removed, err := journal.DeleteEntriesBefore(ctx, recorded.Add(time.Millisecond))
	if err != nil {
		t.Fatalf("DeleteEntriesBefore returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one removed entry, got %d", removed)
	}
}

func TestOpenJournalWithoutDSN(t *testing.T) {
	repo, closeFn, err := openJournal(context.Background(), config.Config{}, time.Now, discardLogger())
	if err != nil {
		t.Fatalf("openJournal returned error: %v", err)
	}
	defer closeFn()
	if repo != nil {
		t.Fatalf("expected no journal without a DSN")
	}
}

func TestOpenJournalMigrates(t *testing.T) {
	cfg := config.Config{DiagnosticsDSN: t.TempDir() + "/journal.db"}
	repo, closeFn, err := openJournal(context.Background(), cfg, time.Now, discardLogger())
	if err != nil {
		t.Fatalf("openJournal returned error: %v", err)
	}
	defer closeFn()

	if _, err := repo.ListEntries(context.Background(), persistence.DiagnosticFilter{}); err != nil {
		t.Fatalf("expected migrated journal, got %v", err)
	}
}

func TestOpenSessionStoreDefaultsToMemory(t *testing.T) {
	store, closeFn, err := openSessionStore(context.Background(), config.Config{SessionStore: config.StoreMemory, MaxSessions: 4, SessionTTL: time.Minute}, discardLogger())
	if err != nil {
		t.Fatalf("openSessionStore returned error: %v", err)
	}
	defer closeFn()
	if _, ok := store.(*memory.ScreenSessionStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}
