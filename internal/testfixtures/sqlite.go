package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/booking-screen/internal/persistence"
	"github.com/example/booking-screen/internal/persistence/sqlite"
)

// SQLiteHarness provides a migrated diagnostics journal backed by a temporary
// SQLite file for integration-style tests.
type SQLiteHarness struct {
	Pool        *sqlite.ConnectionPool
	Diagnostics persistence.DiagnosticsRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB, clock *Clock) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "diagnostics.db")
	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if _, err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:        pool,
		Diagnostics: sqlite.NewDiagnosticsRepository(pool, clock.NowFunc()),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// Seed appends each fixture to the journal and returns the stored entries.
func (h *SQLiteHarness) Seed(tb testing.TB, fixtures ...DiagnosticFixture) []persistence.DiagnosticEntry {
	tb.Helper()
	stored := make([]persistence.DiagnosticEntry, 0, len(fixtures))
	for _, fixture := range fixtures {
		entry, err := h.Diagnostics.AppendEntry(context.Background(), fixture.Persistence())
		if err != nil {
			tb.Fatalf("failed to seed diagnostic entry: %v", err)
		}
		stored = append(stored, entry)
	}
	return stored
}
