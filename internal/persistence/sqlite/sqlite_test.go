package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/booking-screen/internal/persistence"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "diagnostics.db")
	pool, err := NewConnectionPool(DefaultConfig(dsn))
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	t.Cleanup(func() {
		_ = pool.Close()
	})

	if _, err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return pool
}

func TestConfigValidation(t *testing.T) {
	t.Run("empty dsn", func(t *testing.T) {
		_, err := NewConnectionPool(Config{})
		require.Error(t, err)
	})

	t.Run("negative busy timeout", func(t *testing.T) {
		cfg := InMemoryConfig()
		cfg.BusyTimeout = -time.Second
		_, err := NewConnectionPool(cfg)
		require.Error(t, err)
	})

	t.Run("in memory", func(t *testing.T) {
		pool, err := NewConnectionPool(InMemoryConfig())
		require.NoError(t, err)
		defer pool.Close()
		require.NoError(t, pool.Ping(context.Background()))
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)

	versions, err := pool.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, versions)

	applied, err := pool.Migrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run should apply nothing")
}

func TestMigrationsAreOrdered(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "create diagnostic entries", migrations[0].Description)
	assert.Equal(t, "002", migrations[1].Version)
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	sentinel := errors.New("boom")

	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostic_entries (level, screen, message, payload, recorded_at)
			VALUES ('info', 'BookingScreen', 'lost', '', '2024-01-10T10:00:00Z')`); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, pool.DB().QueryRowContext(ctx, `SELECT COUNT(1) FROM diagnostic_entries`).Scan(&count))
	assert.Zero(t, count)
}

func TestDiagnosticsRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	base := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
	repo := NewDiagnosticsRepository(pool, func() time.Time { return base })

	t.Run("append assigns id and timestamp", func(t *testing.T) {
		entry, err := repo.AppendEntry(ctx, persistence.DiagnosticEntry{
			Level:   "info",
			Screen:  "BookingScreen",
			Message: "Date selected",
			Payload: `{"date":"2024-01-15"}`,
		})
		require.NoError(t, err)
		assert.NotZero(t, entry.ID)
		assert.True(t, entry.RecordedAt.Equal(base))
	})

	t.Run("append rejects empty message", func(t *testing.T) {
		_, err := repo.AppendEntry(ctx, persistence.DiagnosticEntry{Level: "info", Screen: "BookingScreen"})
		require.ErrorIs(t, err, persistence.ErrConstraintViolation)
	})

	t.Run("append rejects unknown level", func(t *testing.T) {
		_, err := repo.AppendEntry(ctx, persistence.DiagnosticEntry{Level: "fatal", Screen: "BookingScreen", Message: "x"})
		require.Error(t, err)
	})

	_, err := repo.AppendEntry(ctx, persistence.DiagnosticEntry{
		Level: "warn", Screen: "HomeScreen", Message: "Tab pressed", RecordedAt: base.Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.AppendEntry(ctx, persistence.DiagnosticEntry{
		Level: "info", Screen: "BookingScreen", Message: "Booking confirmed", RecordedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	t.Run("list newest first", func(t *testing.T) {
		entries, err := repo.ListEntries(ctx, persistence.DiagnosticFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "Booking confirmed", entries[0].Message)
		assert.Equal(t, "Tab pressed", entries[2].Message)
	})

	t.Run("list filters", func(t *testing.T) {
		entries, err := repo.ListEntries(ctx, persistence.DiagnosticFilter{Screen: "BookingScreen"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		entries, err = repo.ListEntries(ctx, persistence.DiagnosticFilter{Level: "warn"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "HomeScreen", entries[0].Screen)

		since := base
		entries, err = repo.ListEntries(ctx, persistence.DiagnosticFilter{Since: &since, Limit: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Booking confirmed", entries[0].Message)
	})

	t.Run("delete before cutoff", func(t *testing.T) {
		removed, err := repo.DeleteEntriesBefore(ctx, base.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, removed)

		entries, err := repo.ListEntries(ctx, persistence.DiagnosticFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}
