package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/booking-screen/internal/persistence"
)

const defaultListLimit = 100

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DiagnosticsRepository implements persistence.DiagnosticsRepository using SQLite.
type DiagnosticsRepository struct {
	pool *ConnectionPool
	now  func() time.Time
}

// NewDiagnosticsRepository creates a journal backed by pool. A nil now uses time.Now.
func NewDiagnosticsRepository(pool *ConnectionPool, now func() time.Time) *DiagnosticsRepository {
	if now == nil {
		now = time.Now
	}
	return &DiagnosticsRepository{pool: pool, now: now}
}

// AppendEntry stores entry and returns it with its assigned ID and timestamp.
func (r *DiagnosticsRepository) AppendEntry(ctx context.Context, entry persistence.DiagnosticEntry) (persistence.DiagnosticEntry, error) {
	if strings.TrimSpace(entry.Level) == "" || strings.TrimSpace(entry.Message) == "" {
		return persistence.DiagnosticEntry{}, persistence.ErrConstraintViolation
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = r.now()
	}
	entry.RecordedAt = entry.RecordedAt.UTC()

	result, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO diagnostic_entries (level, screen, message, payload, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Level, entry.Screen, entry.Message, entry.Payload,
		entry.RecordedAt.Format(timeLayout),
	)
	if err != nil {
		return persistence.DiagnosticEntry{}, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistence.DiagnosticEntry{}, fmt.Errorf("failed to read entry id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// ListEntries returns the newest entries first.
func (r *DiagnosticsRepository) ListEntries(ctx context.Context, filter persistence.DiagnosticFilter) ([]persistence.DiagnosticEntry, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Screen != "" {
		clauses = append(clauses, "screen = ?")
		args = append(args, filter.Screen)
	}
	if filter.Level != "" {
		clauses = append(clauses, "level = ?")
		args = append(args, filter.Level)
	}
	if filter.Since != nil {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := `SELECT id, level, screen, message, payload, recorded_at FROM diagnostic_entries`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY recorded_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.DiagnosticEntry
	for rows.Next() {
		var (
			entry      persistence.DiagnosticEntry
			recordedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.Level, &entry.Screen, &entry.Message, &entry.Payload, &recordedAt); err != nil {
			return nil, err
		}
		if entry.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteEntriesBefore prunes entries recorded before cutoff and reports how many went.
func (r *DiagnosticsRepository) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM diagnostic_entries WHERE recorded_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}
