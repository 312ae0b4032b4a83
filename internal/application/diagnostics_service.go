package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const maxDiagnosticsLimit = 500

var validDiagnosticLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// DiagnosticsJournal captures the journal operations needed by the service.
type DiagnosticsJournal interface {
	ListEntries(ctx context.Context, query DiagnosticQuery) ([]DiagnosticEntry, error)
	DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DiagnosticsService reads and prunes the diagnostics journal.
type DiagnosticsService struct {
	journal DiagnosticsJournal
	now     func() time.Time
	logger  *slog.Logger
}

// NewDiagnosticsService constructs the service. A nil journal makes every
// call return ErrJournalUnavailable.
func NewDiagnosticsService(journal DiagnosticsJournal, now func() time.Time, logger *slog.Logger) *DiagnosticsService {
	if now == nil {
		now = time.Now
	}
	return &DiagnosticsService{journal: journal, now: now, logger: defaultLogger(logger)}
}

func (s *DiagnosticsService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DiagnosticsService", operation, attrs...)
}

// ListDiagnostics returns journal entries, newest first.
func (s *DiagnosticsService) ListDiagnostics(ctx context.Context, query DiagnosticQuery) (entries []DiagnosticEntry, err error) {
	if s == nil || s.journal == nil {
		err = ErrJournalUnavailable
		return
	}

	logger := s.loggerWith(ctx, "ListDiagnostics", "screen", query.Screen, "level", query.Level)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list diagnostics", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("count", len(entries)).DebugContext(ctx, "diagnostics listed")
	}()

	query.Screen = strings.TrimSpace(query.Screen)
	query.Level = strings.ToLower(strings.TrimSpace(query.Level))

	vErr := &ValidationError{}
	if query.Level != "" {
		if _, ok := validDiagnosticLevels[query.Level]; !ok {
			vErr.add("level", "level must be one of debug, info, warn, error")
		}
	}
	if query.Limit < 0 {
		vErr.add("limit", "limit cannot be negative")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if query.Limit > maxDiagnosticsLimit {
		query.Limit = maxDiagnosticsLimit
	}

	entries, err = s.journal.ListEntries(ctx, query)
	if err != nil {
		err = fmt.Errorf("diagnostics journal: %w", err)
		return
	}
	if entries == nil {
		entries = []DiagnosticEntry{}
	}
	return
}

// Prune deletes entries older than retention and reports how many went.
func (s *DiagnosticsService) Prune(ctx context.Context, retention time.Duration) (removed int64, err error) {
	if s == nil || s.journal == nil {
		err = ErrJournalUnavailable
		return
	}
	if retention <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-retention)
	logger := s.loggerWith(ctx, "Prune", "cutoff", cutoff)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to prune diagnostics", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("removed", removed).InfoContext(ctx, "diagnostics pruned")
	}()

	removed, err = s.journal.DeleteEntriesBefore(ctx, cutoff)
	if err != nil {
		err = fmt.Errorf("diagnostics journal: %w", err)
	}
	return
}
