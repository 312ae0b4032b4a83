package persistence

import (
	"context"
	"time"
)

// ScreenSessionRepository stores open booking screens.
type ScreenSessionRepository interface {
	SaveScreenSession(ctx context.Context, session ScreenSession) error
	GetScreenSession(ctx context.Context, id string) (ScreenSession, error)
	DeleteScreenSession(ctx context.Context, id string) error
	CountScreenSessions(ctx context.Context) (int, error)
}

// DiagnosticsRepository appends to and reads the diagnostics journal.
type DiagnosticsRepository interface {
	AppendEntry(ctx context.Context, entry DiagnosticEntry) (DiagnosticEntry, error)
	ListEntries(ctx context.Context, filter DiagnosticFilter) ([]DiagnosticEntry, error)
	DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
