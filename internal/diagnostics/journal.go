package diagnostics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Entry is a bridge record handed to an EntryWriter.
type Entry struct {
	Level      Level
	Screen     string
	Message    string
	Payload    string
	RecordedAt time.Time
}

// EntryWriter persists journal entries.
type EntryWriter interface {
	WriteEntry(ctx context.Context, entry Entry) error
}

// JournalSink records entries through an EntryWriter. Write failures are
// logged and never reach the caller.
type JournalSink struct {
	writer  EntryWriter
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration

	mu      sync.RWMutex
	enabled bool
	closed  bool
}

// NewJournalSink wraps writer. A nil logger uses slog.Default and a nil now uses time.Now.
func NewJournalSink(writer EntryWriter, logger *slog.Logger, now func() time.Time) *JournalSink {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &JournalSink{
		writer:  writer,
		logger:  logger.With("component", "diagnostics_journal"),
		now:     now,
		timeout: 2 * time.Second,
		enabled: true,
	}
}

// SetEnabled implements Toggler.
func (j *JournalSink) SetEnabled(enabled bool) {
	j.mu.Lock()
	j.enabled = enabled
	j.mu.Unlock()
}

// Log implements Sink.
func (j *JournalSink) Log(level Level, screen, message, payload string) {
	j.mu.RLock()
	active := j.enabled && !j.closed && j.writer != nil
	j.mu.RUnlock()
	if !active {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	entry := Entry{Level: level, Screen: screen, Message: message, Payload: payload, RecordedAt: j.now()}
	if err := j.writer.WriteEntry(ctx, entry); err != nil {
		j.logger.Warn("failed to record diagnostic entry", "error", err, "screen", screen, "level", level.String())
	}
}

// Close stops further writes. The writer itself is owned by the caller.
func (j *JournalSink) Close() error {
	j.mu.Lock()
	j.closed = true
	j.mu.Unlock()
	return nil
}
