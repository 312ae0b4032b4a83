package diagnostics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Tag identifies bridge entries among other log output.
const Tag = "CWApp"

// SlogSink writes entries to a slog logger.
type SlogSink struct {
	logger *slog.Logger

	mu      sync.RWMutex
	enabled bool
}

// NewSlogSink wraps logger. A nil logger uses slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger.With("tag", Tag), enabled: true}
}

// SetEnabled implements Toggler.
func (s *SlogSink) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// Log implements Sink.
func (s *SlogSink) Log(level Level, screen, message, payload string) {
	s.mu.RLock()
	enabled := s.enabled
	s.mu.RUnlock()
	if !enabled {
		return
	}

	attrs := []any{"screen", screen}
	if payload != "" {
		attrs = append(attrs, "data", payload)
	}
	s.logger.Log(context.Background(), slogLevel(level), Format(screen, message, payload), attrs...)
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Tee fans entries out to several sinks.
type Tee []Sink

// Log implements Sink.
func (t Tee) Log(level Level, screen, message, payload string) {
	for _, sink := range t {
		if sink != nil {
			sink.Log(level, screen, message, payload)
		}
	}
}

// SetEnabled implements Toggler.
func (t Tee) SetEnabled(enabled bool) {
	for _, sink := range t {
		if toggler, ok := sink.(Toggler); ok {
			toggler.SetEnabled(enabled)
		}
	}
}

// Close closes every sink that is closable and joins their errors.
func (t Tee) Close() error {
	var errs []error
	for _, sink := range t {
		if closer, ok := sink.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
