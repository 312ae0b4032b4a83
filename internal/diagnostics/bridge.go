// Package diagnostics is a fire-and-forget telemetry bridge. Callers tag
// entries with the current screen; a sink decides where they end up. Nothing
// in the booking core depends on entries being delivered.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Level is the severity of an entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel accepts the long names and the single letters d, i, w and e.
func ParseLevel(value string) (Level, bool) {
	switch value {
	case "debug", "d":
		return LevelDebug, true
	case "info", "i":
		return LevelInfo, true
	case "warn", "w":
		return LevelWarn, true
	case "error", "e":
		return LevelError, true
	default:
		return LevelDebug, false
	}
}

// DefaultScreen tags entries logged before SetScreen is called.
const DefaultScreen = "Unknown"

// Sink receives entries that passed the bridge.
type Sink interface {
	Log(level Level, screen, message, payload string)
}

// Toggler is implemented by sinks that track the enabled flag themselves.
type Toggler interface {
	SetEnabled(enabled bool)
}

// Bridge tags entries with the current screen and forwards them to a sink.
// Entries are dropped when the bridge is disabled or has no sink.
type Bridge struct {
	mu      sync.RWMutex
	sink    Sink
	screen  string
	enabled bool
}

// NewBridge returns a bridge with no sink. enabled sets the initial flag.
func NewBridge(enabled bool) *Bridge {
	return &Bridge{screen: DefaultScreen, enabled: enabled}
}

// Init binds sink, replacing any previous one without closing it.
func (b *Bridge) Init(sink Sink) {
	b.mu.Lock()
	b.sink = sink
	enabled := b.enabled
	b.mu.Unlock()

	if t, ok := sink.(Toggler); ok {
		t.SetEnabled(enabled)
	}
}

// Shutdown unbinds the sink and closes it when it is an io.Closer.
func (b *Bridge) Shutdown() error {
	b.mu.Lock()
	sink := b.sink
	b.sink = nil
	b.mu.Unlock()

	if closer, ok := sink.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SetScreen updates the screen tag attached to subsequent entries.
func (b *Bridge) SetScreen(name string) {
	b.mu.Lock()
	b.screen = name
	b.mu.Unlock()
}

// Screen returns the current screen tag.
func (b *Bridge) Screen() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.screen
}

// SetEnabled toggles emission and forwards the flag to sinks that track it.
func (b *Bridge) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	sink := b.sink
	b.mu.Unlock()

	if t, ok := sink.(Toggler); ok {
		t.SetEnabled(enabled)
	}
}

// Enabled reports whether entries are emitted.
func (b *Bridge) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

func (b *Bridge) Debug(message string, payload any) { b.Log(LevelDebug, message, payload) }
func (b *Bridge) Info(message string, payload any)  { b.Log(LevelInfo, message, payload) }
func (b *Bridge) Warn(message string, payload any)  { b.Log(LevelWarn, message, payload) }
func (b *Bridge) Error(message string, payload any) { b.Log(LevelError, message, payload) }

// Log forwards an entry. A nil bridge drops everything.
func (b *Bridge) Log(level Level, message string, payload any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	sink, screen, enabled := b.sink, b.screen, b.enabled
	b.mu.RUnlock()

	if !enabled || sink == nil {
		return
	}
	sink.Log(level, screen, message, SerializePayload(payload))
}

// SerializePayload renders nil as "", strings verbatim and anything else as JSON.
func SerializePayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

// Format renders an entry the way the device log shows it.
func Format(screen, message, payload string) string {
	if payload == "" {
		return "[" + screen + "] " + message
	}
	return "[" + screen + "] " + message + " | data=" + payload
}
