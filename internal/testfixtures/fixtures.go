package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/booking-screen/internal/application"
	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/navigation"
	"github.com/example/booking-screen/internal/persistence"
)

var (
	screenCounter     uint64
	diagnosticCounter uint64
)

var referenceTime = time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Screen fixtures -----------------------------

// ScreenFixture represents a deterministic open booking screen that can be
// materialised for application or persistence tests.
type ScreenFixture struct {
	ID        string
	Snapshot  booking.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScreenOption configures the generated screen fixture.
type ScreenOption func(*ScreenFixture)

// NewScreenFixture returns a screen showing the reference month with nothing
// selected.
func NewScreenFixture(opts ...ScreenOption) ScreenFixture {
	idx := atomic.AddUint64(&screenCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ScreenFixture{
		ID: fmt.Sprintf("screen-%03d", idx),
		Snapshot: booking.Snapshot{
			Year:       referenceTime.Year(),
			MonthIndex: int(referenceTime.Month()) - 1,
			Stage:      booking.StageSelecting.String(),
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithScreenID overrides the generated screen ID.
func WithScreenID(id string) ScreenOption {
	return func(f *ScreenFixture) {
		f.ID = id
	}
}

// WithScreenMonth overrides the displayed month.
func WithScreenMonth(year, monthIndex int) ScreenOption {
	return func(f *ScreenFixture) {
		f.Snapshot.Year = year
		f.Snapshot.MonthIndex = monthIndex
	}
}

// WithScreenSelection sets the selected date (YYYY-MM-DD) and slot.
func WithScreenSelection(date string, slot booking.TimeSlot) ScreenOption {
	return func(f *ScreenFixture) {
		f.Snapshot.SelectedDate = date
		f.Snapshot.SelectedTime = string(slot)
	}
}

// WithScreenConfirmed marks the selection confirmed with the acknowledgement
// still pending.
func WithScreenConfirmed() ScreenOption {
	return func(f *ScreenFixture) {
		f.Snapshot.Confirmed = true
		f.Snapshot.Stage = booking.StageAwaitingAcknowledgement.String()
	}
}

// WithScreenTimestamps sets both created and updated timestamps.
func WithScreenTimestamps(created, updated time.Time) ScreenOption {
	return func(f *ScreenFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Record returns the fixture as an application.ScreenRecord value.
func (f ScreenFixture) Record() application.ScreenRecord {
	return application.ScreenRecord{
		ID:        f.ID,
		Snapshot:  f.Snapshot,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.ScreenSession value.
func (f ScreenFixture) Persistence() persistence.ScreenSession {
	return persistence.ScreenSession{
		ID:           f.ID,
		Year:         f.Snapshot.Year,
		MonthIndex:   f.Snapshot.MonthIndex,
		SelectedDate: f.Snapshot.SelectedDate,
		SelectedTime: f.Snapshot.SelectedTime,
		Confirmed:    f.Snapshot.Confirmed,
		Stage:        f.Snapshot.Stage,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// --------------------------- Diagnostic fixtures ---------------------------

// DiagnosticFixture represents one deterministic journal line.
type DiagnosticFixture struct {
	Level      string
	Screen     string
	Message    string
	Payload    string
	RecordedAt time.Time
}

// DiagnosticOption configures the generated diagnostic fixture.
type DiagnosticOption func(*DiagnosticFixture)

// NewDiagnosticFixture returns an info entry for the booking screen. Each call
// is recorded one second after the previous one.
func NewDiagnosticFixture(opts ...DiagnosticOption) DiagnosticFixture {
	idx := atomic.AddUint64(&diagnosticCounter, 1)
	fixture := DiagnosticFixture{
		Level:      "info",
		Screen:     string(navigation.BookingScreen),
		Message:    fmt.Sprintf("Event %03d", idx),
		RecordedAt: referenceTime.Add(time.Duration(idx) * time.Second),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithDiagnosticLevel overrides the entry level.
func WithDiagnosticLevel(level string) DiagnosticOption {
	return func(f *DiagnosticFixture) {
		f.Level = level
	}
}

// WithDiagnosticScreen overrides the screen the entry belongs to.
func WithDiagnosticScreen(screen string) DiagnosticOption {
	return func(f *DiagnosticFixture) {
		f.Screen = screen
	}
}

// WithDiagnosticMessage overrides the message and payload.
func WithDiagnosticMessage(message, payload string) DiagnosticOption {
	return func(f *DiagnosticFixture) {
		f.Message = message
		f.Payload = payload
	}
}

// WithDiagnosticRecordedAt overrides the recorded timestamp.
func WithDiagnosticRecordedAt(t time.Time) DiagnosticOption {
	return func(f *DiagnosticFixture) {
		f.RecordedAt = t
	}
}

// Persistence returns the fixture as a persistence.DiagnosticEntry value.
func (f DiagnosticFixture) Persistence() persistence.DiagnosticEntry {
	return persistence.DiagnosticEntry{
		Level:      f.Level,
		Screen:     f.Screen,
		Message:    f.Message,
		Payload:    f.Payload,
		RecordedAt: f.RecordedAt,
	}
}
