package application

import (
	"time"

	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/navigation"
)

// ScreenRecord is the stored state of one open booking screen.
type ScreenRecord struct {
	ID        string
	Snapshot  booking.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScreenResult is returned by operations that only read or move the calendar.
type ScreenResult struct {
	ID   string
	View booking.View
}

// TransitionResult reports the outcome of a user action on a screen.
// NavigateTo is set when the action handed off to another screen, in which
// case the screen has been discarded.
type TransitionResult struct {
	ID         string
	Applied    bool
	NavigateTo navigation.Screen
	View       booking.View
}

// Navigated reports whether the action left the booking screen.
func (r TransitionResult) Navigated() bool {
	return r.NavigateTo != ""
}

// DiagnosticEntry is one journal line.
type DiagnosticEntry struct {
	ID         int64
	Level      string
	Screen     string
	Message    string
	Payload    string
	RecordedAt time.Time
}

// DiagnosticQuery filters journal reads. Zero values match everything.
type DiagnosticQuery struct {
	Screen string
	Level  string
	Since  *time.Time
	Limit  int
}
