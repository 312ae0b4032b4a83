package booking

import (
	"errors"
	"fmt"

	"github.com/example/booking-screen/internal/calendar"
	"github.com/example/booking-screen/internal/navigation"
)

// HelpText is shown beneath the confirm button.
const HelpText = "Cancellations can be made up to 24 hours before your booking"

// Screen is one instance of the booking screen: the displayed month, the
// selection and the confirmation flow. It is created on entry and discarded
// on exit.
type Screen struct {
	machine *Machine
	flow    *Flow
}

// NewScreen opens a screen with a fresh selection.
func NewScreen(validator *calendar.Validator, catalog *Catalog) *Screen {
	machine := NewMachine(validator, catalog)
	return &Screen{machine: machine, flow: NewFlow(machine)}
}

// Machine exposes the selection state machine.
func (s *Screen) Machine() *Machine {
	return s.machine
}

// Flow exposes the confirmation flow.
func (s *Screen) Flow() *Flow {
	return s.flow
}

// Finished reports whether the screen has handed control back to navigation.
func (s *Screen) Finished() bool {
	return s.flow.Stage() == StageFinished
}

// NextMonth displays the following month.
func (s *Screen) NextMonth() calendar.Month { return s.machine.NextMonth() }

// PrevMonth displays the preceding month.
func (s *Screen) PrevMonth() calendar.Month { return s.machine.PrevMonth() }

// SelectDate forwards to the machine.
func (s *Screen) SelectDate(day int) bool { return s.machine.SelectDate(day) }

// SelectTime forwards to the machine.
func (s *Screen) SelectTime(slot TimeSlot) bool { return s.machine.SelectTime(slot) }

// Confirm forwards to the flow.
func (s *Screen) Confirm() bool { return s.flow.Confirm() }

// Dismiss forwards to the flow.
func (s *Screen) Dismiss(host navigation.Host) bool { return s.flow.Dismiss(host) }

// PressTab activates a bottom tab. Tabs leading elsewhere navigate host once
// and report the destination; the Bookings tab stays put.
func (s *Screen) PressTab(tab navigation.Tab, host navigation.Host) (navigation.Screen, bool) {
	dest, ok := tab.Destination()
	if !ok {
		return "", false
	}
	if host != nil {
		host.Navigate(dest)
	}
	return dest, true
}

// Snapshot is a serialisable copy of a screen.
type Snapshot struct {
	Year         int    `json:"year"`
	MonthIndex   int    `json:"month_index"`
	SelectedDate string `json:"selected_date,omitempty"`
	SelectedTime string `json:"selected_time,omitempty"`
	Confirmed    bool   `json:"confirmed"`
	Stage        string `json:"stage"`
}

// ErrInvalidSnapshot is returned when a snapshot cannot be restored.
var ErrInvalidSnapshot = errors.New("booking: invalid snapshot")

// Snapshot captures the screen.
func (s *Screen) Snapshot() Snapshot {
	month := s.machine.Month()
	state := s.machine.State()
	snap := Snapshot{
		Year:       month.Year,
		MonthIndex: month.Index,
		Confirmed:  state.Confirmed,
		Stage:      s.flow.Stage().String(),
	}
	if state.SelectedDate != nil {
		snap.SelectedDate = state.SelectedDate.ISO()
	}
	if state.SelectedTime != nil {
		snap.SelectedTime = string(*state.SelectedTime)
	}
	return snap
}

// RestoreScreen rebuilds a screen from a snapshot, checking it against the
// same rules the machine enforces.
func RestoreScreen(snap Snapshot, validator *calendar.Validator, catalog *Catalog) (*Screen, error) {
	screen := NewScreen(validator, catalog)
	if snap.MonthIndex < 0 || snap.MonthIndex > 11 {
		return nil, fmt.Errorf("%w: month index %d", ErrInvalidSnapshot, snap.MonthIndex)
	}
	screen.machine.month = calendar.Month{Year: snap.Year, Index: snap.MonthIndex}

	var state State
	if snap.SelectedDate != "" {
		date, err := calendar.ParseISODate(snap.SelectedDate)
		if err != nil {
			return nil, fmt.Errorf("%w: selected date: %v", ErrInvalidSnapshot, err)
		}
		state.SelectedDate = &date
	}
	if snap.SelectedTime != "" {
		slot, ok := screen.machine.catalog.Lookup(snap.SelectedTime)
		if !ok {
			return nil, fmt.Errorf("%w: slot %q is not offered", ErrInvalidSnapshot, snap.SelectedTime)
		}
		state.SelectedTime = &slot
	}
	if snap.Confirmed && (state.SelectedDate == nil || state.SelectedTime == nil) {
		return nil, fmt.Errorf("%w: confirmed without date and time", ErrInvalidSnapshot)
	}
	state.Confirmed = snap.Confirmed

	stage, ok := ParseStage(snap.Stage)
	if !ok {
		return nil, fmt.Errorf("%w: stage %q", ErrInvalidSnapshot, snap.Stage)
	}
	if (stage != StageSelecting) != state.Confirmed {
		return nil, fmt.Errorf("%w: stage %s disagrees with confirmation", ErrInvalidSnapshot, stage)
	}

	screen.machine.state = state
	screen.flow.stage = stage
	return screen, nil
}
