package booking

import "github.com/example/booking-screen/internal/calendar"

// Phase names where a selection stands.
type Phase int

const (
	PhaseNoSelection Phase = iota
	// PhaseTimeChosen covers a time picked before any date.
	PhaseTimeChosen
	PhaseDateChosen
	PhaseDateAndTimeChosen
	PhaseConfirmed
)

func (p Phase) String() string {
	switch p {
	case PhaseNoSelection:
		return "no_selection"
	case PhaseTimeChosen:
		return "time_chosen"
	case PhaseDateChosen:
		return "date_chosen"
	case PhaseDateAndTimeChosen:
		return "date_and_time_chosen"
	case PhaseConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// State is the in-progress selection. Confirmed implies both fields are set.
type State struct {
	SelectedDate *calendar.Date
	SelectedTime *TimeSlot
	Confirmed    bool
}

// Phase derives the phase from the selection.
func (s State) Phase() Phase {
	switch {
	case s.Confirmed:
		return PhaseConfirmed
	case s.SelectedDate != nil && s.SelectedTime != nil:
		return PhaseDateAndTimeChosen
	case s.SelectedDate != nil:
		return PhaseDateChosen
	case s.SelectedTime != nil:
		return PhaseTimeChosen
	default:
		return PhaseNoSelection
	}
}

// Ready reports whether the selection may be confirmed.
func (s State) Ready() bool {
	return s.SelectedDate != nil && s.SelectedTime != nil && !s.Confirmed
}

func (s State) clone() State {
	out := State{Confirmed: s.Confirmed}
	if s.SelectedDate != nil {
		d := *s.SelectedDate
		out.SelectedDate = &d
	}
	if s.SelectedTime != nil {
		t := *s.SelectedTime
		out.SelectedTime = &t
	}
	return out
}

// Machine owns one screen's selection and the rules for changing it. Rejected
// transitions are no-ops and report false; none of them fail.
type Machine struct {
	validator *calendar.Validator
	catalog   *Catalog
	month     calendar.Month
	state     State
}

// NewMachine starts an empty selection displaying the current month. Nil
// arguments fall back to a local-time validator and the default catalog.
func NewMachine(validator *calendar.Validator, catalog *Catalog) *Machine {
	if validator == nil {
		validator = calendar.NewValidator(nil, nil)
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Machine{
		validator: validator,
		catalog:   catalog,
		month:     validator.Today().Month(),
	}
}

// Month returns the displayed month.
func (m *Machine) Month() calendar.Month {
	return m.month
}

// State returns a copy of the selection.
func (m *Machine) State() State {
	return m.state.clone()
}

// Catalog returns the slots the machine accepts.
func (m *Machine) Catalog() *Catalog {
	return m.catalog
}

// Validator returns the date validator in use.
func (m *Machine) Validator() *calendar.Validator {
	return m.validator
}

// NextMonth displays the following month. The selection is untouched.
func (m *Machine) NextMonth() calendar.Month {
	m.month = m.month.Next()
	return m.month
}

// PrevMonth displays the preceding month. The selection is untouched.
func (m *Machine) PrevMonth() calendar.Month {
	m.month = m.month.Prev()
	return m.month
}

// ShowMonth displays an arbitrary month. The selection is untouched.
func (m *Machine) ShowMonth(month calendar.Month) {
	m.month = calendar.NewMonth(month.Year, month.Index)
}

// Selectable reports whether day of the displayed month would be accepted by SelectDate.
func (m *Machine) Selectable(day int) bool {
	if m.state.Confirmed || !m.month.Contains(day) {
		return false
	}
	return !m.validator.IsPast(m.month.Year, m.month.Index, day)
}

// SelectDate picks day of the displayed month. Padding, out of range and past
// days are ignored, as is any change once confirmed. A new date clears
// confirmation and keeps the chosen time.
func (m *Machine) SelectDate(day int) bool {
	if !m.Selectable(day) {
		return false
	}
	date := calendar.Date{Year: m.month.Year, MonthIndex: m.month.Index, Day: day}
	m.state.SelectedDate = &date
	m.state.Confirmed = false
	return true
}

// SelectTime picks a slot from the catalog. Unknown slots and changes after
// confirmation are ignored.
func (m *Machine) SelectTime(slot TimeSlot) bool {
	if m.state.Confirmed || !m.catalog.Contains(slot) {
		return false
	}
	m.state.SelectedTime = &slot
	return true
}

// Confirm finalises the selection when both a date and a time are chosen and
// the selection is not already confirmed.
func (m *Machine) Confirm() bool {
	if !m.state.Ready() {
		return false
	}
	m.state.Confirmed = true
	return true
}

// IsSelected reports whether day of the displayed month is the selected date.
func (m *Machine) IsSelected(day int) bool {
	return calendar.IsSameDate(m.state.SelectedDate, m.month.Year, m.month.Index, day)
}
