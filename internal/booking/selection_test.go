package booking_test

import (
	"testing"
	"time"

	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/calendar"
	"github.com/example/booking-screen/internal/testfixtures"
)

// newMachine returns a machine whose today is 10 January 2024.
func newMachine(t *testing.T) *booking.Machine {
	t.Helper()
	clock := testfixtures.NewClock(time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC))
	return booking.NewMachine(calendar.NewValidator(clock.NowFunc(), time.UTC), booking.DefaultCatalog())
}

func TestMachine_StartsEmpty(t *testing.T) {
	m := newMachine(t)

	if m.Month() != (calendar.Month{Year: 2024, Index: 0}) {
		t.Fatalf("expected to display January 2024, got %+v", m.Month())
	}
	state := m.State()
	if state.SelectedDate != nil || state.SelectedTime != nil || state.Confirmed {
		t.Fatalf("expected empty state, got %+v", state)
	}
	if state.Phase() != booking.PhaseNoSelection {
		t.Fatalf("unexpected phase %s", state.Phase())
	}
}

func TestMachine_SelectDate(t *testing.T) {
	t.Run("past day is ignored", func(t *testing.T) {
		m := newMachine(t)
		if !m.SelectDate(12) {
			t.Fatalf("expected future day to be accepted")
		}
		if m.SelectDate(9) {
			t.Fatalf("expected past day to be rejected")
		}
		if got := m.State().SelectedDate; got == nil || got.Day != 12 {
			t.Fatalf("expected selection to stay on the 12th, got %+v", got)
		}
	})

	t.Run("today is selectable", func(t *testing.T) {
		m := newMachine(t)
		if !m.SelectDate(10) {
			t.Fatalf("expected today to be accepted")
		}
	})

	t.Run("padding and out of range days are ignored", func(t *testing.T) {
		m := newMachine(t)
		for _, day := range []int{0, -1, 32} {
			if m.SelectDate(day) {
				t.Fatalf("expected day %d to be rejected", day)
			}
		}
		m.NextMonth()
		if m.SelectDate(30) {
			t.Fatalf("expected 30 February to be rejected")
		}
		if m.State().SelectedDate != nil {
			t.Fatalf("expected no selection")
		}
	})

	t.Run("new date keeps the time", func(t *testing.T) {
		m := newMachine(t)
		m.SelectDate(15)
		m.SelectTime("10:00 AM")
		m.SelectDate(16)

		state := m.State()
		if state.SelectedTime == nil || *state.SelectedTime != "10:00 AM" {
			t.Fatalf("expected time to be retained, got %+v", state.SelectedTime)
		}
		if state.Confirmed {
			t.Fatalf("expected confirmation to be clear")
		}
	})

	t.Run("date selected in another month is kept across navigation", func(t *testing.T) {
		m := newMachine(t)
		m.NextMonth()
		m.SelectDate(3)
		m.NextMonth()
		if m.IsSelected(3) {
			t.Fatalf("expected March 3 not to be highlighted")
		}
		m.PrevMonth()
		if !m.IsSelected(3) {
			t.Fatalf("expected February 3 to be highlighted again")
		}
		want := calendar.Date{Year: 2024, MonthIndex: 1, Day: 3}
		if got := m.State().SelectedDate; got == nil || *got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("state copies do not alias the machine", func(t *testing.T) {
		m := newMachine(t)
		m.SelectDate(20)
		state := m.State()
		state.SelectedDate.Day = 1
		if m.State().SelectedDate.Day != 20 {
			t.Fatalf("expected machine state to be unaffected")
		}
	})
}

func TestMachine_SelectTime(t *testing.T) {
	m := newMachine(t)

	if m.SelectTime("01:00 PM") {
		t.Fatalf("expected slot outside the catalog to be rejected")
	}
	if !m.SelectTime("09:00 AM") {
		t.Fatalf("expected catalog slot to be accepted")
	}
	if m.State().Phase() != booking.PhaseTimeChosen {
		t.Fatalf("unexpected phase %s", m.State().Phase())
	}
	if !m.SelectTime("05:00 PM") {
		t.Fatalf("expected time to be changeable before confirmation")
	}
	if got := m.State().SelectedTime; got == nil || *got != "05:00 PM" {
		t.Fatalf("unexpected time %+v", got)
	}
}

func TestMachine_Confirm(t *testing.T) {
	t.Run("requires date and time", func(t *testing.T) {
		m := newMachine(t)
		if m.Confirm() {
			t.Fatalf("expected confirm without selection to be rejected")
		}
		m.SelectDate(15)
		if m.Confirm() {
			t.Fatalf("expected confirm without time to be rejected")
		}
		if m.State().Phase() != booking.PhaseDateChosen {
			t.Fatalf("unexpected phase %s", m.State().Phase())
		}

		other := newMachine(t)
		other.SelectTime("10:00 AM")
		if other.Confirm() {
			t.Fatalf("expected confirm without date to be rejected")
		}
	})

	t.Run("select then confirm then inert", func(t *testing.T) {
		m := newMachine(t)
		if !m.SelectDate(15) || !m.SelectTime("10:00 AM") {
			t.Fatalf("expected selections to be accepted")
		}
		if m.State().Phase() != booking.PhaseDateAndTimeChosen {
			t.Fatalf("unexpected phase %s", m.State().Phase())
		}
		if !m.Confirm() {
			t.Fatalf("expected confirm to succeed")
		}
		if !m.State().Confirmed {
			t.Fatalf("expected confirmed state")
		}

		if m.SelectDate(20) {
			t.Fatalf("expected date selection to be inert once confirmed")
		}
		if m.SelectTime("11:00 AM") {
			t.Fatalf("expected time selection to be inert once confirmed")
		}
		state := m.State()
		if state.SelectedDate.Day != 15 || *state.SelectedTime != "10:00 AM" || !state.Confirmed {
			t.Fatalf("expected state to be unchanged, got %+v", state)
		}
	})

	t.Run("confirm twice equals confirm once", func(t *testing.T) {
		m := newMachine(t)
		m.SelectDate(15)
		m.SelectTime("10:00 AM")
		m.Confirm()
		once := m.State()

		if m.Confirm() {
			t.Fatalf("expected second confirm to be a no-op")
		}
		twice := m.State()
		if *once.SelectedDate != *twice.SelectedDate || *once.SelectedTime != *twice.SelectedTime || once.Confirmed != twice.Confirmed {
			t.Fatalf("expected identical state, got %+v and %+v", once, twice)
		}
	})

	t.Run("navigation stays available after confirmation", func(t *testing.T) {
		m := newMachine(t)
		m.SelectDate(15)
		m.SelectTime("10:00 AM")
		m.Confirm()
		if got := m.NextMonth(); got != (calendar.Month{Year: 2024, Index: 1}) {
			t.Fatalf("unexpected month %+v", got)
		}
		if !m.State().Confirmed {
			t.Fatalf("expected navigation to keep confirmation")
		}
	})
}

func TestMachine_NavigationSequence(t *testing.T) {
	m := newMachine(t)
	m.SelectDate(25)
	before := *m.State().SelectedDate

	seen := []int{m.Month().Index}
	for i := 0; i < 3; i++ {
		seen = append(seen, m.NextMonth().Index)
	}
	for i, want := range []int{0, 1, 2, 3} {
		if seen[i] != want {
			t.Fatalf("expected month sequence [0 1 2 3], got %v", seen)
		}
	}
	if *m.State().SelectedDate != before {
		t.Fatalf("expected selection to survive navigation")
	}
}

func TestMachine_PastMonthIsNotSelectable(t *testing.T) {
	m := newMachine(t)
	m.PrevMonth()
	for day := 1; day <= 31; day++ {
		if m.Selectable(day) {
			t.Fatalf("expected December 2023 day %d to be past", day)
		}
	}
}
