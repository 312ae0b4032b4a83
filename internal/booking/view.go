package booking

import "github.com/example/booking-screen/internal/calendar"

// DayView is one rendered grid cell.
type DayView struct {
	Day      int
	Empty    bool
	Past     bool
	Selected bool
	Disabled bool
}

// SlotView is one rendered time slot.
type SlotView struct {
	Slot     TimeSlot
	Selected bool
	Disabled bool
}

// Summary describes a complete selection.
type Summary struct {
	Date      calendar.Date
	LongDate  string
	ShortDate string
	Time      TimeSlot
}

// ConfirmButton describes the confirm control.
type ConfirmButton struct {
	Label     string
	Enabled   bool
	Confirmed bool
}

// View is everything needed to draw the screen.
type View struct {
	Month           calendar.Month
	MonthLabel      string
	Weekdays        [7]string
	Weeks           [][7]DayView
	Slots           []SlotView
	Summary         *Summary
	Button          ConfirmButton
	Acknowledgement *Acknowledgement
	Phase           Phase
	Stage           Stage
	HelpText        string
}

// View renders the screen for the displayed month.
func (s *Screen) View() View {
	m := s.machine
	month := m.Month()
	state := m.State()
	grid := calendar.Build(month)

	view := View{
		Month:      month,
		MonthLabel: month.Label(),
		Weekdays:   calendar.Weekdays,
		Weeks:      make([][7]DayView, len(grid.Weeks)),
		Phase:      state.Phase(),
		Stage:      s.flow.Stage(),
		HelpText:   HelpText,
	}

	for w, week := range grid.Weeks {
		for c, cell := range week {
			if cell.Empty() {
				view.Weeks[w][c] = DayView{Empty: true, Disabled: true}
				continue
			}
			past := m.Validator().IsPast(month.Year, month.Index, cell.Day)
			view.Weeks[w][c] = DayView{
				Day:      cell.Day,
				Past:     past,
				Selected: m.IsSelected(cell.Day),
				Disabled: past || state.Confirmed,
			}
		}
	}

	for _, slot := range m.Catalog().Slots() {
		view.Slots = append(view.Slots, SlotView{
			Slot:     slot,
			Selected: state.SelectedTime != nil && *state.SelectedTime == slot,
			Disabled: state.Confirmed,
		})
	}

	if state.SelectedDate != nil && state.SelectedTime != nil {
		view.Summary = &Summary{
			Date:      *state.SelectedDate,
			LongDate:  state.SelectedDate.Long(),
			ShortDate: state.SelectedDate.Short(),
			Time:      *state.SelectedTime,
		}
	}

	view.Button = ConfirmButton{Label: "Confirm Booking", Enabled: state.Ready()}
	if state.Confirmed {
		view.Button = ConfirmButton{Label: "Booking Confirmed", Confirmed: true}
	}

	if ack, ok := s.flow.Pending(); ok {
		view.Acknowledgement = &ack
	}
	return view
}
