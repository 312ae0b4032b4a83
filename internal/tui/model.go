// Package tui renders the booking screen in a terminal with bubbletea.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/booking-screen/internal/booking"
	"github.com/example/booking-screen/internal/navigation"
)

// Diagnostics is the slice of the diagnostics bridge used by the model.
type Diagnostics interface {
	SetScreen(name string)
	Info(message string, payload any)
	Warn(message string, payload any)
}

type focusArea int

const (
	focusCalendar focusArea = iota
	focusSlots
)

// Model drives one booking screen from key presses.
type Model struct {
	screen      *booking.Screen
	diagnostics Diagnostics
	host        navigation.Host

	focus      focusArea
	cursorDay  int
	cursorSlot int
	width      int
	status     string

	navigatedTo navigation.Screen
}

// New wraps screen. A nil diagnostics drops every entry.
func New(screen *booking.Screen, diagnostics Diagnostics) *Model {
	if diagnostics == nil {
		diagnostics = noopDiagnostics{}
	}
	m := &Model{screen: screen, diagnostics: diagnostics}
	m.host = navigation.HostFunc(func(to navigation.Screen) {
		m.navigatedTo = to
	})
	m.resetCursor()
	diagnostics.SetScreen(string(navigation.BookingScreen))
	diagnostics.Info("Screen opened", map[string]string{"month": screen.Machine().Month().Key()})
	return m
}

// NavigatedTo reports the screen the user left for, if any.
func (m *Model) NavigatedTo() (navigation.Screen, bool) {
	return m.navigatedTo, m.navigatedTo != ""
}

// Screen exposes the wrapped booking screen.
func (m *Model) Screen() *booking.Screen {
	return m.screen
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if _, pending := m.screen.Flow().Pending(); pending {
			return m.handleAcknowledgementKeys(msg)
		}
		return m.handleScreenKeys(msg)
	}
	return m, nil
}

// handleAcknowledgementKeys only accepts the single dismiss action.
func (m *Model) handleAcknowledgementKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "o":
		if m.screen.Dismiss(m.host) {
			m.diagnostics.Info("Acknowledgement dismissed", nil)
			m.diagnostics.Info("Navigating", map[string]string{"to": string(m.navigatedTo)})
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleScreenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	k := msg.String()

	switch k {
	case "q", "ctrl+c":
		m.diagnostics.Info("Screen left", nil)
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusCalendar {
			m.focus = focusSlots
		} else {
			m.focus = focusCalendar
		}
	case "[", "pgup":
		month := m.screen.PrevMonth()
		m.resetCursor()
		m.diagnostics.Info("Month changed", map[string]string{"month": month.Key()})
	case "]", "pgdown":
		month := m.screen.NextMonth()
		m.resetCursor()
		m.diagnostics.Info("Month changed", map[string]string{"month": month.Key()})
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "enter", " ":
		m.choose()
	case "c":
		if m.screen.Confirm() {
			m.diagnostics.Info("Booking confirmed", m.selectionPayload())
		} else {
			m.status = "Pick a date and a time first"
			m.diagnostics.Warn("Confirmation ignored", nil)
		}
	case "1", "2", "3":
		tab := navigation.Tabs[int(k[0]-'1')]
		m.diagnostics.Info("Tab pressed", map[string]string{"tab": string(tab)})
		if dest, ok := m.screen.PressTab(tab, m.host); ok {
			m.diagnostics.Info("Navigating", map[string]string{"to": string(dest)})
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == focusSlots {
		if delta == 7 || delta == 1 {
			delta = 1
		} else {
			delta = -1
		}
		count := m.screen.Machine().Catalog().Len()
		m.cursorSlot = clamp(m.cursorSlot+delta, 0, count-1)
		return
	}
	days := m.screen.Machine().Month().Days()
	m.cursorDay = clamp(m.cursorDay+delta, 1, days)
}

func (m *Model) choose() {
	machine := m.screen.Machine()
	if m.focus == focusSlots {
		slot := machine.Catalog().Slots()[m.cursorSlot]
		if m.screen.SelectTime(slot) {
			m.diagnostics.Info("Time selected", map[string]string{"time": string(slot)})
		} else {
			m.diagnostics.Warn("Time selection ignored", map[string]string{"time": string(slot)})
		}
		return
	}

	month := machine.Month()
	payload := map[string]any{"year": month.Year, "month_index": month.Index, "day": m.cursorDay}
	if m.screen.SelectDate(m.cursorDay) {
		m.diagnostics.Info("Date selected", payload)
		return
	}
	m.status = "That date cannot be booked"
	m.diagnostics.Warn("Date selection ignored", payload)
}

// resetCursor puts the day cursor on today when today is displayed, else on the 1st.
func (m *Model) resetCursor() {
	machine := m.screen.Machine()
	today := machine.Validator().Today()
	m.cursorDay = 1
	if today.Month() == machine.Month() {
		m.cursorDay = today.Day
	}
}

func (m *Model) selectionPayload() map[string]string {
	state := m.screen.Machine().State()
	payload := map[string]string{}
	if state.SelectedDate != nil {
		payload["date"] = state.SelectedDate.ISO()
	}
	if state.SelectedTime != nil {
		payload["time"] = string(*state.SelectedTime)
	}
	return payload
}

func (m *Model) View() string {
	view := m.screen.View()
	var b strings.Builder

	b.WriteString(monthHeaderStyle.Render(view.MonthLabel))
	b.WriteString("\n\n")
	for _, day := range view.Weekdays {
		b.WriteString(weekdayStyle.Render(day))
	}
	b.WriteString("\n")
	b.WriteString(m.renderGrid(view))
	b.WriteString("\n")

	b.WriteString(m.renderSlots(view))
	b.WriteString("\n")

	if view.Summary != nil {
		b.WriteString(summaryStyle.Render(fmt.Sprintf("%s at %s", view.Summary.LongDate, view.Summary.Time)))
		b.WriteString("\n\n")
	}

	b.WriteString(renderButton(view.Button))
	b.WriteString("\n\n")

	if view.Acknowledgement != nil {
		ack := view.Acknowledgement
		b.WriteString(dialogStyle.Render(fmt.Sprintf("%s\n\n%s\n\n[%s]", ack.Title, ack.Message, ack.Action)))
		b.WriteString("\n\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(view.HelpText))
	b.WriteString("\n\n")
	b.WriteString(renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar(view.Acknowledgement != nil))

	return frameStyle.Render(b.String())
}

func (m *Model) renderGrid(view booking.View) string {
	var b strings.Builder
	for _, week := range view.Weeks {
		for _, day := range week {
			if day.Empty {
				b.WriteString(dayStyle.Render(""))
				continue
			}
			label := fmt.Sprintf("%d", day.Day)
			switch {
			case day.Selected:
				b.WriteString(selectedDayStyle.Render(label))
			case m.focus == focusCalendar && day.Day == m.cursorDay:
				b.WriteString(cursorDayStyle.Render(label))
			case day.Past:
				b.WriteString(pastDayStyle.Render(label))
			default:
				b.WriteString(dayStyle.Render(label))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderSlots(view booking.View) string {
	var b strings.Builder
	for i, slot := range view.Slots {
		prefix := "  "
		if m.focus == focusSlots && i == m.cursorSlot {
			prefix = cursorMarker
		}
		label := string(slot.Slot)
		if slot.Selected {
			label = selectedSlotStyle.Render(label + " ✓")
		}
		b.WriteString(prefix)
		b.WriteString(slotStyle.Render(label))
		b.WriteString("\n")
	}
	return b.String()
}

func renderButton(button booking.ConfirmButton) string {
	switch {
	case button.Confirmed:
		return confirmedButtonStyle.Render(button.Label)
	case button.Enabled:
		return buttonStyle.Render(button.Label)
	default:
		return disabledButtonStyle.Render(button.Label)
	}
}

func renderTabs() string {
	parts := make([]string, 0, len(navigation.Tabs))
	for i, tab := range navigation.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == navigation.TabBookings {
			parts = append(parts, activeTab.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return strings.Join(parts, "")
}

func (m *Model) renderHelpBar(acknowledging bool) string {
	if acknowledging {
		return keyStyle.Render("enter") + helpStyle.Render(" dismiss")
	}
	keys := []struct{ key, desc string }{
		{"←↑↓→", "move"},
		{"enter", "select"},
		{"tab", "dates/times"},
		{"[ ]", "month"},
		{"c", "confirm"},
		{"1-3", "tabs"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, keyStyle.Render(k.key)+helpStyle.Render(" "+k.desc))
	}
	return strings.Join(parts, "  ")
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

type noopDiagnostics struct{}

func (noopDiagnostics) SetScreen(string) {}
func (noopDiagnostics) Info(string, any) {}
func (noopDiagnostics) Warn(string, any) {}
