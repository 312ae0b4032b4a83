package booking

import "github.com/example/booking-screen/internal/navigation"

// Stage tracks the confirmation flow around a selection.
type Stage int

const (
	StageSelecting Stage = iota
	StageAwaitingAcknowledgement
	StageFinished
)

func (s Stage) String() string {
	switch s {
	case StageSelecting:
		return "selecting"
	case StageAwaitingAcknowledgement:
		return "awaiting_acknowledgement"
	case StageFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ParseStage is the inverse of Stage.String.
func ParseStage(value string) (Stage, bool) {
	for _, s := range []Stage{StageSelecting, StageAwaitingAcknowledgement, StageFinished} {
		if s.String() == value {
			return s, true
		}
	}
	return StageSelecting, false
}

// Acknowledgement is the notice shown after a successful confirmation. It can
// only be closed through its single action.
type Acknowledgement struct {
	Title   string
	Message string
	Action  string
}

// BookingConfirmed is the acknowledgement raised by Flow.Confirm.
var BookingConfirmed = Acknowledgement{
	Title:   "Success",
	Message: "Your booking has been confirmed!. Check in My booking for making any changes later on",
	Action:  "OK",
}

// Flow drives confirmation and the hand-off to the navigation host.
type Flow struct {
	machine *Machine
	stage   Stage
}

// NewFlow wraps machine.
func NewFlow(machine *Machine) *Flow {
	return &Flow{machine: machine}
}

// Stage returns the current stage.
func (f *Flow) Stage() Stage {
	return f.stage
}

// Confirm confirms the selection and raises the acknowledgement. It reports
// false, changing nothing, when the machine rejects the confirmation.
func (f *Flow) Confirm() bool {
	if f.stage != StageSelecting || !f.machine.Confirm() {
		return false
	}
	f.stage = StageAwaitingAcknowledgement
	return true
}

// Pending returns the acknowledgement awaiting dismissal.
func (f *Flow) Pending() (Acknowledgement, bool) {
	if f.stage != StageAwaitingAcknowledgement {
		return Acknowledgement{}, false
	}
	return BookingConfirmed, true
}

// Dismiss closes the pending acknowledgement and sends host to the home
// screen. Without a pending acknowledgement it does nothing.
func (f *Flow) Dismiss(host navigation.Host) bool {
	if f.stage != StageAwaitingAcknowledgement {
		return false
	}
	f.stage = StageFinished
	if host != nil {
		host.Navigate(navigation.HomeScreen)
	}
	return true
}
