// Package navigation describes the host that owns screen transitions. The
// booking screen only ever asks the host to go somewhere; what happens next is
// the host's business.
package navigation

import (
	"strings"
	"sync"
)

// Screen names a destination known to the navigation host.
type Screen string

const (
	HomeScreen    Screen = "HomeScreen"
	MenuScreen    Screen = "MenuScreen"
	BookingScreen Screen = "BookingScreen"
)

// Host receives "go to screen" requests.
type Host interface {
	Navigate(screen Screen)
}

// HostFunc adapts a function into a Host.
type HostFunc func(screen Screen)

// Navigate calls f.
func (f HostFunc) Navigate(screen Screen) {
	if f != nil {
		f(screen)
	}
}

// Recorder is a Host that remembers every request in order.
type Recorder struct {
	mu     sync.Mutex
	visits []Screen
}

// Navigate records screen.
func (r *Recorder) Navigate(screen Screen) {
	r.mu.Lock()
	r.visits = append(r.visits, screen)
	r.mu.Unlock()
}

// Visits returns a copy of the recorded requests.
func (r *Recorder) Visits() []Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.visits) == 0 {
		return nil
	}
	out := make([]Screen, len(r.visits))
	copy(out, r.visits)
	return out
}

// Last returns the most recent request.
func (r *Recorder) Last() (Screen, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.visits) == 0 {
		return "", false
	}
	return r.visits[len(r.visits)-1], true
}

// Tab identifies a bottom navigation control.
type Tab string

const (
	TabCW       Tab = "CW"
	TabBookings Tab = "Bookings"
	TabAccount  Tab = "Account"
)

// Tabs lists the bottom navigation controls in display order.
var Tabs = []Tab{TabCW, TabBookings, TabAccount}

// ParseTab resolves a tab identifier, ignoring case and surrounding spaces.
func ParseTab(value string) (Tab, bool) {
	value = strings.TrimSpace(value)
	for _, tab := range Tabs {
		if strings.EqualFold(string(tab), value) {
			return tab, true
		}
	}
	return "", false
}

// Destination reports where activating the tab leads from the booking screen.
// The Bookings tab is the current screen and has no destination.
func (t Tab) Destination() (Screen, bool) {
	switch t {
	case TabCW:
		return HomeScreen, true
	case TabAccount:
		return MenuScreen, true
	default:
		return "", false
	}
}
