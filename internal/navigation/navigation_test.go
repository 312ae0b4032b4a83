package navigation

import "testing"

func TestTabDestinations(t *testing.T) {
	tests := []struct {
		tab  Tab
		want Screen
		ok   bool
	}{
		{tab: TabCW, want: HomeScreen, ok: true},
		{tab: TabAccount, want: MenuScreen, ok: true},
		{tab: TabBookings, ok: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			got, ok := tt.tab.Destination()
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Destination() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseTab(t *testing.T) {
	if tab, ok := ParseTab(" account "); !ok || tab != TabAccount {
		t.Fatalf("expected account tab, got %q ok=%v", tab, ok)
	}
	if _, ok := ParseTab("settings"); ok {
		t.Fatalf("expected unknown tab to be rejected")
	}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	if _, ok := rec.Last(); ok {
		t.Fatalf("expected empty recorder")
	}

	rec.Navigate(HomeScreen)
	rec.Navigate(MenuScreen)

	visits := rec.Visits()
	if len(visits) != 2 || visits[0] != HomeScreen || visits[1] != MenuScreen {
		t.Fatalf("unexpected visits %v", visits)
	}
	visits[0] = BookingScreen
	if rec.Visits()[0] != HomeScreen {
		t.Fatalf("expected Visits to return a copy")
	}
	if last, _ := rec.Last(); last != MenuScreen {
		t.Fatalf("expected last visit MenuScreen, got %q", last)
	}
}

func TestHostFunc(t *testing.T) {
	var got Screen
	HostFunc(func(s Screen) { got = s }).Navigate(HomeScreen)
	if got != HomeScreen {
		t.Fatalf("expected HostFunc to forward, got %q", got)
	}
	HostFunc(nil).Navigate(HomeScreen)
}
