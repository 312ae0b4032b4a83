package persistence

import "time"

// ScreenSession is the stored form of an open booking screen. It lives only as
// long as the screen does.
type ScreenSession struct {
	ID           string    `json:"id"`
	Year         int       `json:"year"`
	MonthIndex   int       `json:"month_index"`
	SelectedDate string    `json:"selected_date,omitempty"`
	SelectedTime string    `json:"selected_time,omitempty"`
	Confirmed    bool      `json:"confirmed"`
	Stage        string    `json:"stage"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DiagnosticEntry is one line of the diagnostics journal.
type DiagnosticEntry struct {
	ID         int64
	Level      string
	Screen     string
	Message    string
	Payload    string
	RecordedAt time.Time
}

// DiagnosticFilter narrows journal queries. Zero values match everything.
type DiagnosticFilter struct {
	Screen string
	Level  string
	Since  *time.Time
	Limit  int
}
