package calendar

import "time"

// Month identifies a displayed calendar month. Index is zero based (0 = January).
type Month struct {
	Year  int
	Index int
}

// NewMonth normalises a year and month index, carrying indexes outside 0..11
// into the neighbouring years.
func NewMonth(year, index int) Month {
	t := time.Date(year, time.Month(index+1), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Index: int(t.Month()) - 1}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Index: int(t.Month()) - 1}
}

// Next returns the following month.
func (m Month) Next() Month {
	return NewMonth(m.Year, m.Index+1)
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	return NewMonth(m.Year, m.Index-1)
}

// TimeMonth converts the zero based index into a time.Month.
func (m Month) TimeMonth() time.Month {
	return time.Month(m.Index + 1)
}

// Days reports the number of days in the month.
func (m Month) Days() int {
	return DaysIn(m.Year, m.Index)
}

// FirstWeekday reports the weekday of the first day, 0 = Sunday.
func (m Month) FirstWeekday() int {
	return FirstWeekday(m.Year, m.Index)
}

// Contains reports whether day is a valid day number of the month.
func (m Month) Contains(day int) bool {
	return day >= 1 && day <= m.Days()
}

// Label renders the month heading, e.g. "February 2024".
func (m Month) Label() string {
	return time.Date(m.Year, m.TimeMonth(), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Key renders the month as YYYY-MM.
func (m Month) Key() string {
	return time.Date(m.Year, m.TimeMonth(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// DaysIn returns the day count (28-31) of the given month.
func DaysIn(year, index int) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, time.Month(index+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of day 1 of the month, 0 = Sunday .. 6 = Saturday.
func FirstWeekday(year, index int) int {
	return int(time.Date(year, time.Month(index+1), 1, 0, 0, 0, 0, time.UTC).Weekday())
}
