package calendar

import "time"

// Date is a civil calendar date without a clock or zone.
type Date struct {
	Year       int
	MonthIndex int
	Day        int
}

// DateOf returns the civil date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, MonthIndex: int(m) - 1, Day: d}
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, time.Month(d.MonthIndex+1), d.Day, 0, 0, 0, 0, loc)
}

// Month returns the month the date belongs to.
func (d Date) Month() Month {
	return Month{Year: d.Year, Index: d.MonthIndex}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Long renders the date as "Thursday, February 15, 2024".
func (d Date) Long() string {
	return d.Time(time.UTC).Format("Monday, January 2, 2006")
}

// Short renders the date as "2/15/2024".
func (d Date) Short() string {
	return d.Time(time.UTC).Format("1/2/2006")
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time(time.UTC).Format(time.DateOnly)
}

// ParseISODate parses a YYYY-MM-DD value.
func ParseISODate(value string) (Date, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Validator answers past and same-day questions relative to a clock.
type Validator struct {
	now func() time.Time
	loc *time.Location
}

// NewValidator builds a validator. A nil now uses time.Now and a nil loc uses time.Local.
func NewValidator(now func() time.Time, loc *time.Location) *Validator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Validator{now: now, loc: loc}
}

// Location returns the zone dates are compared in.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// Today returns the current civil date.
func (v *Validator) Today() Date {
	return DateOf(v.now().In(v.loc))
}

// IsPast reports whether the date falls strictly before today, comparing both at
// local midnight. Today itself is never past.
func (v *Validator) IsPast(year, monthIndex, day int) bool {
	candidate := Date{Year: year, MonthIndex: monthIndex, Day: day}.Time(v.loc)
	return candidate.Before(v.Today().Time(v.loc))
}

// IsSameDate reports whether selected is set and names exactly the given day.
func IsSameDate(selected *Date, year, monthIndex, day int) bool {
	return selected != nil &&
		selected.Year == year &&
		selected.MonthIndex == monthIndex &&
		selected.Day == day
}
