package calendar

// Weekdays holds the column headings of a grid, Sunday first.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cell is a single grid position. The zero value is a padding cell.
type Cell struct {
	Day int
}

// Empty reports whether the cell is padding outside the month.
func (c Cell) Empty() bool {
	return c.Day == 0
}

// Week is one grid row; index 0 is Sunday.
type Week [7]Cell

// Grid lays out one month week by week.
type Grid struct {
	Month Month
	Weeks []Week
}

// Build lays out the days of month into weeks. The first and last weeks are
// padded with empty cells; every call returns freshly allocated weeks.
func Build(month Month) Grid {
	days := month.Days()
	first := month.FirstWeekday()

	weeks := make([]Week, 0, 6)
	var week Week
	for day := 1; day <= days; day++ {
		pos := (first + day - 1) % 7
		week[pos] = Cell{Day: day}
		if pos == 6 || day == days {
			weeks = append(weeks, week)
			week = Week{}
		}
	}

	return Grid{Month: month, Weeks: weeks}
}

// Locate returns the week and column holding day.
func (g Grid) Locate(day int) (week, column int, ok bool) {
	for w, row := range g.Weeks {
		for c, cell := range row {
			if !cell.Empty() && cell.Day == day {
				return w, c, true
			}
		}
	}
	return 0, 0, false
}

// DayCount returns the number of non-padding cells.
func (g Grid) DayCount() int {
	count := 0
	for _, row := range g.Weeks {
		for _, cell := range row {
			if !cell.Empty() {
				count++
			}
		}
	}
	return count
}
