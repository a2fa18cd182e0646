package tracker

import (
	"fmt"
	"time"

	"codejourney-backend/internal/models"
)

type DayCell struct {
	Day      int                     `json:"day"`
	Date     string                  `json:"date"`
	Log      *models.DailyLog        `json:"log"`
	Sessions []models.PlannedSession `json:"sessions"`
}

type MonthGrid struct {
	Year          int       `json:"year"`
	Month         int       `json:"month"` // zero-based
	DaysInMonth   int       `json:"days_in_month"`
	FirstWeekday  int       `json:"first_weekday"` // 0 = Sunday
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayCell `json:"days"`
}

// DaysIn returns the number of days in the zero-based month of year.
func DaysIn(year, month0 int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month0+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonth lays out a month for a 7-column calendar. Each day carries at most one
// daily log and any number of planned sessions, matched by exact date key.
func BuildMonth(year, month0 int, logs []models.DailyLog, sessions []models.PlannedSession) (MonthGrid, error) {
	if month0 < 0 || month0 > 11 {
		return MonthGrid{}, fmt.Errorf("month %d out of range 0-11", month0)
	}

	first := time.Date(year, time.Month(month0+1), 1, 0, 0, 0, 0, time.UTC)
	n := DaysIn(year, month0)

	logByDate := make(map[string]*models.DailyLog, len(logs))
	for i := range logs {
		if _, dup := logByDate[logs[i].Date]; !dup {
			logByDate[logs[i].Date] = &logs[i]
		}
	}
	sessionsByDate := make(map[string][]models.PlannedSession)
	for _, s := range sessions {
		sessionsByDate[s.PlannedDate] = append(sessionsByDate[s.PlannedDate], s)
	}

	grid := MonthGrid{
		Year:          year,
		Month:         month0,
		DaysInMonth:   n,
		FirstWeekday:  int(first.Weekday()),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayCell, n),
	}
	for day := 1; day <= n; day++ {
		key := FormatDate(first.AddDate(0, 0, day-1))
		grid.Days[day-1] = DayCell{
			Day:      day,
			Date:     key,
			Log:      logByDate[key],
			Sessions: sessionsByDate[key],
		}
	}
	return grid, nil
}

// Rows splits the grid into weeks of seven cells. Leading blanks are nil; the last
// row is not padded.
func (g MonthGrid) Rows() [][]*DayCell {
	cells := make([]*DayCell, 0, g.LeadingBlanks+len(g.Days))
	for i := 0; i < g.LeadingBlanks; i++ {
		cells = append(cells, nil)
	}
	for i := range g.Days {
		cells = append(cells, &g.Days[i])
	}

	var rows [][]*DayCell
	for len(cells) > 0 {
		n := 7
		if len(cells) < n {
			n = len(cells)
		}
		rows = append(rows, cells[:n])
		cells = cells[n:]
	}
	return rows
}
