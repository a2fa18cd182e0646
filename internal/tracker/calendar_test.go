package tracker

import (
	"testing"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
)

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year, month0, want int
	}{
		{2026, 0, 31},
		{2026, 1, 28},
		{2024, 1, 29},
		{2026, 3, 30},
		{2026, 11, 31},
	}
	for _, tc := range tests {
		if got := DaysIn(tc.year, tc.month0); got != tc.want {
			t.Errorf("DaysIn(%d, %d) = %d, want %d", tc.year, tc.month0, got, tc.want)
		}
	}
}

func TestBuildMonth_ThirtyOneDaysStartingWednesday(t *testing.T) {
	// July 2026 starts on a Wednesday.
	grid, err := BuildMonth(2026, 6, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grid.FirstWeekday != 3 || grid.LeadingBlanks != 3 {
		t.Fatalf("expected 3 leading blanks, got weekday=%d blanks=%d", grid.FirstWeekday, grid.LeadingBlanks)
	}
	if grid.DaysInMonth != 31 || len(grid.Days) != 31 {
		t.Fatalf("expected 31 day cells, got %d/%d", grid.DaysInMonth, len(grid.Days))
	}
	if grid.Days[0].Date != "2026-07-01" || grid.Days[30].Date != "2026-07-31" {
		t.Fatalf("unexpected date keys: %s .. %s", grid.Days[0].Date, grid.Days[30].Date)
	}

	rows := grid.Rows()
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for i := 0; i < 3; i++ {
		if rows[0][i] != nil {
			t.Fatalf("expected blank cell at %d", i)
		}
	}
	if rows[0][3].Day != 1 {
		t.Fatalf("expected day 1 in column 3, got %d", rows[0][3].Day)
	}
	if last := rows[len(rows)-1]; len(last) != 6 {
		t.Fatalf("expected last row without trailing blanks (6 cells), got %d", len(last))
	}
}

func TestBuildMonth_BucketsLogsAndSessions(t *testing.T) {
	logs := []models.DailyLog{
		{ID: uuid.New(), Date: "2026-02-03", TotalTimeSpent: 90},
		{ID: uuid.New(), Date: "2026-03-03", TotalTimeSpent: 30},
	}
	sessions := []models.PlannedSession{
		{ID: uuid.New(), PlannedDate: "2026-02-10", CourseTitle: "React"},
		{ID: uuid.New(), PlannedDate: "2026-02-10", CourseTitle: "Node"},
		{ID: uuid.New(), PlannedDate: "2026-02-1", CourseTitle: "unpadded"},
	}

	grid, err := BuildMonth(2026, 1, logs, sessions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grid.Days[2].Log == nil || grid.Days[2].Log.TotalTimeSpent != 90 {
		t.Fatalf("expected log on Feb 3")
	}
	if len(grid.Days[9].Sessions) != 2 {
		t.Fatalf("expected 2 sessions on Feb 10, got %d", len(grid.Days[9].Sessions))
	}
	for _, d := range grid.Days {
		if d.Day != 3 && d.Log != nil {
			t.Fatalf("unexpected log on day %d", d.Day)
		}
		if d.Day != 10 && len(d.Sessions) != 0 {
			t.Fatalf("unexpected sessions on day %d", d.Day)
		}
	}
}

func TestBuildMonth_RejectsBadMonth(t *testing.T) {
	if _, err := BuildMonth(2026, 12, nil, nil); err == nil {
		t.Fatalf("expected error for month 12")
	}
	if _, err := BuildMonth(2026, -1, nil, nil); err == nil {
		t.Fatalf("expected error for month -1")
	}
}
