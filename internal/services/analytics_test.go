package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

func newTestAnalytics(t *testing.T) (*AnalyticsService, *memCourses, *memLogs, *memPlanned) {
	t.Helper()
	done := testCourse("HTML", 1, 2)
	done.Status = models.StatusCompleted
	done.Progress = 100
	done.TotalTimeSpent = 120
	doneDate := "2026-03-01"
	done.CompletionDate = &doneDate

	started := testCourse("React", 3, 50)
	started.Status = models.StatusInProgress
	started.Progress = 20
	started.TotalTimeSpent = 90
	started.Priority = models.PriorityOptional

	courses := newMemCourses(done, started, testCourse("Node", 4, 3))
	logs := newMemLogs(nil)
	for _, d := range []string{"2026-03-08", "2026-03-09", "2026-02-27"} {
		logs.byDate[d] = models.DailyLog{
			Date:           d,
			Courses:        []models.CourseActivity{{CourseTitle: "React", TimeSpent: 45}},
			TotalTimeSpent: 45,
		}
	}
	planned := newMemPlanned()
	planned.Create(context.Background(), &models.PlannedSession{PlannedDate: "2026-03-20", CourseTitle: "Node", EstimatedTime: 60})
	planned.Create(context.Background(), &models.PlannedSession{PlannedDate: "2026-04-02", CourseTitle: "Node", EstimatedTime: 60})

	svc := NewAnalyticsService(courses, logs, planned, nil, time.UTC)
	svc.now = clockAt(fixedNow)
	return svc, courses, logs, planned
}

func TestAnalyticsService_Summary(t *testing.T) {
	svc, _, _, _ := newTestAnalytics(t)

	s, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.TotalCourses != 3 || s.CompletedCourses != 1 || s.InProgressCourses != 1 || s.NotStartedCourses != 1 {
		t.Errorf("unexpected counts %+v", s)
	}
	if s.TotalPlannedHours != 55 || s.TotalCompletedHours != 3.5 {
		t.Errorf("unexpected hours planned=%v completed=%v", s.TotalPlannedHours, s.TotalCompletedHours)
	}
	// Latest log is yesterday (2026-03-09), preceded by 03-08.
	if s.CurrentStreak != 2 {
		t.Errorf("expected streak 2, got %d", s.CurrentStreak)
	}
}

func TestAnalyticsService_ProgressAndHeatmap(t *testing.T) {
	svc, _, _, _ := newTestAnalytics(t)
	ctx := context.Background()

	points, err := svc.Progress(ctx)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(points) != 3 || points[0].Date != "2026-02-27" || points[0].Hours != 0.75 {
		t.Fatalf("expected oldest-first daily hours, got %+v", points)
	}

	heat, err := svc.Heatmap(ctx)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if cell := heat["2026-03-08"]; cell.Courses != 1 || cell.Hours != 0.75 {
		t.Fatalf("unexpected heatmap cell %+v", cell)
	}
}

func TestAnalyticsService_PhasesAndCompleted(t *testing.T) {
	svc, _, _, _ := newTestAnalytics(t)
	ctx := context.Background()

	groups, err := svc.Phases(ctx, tracker.Filter{Priority: models.PriorityMust})
	if err != nil {
		t.Fatalf("phases: %v", err)
	}
	if len(groups) != 2 || groups[0].Phase != 1 || groups[1].Phase != 4 {
		t.Fatalf("expected MUST courses in phases 1 and 4, got %+v", groups)
	}

	completed, err := svc.Completed(ctx)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 1 || completed[0].Title != "HTML" {
		t.Fatalf("unexpected completed list %+v", completed)
	}
}

func TestAnalyticsService_Calendar(t *testing.T) {
	svc, _, _, _ := newTestAnalytics(t)

	grid, err := svc.Calendar(context.Background(), 2026, 2)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if grid.DaysInMonth != 31 || grid.LeadingBlanks != 0 {
		t.Fatalf("March 2026 starts on a Sunday with 31 days, got %+v", grid)
	}
	if grid.Days[7].Log == nil || grid.Days[7].Date != "2026-03-08" {
		t.Errorf("expected log on the 8th")
	}
	if len(grid.Days[19].Sessions) != 1 {
		t.Errorf("expected one session on the 20th, got %d", len(grid.Days[19].Sessions))
	}
	for _, d := range grid.Days {
		if d.Log != nil && d.Log.Date == "2026-02-27" {
			t.Errorf("log from another month leaked into the grid")
		}
	}

	var vErr *ValidationError
	if _, err := svc.Calendar(context.Background(), 2026, 12); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for month 12, got %v", err)
	}
}

func TestAnalyticsService_StreakStatus(t *testing.T) {
	svc, _, logs, _ := newTestAnalytics(t)
	ctx := context.Background()

	streak, logged, err := svc.StreakStatus(ctx)
	if err != nil {
		t.Fatalf("streak status: %v", err)
	}
	if streak != 2 || logged {
		t.Fatalf("expected streak 2 not logged today, got %d/%t", streak, logged)
	}

	logs.byDate["2026-03-10"] = models.DailyLog{Date: "2026-03-10", TotalTimeSpent: 10}
	streak, logged, _ = svc.StreakStatus(ctx)
	if streak != 3 || !logged {
		t.Fatalf("expected streak 3 logged today, got %d/%t", streak, logged)
	}
}
