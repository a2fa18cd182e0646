package services

import (
	"context"
	"fmt"
	"time"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

type AnalyticsService struct {
	courses CourseStore
	logs    DailyLogStore
	planned PlannedSessionStore
	events  *Events
	now     func() time.Time
}

func NewAnalyticsService(courses CourseStore, logs DailyLogStore, planned PlannedSessionStore, events *Events, loc *time.Location) *AnalyticsService {
	return &AnalyticsService{
		courses: courses,
		logs:    logs,
		planned: planned,
		events:  events,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

// Summary serves the dashboard numbers, from cache when one is fresh.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	now := s.now()
	day := tracker.FormatDate(now)
	cached, gen, ok := s.events.CachedSummary(ctx, day)
	if ok {
		return cached, nil
	}

	courses, err := s.courses.List(ctx, tracker.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	logs, err := s.logs.List(ctx, models.LogQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}

	summary := tracker.Summarize(courses, logs, now)
	s.events.CacheSummary(ctx, gen, day, summary)
	return &summary, nil
}

func (s *AnalyticsService) Progress(ctx context.Context) ([]models.ProgressPoint, error) {
	logs, err := s.logs.List(ctx, models.LogQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	return tracker.DailyProgress(logs), nil
}

func (s *AnalyticsService) Heatmap(ctx context.Context) (map[string]models.HeatmapCell, error) {
	logs, err := s.logs.List(ctx, models.LogQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	return tracker.Heatmap(logs), nil
}

// Phases groups the whole catalog by phase and narrows each group by f.
func (s *AnalyticsService) Phases(ctx context.Context, f tracker.Filter) ([]tracker.PhaseGroup, error) {
	courses, err := s.courses.List(ctx, tracker.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	return tracker.GroupFiltered(courses, f), nil
}

func (s *AnalyticsService) Completed(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx, tracker.Filter{Status: models.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	return tracker.CompletedCourses(courses), nil
}

// Calendar builds the grid for a zero-based month from the logs and sessions that fall
// inside it.
func (s *AnalyticsService) Calendar(ctx context.Context, year, month0 int) (*tracker.MonthGrid, error) {
	if month0 < 0 || month0 > 11 || year < 1970 || year > 9999 {
		return nil, &ValidationError{Fields: map[string]string{"month": "Month must be 1-12 and year a four-digit year"}}
	}

	first := time.Date(year, time.Month(month0+1), 1, 0, 0, 0, 0, time.UTC)
	start := tracker.FormatDate(first)
	end := tracker.FormatDate(first.AddDate(0, 1, -1))

	logs, err := s.logs.List(ctx, models.LogQuery{StartDate: start, EndDate: end})
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	sessions, err := s.planned.List(ctx, models.PlannedQuery{StartDate: start, EndDate: end})
	if err != nil {
		return nil, fmt.Errorf("failed to load planned sessions: %w", err)
	}

	grid, err := tracker.BuildMonth(year, month0, logs, sessions)
	if err != nil {
		return nil, err
	}
	return &grid, nil
}

// StreakStatus reports the current streak and whether today already has a log.
func (s *AnalyticsService) StreakStatus(ctx context.Context) (streak int, loggedToday bool, err error) {
	logs, err := s.logs.List(ctx, models.LogQuery{})
	if err != nil {
		return 0, false, fmt.Errorf("failed to load logs: %w", err)
	}

	now := s.now()
	today := tracker.FormatDate(now)
	dates := make([]string, len(logs))
	for i, l := range logs {
		dates[i] = l.Date
		if l.Date == today {
			loggedToday = true
		}
	}
	return tracker.CurrentStreak(dates, now), loggedToday, nil
}
