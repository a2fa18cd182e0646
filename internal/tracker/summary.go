package tracker

import (
	"math"
	"sort"
	"time"

	"codejourney-backend/internal/models"
)

// RecentCoursesLimit caps AnalyticsSummary.RecentCourses.
const RecentCoursesLimit = 5

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize derives dashboard analytics from the full course and log lists.
func Summarize(courses []models.Course, logs []models.DailyLog, today time.Time) models.AnalyticsSummary {
	var s models.AnalyticsSummary
	var plannedHours float64
	var minutes int

	for _, c := range courses {
		switch c.Status {
		case models.StatusCompleted:
			s.CompletedCourses++
		case models.StatusInProgress:
			s.InProgressCourses++
		}
		plannedHours += c.DurationHours
		minutes += c.TotalTimeSpent
	}

	s.TotalCourses = len(courses)
	s.NotStartedCourses = s.TotalCourses - s.CompletedCourses - s.InProgressCourses
	s.TotalPlannedHours = round2(plannedHours)
	s.TotalCompletedHours = round2(float64(minutes) / 60)
	if s.TotalCourses > 0 {
		s.CompletionRate = round2(float64(s.CompletedCourses) / float64(s.TotalCourses) * 100)
	}

	dates := make([]string, len(logs))
	for i, l := range logs {
		dates[i] = l.Date
	}
	s.CurrentStreak = CurrentStreak(dates, today)
	s.RecentCourses = RecentCourses(courses, RecentCoursesLimit)
	return s
}

// RecentCourses orders courses by most recent activity and keeps the first limit.
func RecentCourses(courses []models.Course, limit int) []models.Course {
	out := make([]models.Course, len(courses))
	copy(out, courses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DailyProgress returns hours studied per logged day, oldest first.
func DailyProgress(logs []models.DailyLog) []models.ProgressPoint {
	points := make([]models.ProgressPoint, 0, len(logs))
	for _, l := range logs {
		points = append(points, models.ProgressPoint{
			Date:         l.Date,
			Hours:        round2(float64(l.TotalTimeSpent) / 60),
			CoursesCount: len(l.Courses),
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// Heatmap keys logged hours and course counts by date.
func Heatmap(logs []models.DailyLog) map[string]models.HeatmapCell {
	cells := make(map[string]models.HeatmapCell, len(logs))
	for _, l := range logs {
		cells[l.Date] = models.HeatmapCell{
			Hours:   round2(float64(l.TotalTimeSpent) / 60),
			Courses: len(l.Courses),
		}
	}
	return cells
}

// CompletedCourses lists completed courses, most recently completed first.
func CompletedCourses(courses []models.Course) []models.Course {
	out := FilterCourses(courses, Filter{Status: models.StatusCompleted})
	sort.SliceStable(out, func(i, j int) bool {
		return derefDate(out[i].CompletionDate) > derefDate(out[j].CompletionDate)
	})
	return out
}

func derefDate(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
