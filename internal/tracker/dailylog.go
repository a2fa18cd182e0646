package tracker

import (
	"errors"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
)

var (
	ErrNoEntries      = errors.New("add at least one course entry")
	ErrNoValidEntries = errors.New("select a course and enter time spent for at least one entry")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrInvalidMood    = errors.New("mood must be between 1 and 5")
)

// ValidEntry reports whether an entry names a course and carries positive time.
func ValidEntry(e models.CourseActivity) bool {
	return e.CourseID != uuid.Nil && e.TimeSpent > 0
}

// PrepareDailyLog checks a draft before submission and returns the request to send.
// Entries without a course or positive time are dropped; the draft is rejected only
// when nothing valid remains.
func PrepareDailyLog(draft models.CreateDailyLogRequest) (models.CreateDailyLogRequest, error) {
	if len(draft.Courses) == 0 {
		return models.CreateDailyLogRequest{}, ErrNoEntries
	}

	kept := make([]models.CourseActivity, 0, len(draft.Courses))
	for _, e := range draft.Courses {
		if ValidEntry(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return models.CreateDailyLogRequest{}, ErrNoValidEntries
	}

	if _, err := ParseDate(draft.Date); err != nil {
		return models.CreateDailyLogRequest{}, ErrInvalidDate
	}
	if draft.Mood != nil && (*draft.Mood < 1 || *draft.Mood > 5) {
		return models.CreateDailyLogRequest{}, ErrInvalidMood
	}

	out := draft
	out.Courses = kept
	return out, nil
}

// TotalMinutes sums time spent across entries.
func TotalMinutes(entries []models.CourseActivity) int {
	total := 0
	for _, e := range entries {
		total += e.TimeSpent
	}
	return total
}
