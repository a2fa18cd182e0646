package tracker

import (
	"errors"
	"fmt"
	"math"
	"time"

	"codejourney-backend/internal/models"
)

// StartedProgress is the progress a course gets when it is started.
const StartedProgress = 5

var (
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrProgressRange     = errors.New("progress must be between 0 and 100")
	// ErrUncompleteNeedsConfirm guards moving a completed course back below 100.
	ErrUncompleteNeedsConfirm = errors.New("course is completed; lowering progress needs confirmation")
)

// ProgressUpdate is the (progress, status) pair sent to the progress endpoint.
type ProgressUpdate struct {
	Progress int
	Status   models.CourseStatus
}

// StatusFor derives the status a course must have at progress p.
func StatusFor(p int) models.CourseStatus {
	switch {
	case p >= 100:
		return models.StatusCompleted
	case p <= 0:
		return models.StatusNotStarted
	default:
		return models.StatusInProgress
	}
}

// Start is valid only from Not Started.
func Start(c models.Course) (ProgressUpdate, error) {
	if c.Status != models.StatusNotStarted {
		return ProgressUpdate{}, fmt.Errorf("start %q: %w", c.Status, ErrInvalidTransition)
	}
	return ProgressUpdate{Progress: StartedProgress, Status: models.StatusInProgress}, nil
}

// Complete is valid from any state.
func Complete(models.Course) ProgressUpdate {
	return ProgressUpdate{Progress: 100, Status: models.StatusCompleted}
}

// SetProgress is the manual slider path. Moving a completed course below 100 is
// rejected unless confirmed.
func SetProgress(c models.Course, p int, confirmed bool) (ProgressUpdate, error) {
	if p < 0 || p > 100 {
		return ProgressUpdate{}, ErrProgressRange
	}
	if c.Status == models.StatusCompleted && p < 100 && !confirmed {
		return ProgressUpdate{}, ErrUncompleteNeedsConfirm
	}
	return ProgressUpdate{Progress: p, Status: StatusFor(p)}, nil
}

// Normalize reconciles a requested (progress, status) pair with the course
// invariants: Completed forces 100, otherwise status follows progress.
func Normalize(progress int, status models.CourseStatus) (ProgressUpdate, error) {
	if progress < 0 || progress > 100 {
		return ProgressUpdate{}, ErrProgressRange
	}
	if status == models.StatusCompleted {
		return ProgressUpdate{Progress: 100, Status: models.StatusCompleted}, nil
	}
	return ProgressUpdate{Progress: progress, Status: StatusFor(progress)}, nil
}

// ApplyProgress writes u onto c, stamping start and completion dates.
func ApplyProgress(c *models.Course, u ProgressUpdate, now time.Time) {
	today := FormatDate(now)

	c.Progress = u.Progress
	c.Status = u.Status
	c.UpdatedAt = now

	switch u.Status {
	case models.StatusInProgress:
		if c.StartDate == nil {
			c.StartDate = &today
		}
		c.CompletionDate = nil
	case models.StatusCompleted:
		if c.StartDate == nil {
			c.StartDate = &today
		}
		c.CompletionDate = &today
	case models.StatusNotStarted:
		c.CompletionDate = nil
	}
}

// TimeProgress is the share of a course's duration covered by minutes, capped at 100.
func TimeProgress(minutes int, durationHours float64) int {
	if durationHours <= 0 {
		return 0
	}
	p := int(math.Floor(float64(minutes) / (durationHours * 60) * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// ApplyActivity rolls minutes studied on date into c. Progress never moves backwards
// here; a Not Started course becomes In Progress, and reaching 100 completes it.
func ApplyActivity(c *models.Course, minutes int, date string, now time.Time) {
	c.TotalTimeSpent += minutes
	c.UpdatedAt = now

	p := TimeProgress(c.TotalTimeSpent, c.DurationHours)
	if p < c.Progress {
		p = c.Progress
	}
	c.Progress = p

	if c.Status == models.StatusNotStarted {
		c.Status = models.StatusInProgress
		d := date
		c.StartDate = &d
	}
	if p >= 100 && c.Status != models.StatusCompleted {
		c.Status = models.StatusCompleted
		d := date
		c.CompletionDate = &d
	}
}

// RevertActivity takes back minutes previously rolled in. Progress and status are left
// alone.
func RevertActivity(c *models.Course, minutes int, now time.Time) {
	c.TotalTimeSpent -= minutes
	if c.TotalTimeSpent < 0 {
		c.TotalTimeSpent = 0
	}
	c.UpdatedAt = now
}
