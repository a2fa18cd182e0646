package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"codejourney-backend/internal/models"
)

// All is the wire value meaning "do not filter on this criterion".
const All = "all"

// Filter holds three independent criteria. A zero field means "all".
type Filter struct {
	Phase    int
	Status   models.CourseStatus
	Priority models.Priority
}

// Match reports whether c satisfies every active criterion. It is the only predicate
// used for course filtering, flat or per phase.
func (f Filter) Match(c models.Course) bool {
	if f.Phase != 0 && c.Phase != f.Phase {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	return true
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

func FilterCourses(courses []models.Course, f Filter) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// ParseFilter reads the three criteria from their wire form. Empty strings and "all"
// both disable a criterion.
func ParseFilter(phase, status, priority string) (Filter, error) {
	var f Filter

	if phase = strings.TrimSpace(phase); phase != "" && phase != All {
		n, err := strconv.Atoi(phase)
		if err != nil || n < 1 {
			return Filter{}, fmt.Errorf("invalid phase %q", phase)
		}
		f.Phase = n
	}

	if status = strings.TrimSpace(status); status != "" && status != All {
		s := models.CourseStatus(status)
		if !s.Valid() {
			return Filter{}, fmt.Errorf("invalid status %q", status)
		}
		f.Status = s
	}

	if priority = strings.TrimSpace(priority); priority != "" && priority != All {
		p := models.Priority(priority)
		if !p.Valid() {
			return Filter{}, fmt.Errorf("invalid priority %q", priority)
		}
		f.Priority = p
	}

	return f, nil
}
