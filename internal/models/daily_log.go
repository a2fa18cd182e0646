package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type CourseActivity struct {
	CourseID      uuid.UUID `json:"course_id"`
	CourseTitle   string    `json:"course_title"`
	TimeSpent     int       `json:"time_spent"` // minutes
	ProgressNotes string    `json:"progress_notes"`
}

// UnmarshalJSON reads an empty or null course_id as uuid.Nil, the unselected draft
// row, so the entry is dropped when the log is prepared instead of failing the body.
func (a *CourseActivity) UnmarshalJSON(data []byte) error {
	type plain CourseActivity
	var raw struct {
		plain
		CourseID *string `json:"course_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = CourseActivity(raw.plain)
	a.CourseID = uuid.Nil
	if raw.CourseID != nil && *raw.CourseID != "" {
		id, err := uuid.Parse(*raw.CourseID)
		if err != nil {
			return fmt.Errorf("course_id: %w", err)
		}
		a.CourseID = id
	}
	return nil
}

type DailyLog struct {
	ID             uuid.UUID        `json:"id"`
	Date           string           `json:"date"` // YYYY-MM-DD, one log per date
	Courses        []CourseActivity `json:"courses"`
	TotalTimeSpent int              `json:"total_time_spent"`
	Notes          string           `json:"notes"`
	Mood           *int             `json:"mood"` // 1-5
	CreatedAt      time.Time        `json:"created_at"`
}

type CreateDailyLogRequest struct {
	Date    string           `json:"date"`
	Courses []CourseActivity `json:"courses"`
	Notes   string           `json:"notes"`
	Mood    *int             `json:"mood"`
}

type LogQuery struct {
	StartDate string
	EndDate   string
}
