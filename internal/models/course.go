package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseStatus string

const (
	StatusNotStarted CourseStatus = "Not Started"
	StatusInProgress CourseStatus = "In Progress"
	StatusCompleted  CourseStatus = "Completed"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityMust     Priority = "MUST"
	PriorityOptional Priority = "Optional"
)

func (p Priority) Valid() bool {
	return p == PriorityMust || p == PriorityOptional
}

type Course struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Phase          int          `json:"phase"`
	PhaseTitle     string       `json:"phase_title"`
	DurationHours  float64      `json:"duration_hours"`
	Priority       Priority     `json:"priority"`
	YouTubeURL     string       `json:"youtube_url"`
	Thumbnail      string       `json:"thumbnail"`
	Description    string       `json:"description"`
	Status         CourseStatus `json:"status"`
	Progress       int          `json:"progress"` // 0-100
	StartDate      *string      `json:"start_date"`
	CompletionDate *string      `json:"completion_date"`
	TotalTimeSpent int          `json:"total_time_spent"` // minutes
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Phase is the normalized curriculum stage a course belongs to.
type Phase struct {
	Number int    `json:"phase"`
	Title  string `json:"phase_title"`
}

type CreateCourseRequest struct {
	Title         string   `json:"title"`
	Phase         int      `json:"phase"`
	PhaseTitle    string   `json:"phase_title"`
	DurationHours float64  `json:"duration_hours"`
	Priority      Priority `json:"priority"`
	YouTubeURL    string   `json:"youtube_url"`
	Description   string   `json:"description"`
}

type UpdateCourseRequest struct {
	Title         *string   `json:"title"`
	DurationHours *float64  `json:"duration_hours"`
	Priority      *Priority `json:"priority"`
	YouTubeURL    *string   `json:"youtube_url"`
	Description   *string   `json:"description"`
}
