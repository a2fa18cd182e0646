package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultEstimatedMinutes = 60

type PlannedSession struct {
	ID            uuid.UUID `json:"id"`
	CourseID      uuid.UUID `json:"course_id"`
	CourseTitle   string    `json:"course_title"`
	PlannedDate   string    `json:"planned_date"`
	EstimatedTime int       `json:"estimated_time"` // minutes
	Notes         string    `json:"notes"`
	IsCompleted   bool      `json:"is_completed"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreatePlannedSessionRequest struct {
	CourseID      uuid.UUID `json:"course_id"`
	PlannedDate   string    `json:"planned_date"`
	EstimatedTime int       `json:"estimated_time"`
	Notes         string    `json:"notes"`
}

type UpdatePlannedSessionRequest struct {
	EstimatedTime *int    `json:"estimated_time"`
	Notes         *string `json:"notes"`
	IsCompleted   *bool   `json:"is_completed"`
}

type PlannedQuery struct {
	StartDate string
	EndDate   string
	CourseID  *uuid.UUID
}
