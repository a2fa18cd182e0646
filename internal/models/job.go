package models

import (
	"time"

	"github.com/google/uuid"
)

const JobCourseEnrichment = "course-enrichment"

type Job struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	ReferenceID uuid.UUID `json:"reference_id"`
	RetryCount  int       `json:"retry_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const WSTrackerUpdated = "tracker_updated"

type TrackerUpdate struct {
	Resource string    `json:"resource"` // "courses", "logs", "planned" or "catalog" after a reset
	ID       uuid.UUID `json:"id"`
}

type TokenRequest struct {
	Password string `json:"password"`
}

type AuthToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
