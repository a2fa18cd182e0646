package services

import (
	"context"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

// The stores are implemented by both the Postgres and SQLite repositories.

type CourseStore interface {
	List(ctx context.Context, f tracker.Filter) ([]models.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Seed(ctx context.Context, phases []models.Phase, courses []models.Course, reset bool) error
}

type DailyLogStore interface {
	List(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error)
	GetByDate(ctx context.Context, date string) (*models.DailyLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DailyLog, error)
	// Save replaces the log for l.Date and persists the touched courses atomically.
	Save(ctx context.Context, l *models.DailyLog, touched []models.Course) error
	Delete(ctx context.Context, id uuid.UUID, touched []models.Course) error
}

type PlannedSessionStore interface {
	List(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedSession, error)
	Create(ctx context.Context, s *models.PlannedSession) error
	Update(ctx context.Context, s *models.PlannedSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}
