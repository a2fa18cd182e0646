package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/repository"
	"codejourney-backend/internal/tracker"
)

type PlannedSessionService struct {
	planned PlannedSessionStore
	courses CourseStore
	events  *Events
}

func NewPlannedSessionService(planned PlannedSessionStore, courses CourseStore, events *Events) *PlannedSessionService {
	return &PlannedSessionService{planned: planned, courses: courses, events: events}
}

func (s *PlannedSessionService) List(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error) {
	if err := validateRange(q.StartDate, q.EndDate); err != nil {
		return nil, err
	}
	return s.planned.List(ctx, q)
}

// Create schedules a session for an existing course. Estimated time defaults to an hour.
func (s *PlannedSessionService) Create(ctx context.Context, req models.CreatePlannedSessionRequest) (*models.PlannedSession, error) {
	fields := map[string]string{}
	if req.CourseID == uuid.Nil {
		fields["course_id"] = "Course is required"
	}
	if _, err := tracker.ParseDate(req.PlannedDate); err != nil {
		fields["planned_date"] = "Must be YYYY-MM-DD"
	}
	if req.EstimatedTime < 0 {
		fields["estimated_time"] = "Estimated time cannot be negative"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Course not found"}
		}
		return nil, err
	}

	estimated := req.EstimatedTime
	if estimated == 0 {
		estimated = models.DefaultEstimatedMinutes
	}

	session := &models.PlannedSession{
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		PlannedDate:   req.PlannedDate,
		EstimatedTime: estimated,
		Notes:         req.Notes,
	}
	if err := s.planned.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create planned session: %w", err)
	}

	s.events.Publish(ctx, "planned", session.ID)
	return session, nil
}

func (s *PlannedSessionService) Update(ctx context.Context, id uuid.UUID, req models.UpdatePlannedSessionRequest) (*models.PlannedSession, error) {
	session, err := s.planned.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Planned session not found"}
		}
		return nil, err
	}

	if req.EstimatedTime != nil {
		if *req.EstimatedTime < 0 {
			return nil, &ValidationError{Fields: map[string]string{"estimated_time": "Estimated time cannot be negative"}}
		}
		session.EstimatedTime = *req.EstimatedTime
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}
	if req.IsCompleted != nil {
		session.IsCompleted = *req.IsCompleted
	}

	if err := s.planned.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Planned session not found"}
		}
		return nil, fmt.Errorf("failed to update planned session: %w", err)
	}

	s.events.Publish(ctx, "planned", session.ID)
	return session, nil
}

func (s *PlannedSessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.planned.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Planned session not found"}
		}
		return err
	}
	s.events.Publish(ctx, "planned", id)
	return nil
}
