package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/repository"
	"codejourney-backend/internal/tracker"
)

const (
	minPhase = 1
	maxPhase = 8
)

type CourseService struct {
	courses CourseStore
	events  *Events
	now     func() time.Time
}

func NewCourseService(courses CourseStore, events *Events, loc *time.Location) *CourseService {
	return &CourseService{
		courses: courses,
		events:  events,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

func (s *CourseService) List(ctx context.Context, f tracker.Filter) ([]models.Course, error) {
	return s.courses.List(ctx, f)
}

func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Course not found"}
		}
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	fields := map[string]string{}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		fields["title"] = "Title is required"
	}
	if req.Phase < minPhase || req.Phase > maxPhase {
		fields["phase"] = fmt.Sprintf("Phase must be between %d and %d", minPhase, maxPhase)
	}
	if req.DurationHours < 0 {
		fields["duration_hours"] = "Duration cannot be negative"
	}
	if !req.Priority.Valid() {
		fields["priority"] = "Priority must be MUST or Optional"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	c := &models.Course{
		Title:         title,
		Phase:         req.Phase,
		PhaseTitle:    strings.TrimSpace(req.PhaseTitle),
		DurationHours: req.DurationHours,
		Priority:      req.Priority,
		YouTubeURL:    strings.TrimSpace(req.YouTubeURL),
		Description:   req.Description,
		Status:        models.StatusNotStarted,
	}
	c.Thumbnail = ThumbnailURL(c.YouTubeURL)

	if err := s.courses.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if c.DurationHours == 0 && ExtractVideoID(c.YouTubeURL) != "" {
		s.events.Enqueue(ctx, models.JobCourseEnrichment, c.ID)
	}
	s.events.Publish(ctx, "courses", c.ID)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req models.UpdateCourseRequest) (*models.Course, error) {
	unlock := LockCourses()
	defer unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t == "" {
			fields["title"] = "Title is required"
		} else {
			c.Title = t
		}
	}
	if req.DurationHours != nil {
		if *req.DurationHours < 0 {
			fields["duration_hours"] = "Duration cannot be negative"
		} else {
			c.DurationHours = *req.DurationHours
		}
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			fields["priority"] = "Priority must be MUST or Optional"
		} else {
			c.Priority = *req.Priority
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if req.YouTubeURL != nil {
		c.YouTubeURL = strings.TrimSpace(*req.YouTubeURL)
		c.Thumbnail = ThumbnailURL(c.YouTubeURL)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	c.UpdatedAt = s.now()

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateProgress applies a (progress, status) pair. An empty status is derived from
// progress; Completed always means 100. Lowering a completed course needs force.
func (s *CourseService) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status models.CourseStatus, force bool) (*models.Course, error) {
	if status != "" && !status.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "Status must be Not Started, In Progress or Completed"}}
	}

	u, err := tracker.Normalize(progress, status)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"progress": "Progress must be between 0 and 100"}}
	}

	unlock := LockCourses()
	defer unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Status == models.StatusCompleted && u.Progress < 100 && !force {
		return nil, &ConflictError{Message: "Course is completed; resend with force=true to lower its progress"}
	}

	tracker.ApplyProgress(c, u, s.now())
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Course not found"}
		}
		return err
	}
	s.events.Publish(ctx, "courses", id)
	return nil
}

type InitResult struct {
	Message string `json:"message"`
	Courses int    `json:"courses"`
}

// InitCatalog seeds the curriculum once. With reset, everything is cleared first.
func (s *CourseService) InitCatalog(ctx context.Context, reset bool) (*InitResult, error) {
	if !reset {
		n, err := s.courses.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count courses: %w", err)
		}
		if n > 0 {
			return &InitResult{Message: "Database already initialized", Courses: n}, nil
		}
	}

	phases, courses := Catalog()
	if err := s.courses.Seed(ctx, phases, courses, reset); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	log.Printf("Seeded catalog with %d courses (reset=%t)", len(courses), reset)

	resource := "courses"
	if reset {
		resource = "catalog"
	}
	s.events.Publish(ctx, resource, uuid.Nil)
	return &InitResult{
		Message: fmt.Sprintf("Database initialized with %d courses", len(courses)),
		Courses: len(courses),
	}, nil
}

func (s *CourseService) save(ctx context.Context, c *models.Course) error {
	if err := s.courses.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Course not found"}
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	s.events.Publish(ctx, "courses", c.ID)
	return nil
}
