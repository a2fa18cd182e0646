package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/repository"
	"codejourney-backend/internal/tracker"
)

type DailyLogService struct {
	logs    DailyLogStore
	courses CourseStore
	events  *Events
	now     func() time.Time
}

func NewDailyLogService(logs DailyLogStore, courses CourseStore, events *Events, loc *time.Location) *DailyLogService {
	return &DailyLogService{
		logs:    logs,
		courses: courses,
		events:  events,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

func validateRange(start, end string) error {
	fields := map[string]string{}
	if start != "" {
		if _, err := tracker.ParseDate(start); err != nil {
			fields["start_date"] = "Must be YYYY-MM-DD"
		}
	}
	if end != "" {
		if _, err := tracker.ParseDate(end); err != nil {
			fields["end_date"] = "Must be YYYY-MM-DD"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *DailyLogService) List(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error) {
	if err := validateRange(q.StartDate, q.EndDate); err != nil {
		return nil, err
	}
	return s.logs.List(ctx, q)
}

// GetByDate returns nil without error when nothing was logged on date.
func (s *DailyLogService) GetByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	if _, err := tracker.ParseDate(date); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": "Must be YYYY-MM-DD"}}
	}
	l, err := s.logs.GetByDate(ctx, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return l, err
}

// Create stores the log for req.Date, replacing any earlier log for that date. The
// earlier log's minutes are taken back before the new entries roll into their courses.
func (s *DailyLogService) Create(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLog, error) {
	prepared, err := tracker.PrepareDailyLog(req)
	if err != nil {
		return nil, dailyLogValidation(err)
	}

	unlock := LockCourses()
	defer unlock()

	now := s.now()
	touched := newCourseSet(s.courses)

	previous, err := s.logs.GetByDate(ctx, prepared.Date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load existing log: %w", err)
	}
	if previous != nil {
		for _, a := range previous.Courses {
			c, err := touched.get(ctx, a.CourseID)
			if err != nil {
				return nil, err
			}
			if c != nil {
				tracker.RevertActivity(c, a.TimeSpent, now)
			}
		}
	}

	for i, a := range prepared.Courses {
		c, err := touched.get(ctx, a.CourseID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		if a.CourseTitle == "" {
			prepared.Courses[i].CourseTitle = c.Title
		}
		tracker.ApplyActivity(c, a.TimeSpent, prepared.Date, now)
	}

	l := &models.DailyLog{
		Date:           prepared.Date,
		Courses:        prepared.Courses,
		TotalTimeSpent: tracker.TotalMinutes(prepared.Courses),
		Notes:          prepared.Notes,
		Mood:           prepared.Mood,
	}
	if err := s.logs.Save(ctx, l, touched.list()); err != nil {
		return nil, fmt.Errorf("failed to save daily log: %w", err)
	}

	s.events.Publish(ctx, "logs", l.ID)
	if len(touched.order) > 0 {
		s.events.Publish(ctx, "courses", uuid.Nil)
	}
	return l, nil
}

func (s *DailyLogService) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := LockCourses()
	defer unlock()

	l, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Log not found"}
		}
		return err
	}

	now := s.now()
	touched := newCourseSet(s.courses)
	for _, a := range l.Courses {
		c, err := touched.get(ctx, a.CourseID)
		if err != nil {
			return err
		}
		if c != nil {
			tracker.RevertActivity(c, a.TimeSpent, now)
		}
	}

	if err := s.logs.Delete(ctx, id, touched.list()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Log not found"}
		}
		return fmt.Errorf("failed to delete daily log: %w", err)
	}

	s.events.Publish(ctx, "logs", id)
	if len(touched.order) > 0 {
		s.events.Publish(ctx, "courses", uuid.Nil)
	}
	return nil
}

func dailyLogValidation(err error) error {
	field := "courses"
	switch {
	case errors.Is(err, tracker.ErrInvalidDate):
		field = "date"
	case errors.Is(err, tracker.ErrInvalidMood):
		field = "mood"
	}
	return &ValidationError{Fields: map[string]string{field: err.Error()}}
}

// courseSet loads each course once so several entries for the same course
// accumulate on one copy. Unknown courses are remembered as nil.
type courseSet struct {
	store   CourseStore
	byID    map[uuid.UUID]*models.Course
	order   []uuid.UUID
	missing map[uuid.UUID]bool
}

func newCourseSet(store CourseStore) *courseSet {
	return &courseSet{
		store:   store,
		byID:    map[uuid.UUID]*models.Course{},
		missing: map[uuid.UUID]bool{},
	}
}

func (cs *courseSet) get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if c, ok := cs.byID[id]; ok {
		return c, nil
	}
	if cs.missing[id] {
		return nil, nil
	}
	c, err := cs.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		cs.missing[id] = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load course %s: %w", id, err)
	}
	cs.byID[id] = c
	cs.order = append(cs.order, id)
	return c, nil
}

func (cs *courseSet) list() []models.Course {
	out := make([]models.Course, 0, len(cs.order))
	for _, id := range cs.order {
		out = append(out, *cs.byID[id])
	}
	return out
}
