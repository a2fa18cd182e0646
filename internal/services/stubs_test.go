package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/repository"
	"codejourney-backend/internal/tracker"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type memCourses struct {
	order  []uuid.UUID
	byID   map[uuid.UUID]models.Course
	phases map[int]string
	seeded int
}

func newMemCourses(courses ...models.Course) *memCourses {
	m := &memCourses{byID: map[uuid.UUID]models.Course{}, phases: map[int]string{}}
	for _, c := range courses {
		c := c
		m.Create(context.Background(), &c)
	}
	return m
}

func (m *memCourses) List(_ context.Context, f tracker.Filter) ([]models.Course, error) {
	out := []models.Course{}
	for _, id := range m.order {
		if c := m.byID[id]; f.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourses) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memCourses) Count(context.Context) (int, error) { return len(m.order), nil }

func (m *memCourses) Create(_ context.Context, c *models.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := m.phases[c.Phase]; !ok {
		m.phases[c.Phase] = c.PhaseTitle
	}
	c.PhaseTitle = m.phases[c.Phase]
	m.order = append(m.order, c.ID)
	m.byID[c.ID] = *c
	return nil
}

func (m *memCourses) Update(_ context.Context, c *models.Course) error {
	if _, ok := m.byID[c.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[c.ID] = *c
	return nil
}

func (m *memCourses) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memCourses) Seed(ctx context.Context, phases []models.Phase, courses []models.Course, reset bool) error {
	m.seeded++
	if reset {
		m.order = nil
		m.byID = map[uuid.UUID]models.Course{}
		m.phases = map[int]string{}
	}
	for _, p := range phases {
		m.phases[p.Number] = p.Title
	}
	for i := range courses {
		m.Create(ctx, &courses[i])
	}
	return nil
}

type memLogs struct {
	byDate  map[string]models.DailyLog
	saved   [][]models.Course
	courses *memCourses
}

func newMemLogs(courses *memCourses) *memLogs {
	return &memLogs{byDate: map[string]models.DailyLog{}, courses: courses}
}

func (m *memLogs) List(_ context.Context, q models.LogQuery) ([]models.DailyLog, error) {
	out := []models.DailyLog{}
	for _, l := range m.byDate {
		if q.StartDate != "" && l.Date < q.StartDate {
			continue
		}
		if q.EndDate != "" && l.Date > q.EndDate {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memLogs) GetByDate(_ context.Context, date string) (*models.DailyLog, error) {
	l, ok := m.byDate[date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (m *memLogs) GetByID(_ context.Context, id uuid.UUID) (*models.DailyLog, error) {
	for _, l := range m.byDate {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memLogs) Save(ctx context.Context, l *models.DailyLog, touched []models.Course) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	m.byDate[l.Date] = *l
	m.saved = append(m.saved, touched)
	return m.writeCourses(ctx, touched)
}

func (m *memLogs) Delete(ctx context.Context, id uuid.UUID, touched []models.Course) error {
	for date, l := range m.byDate {
		if l.ID == id {
			delete(m.byDate, date)
			return m.writeCourses(ctx, touched)
		}
	}
	return repository.ErrNotFound
}

func (m *memLogs) writeCourses(ctx context.Context, touched []models.Course) error {
	if m.courses == nil {
		return nil
	}
	for i := range touched {
		if err := m.courses.Update(ctx, &touched[i]); err != nil {
			return err
		}
	}
	return nil
}

type memPlanned struct {
	byID map[uuid.UUID]models.PlannedSession
}

func newMemPlanned() *memPlanned {
	return &memPlanned{byID: map[uuid.UUID]models.PlannedSession{}}
}

func (m *memPlanned) List(_ context.Context, q models.PlannedQuery) ([]models.PlannedSession, error) {
	out := []models.PlannedSession{}
	for _, s := range m.byID {
		if q.StartDate != "" && s.PlannedDate < q.StartDate {
			continue
		}
		if q.EndDate != "" && s.PlannedDate > q.EndDate {
			continue
		}
		if q.CourseID != nil && s.CourseID != *q.CourseID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlannedDate < out[j].PlannedDate })
	return out, nil
}

func (m *memPlanned) GetByID(_ context.Context, id uuid.UUID) (*models.PlannedSession, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memPlanned) Create(_ context.Context, s *models.PlannedSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.byID[s.ID] = *s
	return nil
}

func (m *memPlanned) Update(_ context.Context, s *models.PlannedSession) error {
	if _, ok := m.byID[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[s.ID] = *s
	return nil
}

func (m *memPlanned) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func testCourse(title string, phase int, hours float64) models.Course {
	return models.Course{
		Title:         title,
		Phase:         phase,
		PhaseTitle:    "Phase",
		DurationHours: hours,
		Priority:      models.PriorityMust,
		Status:        models.StatusNotStarted,
	}
}
