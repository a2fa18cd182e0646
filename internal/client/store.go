package client

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

type Resource string

const (
	ResourceCourses Resource = "courses"
	ResourceLogs    Resource = "logs"
	ResourcePlanned Resource = "planned"
	ResourceSummary Resource = "summary"
)

var allResources = []Resource{ResourceCourses, ResourceLogs, ResourcePlanned, ResourceSummary}

type api interface {
	ListCourses(ctx context.Context, f tracker.Filter) ([]models.Course, error)
	ListLogs(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error)
	ListPlanned(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error)
	Summary(ctx context.Context) (*models.AnalyticsSummary, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, u tracker.ProgressUpdate, force bool) (*models.Course, error)
	CreateLog(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLog, error)
	CreatePlanned(ctx context.Context, req models.CreatePlannedSessionRequest) (*models.PlannedSession, error)
	UpdatePlanned(ctx context.Context, id uuid.UUID, req models.UpdatePlannedSessionRequest) (*models.PlannedSession, error)
	DeletePlanned(ctx context.Context, id uuid.UUID) error
	InitDatabase(ctx context.Context, reset bool) (*InitResult, error)
}

// Snapshot is the last successfully fetched state of every resource.
type Snapshot struct {
	Courses []models.Course
	Logs    []models.DailyLog
	Planned []models.PlannedSession
	Summary *models.AnalyticsSummary
}

// Store holds the view's copy of server state. Reads never hit the network; every
// mutation goes to the server and then re-fetches what it touched. Each resource
// carries a request counter so a response that lost a race to a newer request for
// the same resource is dropped.
type Store struct {
	api  api
	logf func(format string, args ...interface{})

	mu     sync.Mutex
	snap   Snapshot
	issued map[Resource]uint64
}

func NewStore(a api) *Store {
	return &Store{
		api:    a,
		logf:   log.Printf,
		issued: make(map[Resource]uint64),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Courses: append([]models.Course(nil), s.snap.Courses...),
		Logs:    append([]models.DailyLog(nil), s.snap.Logs...),
		Planned: append([]models.PlannedSession(nil), s.snap.Planned...),
		Summary: s.snap.Summary,
	}
}

func (s *Store) begin(r Resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[r]++
	return s.issued[r]
}

// commit applies set only if token is still the newest request for r.
func (s *Store) commit(r Resource, token uint64, set func(*Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued[r] {
		return false
	}
	set(&s.snap)
	return true
}

// fetch loads one resource. Failures are logged and the previous value is kept.
func (s *Store) fetch(ctx context.Context, r Resource) {
	token := s.begin(r)

	var (
		set func(*Snapshot)
		err error
	)
	switch r {
	case ResourceCourses:
		var v []models.Course
		v, err = s.api.ListCourses(ctx, tracker.Filter{})
		set = func(sn *Snapshot) { sn.Courses = v }
	case ResourceLogs:
		var v []models.DailyLog
		v, err = s.api.ListLogs(ctx, models.LogQuery{})
		set = func(sn *Snapshot) { sn.Logs = v }
	case ResourcePlanned:
		var v []models.PlannedSession
		v, err = s.api.ListPlanned(ctx, models.PlannedQuery{})
		set = func(sn *Snapshot) { sn.Planned = v }
	case ResourceSummary:
		var v *models.AnalyticsSummary
		v, err = s.api.Summary(ctx)
		set = func(sn *Snapshot) { sn.Summary = v }
	default:
		return
	}

	if err != nil {
		s.logf("fetch %s failed, keeping previous data: %v", r, err)
		return
	}
	if !s.commit(r, token, set) {
		s.logf("fetch %s: dropped stale response", r)
	}
}

// Refresh loads every resource in parallel.
func (s *Store) Refresh(ctx context.Context) {
	s.refetch(ctx, allResources...)
}

func (s *Store) refetch(ctx context.Context, resources ...Resource) {
	var g errgroup.Group
	for _, r := range resources {
		r := r
		g.Go(func() error {
			s.fetch(ctx, r)
			return nil
		})
	}
	g.Wait()
}

func (s *Store) course(id uuid.UUID) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.snap.Courses {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Course{}, invalid("unknown course %s", id)
}

// StartCourse moves a Not Started course to In Progress.
func (s *Store) StartCourse(ctx context.Context, id uuid.UUID) error {
	c, err := s.course(id)
	if err != nil {
		return err
	}
	u, err := tracker.Start(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.sendProgress(ctx, id, u, false)
}

func (s *Store) CompleteCourse(ctx context.Context, id uuid.UUID) error {
	c, err := s.course(id)
	if err != nil {
		return err
	}
	return s.sendProgress(ctx, id, tracker.Complete(c), false)
}

// SetProgress sets an explicit percentage. Lowering a completed course requires
// confirmed, which is forwarded to the server as force.
func (s *Store) SetProgress(ctx context.Context, id uuid.UUID, progress int, confirmed bool) error {
	c, err := s.course(id)
	if err != nil {
		return err
	}
	u, err := tracker.SetProgress(c, progress, confirmed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.sendProgress(ctx, id, u, confirmed)
}

func (s *Store) sendProgress(ctx context.Context, id uuid.UUID, u tracker.ProgressUpdate, force bool) error {
	if _, err := s.api.UpdateProgress(ctx, id, u, force); err != nil {
		return err
	}
	s.refetch(ctx, ResourceCourses, ResourceSummary)
	return nil
}

// LogDay validates and submits a daily log. Invalid entries are dropped; the draft
// is rejected only when none remain.
func (s *Store) LogDay(ctx context.Context, draft models.CreateDailyLogRequest) (*models.DailyLog, error) {
	req, err := tracker.PrepareDailyLog(draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	l, err := s.api.CreateLog(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, ResourceLogs, ResourceCourses, ResourceSummary)
	return l, nil
}

func (s *Store) PlanSession(ctx context.Context, req models.CreatePlannedSessionRequest) (*models.PlannedSession, error) {
	if req.CourseID == uuid.Nil {
		return nil, invalid("choose a course")
	}
	if _, err := tracker.ParseDate(req.PlannedDate); err != nil {
		return nil, invalid("planned date must be YYYY-MM-DD")
	}
	if req.EstimatedTime < 0 {
		return nil, invalid("estimated time cannot be negative")
	}

	p, err := s.api.CreatePlanned(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, ResourcePlanned)
	return p, nil
}

func (s *Store) CompleteSession(ctx context.Context, id uuid.UUID) error {
	done := true
	if _, err := s.api.UpdatePlanned(ctx, id, models.UpdatePlannedSessionRequest{IsCompleted: &done}); err != nil {
		return err
	}
	s.refetch(ctx, ResourcePlanned)
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.api.DeletePlanned(ctx, id); err != nil {
		return err
	}
	s.refetch(ctx, ResourcePlanned)
	return nil
}

func (s *Store) InitCatalog(ctx context.Context, reset bool) (*InitResult, error) {
	res, err := s.api.InitDatabase(ctx, reset)
	if err != nil {
		return nil, err
	}
	s.Refresh(ctx)
	return res, nil
}

// Phases groups the cached courses and applies f within each phase.
func (s *Store) Phases(f tracker.Filter) []tracker.PhaseGroup {
	return tracker.GroupFiltered(s.Snapshot().Courses, f)
}

// Month lays out a zero-based month from the cached logs and sessions.
func (s *Store) Month(year, month0 int) (tracker.MonthGrid, error) {
	snap := s.Snapshot()
	return tracker.BuildMonth(year, month0, snap.Logs, snap.Planned)
}
