package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/services"
	"codejourney-backend/internal/tracker"
)

type stubCourseService struct {
	courses []models.Course
	course  *models.Course
	err     error

	lastFilter   tracker.Filter
	lastID       uuid.UUID
	lastProgress int
	lastStatus   models.CourseStatus
	lastForce    bool
	lastReset    bool
	lastCreate   models.CreateCourseRequest
}

func (s *stubCourseService) List(ctx context.Context, f tracker.Filter) ([]models.Course, error) {
	s.lastFilter = f
	return s.courses, s.err
}

func (s *stubCourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s.lastID = id
	return s.course, s.err
}

func (s *stubCourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	s.lastCreate = req
	return s.course, s.err
}

func (s *stubCourseService) Update(ctx context.Context, id uuid.UUID, req models.UpdateCourseRequest) (*models.Course, error) {
	s.lastID = id
	return s.course, s.err
}

func (s *stubCourseService) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status models.CourseStatus, force bool) (*models.Course, error) {
	s.lastID = id
	s.lastProgress = progress
	s.lastStatus = status
	s.lastForce = force
	return s.course, s.err
}

func (s *stubCourseService) Delete(ctx context.Context, id uuid.UUID) error {
	s.lastID = id
	return s.err
}

func (s *stubCourseService) InitCatalog(ctx context.Context, reset bool) (*services.InitResult, error) {
	s.lastReset = reset
	if s.err != nil {
		return nil, s.err
	}
	return &services.InitResult{Message: "Database initialized with 17 courses", Courses: 17}, nil
}

type stubLogService struct {
	logs []models.DailyLog
	log  *models.DailyLog
	err  error

	lastQuery models.LogQuery
	lastDate  string
	lastReq   models.CreateDailyLogRequest
	deleted   uuid.UUID
}

func (s *stubLogService) List(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error) {
	s.lastQuery = q
	return s.logs, s.err
}

func (s *stubLogService) GetByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	s.lastDate = date
	return s.log, s.err
}

func (s *stubLogService) Create(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLog, error) {
	s.lastReq = req
	return s.log, s.err
}

func (s *stubLogService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

type stubPlannedService struct {
	sessions []models.PlannedSession
	session  *models.PlannedSession
	err      error

	lastQuery  models.PlannedQuery
	lastUpdate models.UpdatePlannedSessionRequest
	deleted    uuid.UUID
}

func (s *stubPlannedService) List(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error) {
	s.lastQuery = q
	return s.sessions, s.err
}

func (s *stubPlannedService) Create(ctx context.Context, req models.CreatePlannedSessionRequest) (*models.PlannedSession, error) {
	return s.session, s.err
}

func (s *stubPlannedService) Update(ctx context.Context, id uuid.UUID, req models.UpdatePlannedSessionRequest) (*models.PlannedSession, error) {
	s.lastUpdate = req
	return s.session, s.err
}

func (s *stubPlannedService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

type stubAnalyticsService struct {
	summary *models.AnalyticsSummary
	err     error

	lastYear   int
	lastMonth0 int
	lastFilter tracker.Filter
}

func (s *stubAnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	return s.summary, s.err
}

func (s *stubAnalyticsService) Progress(ctx context.Context) ([]models.ProgressPoint, error) {
	return nil, s.err
}

func (s *stubAnalyticsService) Heatmap(ctx context.Context) (map[string]models.HeatmapCell, error) {
	return map[string]models.HeatmapCell{"2026-03-09": {Hours: 1.5, Courses: 2}}, s.err
}

func (s *stubAnalyticsService) Phases(ctx context.Context, f tracker.Filter) ([]tracker.PhaseGroup, error) {
	s.lastFilter = f
	return nil, s.err
}

func (s *stubAnalyticsService) Completed(ctx context.Context) ([]models.Course, error) {
	return nil, s.err
}

func (s *stubAnalyticsService) Calendar(ctx context.Context, year, month0 int) (*tracker.MonthGrid, error) {
	s.lastYear = year
	s.lastMonth0 = month0
	if s.err != nil {
		return nil, s.err
	}
	grid, err := tracker.BuildMonth(year, month0, nil, nil)
	if err != nil {
		return nil, err
	}
	return &grid, nil
}

// serve routes a single request through a chi router so URL params resolve.
func serve(method, pattern, target string, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}
