package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/handlers"
	"codejourney-backend/internal/middleware"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/services"
	"codejourney-backend/internal/tracker"
)

type emptyCourses struct{}

func (emptyCourses) List(ctx context.Context, f tracker.Filter) ([]models.Course, error) {
	return nil, nil
}
func (emptyCourses) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}
func (emptyCourses) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: uuid.New(), Title: req.Title}, nil
}
func (emptyCourses) Update(ctx context.Context, id uuid.UUID, req models.UpdateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}
func (emptyCourses) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status models.CourseStatus, force bool) (*models.Course, error) {
	return &models.Course{ID: id, Progress: progress}, nil
}
func (emptyCourses) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (emptyCourses) InitCatalog(ctx context.Context, reset bool) (*services.InitResult, error) {
	return &services.InitResult{Message: "Database already initialized", Courses: 17}, nil
}

func newTestRouter(jwtAuth *middleware.JWTAuth) http.Handler {
	courses := handlers.NewCourseHandler(emptyCourses{})
	auth := handlers.NewAuthHandler(services.NewAuthService(jwtAuth, ""))
	ws := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }
	return New(jwtAuth, auth, courses, nil, nil, nil, ws, "*")
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(`{"title":"x","phase":1,"priority":"MUST"}`))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(middleware.NewJWTAuth("", time.Hour))
	rr := do(h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestRouter_WritesOpenWhenAuthDisabled(t *testing.T) {
	h := newTestRouter(middleware.NewJWTAuth("", time.Hour))
	id := uuid.New().String()

	rr := do(h, http.MethodPatch, "/api/courses/"+id+"/progress?progress=30", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouter_WritesNeedTokenWhenAuthEnabled(t *testing.T) {
	jwtAuth := middleware.NewJWTAuth("test-secret", time.Hour)
	h := newTestRouter(jwtAuth)
	id := uuid.New().String()

	if rr := do(h, http.MethodGet, "/api/courses", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads should stay public, got %d", rr.Code)
	}
	if rr := do(h, http.MethodPatch, "/api/courses/"+id+"/progress?progress=30", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d without token, got %d", http.StatusUnauthorized, rr.Code)
	}
	if rr := do(h, http.MethodPost, "/api/init-database", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected init-database to need a token, got %d", rr.Code)
	}

	token, err := jwtAuth.GenerateAccessToken(middleware.AdminSubject)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if rr := do(h, http.MethodPost, "/api/courses", token); rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d with token, got %d", http.StatusCreated, rr.Code)
	}
}

func TestRouter_WebSocketRoute(t *testing.T) {
	h := newTestRouter(middleware.NewJWTAuth("", time.Hour))
	if rr := do(h, http.MethodGet, "/api/ws", ""); rr.Code != http.StatusTeapot {
		t.Fatalf("expected ws handler to be mounted, got %d", rr.Code)
	}
}
