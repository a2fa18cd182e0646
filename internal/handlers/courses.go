package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/services"
	"codejourney-backend/internal/tracker"
)

type courseService interface {
	List(ctx context.Context, f tracker.Filter) ([]models.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateCourseRequest) (*models.Course, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status models.CourseStatus, force bool) (*models.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InitCatalog(ctx context.Context, reset bool) (*services.InitResult, error)
}

type CourseHandler struct {
	courses courseService
}

func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// filterFromQuery reads ?phase=&status=&priority=. A bad value is a 400.
func filterFromQuery(w http.ResponseWriter, r *http.Request) (tracker.Filter, bool) {
	q := r.URL.Query()
	f, err := tracker.ParseFilter(q.Get("phase"), q.Get("status"), q.Get("priority"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return tracker.Filter{}, false
	}
	return f, true
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := filterFromQuery(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.List(r.Context(), f)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "course")
	if !ok {
		return
	}

	course, err := h.courses.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courses.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "course")
	if !ok {
		return
	}
	var req models.UpdateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courses.Update(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// UpdateProgress handles PATCH /courses/{id}/progress?progress=&status=&force=.
func (h *CourseHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "course")
	if !ok {
		return
	}

	q := r.URL.Query()
	progress, err := strconv.Atoi(q.Get("progress"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"progress": "Progress must be an integer"}, r))
		return
	}
	force, _ := strconv.ParseBool(q.Get("force"))

	course, err := h.courses.UpdateProgress(r.Context(), id, progress, models.CourseStatus(q.Get("status")), force)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "course")
	if !ok {
		return
	}

	if err := h.courses.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Course deleted"})
}

// InitDatabase seeds the catalog; ?reset=true wipes courses, logs and sessions first.
func (h *CourseHandler) InitDatabase(w http.ResponseWriter, r *http.Request) {
	reset, _ := strconv.ParseBool(r.URL.Query().Get("reset"))

	result, err := h.courses.InitCatalog(r.Context(), reset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
