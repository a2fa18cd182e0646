package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

type analyticsService interface {
	Summary(ctx context.Context) (*models.AnalyticsSummary, error)
	Progress(ctx context.Context) ([]models.ProgressPoint, error)
	Heatmap(ctx context.Context) (map[string]models.HeatmapCell, error)
	Phases(ctx context.Context, f tracker.Filter) ([]tracker.PhaseGroup, error)
	Completed(ctx context.Context) ([]models.Course, error)
	Calendar(ctx context.Context, year, month0 int) (*tracker.MonthGrid, error)
}

type AnalyticsHandler struct {
	analytics analyticsService
	now       func() time.Time
}

func NewAnalyticsHandler(analytics analyticsService, loc *time.Location) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	points, err := h.analytics.Progress(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if points == nil {
		points = []models.ProgressPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"daily_progress": points})
}

func (h *AnalyticsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	cells, err := h.analytics.Heatmap(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if cells == nil {
		cells = map[string]models.HeatmapCell{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"heatmap": cells})
}

func (h *AnalyticsHandler) Phases(w http.ResponseWriter, r *http.Request) {
	f, ok := filterFromQuery(w, r)
	if !ok {
		return
	}

	groups, err := h.analytics.Phases(r.Context(), f)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if groups == nil {
		groups = []tracker.PhaseGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *AnalyticsHandler) Completed(w http.ResponseWriter, r *http.Request) {
	courses, err := h.analytics.Completed(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// Calendar takes ?year=&month= with month 1-12. Either one missing means the current
// year or month.
func (h *AnalyticsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if raw := q.Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"year": "Year must be an integer"}, r))
			return
		}
		year = v
	}
	if raw := q.Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"month": "Month must be an integer"}, r))
			return
		}
		month = v
	}

	grid, err := h.analytics.Calendar(r.Context(), year, month-1)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}
