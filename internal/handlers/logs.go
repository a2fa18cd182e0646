package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codejourney-backend/internal/models"
)

type dailyLogService interface {
	List(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error)
	GetByDate(ctx context.Context, date string) (*models.DailyLog, error)
	Create(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DailyLogHandler struct {
	logs dailyLogService
}

func NewDailyLogHandler(logs dailyLogService) *DailyLogHandler {
	return &DailyLogHandler{logs: logs}
}

func (h *DailyLogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := models.LogQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	logs, err := h.logs.List(r.Context(), q)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.DailyLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// GetByDate answers null rather than 404 for a day with no log.
func (h *DailyLogHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	l, err := h.logs.GetByDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *DailyLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDailyLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := h.logs.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *DailyLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "log")
	if !ok {
		return
	}

	if err := h.logs.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Daily log deleted"})
}
