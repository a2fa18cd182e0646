package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
)

type plannedSessionService interface {
	List(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error)
	Create(ctx context.Context, req models.CreatePlannedSessionRequest) (*models.PlannedSession, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdatePlannedSessionRequest) (*models.PlannedSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PlannedSessionHandler struct {
	planned plannedSessionService
}

func NewPlannedSessionHandler(planned plannedSessionService) *PlannedSessionHandler {
	return &PlannedSessionHandler{planned: planned}
}

func (h *PlannedSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := models.PlannedQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course ID", r))
			return
		}
		q.CourseID = &courseID
	}

	sessions, err := h.planned.List(r.Context(), q)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.PlannedSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *PlannedSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlannedSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.planned.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *PlannedSessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "session")
	if !ok {
		return
	}
	var req models.UpdatePlannedSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.planned.Update(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *PlannedSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "session")
	if !ok {
		return
	}

	if err := h.planned.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Planned session deleted"})
}
