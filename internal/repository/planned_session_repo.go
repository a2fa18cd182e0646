package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codejourney-backend/internal/models"
)

type PlannedSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPlannedSessionRepo(pool *pgxpool.Pool) *PlannedSessionRepo {
	return &PlannedSessionRepo{pool: pool}
}

const plannedColumns = "id, course_id, course_title, planned_date::text, estimated_time, notes, is_completed, created_at"

func scanPlanned(row pgx.Row, s *models.PlannedSession) error {
	return row.Scan(&s.ID, &s.CourseID, &s.CourseTitle, &s.PlannedDate, &s.EstimatedTime, &s.Notes, &s.IsCompleted, &s.CreatedAt)
}

// List returns sessions in planned-date order.
func (r *PlannedSessionRepo) List(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error) {
	var where []string
	var args []interface{}
	if q.StartDate != "" {
		args = append(args, q.StartDate)
		where = append(where, fmt.Sprintf("planned_date >= $%d::date", len(args)))
	}
	if q.EndDate != "" {
		args = append(args, q.EndDate)
		where = append(where, fmt.Sprintf("planned_date <= $%d::date", len(args)))
	}
	if q.CourseID != nil {
		args = append(args, *q.CourseID)
		where = append(where, fmt.Sprintf("course_id = $%d", len(args)))
	}

	query := "SELECT " + plannedColumns + " FROM planned_sessions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY planned_date, created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.PlannedSession{}
	for rows.Next() {
		var s models.PlannedSession
		if err := scanPlanned(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PlannedSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedSession, error) {
	s := &models.PlannedSession{}
	if err := scanPlanned(r.pool.QueryRow(ctx, "SELECT "+plannedColumns+" FROM planned_sessions WHERE id = $1", id), s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *PlannedSessionRepo) Create(ctx context.Context, s *models.PlannedSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO planned_sessions (id, course_id, course_title, planned_date, estimated_time, notes, is_completed)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7) RETURNING created_at`,
		s.ID, s.CourseID, s.CourseTitle, s.PlannedDate, s.EstimatedTime, s.Notes, s.IsCompleted,
	).Scan(&s.CreatedAt)
}

func (r *PlannedSessionRepo) Update(ctx context.Context, s *models.PlannedSession) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE planned_sessions SET estimated_time = $1, notes = $2, is_completed = $3 WHERE id = $4",
		s.EstimatedTime, s.Notes, s.IsCompleted, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlannedSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM planned_sessions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
