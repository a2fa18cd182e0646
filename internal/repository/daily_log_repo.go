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

type DailyLogRepo struct {
	pool *pgxpool.Pool
}

func NewDailyLogRepo(pool *pgxpool.Pool) *DailyLogRepo {
	return &DailyLogRepo{pool: pool}
}

const logColumns = "id, log_date::text, total_time_spent, notes, mood, created_at"

func scanLog(row pgx.Row, l *models.DailyLog) error {
	var mood *int16
	if err := row.Scan(&l.ID, &l.Date, &l.TotalTimeSpent, &l.Notes, &mood, &l.CreatedAt); err != nil {
		return err
	}
	if mood != nil {
		m := int(*mood)
		l.Mood = &m
	}
	return nil
}

// List returns logs newest first, optionally bounded by an inclusive date range.
func (r *DailyLogRepo) List(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error) {
	var where []string
	var args []interface{}
	if q.StartDate != "" {
		args = append(args, q.StartDate)
		where = append(where, fmt.Sprintf("log_date >= $%d::date", len(args)))
	}
	if q.EndDate != "" {
		args = append(args, q.EndDate)
		where = append(where, fmt.Sprintf("log_date <= $%d::date", len(args)))
	}

	query := "SELECT " + logColumns + " FROM daily_logs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY log_date DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.DailyLog{}
	for rows.Next() {
		var l models.DailyLog
		if err := scanLog(rows, &l); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachEntries(ctx, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *DailyLogRepo) attachEntries(ctx context.Context, logs []models.DailyLog) error {
	if len(logs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(logs))
	byID := make(map[uuid.UUID]int, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
		byID[l.ID] = i
		logs[i].Courses = []models.CourseActivity{}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT log_id, course_id, course_title, time_spent, progress_notes
		 FROM log_entries WHERE log_id = ANY($1) ORDER BY log_id, position`, ids)
	if err != nil {
		return fmt.Errorf("failed to load log entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var logID uuid.UUID
		var a models.CourseActivity
		if err := rows.Scan(&logID, &a.CourseID, &a.CourseTitle, &a.TimeSpent, &a.ProgressNotes); err != nil {
			return err
		}
		if i, ok := byID[logID]; ok {
			logs[i].Courses = append(logs[i].Courses, a)
		}
	}
	return rows.Err()
}

func (r *DailyLogRepo) getOne(ctx context.Context, where string, arg interface{}) (*models.DailyLog, error) {
	l := models.DailyLog{}
	if err := scanLog(r.pool.QueryRow(ctx, "SELECT "+logColumns+" FROM daily_logs WHERE "+where, arg), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	logs := []models.DailyLog{l}
	if err := r.attachEntries(ctx, logs); err != nil {
		return nil, err
	}
	return &logs[0], nil
}

func (r *DailyLogRepo) GetByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	return r.getOne(ctx, "log_date = $1::date", date)
}

func (r *DailyLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DailyLog, error) {
	return r.getOne(ctx, "id = $1", id)
}

// Save replaces whatever log exists for l.Date with l and writes the courses whose
// time roll-up changed, atomically.
func (r *DailyLogRepo) Save(ctx context.Context, l *models.DailyLog, touched []models.Course) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM daily_logs WHERE log_date = $1::date", l.Date); err != nil {
			return fmt.Errorf("failed to replace log for %s: %w", l.Date, err)
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO daily_logs (id, log_date, total_time_spent, notes, mood)
			 VALUES ($1, $2::date, $3, $4, $5) RETURNING created_at`,
			l.ID, l.Date, l.TotalTimeSpent, l.Notes, l.Mood,
		).Scan(&l.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert log: %w", err)
		}

		batch := &pgx.Batch{}
		for i, a := range l.Courses {
			batch.Queue(
				`INSERT INTO log_entries (log_id, position, course_id, course_title, time_spent, progress_notes)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				l.ID, i, a.CourseID, a.CourseTitle, a.TimeSpent, a.ProgressNotes,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert log entries: %w", err)
		}

		return updateCourses(ctx, tx, touched)
	})
}

func (r *DailyLogRepo) Delete(ctx context.Context, id uuid.UUID, touched []models.Course) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "DELETE FROM daily_logs WHERE id = $1", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return updateCourses(ctx, tx, touched)
	})
}

func updateCourses(ctx context.Context, tx pgx.Tx, courses []models.Course) error {
	for i := range courses {
		if err := updateCourse(ctx, tx, &courses[i]); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to update course %s: %w", courses[i].ID, err)
		}
	}
	return nil
}
