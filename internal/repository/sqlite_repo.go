package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

// The SQLite stores mirror the Postgres repos for single-user local runs
// (STORE_DRIVER=sqlite). Timestamps are RFC 3339 text; dates are YYYY-MM-DD text.

const sqliteTimeLayout = time.RFC3339Nano

func sqliteNow() string {
	return time.Now().UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) time.Time {
	t, _ := time.Parse(sqliteTimeLayout, s)
	return t
}

func withSQLiteTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqliteExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqliteQueryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ---- courses ----

type SQLiteCourseRepo struct {
	db *sql.DB
}

func NewSQLiteCourseRepo(db *sql.DB) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: db}
}

const sqliteCourseColumns = `c.id, c.title, c.phase, COALESCE(p.title, ''), c.duration_hours, c.priority,
	c.youtube_url, c.thumbnail, c.description, c.status, c.progress,
	c.start_date, c.completion_date, c.total_time_spent, c.created_at, c.updated_at`

func scanSQLiteCourse(row rowScanner, c *models.Course) error {
	var createdAt, updatedAt string
	if err := row.Scan(
		&c.ID, &c.Title, &c.Phase, &c.PhaseTitle, &c.DurationHours, &c.Priority,
		&c.YouTubeURL, &c.Thumbnail, &c.Description, &c.Status, &c.Progress,
		&c.StartDate, &c.CompletionDate, &c.TotalTimeSpent, &createdAt, &updatedAt,
	); err != nil {
		return err
	}
	c.CreatedAt = parseSQLiteTime(createdAt)
	c.UpdatedAt = parseSQLiteTime(updatedAt)
	return nil
}

func (r *SQLiteCourseRepo) List(ctx context.Context, f tracker.Filter) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sqliteCourseColumns+" FROM courses c LEFT JOIN phases p ON p.number = c.phase ORDER BY c.rowid")
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := scanSQLiteCourse(rows, &c); err != nil {
			return nil, err
		}
		if f.Match(c) {
			courses = append(courses, c)
		}
	}
	return courses, rows.Err()
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c := &models.Course{}
	query := "SELECT " + sqliteCourseColumns + " FROM courses c LEFT JOIN phases p ON p.number = c.phase WHERE c.id = ?"
	if err := scanSQLiteCourse(r.db.QueryRowContext(ctx, query, id), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCourseRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n)
	return n, err
}

func (r *SQLiteCourseRepo) Create(ctx context.Context, c *models.Course) error {
	return withSQLiteTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertSQLiteCourse(ctx, tx, c)
	})
}

func insertSQLiteCourse(ctx context.Context, tx *sql.Tx, c *models.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO phases (number, title) VALUES (?, ?) ON CONFLICT(number) DO NOTHING",
		c.Phase, c.PhaseTitle,
	); err != nil {
		return fmt.Errorf("upsert phase %d: %w", c.Phase, err)
	}

	now := sqliteNow()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO courses (id, title, phase, duration_hours, priority, youtube_url, thumbnail,
		 description, status, progress, start_date, completion_date, total_time_spent, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Phase, c.DurationHours, string(c.Priority), c.YouTubeURL, c.Thumbnail,
		c.Description, string(c.Status), c.Progress, c.StartDate, c.CompletionDate, c.TotalTimeSpent, now, now,
	); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	c.CreatedAt = parseSQLiteTime(now)
	c.UpdatedAt = c.CreatedAt

	return tx.QueryRowContext(ctx, "SELECT title FROM phases WHERE number = ?", c.Phase).Scan(&c.PhaseTitle)
}

func (r *SQLiteCourseRepo) Update(ctx context.Context, c *models.Course) error {
	return updateSQLiteCourse(ctx, r.db, c)
}

func updateSQLiteCourse(ctx context.Context, db sqliteExecer, c *models.Course) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	res, err := db.ExecContext(ctx,
		`UPDATE courses SET title = ?, duration_hours = ?, priority = ?, youtube_url = ?,
		 thumbnail = ?, description = ?, status = ?, progress = ?, start_date = ?,
		 completion_date = ?, total_time_spent = ?, updated_at = ?
		 WHERE id = ?`,
		c.Title, c.DurationHours, string(c.Priority), c.YouTubeURL,
		c.Thumbnail, c.Description, string(c.Status), c.Progress, c.StartDate,
		c.CompletionDate, c.TotalTimeSpent, c.UpdatedAt.UTC().Format(sqliteTimeLayout), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return withSQLiteTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM planned_sessions WHERE course_id = ?", id); err != nil {
			return fmt.Errorf("delete course sessions: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		return requireAffected(res)
	})
}

func (r *SQLiteCourseRepo) Seed(ctx context.Context, phases []models.Phase, courses []models.Course, reset bool) error {
	return withSQLiteTx(ctx, r.db, func(tx *sql.Tx) error {
		if reset {
			for _, table := range []string{"planned_sessions", "log_entries", "daily_logs", "courses", "phases"} {
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
		}

		for _, p := range phases {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO phases (number, title) VALUES (?, ?) ON CONFLICT(number) DO UPDATE SET title = excluded.title",
				p.Number, p.Title,
			); err != nil {
				return fmt.Errorf("seed phase %d: %w", p.Number, err)
			}
		}

		for i := range courses {
			if err := insertSQLiteCourse(ctx, tx, &courses[i]); err != nil {
				return fmt.Errorf("seed course %q: %w", courses[i].Title, err)
			}
		}
		return nil
	})
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- daily logs ----

type SQLiteDailyLogRepo struct {
	db *sql.DB
}

func NewSQLiteDailyLogRepo(db *sql.DB) *SQLiteDailyLogRepo {
	return &SQLiteDailyLogRepo{db: db}
}

const sqliteLogColumns = "id, log_date, total_time_spent, notes, mood, created_at"

func scanSQLiteLog(row rowScanner, l *models.DailyLog) error {
	var createdAt string
	if err := row.Scan(&l.ID, &l.Date, &l.TotalTimeSpent, &l.Notes, &l.Mood, &createdAt); err != nil {
		return err
	}
	l.CreatedAt = parseSQLiteTime(createdAt)
	return nil
}

func (r *SQLiteDailyLogRepo) List(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error) {
	var where []string
	var args []any
	if q.StartDate != "" {
		where = append(where, "log_date >= ?")
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		where = append(where, "log_date <= ?")
		args = append(args, q.EndDate)
	}

	query := "SELECT " + sqliteLogColumns + " FROM daily_logs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY log_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	logs := []models.DailyLog{}
	for rows.Next() {
		var l models.DailyLog
		if err := scanSQLiteLog(rows, &l); err != nil {
			rows.Close()
			return nil, err
		}
		logs = append(logs, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		if err := r.attachEntries(ctx, r.db, &logs[i]); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

func (r *SQLiteDailyLogRepo) attachEntries(ctx context.Context, db sqliteQueryer, l *models.DailyLog) error {
	rows, err := db.QueryContext(ctx,
		`SELECT course_id, course_title, time_spent, progress_notes
		 FROM log_entries WHERE log_id = ? ORDER BY position`, l.ID)
	if err != nil {
		return fmt.Errorf("load log entries: %w", err)
	}
	defer rows.Close()

	l.Courses = []models.CourseActivity{}
	for rows.Next() {
		var a models.CourseActivity
		if err := rows.Scan(&a.CourseID, &a.CourseTitle, &a.TimeSpent, &a.ProgressNotes); err != nil {
			return err
		}
		l.Courses = append(l.Courses, a)
	}
	return rows.Err()
}

func (r *SQLiteDailyLogRepo) getOne(ctx context.Context, where string, arg any) (*models.DailyLog, error) {
	l := &models.DailyLog{}
	if err := scanSQLiteLog(r.db.QueryRowContext(ctx, "SELECT "+sqliteLogColumns+" FROM daily_logs WHERE "+where, arg), l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.attachEntries(ctx, r.db, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteDailyLogRepo) GetByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	return r.getOne(ctx, "log_date = ?", date)
}

func (r *SQLiteDailyLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DailyLog, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *SQLiteDailyLogRepo) Save(ctx context.Context, l *models.DailyLog, touched []models.Course) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	return withSQLiteTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM log_entries WHERE log_id IN (SELECT id FROM daily_logs WHERE log_date = ?)", l.Date,
		); err != nil {
			return fmt.Errorf("replace log entries for %s: %w", l.Date, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM daily_logs WHERE log_date = ?", l.Date); err != nil {
			return fmt.Errorf("replace log for %s: %w", l.Date, err)
		}

		now := sqliteNow()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_logs (id, log_date, total_time_spent, notes, mood, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, l.Date, l.TotalTimeSpent, l.Notes, l.Mood, now,
		); err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		l.CreatedAt = parseSQLiteTime(now)

		for i, a := range l.Courses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO log_entries (log_id, position, course_id, course_title, time_spent, progress_notes)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				l.ID, i, a.CourseID, a.CourseTitle, a.TimeSpent, a.ProgressNotes,
			); err != nil {
				return fmt.Errorf("insert log entry: %w", err)
			}
		}

		return updateSQLiteCourses(ctx, tx, touched)
	})
}

func (r *SQLiteDailyLogRepo) Delete(ctx context.Context, id uuid.UUID, touched []models.Course) error {
	return withSQLiteTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM log_entries WHERE log_id = ?", id); err != nil {
			return fmt.Errorf("delete log entries: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM daily_logs WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete log: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		return updateSQLiteCourses(ctx, tx, touched)
	})
}

func updateSQLiteCourses(ctx context.Context, tx *sql.Tx, courses []models.Course) error {
	for i := range courses {
		if err := updateSQLiteCourse(ctx, tx, &courses[i]); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// ---- planned sessions ----

type SQLitePlannedSessionRepo struct {
	db *sql.DB
}

func NewSQLitePlannedSessionRepo(db *sql.DB) *SQLitePlannedSessionRepo {
	return &SQLitePlannedSessionRepo{db: db}
}

const sqlitePlannedColumns = "id, course_id, course_title, planned_date, estimated_time, notes, is_completed, created_at"

func scanSQLitePlanned(row rowScanner, s *models.PlannedSession) error {
	var createdAt string
	if err := row.Scan(&s.ID, &s.CourseID, &s.CourseTitle, &s.PlannedDate, &s.EstimatedTime, &s.Notes, &s.IsCompleted, &createdAt); err != nil {
		return err
	}
	s.CreatedAt = parseSQLiteTime(createdAt)
	return nil
}

func (r *SQLitePlannedSessionRepo) List(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error) {
	var where []string
	var args []any
	if q.StartDate != "" {
		where = append(where, "planned_date >= ?")
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		where = append(where, "planned_date <= ?")
		args = append(args, q.EndDate)
	}
	if q.CourseID != nil {
		where = append(where, "course_id = ?")
		args = append(args, *q.CourseID)
	}

	query := "SELECT " + sqlitePlannedColumns + " FROM planned_sessions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY planned_date, created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list planned sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.PlannedSession{}
	for rows.Next() {
		var s models.PlannedSession
		if err := scanSQLitePlanned(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SQLitePlannedSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedSession, error) {
	s := &models.PlannedSession{}
	if err := scanSQLitePlanned(r.db.QueryRowContext(ctx, "SELECT "+sqlitePlannedColumns+" FROM planned_sessions WHERE id = ?", id), s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLitePlannedSessionRepo) Create(ctx context.Context, s *models.PlannedSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := sqliteNow()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO planned_sessions (id, course_id, course_title, planned_date, estimated_time, notes, is_completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CourseID, s.CourseTitle, s.PlannedDate, s.EstimatedTime, s.Notes, s.IsCompleted, now,
	); err != nil {
		return fmt.Errorf("insert planned session: %w", err)
	}
	s.CreatedAt = parseSQLiteTime(now)
	return nil
}

func (r *SQLitePlannedSessionRepo) Update(ctx context.Context, s *models.PlannedSession) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE planned_sessions SET estimated_time = ?, notes = ?, is_completed = ? WHERE id = ?",
		s.EstimatedTime, s.Notes, s.IsCompleted, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update planned session: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLitePlannedSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM planned_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete planned session: %w", err)
	}
	return requireAffected(res)
}
