package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

const courseColumns = `c.id, c.title, c.phase, COALESCE(p.title, ''), c.duration_hours, c.priority,
	c.youtube_url, c.thumbnail, c.description, c.status, c.progress,
	c.start_date::text, c.completion_date::text, c.total_time_spent, c.created_at, c.updated_at`

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Phase, &c.PhaseTitle, &c.DurationHours, &c.Priority,
		&c.YouTubeURL, &c.Thumbnail, &c.Description, &c.Status, &c.Progress,
		&c.StartDate, &c.CompletionDate, &c.TotalTimeSpent, &c.CreatedAt, &c.UpdatedAt,
	)
}

// List returns courses in catalog order, narrowed by f. Filtering goes through
// tracker.Filter.Match so the API and the client agree on what a filter selects.
func (r *CourseRepo) List(ctx context.Context, f tracker.Filter) ([]models.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses c LEFT JOIN phases p ON p.number = c.phase ORDER BY c.position"
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		if f.Match(c) {
			courses = append(courses, c)
		}
	}
	return courses, rows.Err()
}

func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c := &models.Course{}
	query := "SELECT " + courseColumns + " FROM courses c LEFT JOIN phases p ON p.number = c.phase WHERE c.id = $1"
	if err := scanCourse(r.pool.QueryRow(ctx, query, id), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CourseRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM courses").Scan(&n)
	return n, err
}

// Create registers the course's phase if it is new; an existing phase keeps its title.
func (r *CourseRepo) Create(ctx context.Context, c *models.Course) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return insertCourse(ctx, tx, c)
	})
}

func insertCourse(ctx context.Context, tx pgx.Tx, c *models.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO phases (number, title) VALUES ($1, $2) ON CONFLICT (number) DO NOTHING",
		c.Phase, c.PhaseTitle,
	); err != nil {
		return fmt.Errorf("failed to upsert phase %d: %w", c.Phase, err)
	}

	query := `INSERT INTO courses (id, title, phase, duration_hours, priority, youtube_url, thumbnail,
		description, status, progress, start_date, completion_date, total_time_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	if err := tx.QueryRow(ctx, query,
		c.ID, c.Title, c.Phase, c.DurationHours, string(c.Priority), c.YouTubeURL, c.Thumbnail,
		c.Description, string(c.Status), c.Progress, c.StartDate, c.CompletionDate, c.TotalTimeSpent,
	).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}

	return tx.QueryRow(ctx, "SELECT title FROM phases WHERE number = $1", c.Phase).Scan(&c.PhaseTitle)
}

func (r *CourseRepo) Update(ctx context.Context, c *models.Course) error {
	return updateCourse(ctx, r.pool, c)
}

func updateCourse(ctx context.Context, db execer, c *models.Course) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	tag, err := db.Exec(ctx,
		`UPDATE courses SET title = $1, duration_hours = $2, priority = $3, youtube_url = $4,
		 thumbnail = $5, description = $6, status = $7, progress = $8, start_date = $9,
		 completion_date = $10, total_time_spent = $11, updated_at = $12
		 WHERE id = $13`,
		c.Title, c.DurationHours, string(c.Priority), c.YouTubeURL,
		c.Thumbnail, c.Description, string(c.Status), c.Progress, c.StartDate,
		c.CompletionDate, c.TotalTimeSpent, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed loads the catalog. With reset every course, log and planned session is
// removed first; the whole operation is one transaction.
func (r *CourseRepo) Seed(ctx context.Context, phases []models.Phase, courses []models.Course, reset bool) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if reset {
			for _, table := range []string{"planned_sessions", "log_entries", "daily_logs", "courses", "phases"} {
				if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
		}

		for _, p := range phases {
			if _, err := tx.Exec(ctx,
				"INSERT INTO phases (number, title) VALUES ($1, $2) ON CONFLICT (number) DO UPDATE SET title = EXCLUDED.title",
				p.Number, p.Title,
			); err != nil {
				return fmt.Errorf("failed to seed phase %d: %w", p.Number, err)
			}
		}

		for i := range courses {
			if err := insertCourse(ctx, tx, &courses[i]); err != nil {
				return fmt.Errorf("failed to seed course %q: %w", courses[i].Title, err)
			}
		}
		return nil
	})
}
