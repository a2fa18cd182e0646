package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

func newTestCourseService(courses ...models.Course) (*CourseService, *memCourses) {
	store := newMemCourses(courses...)
	svc := NewCourseService(store, nil, fixedNow.Location())
	svc.now = clockAt(fixedNow)
	return svc, store
}

func TestCourseService_CreateValidation(t *testing.T) {
	svc, _ := newTestCourseService()

	_, err := svc.Create(context.Background(), models.CreateCourseRequest{
		Title:    "  ",
		Phase:    9,
		Priority: "Someday",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"title", "phase", "priority"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Errorf("expected %s field error, got %v", field, vErr.Fields)
		}
	}
}

func TestCourseService_CreateDerivesThumbnail(t *testing.T) {
	svc, store := newTestCourseService()

	c, err := svc.Create(context.Background(), models.CreateCourseRequest{
		Title:         "Go",
		Phase:         4,
		PhaseTitle:    "Backend Basics",
		DurationHours: 3,
		Priority:      models.PriorityMust,
		YouTubeURL:    "https://youtu.be/EsUL2bfKKLc?si=53OHd",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Thumbnail != "https://img.youtube.com/vi/EsUL2bfKKLc/maxresdefault.jpg" {
		t.Errorf("unexpected thumbnail %q", c.Thumbnail)
	}
	if c.Status != models.StatusNotStarted || c.Progress != 0 {
		t.Errorf("expected new course Not Started at 0, got %s/%d", c.Status, c.Progress)
	}
	if n, _ := store.Count(context.Background()); n != 1 {
		t.Errorf("expected one stored course, got %d", n)
	}
}

func TestCourseService_UpdateRefreshesThumbnail(t *testing.T) {
	svc, store := newTestCourseService(testCourse("React", 3, 50))
	id := store.order[0]
	url := "https://www.youtube.com/watch?v=M9O5AjEFzKw"
	title := "React Monster"

	c, err := svc.Update(context.Background(), id, models.UpdateCourseRequest{Title: &title, YouTubeURL: &url})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Title != title || c.Thumbnail != "https://img.youtube.com/vi/M9O5AjEFzKw/maxresdefault.jpg" {
		t.Errorf("unexpected update result %+v", c)
	}
	if !c.UpdatedAt.Equal(fixedNow) {
		t.Errorf("expected updated_at stamped, got %v", c.UpdatedAt)
	}

	empty := ""
	if _, err := svc.Update(context.Background(), id, models.UpdateCourseRequest{Title: &empty}); err == nil {
		t.Fatalf("expected empty title to be rejected")
	}
}

func TestCourseService_UpdateProgressTransitions(t *testing.T) {
	svc, store := newTestCourseService(testCourse("React", 3, 50))
	id := store.order[0]
	ctx := context.Background()

	c, err := svc.UpdateProgress(ctx, id, tracker.StartedProgress, models.StatusInProgress, false)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Status != models.StatusInProgress || c.Progress != 5 {
		t.Fatalf("expected In Progress at 5, got %s/%d", c.Status, c.Progress)
	}
	if c.StartDate == nil || *c.StartDate != "2026-03-10" {
		t.Fatalf("expected start date stamped, got %v", c.StartDate)
	}

	c, err = svc.UpdateProgress(ctx, id, 40, models.StatusCompleted, false)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if c.Progress != 100 || c.Status != models.StatusCompleted {
		t.Fatalf("expected Completed to force 100, got %s/%d", c.Status, c.Progress)
	}
	if c.CompletionDate == nil {
		t.Fatalf("expected completion date")
	}

	_, err = svc.UpdateProgress(ctx, id, 60, "", false)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict lowering a completed course, got %v", err)
	}
	stored, _ := store.GetByID(ctx, id)
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected rejected update to leave course untouched, got %s", stored.Status)
	}

	c, err = svc.UpdateProgress(ctx, id, 60, "", true)
	if err != nil {
		t.Fatalf("forced lower: %v", err)
	}
	if c.Status != models.StatusInProgress || c.CompletionDate != nil {
		t.Fatalf("expected In Progress without completion date, got %s/%v", c.Status, c.CompletionDate)
	}

	c, err = svc.UpdateProgress(ctx, id, 0, models.StatusInProgress, false)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if c.Status != models.StatusNotStarted {
		t.Fatalf("expected progress 0 to mean Not Started, got %s", c.Status)
	}
}

func TestCourseService_UpdateProgressErrors(t *testing.T) {
	svc, store := newTestCourseService(testCourse("React", 3, 50))
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := svc.UpdateProgress(ctx, store.order[0], 150, "", false); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for 150, got %v", err)
	}
	if _, err := svc.UpdateProgress(ctx, store.order[0], 10, "Paused", false); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	var nf *NotFoundError
	if _, err := svc.UpdateProgress(ctx, uuid.New(), 10, "", false); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCourseService_InitCatalog(t *testing.T) {
	svc, store := newTestCourseService()
	ctx := context.Background()

	res, err := svc.InitCatalog(ctx, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if res.Courses != 17 || res.Message != "Database initialized with 17 courses" {
		t.Fatalf("unexpected init result %+v", res)
	}

	res, err = svc.InitCatalog(ctx, false)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if res.Message != "Database already initialized" || store.seeded != 1 {
		t.Fatalf("expected second init to be a no-op, got %+v (seeded %d)", res, store.seeded)
	}

	res, err = svc.InitCatalog(ctx, true)
	if err != nil {
		t.Fatalf("reset init: %v", err)
	}
	if store.seeded != 2 || res.Courses != 17 {
		t.Fatalf("expected reset to reseed, got %+v", res)
	}
	if n, _ := store.Count(ctx); n != 17 {
		t.Fatalf("expected 17 courses after reset, got %d", n)
	}
}

func TestCourseService_Delete(t *testing.T) {
	svc, store := newTestCourseService(testCourse("React", 3, 50))
	ctx := context.Background()

	if err := svc.Delete(ctx, store.order[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var nf *NotFoundError
	if err := svc.Delete(ctx, uuid.New()); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}
