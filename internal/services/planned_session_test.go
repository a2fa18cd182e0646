package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
)

func newTestPlannedService(courses ...models.Course) (*PlannedSessionService, *memPlanned, *memCourses) {
	courseStore := newMemCourses(courses...)
	planned := newMemPlanned()
	return NewPlannedSessionService(planned, courseStore, nil), planned, courseStore
}

func TestPlannedSessionService_CreateDefaultsAndTitle(t *testing.T) {
	svc, _, courses := newTestPlannedService(testCourse("TypeScript Pro", 2, 4))

	s, err := svc.Create(context.Background(), models.CreatePlannedSessionRequest{
		CourseID:    courses.order[0],
		PlannedDate: "2026-03-12",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.EstimatedTime != models.DefaultEstimatedMinutes {
		t.Errorf("expected default estimate, got %d", s.EstimatedTime)
	}
	if s.CourseTitle != "TypeScript Pro" {
		t.Errorf("expected course title copied, got %q", s.CourseTitle)
	}
}

func TestPlannedSessionService_CreateErrors(t *testing.T) {
	svc, _, _ := newTestPlannedService()
	ctx := context.Background()

	var vErr *ValidationError
	_, err := svc.Create(ctx, models.CreatePlannedSessionRequest{PlannedDate: "March 12", EstimatedTime: -5})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(vErr.Fields) != 3 {
		t.Errorf("expected course, date and estimate errors, got %v", vErr.Fields)
	}

	var nf *NotFoundError
	_, err = svc.Create(ctx, models.CreatePlannedSessionRequest{CourseID: uuid.New(), PlannedDate: "2026-03-12"})
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found for unknown course, got %v", err)
	}
}

func TestPlannedSessionService_UpdateAndDelete(t *testing.T) {
	svc, planned, courses := newTestPlannedService(testCourse("GraphQL", 7, 0.5))
	ctx := context.Background()

	s, err := svc.Create(ctx, models.CreatePlannedSessionRequest{CourseID: courses.order[0], PlannedDate: "2026-03-12", EstimatedTime: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := true
	notes := "finished early"
	updated, err := svc.Update(ctx, s.ID, models.UpdatePlannedSessionRequest{IsCompleted: &done, Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsCompleted || updated.Notes != notes || updated.EstimatedTime != 30 {
		t.Fatalf("unexpected update %+v", updated)
	}

	if err := svc.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(planned.byID) != 0 {
		t.Fatalf("expected session removed")
	}

	var nf *NotFoundError
	if _, err := svc.Update(ctx, s.ID, models.UpdatePlannedSessionRequest{}); !errors.As(err, &nf) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := svc.Delete(ctx, s.ID); !errors.As(err, &nf) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestPlannedSessionService_ListValidatesRange(t *testing.T) {
	svc, _, _ := newTestPlannedService()

	var vErr *ValidationError
	if _, err := svc.List(context.Background(), models.PlannedQuery{StartDate: "soon"}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
