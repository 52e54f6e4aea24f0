package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
)

func TestSubjectLifecycle(t *testing.T) {
	st, trail := newTestStore()
	svc := NewSubjectService(st, trail)
	ctx := context.Background()

	subject, err := svc.Create(ctx, "Operating Systems", "EMP042")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if subject.ID == "" {
		t.Fatal("expected a generated subject id")
	}

	updated, err := svc.Update(ctx, subject.ID, "Advanced Operating Systems", "EMP043")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Advanced Operating Systems" || updated.TeacherUSN != "EMP043" {
		t.Fatalf("unexpected updated subject: %+v", updated)
	}

	if err := svc.Delete(ctx, subject.ID, "ADMIN"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("subject not deleted: %+v", remaining)
	}

	actions := auditActions(t, trail)
	for _, want := range []string{"Subject Created", "Subject Updated", "Subject Deleted"} {
		if !containsAction(actions, want) {
			t.Fatalf("missing audit action %q: %v", want, actions)
		}
	}
}

func TestSubjectNotFound(t *testing.T) {
	st, trail := newTestStore()
	svc := NewSubjectService(st, trail)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "missing", "X", "EMP042"); !errors.Is(err, apperrors.ErrSubjectNotFound) {
		t.Fatalf("expected subject not found on update, got %v", err)
	}
	if err := svc.Delete(ctx, "missing", "ADMIN"); !errors.Is(err, apperrors.ErrSubjectNotFound) {
		t.Fatalf("expected subject not found on delete, got %v", err)
	}
}

func TestSubjectListByTeacher(t *testing.T) {
	st, trail := newTestStore()
	svc := NewSubjectService(st, trail)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Math", "EMP042"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Physics", "EMP043"); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.List(ctx, "EMP042")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Math" {
		t.Fatalf("unexpected subjects: %+v", mine)
	}
}
