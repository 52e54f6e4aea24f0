package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/store"
)

// newTestStore returns an in-memory store and an audit trail over it.
func newTestStore() (*store.MemoryStore, *audit.Trail) {
	st := store.NewMemoryStore()
	return st, audit.NewTrail(st, zerolog.Nop())
}

func seedUser(t *testing.T, st store.Store, usn, name string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New().String(),
		USNEmp:   usn,
		Name:     name,
		Password: "$2a$12$invalidhashforseedusers0000000000000000000000000000000",
		Role:     role,
	}
	doc, err := store.Encode(user)
	if err != nil {
		t.Fatalf("encode user: %v", err)
	}
	if err := st.Put(context.Background(), models.CollectionUsers, user.ID, doc); err != nil {
		t.Fatalf("seed user %s: %v", usn, err)
	}
	return user
}

func seedSubject(t *testing.T, st store.Store, id, name, teacherUSN string) models.Subject {
	t.Helper()
	subject := models.Subject{ID: id, Name: name, TeacherUSN: teacherUSN}
	doc, err := store.Encode(subject)
	if err != nil {
		t.Fatalf("encode subject: %v", err)
	}
	if err := st.Put(context.Background(), models.CollectionSubjects, id, doc); err != nil {
		t.Fatalf("seed subject %s: %v", id, err)
	}
	return subject
}

func auditActions(t *testing.T, trail *audit.Trail) []string {
	t.Helper()
	entries, err := trail.List(context.Background())
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	return actions
}

func containsAction(actions []string, action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
