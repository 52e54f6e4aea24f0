package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/store"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	if err := CreateDefaultData(ctx, st, zerolog.Nop()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := CreateDefaultData(ctx, st, zerolog.Nop()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	users, err := st.Query(ctx, models.CollectionUsers, nil)
	if err != nil {
		t.Fatalf("query users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 default accounts, got %d", len(users))
	}

	admins, err := st.Query(ctx, models.CollectionUsers, []store.Predicate{
		store.Eq("usn_emp", "ADMIN"),
	})
	if err != nil {
		t.Fatalf("query admin: %v", err)
	}
	if len(admins) != 1 || admins[0]["role"] != "admin" {
		t.Fatalf("unexpected admin account: %+v", admins)
	}
	if pw, _ := admins[0]["password"].(string); pw == "" || pw == "admin123" {
		t.Fatal("default password must be stored hashed")
	}
}
