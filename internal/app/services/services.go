// Package services contains the workflow engines of the portal. Each
// service reads state fresh from the record store per operation and holds
// no state of its own between calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/store"
)

// unknownActor is recorded when the caller does not supply an identity
const unknownActor = "unknown"

// findUserByHandle resolves a user by their USN/EMP handle. Returns nil
// when no user matches.
func findUserByHandle(ctx context.Context, st store.Store, usn string) (*models.User, error) {
	docs, err := st.Query(ctx, models.CollectionUsers, []store.Predicate{
		store.Eq("usn_emp", usn),
	})
	if err != nil {
		return nil, fmt.Errorf("error looking up user %q: %w", usn, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var user models.User
	if err := store.Decode(docs[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// getSubject fetches a subject by id. Returns nil when absent.
func getSubject(ctx context.Context, st store.Store, id string) (*models.Subject, error) {
	doc, err := st.Get(ctx, models.CollectionSubjects, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error looking up subject %q: %w", id, err)
	}

	var subject models.Subject
	if err := store.Decode(doc, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func orUnknown(actor string) string {
	if isBlank(actor) {
		return unknownActor
	}
	return actor
}
