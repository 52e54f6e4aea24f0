package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/pkg/auth"
	"github.com/arunhegde/campusdesk/internal/store"
)

type defaultAccount struct {
	usn      string
	name     string
	password string
	role     models.Role
}

// CreateDefaultData creates the built-in admin and librarian accounts if
// they don't exist yet, so a fresh deployment is usable out of the box.
func CreateDefaultData(ctx context.Context, st store.Store, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default accounts...")

	accounts := []defaultAccount{
		{usn: "ADMIN", name: "Administrator", password: "admin123", role: models.RoleAdmin},
		{usn: "LIB001", name: "Head Librarian", password: "library123", role: models.RoleLibrarian},
	}

	var finalErr error
	for _, acc := range accounts {
		existing, err := st.Query(ctx, models.CollectionUsers, []store.Predicate{store.Eq("usn_emp", acc.usn)})
		if err != nil {
			lgr.Error().Err(err).Str("usn", acc.usn).Msg("Error checking for default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		hashed, err := auth.HashPassword(acc.password)
		if err != nil {
			lgr.Error().Err(err).Str("usn", acc.usn).Msg("Error hashing default account password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := models.User{
			ID:       uuid.New().String(),
			USNEmp:   acc.usn,
			Name:     acc.name,
			Password: hashed,
			Role:     acc.role,
		}
		doc, err := store.Encode(user)
		if err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("encoding default account %s: %w", acc.usn, err))
			continue
		}
		if err := st.Put(ctx, models.CollectionUsers, user.ID, doc); err != nil {
			lgr.Error().Err(err).Str("usn", acc.usn).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("usn", acc.usn).Str("role", string(acc.role)).Msg("Default account created")
	}

	return finalErr
}
