// Package audit maintains the append-only trail of portal actions.
package audit

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/store"
)

// Trail appends audit entries to the record store. Writes are best-effort:
// a failed append is logged and swallowed so it can never fail the
// operation being audited.
type Trail struct {
	store  store.Store
	logger zerolog.Logger
}

// NewTrail creates a new audit trail
func NewTrail(st store.Store, logger zerolog.Logger) *Trail {
	return &Trail{store: st, logger: logger}
}

// Record appends one audit entry
func (t *Trail) Record(ctx context.Context, action, actor string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	entry := models.AuditEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Action:    action,
		Actor:     actor,
		Details:   details,
	}

	doc, err := store.Encode(entry)
	if err != nil {
		t.logger.Warn().Err(err).Str("action", action).Msg("Failed to encode audit entry")
		return
	}

	if err := t.store.Put(ctx, models.CollectionAudit, entry.ID, doc); err != nil {
		t.logger.Warn().Err(err).Str("action", action).Str("actor", actor).Msg("Failed to append audit entry")
	}
}

// List returns every audit entry, newest first
func (t *Trail) List(ctx context.Context) ([]models.AuditEntry, error) {
	docs, err := t.store.Query(ctx, models.CollectionAudit, nil)
	if err != nil {
		return nil, err
	}
	entries, err := store.DecodeAll[models.AuditEntry](docs)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}
