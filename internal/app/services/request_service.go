package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/store"
)

// RequestService handles generic lab/room resource requests. The workflow
// mirrors enrollments but carries an opaque type field and enforces no
// duplicate-active guard.
type RequestService struct {
	store store.Store
	trail *audit.Trail
}

// NewRequestService creates a new resource request service instance
func NewRequestService(st store.Store, trail *audit.Trail) *RequestService {
	return &RequestService{
		store: st,
		trail: trail,
	}
}

// Create opens a new resource request with status Pending
func (s *RequestService) Create(ctx context.Context, requester, requestType string) (*models.ResourceRequest, error) {
	if isBlank(requester) {
		return nil, apperrors.NewValidationError("requester is required")
	}
	if isBlank(requestType) {
		return nil, apperrors.NewValidationError("type is required")
	}

	request := models.ResourceRequest{
		ID:          uuid.New().String(),
		Requester:   requester,
		Type:        requestType,
		Status:      models.StatusPending,
		RequestedAt: time.Now(),
	}

	doc, err := store.Encode(request)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionRequests, request.ID, doc); err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	s.trail.Record(ctx, "Request Submitted", requester, map[string]interface{}{
		"type": requestType,
	})

	return &request, nil
}

// Transition moves a request to Approved or Declined
func (s *RequestService) Transition(ctx context.Context, id string, status models.RequestStatus, actor string) (*models.ResourceRequest, error) {
	if status != models.StatusApproved && status != models.StatusDeclined {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("status must be %s or %s",
			models.StatusApproved, models.StatusDeclined))
	}

	doc, err := s.store.Get(ctx, models.CollectionRequests, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}

	var request models.ResourceRequest
	if err := store.Decode(doc, &request); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, models.CollectionRequests, id, store.Document{
		"status": string(status),
	}); err != nil {
		return nil, fmt.Errorf("error updating request: %w", err)
	}
	request.Status = status

	s.trail.Record(ctx, "Request "+string(status), orUnknown(actor), map[string]interface{}{
		"request_id": id,
	})

	return &request, nil
}

// RequestFilter narrows request listings
type RequestFilter struct {
	Requester string
	Status    string
}

// List returns resource requests matching the filter
func (s *RequestService) List(ctx context.Context, filter RequestFilter) ([]models.ResourceRequest, error) {
	var predicates []store.Predicate
	if filter.Requester != "" {
		predicates = append(predicates, store.Eq("requester", filter.Requester))
	}
	if filter.Status != "" {
		predicates = append(predicates, store.Eq("status", filter.Status))
	}

	docs, err := s.store.Query(ctx, models.CollectionRequests, predicates)
	if err != nil {
		return nil, fmt.Errorf("error retrieving requests: %w", err)
	}
	return store.DecodeAll[models.ResourceRequest](docs)
}
