package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/store"
)

// SubjectService handles the subject catalogue
type SubjectService struct {
	store store.Store
	trail *audit.Trail
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(st store.Store, trail *audit.Trail) *SubjectService {
	return &SubjectService{
		store: st,
		trail: trail,
	}
}

// Create adds a subject owned by a teacher
func (s *SubjectService) Create(ctx context.Context, name, teacherUSN string) (*models.Subject, error) {
	if isBlank(name) {
		return nil, apperrors.NewValidationError("name is required")
	}
	if isBlank(teacherUSN) {
		return nil, apperrors.NewValidationError("teacher_usn is required")
	}

	subject := models.Subject{
		ID:         uuid.New().String(),
		Name:       name,
		TeacherUSN: teacherUSN,
	}

	doc, err := store.Encode(subject)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionSubjects, subject.ID, doc); err != nil {
		return nil, fmt.Errorf("error creating subject: %w", err)
	}

	s.trail.Record(ctx, "Subject Created", teacherUSN, map[string]interface{}{
		"subject_id": subject.ID,
		"name":       name,
	})

	return &subject, nil
}

// Update replaces a subject's fields
func (s *SubjectService) Update(ctx context.Context, id, name, teacherUSN string) (*models.Subject, error) {
	if isBlank(name) {
		return nil, apperrors.NewValidationError("name is required")
	}

	if _, err := s.store.Get(ctx, models.CollectionSubjects, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	subject := models.Subject{
		ID:         id,
		Name:       name,
		TeacherUSN: teacherUSN,
	}

	doc, err := store.Encode(subject)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionSubjects, id, doc); err != nil {
		return nil, fmt.Errorf("error updating subject: %w", err)
	}

	s.trail.Record(ctx, "Subject Updated", orUnknown(teacherUSN), map[string]interface{}{
		"subject_id": id,
	})

	return &subject, nil
}

// Delete removes a subject from the catalogue
func (s *SubjectService) Delete(ctx context.Context, id, actor string) error {
	doc, err := s.store.Get(ctx, models.CollectionSubjects, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error retrieving subject: %w", err)
	}

	var subject models.Subject
	if err := store.Decode(doc, &subject); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, models.CollectionSubjects, id); err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}

	s.trail.Record(ctx, "Subject Deleted", orUnknown(actor), map[string]interface{}{
		"subject_id": id,
		"name":       subject.Name,
	})

	return nil
}

// List returns subjects, optionally filtered by owning teacher
func (s *SubjectService) List(ctx context.Context, teacherUSN string) ([]models.Subject, error) {
	var predicates []store.Predicate
	if teacherUSN != "" {
		predicates = append(predicates, store.Eq("teacher_usn", teacherUSN))
	}

	docs, err := s.store.Query(ctx, models.CollectionSubjects, predicates)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	return store.DecodeAll[models.Subject](docs)
}
