package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/store"
)

// AttendanceService records and lists attendance marks
type AttendanceService struct {
	store store.Store
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(st store.Store) *AttendanceService {
	return &AttendanceService{store: st}
}

// Record stores one attendance mark. An empty date defaults to today.
func (s *AttendanceService) Record(ctx context.Context, subjectID, studentUSN, date string, present bool) (*models.AttendanceEntry, error) {
	if isBlank(subjectID) {
		return nil, apperrors.NewValidationError("subject_id is required")
	}
	if isBlank(studentUSN) {
		return nil, apperrors.NewValidationError("student_usn is required")
	}
	if isBlank(date) {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.NewBadRequestError("date must be YYYY-MM-DD")
	}

	entry := models.AttendanceEntry{
		ID:         uuid.New().String(),
		SubjectID:  subjectID,
		StudentUSN: studentUSN,
		Date:       date,
		Present:    present,
	}

	doc, err := store.Encode(entry)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionAttendance, entry.ID, doc); err != nil {
		return nil, fmt.Errorf("error recording attendance: %w", err)
	}

	return &entry, nil
}

// List returns attendance entries, optionally filtered by subject
func (s *AttendanceService) List(ctx context.Context, subjectID string) ([]models.AttendanceEntry, error) {
	var predicates []store.Predicate
	if subjectID != "" {
		predicates = append(predicates, store.Eq("subject_id", subjectID))
	}

	docs, err := s.store.Query(ctx, models.CollectionAttendance, predicates)
	if err != nil {
		return nil, fmt.Errorf("error retrieving attendance: %w", err)
	}
	return store.DecodeAll[models.AttendanceEntry](docs)
}
