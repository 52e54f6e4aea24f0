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

// EnrollmentService handles the enrollment request workflow
type EnrollmentService struct {
	store store.Store
	trail *audit.Trail
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(st store.Store, trail *audit.Trail) *EnrollmentService {
	return &EnrollmentService{
		store: st,
		trail: trail,
	}
}

// EnrollmentFilter narrows enrollment listings
type EnrollmentFilter struct {
	StudentUSN string
	TeacherUSN string
	Status     string
}

// Create opens a new enrollment request with status Pending. Student and
// teacher display names are frozen into the record at request time.
func (s *EnrollmentService) Create(ctx context.Context, studentUSN, teacherUSN, subjectRef string) (*models.Enrollment, error) {
	if isBlank(studentUSN) {
		return nil, apperrors.NewValidationError("student_usn is required")
	}
	if isBlank(teacherUSN) {
		return nil, apperrors.NewValidationError("teacher_usn is required")
	}
	if isBlank(subjectRef) {
		return nil, apperrors.NewValidationError("subject is required")
	}

	student, err := findUserByHandle(ctx, s.store, studentUSN)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("student %q not found", studentUSN))
	}

	teacher, err := findUserByHandle(ctx, s.store, teacherUSN)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("teacher %q not found", teacherUSN))
	}

	// Duplicate-active guard: one Pending or Approved enrollment per
	// (student, subject) pair. Declined priors do not block.
	existing, err := s.store.Query(ctx, models.CollectionEnrollments, []store.Predicate{
		store.Eq("student_usn", studentUSN),
		store.Eq("subject_id", subjectRef),
		store.In("status", string(models.StatusPending), string(models.StatusApproved)),
	})
	if err != nil {
		return nil, fmt.Errorf("error checking existing enrollments: %w", err)
	}
	if len(existing) > 0 {
		return nil, apperrors.NewConflictError("an active enrollment already exists for this student and subject").
			WithDetails(map[string]interface{}{
				"student_usn": studentUSN,
				"subject_id":  subjectRef,
			})
	}

	// The subject reference may name a catalogued subject; an unknown ref
	// is carried through as-is.
	subjectName := subjectRef
	if subject, err := getSubject(ctx, s.store, subjectRef); err != nil {
		return nil, err
	} else if subject != nil {
		subjectName = subject.Name
	}

	enrollment := models.Enrollment{
		ID:          uuid.New().String(),
		StudentUSN:  studentUSN,
		StudentName: student.Name,
		SubjectID:   subjectRef,
		SubjectName: subjectName,
		TeacherUSN:  teacherUSN,
		TeacherName: teacher.Name,
		Status:      models.StatusPending,
		RequestedAt: time.Now(),
	}

	doc, err := store.Encode(enrollment)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionEnrollments, enrollment.ID, doc); err != nil {
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	s.trail.Record(ctx, "Enrollment Requested", studentUSN, map[string]interface{}{
		"subject": subjectName,
	})

	return &enrollment, nil
}

// Transition moves an enrollment to Approved or Declined. Only the status
// field is written; re-applying a transition is not guarded against.
func (s *EnrollmentService) Transition(ctx context.Context, id string, status models.RequestStatus, actor string) (*models.Enrollment, error) {
	if status != models.StatusApproved && status != models.StatusDeclined {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("status must be %s or %s",
			models.StatusApproved, models.StatusDeclined))
	}

	doc, err := s.store.Get(ctx, models.CollectionEnrollments, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	var enrollment models.Enrollment
	if err := store.Decode(doc, &enrollment); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, models.CollectionEnrollments, id, store.Document{
		"status": string(status),
	}); err != nil {
		return nil, fmt.Errorf("error updating enrollment: %w", err)
	}
	enrollment.Status = status

	s.trail.Record(ctx, "Enrollment "+string(status), orUnknown(actor), map[string]interface{}{
		"enrollment_id": id,
	})

	return &enrollment, nil
}

// List returns enrollments matching the filter
func (s *EnrollmentService) List(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, error) {
	var predicates []store.Predicate
	if filter.StudentUSN != "" {
		predicates = append(predicates, store.Eq("student_usn", filter.StudentUSN))
	}
	if filter.TeacherUSN != "" {
		predicates = append(predicates, store.Eq("teacher_usn", filter.TeacherUSN))
	}
	if filter.Status != "" {
		predicates = append(predicates, store.Eq("status", filter.Status))
	}

	docs, err := s.store.Query(ctx, models.CollectionEnrollments, predicates)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return store.DecodeAll[models.Enrollment](docs)
}
