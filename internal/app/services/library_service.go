package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/store"
)

// Borrow request actions
const (
	BorrowActionApprove = "approve"
	BorrowActionDecline = "decline"
)

// DefaultLoanDays is the loan period applied when the approver does not
// specify one
const DefaultLoanDays = 7

// LibraryService handles the book circulation workflow: borrow requests,
// book availability state, loan history and returns.
type LibraryService struct {
	store store.Store
	trail *audit.Trail
}

// NewLibraryService creates a new library service instance
func NewLibraryService(st store.Store, trail *audit.Trail) *LibraryService {
	return &LibraryService{
		store: st,
		trail: trail,
	}
}

// AddBook catalogues a new book as Available. The barcode is the document
// id, so re-adding a barcode replaces the earlier entry.
func (s *LibraryService) AddBook(ctx context.Context, barcode, title string) (*models.LibraryBook, error) {
	if isBlank(barcode) {
		return nil, apperrors.NewValidationError("barcode is required")
	}
	if isBlank(title) {
		return nil, apperrors.NewValidationError("title is required")
	}

	book := models.LibraryBook{
		Barcode: barcode,
		Title:   title,
		Status:  models.BookAvailable,
	}

	doc, err := store.Encode(book)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionLibrary, book.Barcode, doc); err != nil {
		return nil, fmt.Errorf("error adding book: %w", err)
	}

	s.trail.Record(ctx, "Book Added", unknownActor, map[string]interface{}{
		"barcode": barcode,
		"title":   title,
	})

	return &book, nil
}

// ListBooks returns the whole catalogue
func (s *LibraryService) ListBooks(ctx context.Context) ([]models.LibraryBook, error) {
	docs, err := s.store.Query(ctx, models.CollectionLibrary, nil)
	if err != nil {
		return nil, fmt.Errorf("error retrieving books: %w", err)
	}
	return store.DecodeAll[models.LibraryBook](docs)
}

// CreateBorrowRequest opens a Pending borrow request. Multiple outstanding
// requests for the same book are allowed; the conflict is resolved at
// approval time by the book availability state.
func (s *LibraryService) CreateBorrowRequest(ctx context.Context, student, barcode string) (*models.BorrowRequest, error) {
	if isBlank(student) {
		return nil, apperrors.NewValidationError("student is required")
	}
	if isBlank(barcode) {
		return nil, apperrors.NewValidationError("book_barcode is required")
	}

	// Snapshot the student name and book title when they resolve; the
	// request is valid either way.
	studentName := student
	if user, err := findUserByHandle(ctx, s.store, student); err != nil {
		return nil, err
	} else if user != nil {
		studentName = user.Name
	}

	bookTitle := ""
	if doc, err := s.store.Get(ctx, models.CollectionLibrary, barcode); err == nil {
		var book models.LibraryBook
		if err := store.Decode(doc, &book); err != nil {
			return nil, err
		}
		bookTitle = book.Title
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("error looking up book: %w", err)
	}

	request := models.BorrowRequest{
		ID:          uuid.New().String(),
		Student:     student,
		StudentName: studentName,
		BookBarcode: barcode,
		BookTitle:   bookTitle,
		Status:      models.StatusPending,
		RequestedAt: time.Now(),
	}

	doc, err := store.Encode(request)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionBorrowRequests, request.ID, doc); err != nil {
		return nil, fmt.Errorf("error creating borrow request: %w", err)
	}

	s.trail.Record(ctx, "Borrow Request", student, map[string]interface{}{
		"barcode": barcode,
	})

	return &request, nil
}

// BorrowRequestFilter narrows borrow request listings
type BorrowRequestFilter struct {
	Student string
	Status  string
}

// ListBorrowRequests returns borrow requests matching the filter
func (s *LibraryService) ListBorrowRequests(ctx context.Context, filter BorrowRequestFilter) ([]models.BorrowRequest, error) {
	var predicates []store.Predicate
	if filter.Student != "" {
		predicates = append(predicates, store.Eq("student", filter.Student))
	}
	if filter.Status != "" {
		predicates = append(predicates, store.Eq("status", filter.Status))
	}

	docs, err := s.store.Query(ctx, models.CollectionBorrowRequests, predicates)
	if err != nil {
		return nil, fmt.Errorf("error retrieving borrow requests: %w", err)
	}
	return store.DecodeAll[models.BorrowRequest](docs)
}

// ResolveBorrowRequest approves or declines a borrow request.
//
// Approval performs three independent writes: the request status, the book
// availability state and the loan history record. There is no transaction
// around them, so callers must treat approval as non-atomic and retryable.
func (s *LibraryService) ResolveBorrowRequest(ctx context.Context, id, action string, days *int, feedback, actor string) (*models.BorrowRequest, error) {
	doc, err := s.store.Get(ctx, models.CollectionBorrowRequests, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrBorrowRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving borrow request: %w", err)
	}

	var request models.BorrowRequest
	if err := store.Decode(doc, &request); err != nil {
		return nil, err
	}

	switch strings.ToLower(action) {
	case BorrowActionApprove:
		return s.approve(ctx, &request, days, actor)
	case BorrowActionDecline:
		return s.decline(ctx, &request, feedback, actor)
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("action must be %s or %s",
			BorrowActionApprove, BorrowActionDecline))
	}
}

func (s *LibraryService) approve(ctx context.Context, request *models.BorrowRequest, days *int, actor string) (*models.BorrowRequest, error) {
	// days=0 is a valid immediate due date; only an omitted value falls
	// back to the default loan period.
	loanDays := DefaultLoanDays
	if days != nil {
		if *days < 0 {
			return nil, apperrors.NewBadRequestError("days must not be negative")
		}
		loanDays = *days
	}

	now := time.Now()
	dueDate := now.Add(time.Duration(loanDays) * 24 * time.Hour)

	if err := s.store.Update(ctx, models.CollectionBorrowRequests, request.ID, store.Document{
		"status":   string(models.StatusApproved),
		"due_date": dueDate.Format(time.RFC3339Nano),
	}); err != nil {
		return nil, fmt.Errorf("error approving borrow request: %w", err)
	}
	request.Status = models.StatusApproved
	request.DueDate = &dueDate

	// An unknown barcode skips the book-state update; approval still
	// succeeds.
	err := s.store.Update(ctx, models.CollectionLibrary, request.BookBarcode, store.Document{
		"status":      string(models.BookBorrowed),
		"borrowed_by": request.Student,
		"due_date":    dueDate.Format(time.RFC3339Nano),
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("error updating book state: %w", err)
	}

	record := models.BorrowRecord{
		ID:          uuid.New().String(),
		BookBarcode: request.BookBarcode,
		Student:     request.Student,
		StudentName: request.StudentName,
		BorrowedAt:  now,
		DueDate:     dueDate,
	}
	recordDoc, err := store.Encode(record)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionBorrowRecords, record.ID, recordDoc); err != nil {
		return nil, fmt.Errorf("error recording loan: %w", err)
	}

	s.trail.Record(ctx, "Borrow Request Approved", orUnknown(actor), map[string]interface{}{
		"request_id": request.ID,
		"barcode":    request.BookBarcode,
		"due_date":   dueDate.Format(time.RFC3339),
	})

	return request, nil
}

func (s *LibraryService) decline(ctx context.Context, request *models.BorrowRequest, feedback, actor string) (*models.BorrowRequest, error) {
	if err := s.store.Update(ctx, models.CollectionBorrowRequests, request.ID, store.Document{
		"status":         string(models.StatusDeclined),
		"admin_feedback": feedback,
	}); err != nil {
		return nil, fmt.Errorf("error declining borrow request: %w", err)
	}
	request.Status = models.StatusDeclined
	request.AdminFeedback = &feedback

	s.trail.Record(ctx, "Borrow Request Declined", orUnknown(actor), map[string]interface{}{
		"request_id": request.ID,
	})

	return request, nil
}

// ReturnBook processes the return of a borrowed book. The book must
// currently be Borrowed; returning a book that was never borrowed or has
// already been returned is rejected. The most recent open loan record for
// the borrower is closed; missing history is tolerated and the book state
// is reset regardless.
func (s *LibraryService) ReturnBook(ctx context.Context, barcode string) (*models.LibraryBook, error) {
	if isBlank(barcode) {
		return nil, apperrors.NewValidationError("barcode is required")
	}

	docs, err := s.store.Query(ctx, models.CollectionLibrary, []store.Predicate{
		store.Eq("barcode", barcode),
		store.Eq("status", string(models.BookBorrowed)),
	})
	if err != nil {
		return nil, fmt.Errorf("error looking up book: %w", err)
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrBookNotBorrowed
	}

	var book models.LibraryBook
	if err := store.Decode(docs[0], &book); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, models.CollectionLibrary, book.Barcode, store.Document{
		"status":      string(models.BookAvailable),
		"borrowed_by": nil,
		"due_date":    nil,
	}); err != nil {
		return nil, fmt.Errorf("error resetting book state: %w", err)
	}

	if err := s.closeOpenRecord(ctx, book); err != nil {
		return nil, err
	}

	s.trail.Record(ctx, "Book Return", unknownActor, map[string]interface{}{
		"barcode": barcode,
	})

	book.Status = models.BookAvailable
	book.BorrowedBy = nil
	book.DueDate = nil
	return &book, nil
}

// closeOpenRecord stamps returned_at on the most recently created open
// loan record for the book's borrower, when one exists.
func (s *LibraryService) closeOpenRecord(ctx context.Context, book models.LibraryBook) error {
	predicates := []store.Predicate{
		store.Eq("book_barcode", book.Barcode),
	}
	if book.BorrowedBy != nil {
		predicates = append(predicates, store.Eq("student", *book.BorrowedBy))
	}

	docs, err := s.store.Query(ctx, models.CollectionBorrowRecords, predicates)
	if err != nil {
		return fmt.Errorf("error retrieving loan records: %w", err)
	}

	records, err := store.DecodeAll[models.BorrowRecord](docs)
	if err != nil {
		return err
	}

	var latest *models.BorrowRecord
	for i := range records {
		record := &records[i]
		if !record.Open() {
			continue
		}
		if latest == nil || record.BorrowedAt.After(latest.BorrowedAt) {
			latest = record
		}
	}
	if latest == nil {
		// No open history for this loan; the book reset stands.
		return nil
	}

	if err := s.store.Update(ctx, models.CollectionBorrowRecords, latest.ID, store.Document{
		"returned_at": time.Now().Format(time.RFC3339Nano),
	}); err != nil {
		return fmt.Errorf("error closing loan record: %w", err)
	}
	return nil
}

// ListBorrowRecords returns the loan history, optionally for one student
func (s *LibraryService) ListBorrowRecords(ctx context.Context, student string) ([]models.BorrowRecord, error) {
	var predicates []store.Predicate
	if student != "" {
		predicates = append(predicates, store.Eq("student", student))
	}

	docs, err := s.store.Query(ctx, models.CollectionBorrowRecords, predicates)
	if err != nil {
		return nil, fmt.Errorf("error retrieving loan records: %w", err)
	}
	return store.DecodeAll[models.BorrowRecord](docs)
}
