package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/store"
)

func newLibraryFixture(t *testing.T) (*LibraryService, *store.MemoryStore) {
	t.Helper()
	st, trail := newTestStore()
	seedUser(t, st, "S1", "Priya Nair", models.RoleStudent)
	return NewLibraryService(st, trail), st
}

func intPtr(v int) *int { return &v }

func TestAddBookAndList(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	book, err := svc.AddBook(ctx, "BK1", "The Go Programming Language")
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	if book.Status != models.BookAvailable {
		t.Fatalf("new book must be Available, got %s", book.Status)
	}
	if book.BorrowedBy != nil || book.DueDate != nil {
		t.Fatalf("new book must have no borrower: %+v", book)
	}

	if _, err := svc.AddBook(ctx, "", "x"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for blank barcode, got %v", err)
	}
	if _, err := svc.AddBook(ctx, "BK2", "  "); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}

	books, err := svc.ListBooks(ctx)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
}

func TestAddBookSameBarcodeReplaces(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "First Edition"); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if _, err := svc.AddBook(ctx, "BK1", "Second Edition"); err != nil {
		t.Fatalf("re-add book: %v", err)
	}

	books, err := svc.ListBooks(ctx)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Second Edition" {
		t.Fatalf("re-adding a barcode must replace the entry: %+v", books)
	}
}

func TestCreateBorrowRequestSnapshots(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "SICP"); err != nil {
		t.Fatalf("add book: %v", err)
	}

	req, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
	if err != nil {
		t.Fatalf("create borrow request: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Fatalf("new request must be Pending, got %s", req.Status)
	}
	if req.StudentName != "Priya Nair" || req.BookTitle != "SICP" {
		t.Fatalf("snapshots not taken: %+v", req)
	}

	// Unknown student and barcode are tolerated: the handle stands in for
	// the name and the title stays empty.
	loose, err := svc.CreateBorrowRequest(ctx, "GHOST", "NOPE")
	if err != nil {
		t.Fatalf("loose borrow request: %v", err)
	}
	if loose.StudentName != "GHOST" || loose.BookTitle != "" {
		t.Fatalf("unexpected loose request: %+v", loose)
	}
}

func TestCreateBorrowRequestNoDuplicateGuard(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateBorrowRequest(ctx, "S1", "BK1"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.CreateBorrowRequest(ctx, "S1", "BK1"); err != nil {
		t.Fatalf("second request for the same book must be allowed: %v", err)
	}

	reqs, err := svc.ListBorrowRequests(ctx, BorrowRequestFilter{Student: "S1"})
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 outstanding requests, got %d", len(reqs))
	}
}

func TestResolveBorrowRequestApproveDefaultLoan(t *testing.T) {
	svc, st := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "SICP"); err != nil {
		t.Fatalf("add book: %v", err)
	}
	req, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	before := time.Now()
	approved, err := svc.ResolveBorrowRequest(ctx, req.ID, BorrowActionApprove, nil, "", "LIB001")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Fatalf("expected Approved, got %s", approved.Status)
	}
	if approved.DueDate == nil {
		t.Fatal("approval must set a due date")
	}
	want := before.Add(DefaultLoanDays * 24 * time.Hour)
	if approved.DueDate.Before(want.Add(-time.Minute)) || approved.DueDate.After(want.Add(time.Minute)) {
		t.Fatalf("default due date not ~%d days out: %v", DefaultLoanDays, approved.DueDate)
	}

	// Book flips to Borrowed with the borrower and due date stamped on
	doc, err := st.Get(ctx, models.CollectionLibrary, "BK1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	var book models.LibraryBook
	if err := store.Decode(doc, &book); err != nil {
		t.Fatalf("decode book: %v", err)
	}
	if book.Status != models.BookBorrowed || book.BorrowedBy == nil || *book.BorrowedBy != "S1" {
		t.Fatalf("book state not updated: %+v", book)
	}
	if book.DueDate == nil {
		t.Fatal("book due date not set")
	}

	// A loan record is opened
	records, err := svc.ListBorrowRecords(ctx, "S1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 || !records[0].Open() {
		t.Fatalf("expected one open loan record, got %+v", records)
	}
	if records[0].BookBarcode != "BK1" || records[0].StudentName != "Priya Nair" {
		t.Fatalf("unexpected loan record: %+v", records[0])
	}
}

func TestResolveBorrowRequestLoanDays(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	newRequest := func() string {
		t.Helper()
		req, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		return req.ID
	}

	// Zero days is a valid immediate due date, not the default
	zero, err := svc.ResolveBorrowRequest(ctx, newRequest(), BorrowActionApprove, intPtr(0), "", "LIB001")
	if err != nil {
		t.Fatalf("approve with 0 days: %v", err)
	}
	if zero.DueDate == nil || zero.DueDate.After(time.Now().Add(time.Minute)) {
		t.Fatalf("0 days must mean due immediately: %v", zero.DueDate)
	}

	long, err := svc.ResolveBorrowRequest(ctx, newRequest(), BorrowActionApprove, intPtr(14), "", "LIB001")
	if err != nil {
		t.Fatalf("approve with 14 days: %v", err)
	}
	want := time.Now().Add(14 * 24 * time.Hour)
	if long.DueDate.Before(want.Add(-time.Minute)) || long.DueDate.After(want.Add(time.Minute)) {
		t.Fatalf("14 day loan due date off: %v", long.DueDate)
	}

	if _, err := svc.ResolveBorrowRequest(ctx, newRequest(), BorrowActionApprove, intPtr(-1), "", "LIB001"); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("negative days must be rejected, got %v", err)
	}
}

func TestResolveBorrowRequestOrderOfChecks(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	// The lookup happens before the action is validated
	if _, err := svc.ResolveBorrowRequest(ctx, "missing", "bogus", nil, "", ""); !errors.Is(err, apperrors.ErrBorrowRequestNotFound) {
		t.Fatalf("expected not found before action validation, got %v", err)
	}

	req, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := svc.ResolveBorrowRequest(ctx, req.ID, "bogus", nil, "", ""); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("expected validation error for unknown action, got %v", err)
	}
}

func TestResolveBorrowRequestUnknownBarcodeStillApproves(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	req, err := svc.CreateBorrowRequest(ctx, "S1", "NOPE")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	approved, err := svc.ResolveBorrowRequest(ctx, req.ID, BorrowActionApprove, nil, "", "LIB001")
	if err != nil {
		t.Fatalf("approval with unknown barcode must still succeed: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Fatalf("expected Approved, got %s", approved.Status)
	}

	// The loan record is still written
	records, err := svc.ListBorrowRecords(ctx, "S1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected loan record despite unknown barcode, got %d", len(records))
	}
}

func TestResolveBorrowRequestDecline(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "SICP"); err != nil {
		t.Fatalf("add book: %v", err)
	}
	req, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	declined, err := svc.ResolveBorrowRequest(ctx, req.ID, BorrowActionDecline, nil, "Reference-only copy", "LIB001")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != models.StatusDeclined {
		t.Fatalf("expected Declined, got %s", declined.Status)
	}
	if declined.AdminFeedback == nil || *declined.AdminFeedback != "Reference-only copy" {
		t.Fatalf("feedback not stored: %+v", declined)
	}

	// Declining leaves the book available and opens no loan
	books, err := svc.ListBooks(ctx)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if books[0].Status != models.BookAvailable {
		t.Fatalf("declined request must not touch the book: %+v", books[0])
	}
	records, err := svc.ListBorrowRecords(ctx, "")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("declined request must not open a loan: %+v", records)
	}
}

func TestReturnBookFlow(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "SICP"); err != nil {
		t.Fatalf("add book: %v", err)
	}

	// Returning a book that was never borrowed is rejected
	if _, err := svc.ReturnBook(ctx, "BK1"); !errors.Is(err, apperrors.ErrBookNotBorrowed) {
		t.Fatalf("expected not-borrowed error, got %v", err)
	}

	req, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := svc.ResolveBorrowRequest(ctx, req.ID, BorrowActionApprove, nil, "", "LIB001"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	returned, err := svc.ReturnBook(ctx, "BK1")
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.Status != models.BookAvailable || returned.BorrowedBy != nil || returned.DueDate != nil {
		t.Fatalf("book state not reset on return: %+v", returned)
	}

	// The open loan record is closed
	records, err := svc.ListBorrowRecords(ctx, "S1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 || records[0].Open() {
		t.Fatalf("loan record not closed: %+v", records)
	}

	// A second return of the same book is rejected
	if _, err := svc.ReturnBook(ctx, "BK1"); !errors.Is(err, apperrors.ErrBookNotBorrowed) {
		t.Fatalf("expected not-borrowed error on re-return, got %v", err)
	}
}

func TestReturnBookClosesMostRecentOpenRecord(t *testing.T) {
	svc, st := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "SICP"); err != nil {
		t.Fatalf("add book: %v", err)
	}

	// Two open records for the same borrower, one older than the other
	older := models.BorrowRecord{
		ID: "r-old", BookBarcode: "BK1", Student: "S1", StudentName: "Priya Nair",
		BorrowedAt: time.Now().Add(-48 * time.Hour), DueDate: time.Now().Add(-24 * time.Hour),
	}
	newer := models.BorrowRecord{
		ID: "r-new", BookBarcode: "BK1", Student: "S1", StudentName: "Priya Nair",
		BorrowedAt: time.Now().Add(-time.Hour), DueDate: time.Now().Add(6 * 24 * time.Hour),
	}
	for _, r := range []models.BorrowRecord{older, newer} {
		doc, err := store.Encode(r)
		if err != nil {
			t.Fatalf("encode record: %v", err)
		}
		if err := st.Put(ctx, models.CollectionBorrowRecords, r.ID, doc); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
	if err := st.Update(ctx, models.CollectionLibrary, "BK1", store.Document{
		"status":      string(models.BookBorrowed),
		"borrowed_by": "S1",
	}); err != nil {
		t.Fatalf("mark borrowed: %v", err)
	}

	if _, err := svc.ReturnBook(ctx, "BK1"); err != nil {
		t.Fatalf("return: %v", err)
	}

	records, err := svc.ListBorrowRecords(ctx, "S1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	for _, r := range records {
		switch r.ID {
		case "r-new":
			if r.Open() {
				t.Fatal("most recent open record should be closed")
			}
		case "r-old":
			if !r.Open() {
				t.Fatal("older record must be left open")
			}
		}
	}
}

func TestReturnBookToleratesMissingHistory(t *testing.T) {
	svc, st := newLibraryFixture(t)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, "BK1", "SICP"); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if err := st.Update(ctx, models.CollectionLibrary, "BK1", store.Document{
		"status":      string(models.BookBorrowed),
		"borrowed_by": "S1",
	}); err != nil {
		t.Fatalf("mark borrowed: %v", err)
	}

	// No loan records exist; the reset still happens
	returned, err := svc.ReturnBook(ctx, "BK1")
	if err != nil {
		t.Fatalf("return without history: %v", err)
	}
	if returned.Status != models.BookAvailable {
		t.Fatalf("book not reset: %+v", returned)
	}
}

func TestListBorrowRequestsFilters(t *testing.T) {
	svc, _ := newLibraryFixture(t)
	ctx := context.Background()

	first, err := svc.CreateBorrowRequest(ctx, "S1", "BK1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateBorrowRequest(ctx, "S2", "BK2"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ResolveBorrowRequest(ctx, first.ID, BorrowActionDecline, nil, "", "LIB001"); err != nil {
		t.Fatalf("decline: %v", err)
	}

	pending, err := svc.ListBorrowRequests(ctx, BorrowRequestFilter{Status: string(models.StatusPending)})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Student != "S2" {
		t.Fatalf("unexpected pending requests: %+v", pending)
	}

	mine, err := svc.ListBorrowRequests(ctx, BorrowRequestFilter{Student: "S1"})
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != models.StatusDeclined {
		t.Fatalf("unexpected student requests: %+v", mine)
	}
}
