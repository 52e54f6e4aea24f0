package models

import "time"

// LibraryBook is a catalogued book. The barcode is the unique key and is
// used as the document id.
type LibraryBook struct {
	Barcode    string     `json:"barcode"`
	Title      string     `json:"title"`
	Status     BookStatus `json:"status"`
	BorrowedBy *string    `json:"borrowed_by"`
	DueDate    *time.Time `json:"due_date"`
}

// BorrowRequest is a student's request to borrow a book. The book title and
// student name are snapshots taken at request time.
type BorrowRequest struct {
	ID            string        `json:"id"`
	Student       string        `json:"student"`
	StudentName   string        `json:"student_name"`
	BookBarcode   string        `json:"book_barcode"`
	BookTitle     string        `json:"book_title"`
	Status        RequestStatus `json:"status"`
	RequestedAt   time.Time     `json:"requested_at"`
	DueDate       *time.Time    `json:"due_date"`
	AdminFeedback *string       `json:"admin_feedback"`
}

// BorrowRecord is one loan in the append-only circulation history. A record
// with a nil ReturnedAt is an open loan.
type BorrowRecord struct {
	ID          string     `json:"id"`
	BookBarcode string     `json:"book_barcode"`
	Student     string     `json:"student"`
	StudentName string     `json:"student_name"`
	BorrowedAt  time.Time  `json:"borrowed_at"`
	DueDate     time.Time  `json:"due_date"`
	ReturnedAt  *time.Time `json:"returned_at"`
}

// Open reports whether the loan is still outstanding
func (r BorrowRecord) Open() bool {
	return r.ReturnedAt == nil
}
