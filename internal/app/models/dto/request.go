package dto

// RegisterRequest is the body for POST /auth/register
type RegisterRequest struct {
	USN      string `json:"usn" binding:"required" example:"1MS21CS001"`
	Name     string `json:"name" binding:"required" example:"Priya Nair"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=student teacher admin librarian" example:"student"`
}

// LoginRequest is the body for POST /auth/login
type LoginRequest struct {
	USN      string `json:"usn" binding:"required" example:"1MS21CS001"`
	Password string `json:"password" binding:"required"`
}

// CreateSubjectRequest is the body for POST /subjects
type CreateSubjectRequest struct {
	Name       string `json:"name" binding:"required" example:"Operating Systems"`
	TeacherUSN string `json:"teacher_usn" binding:"required" example:"EMP042"`
}

// UpdateSubjectRequest is the body for PUT /subjects/:id
type UpdateSubjectRequest struct {
	Name       string `json:"name" binding:"required" example:"Operating Systems"`
	TeacherUSN string `json:"teacher_usn" example:"EMP042"`
}

// CreateEnrollmentRequest is the body for POST /enrollments
type CreateEnrollmentRequest struct {
	StudentUSN string `json:"student_usn" binding:"required" example:"1MS21CS001"`
	TeacherUSN string `json:"teacher_usn" binding:"required" example:"EMP042"`
	SubjectRef string `json:"subject_ref" binding:"required" example:"Math"`
}

// TransitionRequest is the body for PUT /enrollments/:id and PUT /requests/:id
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Declined" example:"Approved"`
	Actor  string `json:"actor" example:"EMP042"`
}

// CreateResourceRequest is the body for POST /requests
type CreateResourceRequest struct {
	Requester string `json:"requester" binding:"required" example:"1MS21CS001"`
	Type      string `json:"type" binding:"required" example:"chemistry-lab"`
}

// AddBookRequest is the body for POST /library/books
type AddBookRequest struct {
	Barcode string `json:"barcode" binding:"required" example:"BK1"`
	Title   string `json:"title" binding:"required" example:"The Go Programming Language"`
}

// CreateBorrowRequest is the body for POST /library/borrow-requests
type CreateBorrowRequest struct {
	Student     string `json:"student" binding:"required" example:"1MS21CS001"`
	BookBarcode string `json:"book_barcode" binding:"required" example:"BK1"`
}

// ResolveBorrowRequest is the body for PUT /library/borrow-requests/:id.
// Days is optional; when omitted the default loan period applies.
type ResolveBorrowRequest struct {
	Action   string `json:"action" binding:"required,oneof=approve decline" example:"approve"`
	Days     *int   `json:"days,omitempty" example:"7"`
	Feedback string `json:"feedback,omitempty" example:"Reference-only copy"`
	Actor    string `json:"actor" example:"LIB001"`
}

// ReturnBookRequest is the body for POST /library/returns
type ReturnBookRequest struct {
	Barcode string `json:"barcode" binding:"required" example:"BK1"`
}

// RecordAttendanceRequest is the body for POST /attendance
type RecordAttendanceRequest struct {
	SubjectID  string `json:"subject_id" binding:"required"`
	StudentUSN string `json:"student_usn" binding:"required" example:"1MS21CS001"`
	Date       string `json:"date" example:"2025-08-30"`
	Present    bool   `json:"present"`
}
