// Package models defines the documents persisted in the record store.
// Field names follow the wire format used by the portal frontend.
package models

// Collection names in the record store
const (
	CollectionUsers          = "users"
	CollectionSubjects       = "subjects"
	CollectionEnrollments    = "enrollments"
	CollectionRequests       = "requests"
	CollectionAttendance     = "attendance"
	CollectionLibrary        = "library"
	CollectionBorrowRequests = "borrow_requests"
	CollectionBorrowRecords  = "borrow_records"
	CollectionAudit          = "audit"
)

// Collections lists every collection the store must provide
var Collections = []string{
	CollectionUsers,
	CollectionSubjects,
	CollectionEnrollments,
	CollectionRequests,
	CollectionAttendance,
	CollectionLibrary,
	CollectionBorrowRequests,
	CollectionBorrowRecords,
	CollectionAudit,
}

// Role is a user role
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
)

// RequestStatus is the state of an enrollment, resource or borrow request
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusDeclined RequestStatus = "Declined"
)

// BookStatus is the circulation state of a library book
type BookStatus string

const (
	BookAvailable BookStatus = "Available"
	BookBorrowed  BookStatus = "Borrowed"
)
