package models

import "time"

// Enrollment is a student's request to join a subject. Student and teacher
// display names are copied in at request time and never resynced.
type Enrollment struct {
	ID          string        `json:"id"`
	StudentUSN  string        `json:"student_usn"`
	StudentName string        `json:"student_name"`
	SubjectID   string        `json:"subject_id"`
	SubjectName string        `json:"subject_name"`
	TeacherUSN  string        `json:"teacher_usn"`
	TeacherName string        `json:"teacher_name"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
}

// Active reports whether the enrollment blocks a new request for the same
// (student, subject) pair
func (e Enrollment) Active() bool {
	return e.Status == StatusPending || e.Status == StatusApproved
}

// ResourceRequest is a generic lab/room request. Unlike enrollments there
// is no uniqueness constraint beyond identity.
type ResourceRequest struct {
	ID          string        `json:"id"`
	Requester   string        `json:"requester"`
	Type        string        `json:"type"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
}
