package models

import "time"

// AuditEntry is one line of the append-only audit trail. Entries are never
// mutated or deleted.
type AuditEntry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"ts"`
	Action    string                 `json:"action"`
	Actor     string                 `json:"actor"`
	Details   map[string]interface{} `json:"details"`
}

// AttendanceEntry is a single attendance mark for a student in a subject
type AttendanceEntry struct {
	ID         string `json:"id"`
	SubjectID  string `json:"subject_id"`
	StudentUSN string `json:"student_usn"`
	Date       string `json:"date"` // YYYY-MM-DD
	Present    bool   `json:"present"`
}
