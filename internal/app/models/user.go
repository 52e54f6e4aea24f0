package models

// User is a registered portal user. The USN/EMP handle is the natural
// unique key; lookups go through it rather than the document id.
type User struct {
	ID       string   `json:"id"`
	USNEmp   string   `json:"usn_emp"`
	Name     string   `json:"name"`
	Password string   `json:"password,omitempty"`
	Role     Role     `json:"role"`
	Subjects []string `json:"subjects,omitempty"` // subject ids, teachers only
}

// Sanitized returns a copy safe to serialize in responses
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Subject is owned by a teacher and referenced by enrollments
type Subject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TeacherUSN string `json:"teacher_usn"`
}
