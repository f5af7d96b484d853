package models

import "time"

// UserResponse joins a User with any of its profiles into a single read
// model. Fields of roles the user does not hold stay at their zero value so
// the shape is stable across callers; the password hash is never included.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Enabled   bool      `json:"enabled"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`

	// Student profile fields
	GradeLevel      string   `json:"grade_level,omitempty"`
	EnrolledCourses []string `json:"enrolled_courses"`
	OverallProgress float64  `json:"overall_progress"`
	TotalPoints     int      `json:"total_points"`

	// Teacher profile fields
	Subject       string   `json:"subject,omitempty"`
	Qualification string   `json:"qualification,omitempty"`
	TaughtCourses []string `json:"taught_courses"`
	Bio           string   `json:"bio,omitempty"`

	// Parent profile fields
	ChildStudentIDs []string `json:"child_student_ids"`
	Relationship    string   `json:"relationship,omitempty"`
}

// SignInResponse carries the issued token plus the identity it encodes.
type SignInResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// MessageResponse is the acknowledgment shape for mutations that return no
// entity (signup, delete).
type MessageResponse struct {
	Message string `json:"message"`
}
