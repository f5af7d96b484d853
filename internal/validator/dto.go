package validator

// SignupRequest represents the request structure for registration.
// Roles is optional; an empty set defaults to the student role.
type SignupRequest struct {
	Username  string   `json:"username" validate:"required,username_format"`
	Email     string   `json:"email" validate:"required,email,max=100"`
	Password  string   `json:"password" validate:"required,password_length"`
	FirstName string   `json:"first_name" validate:"omitempty,max=50"`
	LastName  string   `json:"last_name" validate:"omitempty,max=50"`
	Phone     string   `json:"phone" validate:"omitempty,max=30"`
	Roles     []string `json:"roles" validate:"omitempty,dive,role_name"`
}

// LoginRequest represents the request structure for signin.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserUpdateRequest carries a partial patch. Absent (nil) fields are no-ops,
// never resets. Role-specific fields are applied only to profiles of roles
// the user actually holds; the rest are silently ignored.
type UserUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`

	// Student-specific
	GradeLevel *string `json:"grade_level" validate:"omitempty,max=50"`

	// Teacher-specific
	Subject       *string `json:"subject" validate:"omitempty,max=100"`
	Qualification *string `json:"qualification" validate:"omitempty,max=200"`
	Bio           *string `json:"bio" validate:"omitempty,max=1000"`

	// Parent-specific
	Relationship *string `json:"relationship" validate:"omitempty,max=50"`
}

// CourseRequest names a course by its opaque identifier.
type CourseRequest struct {
	CourseID string `json:"course_id" validate:"required,max=100"`
}

// ChildRequest names the student user to link to a parent.
type ChildRequest struct {
	ChildStudentID string `json:"child_student_id" validate:"required,max=36"`
}

// ProgressUpdateRequest replaces a student's progress and points.
type ProgressUpdateRequest struct {
	OverallProgress float64 `json:"overall_progress" validate:"min=0,max=100"`
	TotalPoints     int     `json:"total_points" validate:"min=0"`
}
