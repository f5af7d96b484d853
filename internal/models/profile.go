package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProfileKind names one of the three role-scoped profile collections.
type ProfileKind string

const (
	ProfileKindStudent ProfileKind = "student_profile"
	ProfileKindTeacher ProfileKind = "teacher_profile"
	ProfileKindParent  ProfileKind = "parent_profile"
)

// ProfileKindForRole is the capability table driving profile selection.
// Adding a role means adding a row here, not another conditional.
var ProfileKindForRole = map[UserRole]ProfileKind{
	RoleStudent: ProfileKindStudent,
	RoleTeacher: ProfileKindTeacher,
	RoleParent:  ProfileKindParent,
}

// StudentProfile extends a User holding the student role, related 1:1 via
// UserID. No User fields are duplicated here.
type StudentProfile struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`

	GradeLevel      string                      `json:"grade_level" gorm:"size:50"`
	EnrolledCourses datatypes.JSONSlice[string] `json:"enrolled_courses"`
	OverallProgress float64                     `json:"overall_progress"`
	TotalPoints     int                         `json:"total_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type TeacherProfile struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`

	Subject       string                      `json:"subject" gorm:"size:100"`
	Qualification string                      `json:"qualification" gorm:"size:200"`
	Bio           string                      `json:"bio" gorm:"size:1000"`
	TaughtCourses datatypes.JSONSlice[string] `json:"taught_courses"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

type ParentProfile struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:36"`

	Relationship    string                      `json:"relationship" gorm:"size:50"`
	ChildStudentIDs datatypes.JSONSlice[string] `json:"child_student_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ParentProfile) TableName() string {
	return "parent_profiles"
}
