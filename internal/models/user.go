package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleParent  UserRole = "parent"
)

// AllRoles is the closed set of assignable roles. The roles collection must
// carry exactly one record per entry before any signup can succeed.
var AllRoles = []UserRole{RoleStudent, RoleTeacher, RoleParent}

// ElevatedRoles act as administrative roles in this domain: they gate list
// and delete operations that self-ownership never covers.
var ElevatedRoles = []UserRole{RoleTeacher, RoleParent}

// IsValidRole reports whether name is a member of the closed role set.
func IsValidRole(name string) bool {
	switch UserRole(name) {
	case RoleStudent, RoleTeacher, RoleParent:
		return true
	}
	return false
}

type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:100"`

	// Password holds the bcrypt hash, never the plaintext.
	Password string `json:"-" gorm:"not null;size:120"`

	FirstName string `json:"first_name" gorm:"size:50"`
	LastName  string `json:"last_name" gorm:"size:50"`
	Phone     string `json:"phone" gorm:"size:30"`

	Enabled bool `json:"enabled" gorm:"default:true"`

	// RoleNames references the role catalog by name. There is no foreign key:
	// membership in the closed set is enforced at signup against the seeded
	// roles collection, never by the storage layer.
	RoleNames datatypes.JSONSlice[string] `json:"roles" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role UserRole) bool {
	for _, name := range u.RoleNames {
		if UserRole(name) == role {
			return true
		}
	}
	return false
}

// Role is one catalog record per UserRole value, stored in the roles
// collection. The catalog is seeded once at startup and read-only afterward.
type Role struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      UserRole  `json:"name" gorm:"uniqueIndex;not null;size:20"`
	CreatedAt time.Time `json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}

// Principal is the authenticated identity derived from a validated token.
// It is passed explicitly into every service call; there is no ambient
// security context.
type Principal struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the principal's claims include the given role.
func (p *Principal) HasRole(role UserRole) bool {
	for _, name := range p.Roles {
		if UserRole(name) == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the claims intersect the given disjunction.
func (p *Principal) HasAnyRole(roles ...UserRole) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// IsElevated reports whether the principal carries an administrative role.
func (p *Principal) IsElevated() bool {
	return p.HasAnyRole(ElevatedRoles...)
}
