package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User is the single account record shared by all roles. Student and
// faculty specific attributes are nullable and required per role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	MobileNumber string
	Role         Role
	IsActive     bool

	ResetTokenHash *string
	ResetExpiresAt *time.Time

	// student attributes
	RollNumber   *string
	CourseID     *string
	SessionLabel *string
	Semester     *int

	// faculty attributes
	FacultyCode *string
	Department  *string
	Designation *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsStudent reports whether the account carries the student variant.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsFaculty reports whether the account carries the faculty variant.
func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }
