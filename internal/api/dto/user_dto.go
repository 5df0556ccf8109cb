package dto

import (
	"time"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// RegisterStudentRequest payload for student sign-up.
type RegisterStudentRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	RollNumber   string `json:"roll_number" validate:"required"`
	CourseID     string `json:"course_id" validate:"required,uuid4"`
	SessionLabel string `json:"session" validate:"required"`
	Semester     int    `json:"semester" validate:"required,min=1,max=12"`
}

// RegisterFacultyRequest payload for faculty sign-up.
type RegisterFacultyRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	FacultyCode  string `json:"faculty_code" validate:"required"`
	Department   string `json:"department" validate:"required"`
	Designation  string `json:"designation" validate:"required"`
	CourseID     string `json:"course_id" validate:"omitempty,uuid4"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token for clients that do not hold
// the session cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest starts password recovery.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes password recovery.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ChangePasswordRequest rotates a password for a signed-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse is the public account view. Variant fields appear only
// when set for the account's role.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	RollNumber   *string   `json:"roll_number,omitempty"`
	CourseID     *string   `json:"course_id,omitempty"`
	SessionLabel *string   `json:"session,omitempty"`
	Semester     *int      `json:"semester,omitempty"`
	FacultyCode  *string   `json:"faculty_code,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Designation  *string   `json:"designation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserResponse maps the domain account onto the public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		RollNumber:   user.RollNumber,
		CourseID:     user.CourseID,
		SessionLabel: user.SessionLabel,
		Semester:     user.Semester,
		FacultyCode:  user.FacultyCode,
		Department:   user.Department,
		Designation:  user.Designation,
		CreatedAt:    user.CreatedAt,
	}
}

// NewUserResponses maps a slice.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}
