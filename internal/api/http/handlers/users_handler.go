package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/api/dto"
	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// UsersHandler exposes registration, session and account endpoints.
type UsersHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, cookieSecure bool) *UsersHandler {
	return &UsersHandler{auth: authService, cookieSecure: cookieSecure}
}

// RegisterStudent handles POST /api/users/register-student.
func (h *UsersHandler) RegisterStudent(c *fiber.Ctx) error {
	var req dto.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.RegisterStudent(c.UserContext(), service.RegisterStudentInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
		RollNumber:   req.RollNumber,
		CourseID:     req.CourseID,
		SessionLabel: req.SessionLabel,
		Semester:     req.Semester,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "registration received, awaiting verification",
		"data":    dto.NewUserResponse(user),
	})
}

// RegisterFaculty handles POST /api/users/register-faculty.
func (h *UsersHandler) RegisterFaculty(c *fiber.Ctx) error {
	var req dto.RegisterFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.RegisterFacultyInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
		FacultyCode:  req.FacultyCode,
		Department:   req.Department,
		Designation:  req.Designation,
		CourseID:     req.CourseID,
	}
	user, err := h.auth.RegisterFaculty(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "registration received, awaiting verification",
		"data":    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)

	return c.JSON(fiber.Map{
		"success":      true,
		"data":         dto.NewUserResponse(user),
		"access_token": pair.AccessToken,
		"expires_at":   pair.AccessExpiresAt,
	})
}

// Refresh handles POST /api/users/refresh. The refresh token is read from
// its cookie, or from the request body for cookie-less clients; a new pair
// is issued and both cookies rotate.
func (h *UsersHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(auth.RefreshTokenCookie)
	if refreshToken == "" {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return util.NewUnauthorized("refresh token missing")
	}

	pair, err := h.auth.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)

	return c.JSON(fiber.Map{
		"success":      true,
		"access_token": pair.AccessToken,
		"expires_at":   pair.AccessExpiresAt,
	})
}

// Logout handles POST /api/users/logout by expiring both session cookies.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c, auth.AccessTokenCookie)
	h.clearCookie(c, auth.RefreshTokenCookie)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out",
	})
}

// Profile handles GET /api/users/me.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("please login to access this resource")
	}
	user, err := h.auth.Profile(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewUserResponse(user),
	})
}

// GetStudent handles GET /api/users/student/:id.
func (h *UsersHandler) GetStudent(c *fiber.Ctx) error {
	user, err := h.auth.GetUserByRole(c.UserContext(), c.Params("id"), domain.RoleStudent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewUserResponse(user),
	})
}

// GetFaculty handles GET /api/users/faculty/:id.
func (h *UsersHandler) GetFaculty(c *fiber.Ctx) error {
	user, err := h.auth.GetUserByRole(c.UserContext(), c.Params("id"), domain.RoleFaculty)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewUserResponse(user),
	})
}

// ForgotPassword handles POST /api/users/forgot-password.
func (h *UsersHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "if the account exists, a reset email has been sent",
	})
}

// ResetPassword handles POST /api/users/reset-password/:token.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "password has been reset",
	})
}

// ChangePassword handles POST /api/users/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("please login to access this resource")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "password changed",
	})
}

// PendingVerifications handles GET /api/users/pending (admin).
func (h *UsersHandler) PendingVerifications(c *fiber.Ctx) error {
	users, err := h.auth.ListPendingVerifications(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewUserResponses(users),
	})
}

// Activate handles PATCH /api/users/:id/activate (admin).
func (h *UsersHandler) Activate(c *fiber.Ctx) error {
	if err := h.auth.SetUserActive(c.UserContext(), c.Params("id"), true); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "account activated",
	})
}

func (h *UsersHandler) setSessionCookies(c *fiber.Ctx, pair *auth.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    pair.AccessToken,
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     auth.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *UsersHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
