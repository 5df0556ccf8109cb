package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/api/dto"
	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// DashboardHandler exposes the faculty/student dashboards and subject
// analytics.
type DashboardHandler struct {
	dashboards *service.DashboardService
	auth       *service.AuthService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService, authService *service.AuthService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, auth: authService}
}

// Faculty handles GET /api/dashboard/faculty.
func (h *DashboardHandler) Faculty(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	overview, err := h.dashboards.FacultyOverview(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"dashboard": dto.NewFacultyOverviewResponse(overview),
	})
}

// Student handles GET /api/dashboard/student.
func (h *DashboardHandler) Student(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	overview, err := h.dashboards.StudentOverview(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"dashboard": dto.NewStudentOverviewResponse(overview),
	})
}

// SubjectAnalytics handles GET /api/analytics/subject/:id. Optional
// start_date and end_date query values bound the window (RFC 3339 dates).
func (h *DashboardHandler) SubjectAnalytics(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	var since, until time.Time
	if v := c.Query("start_date"); v != "" {
		since, err = time.Parse("2006-01-02", v)
		if err != nil {
			return util.NewValidationError("start_date must be YYYY-MM-DD", nil)
		}
	}
	if v := c.Query("end_date"); v != "" {
		until, err = time.Parse("2006-01-02", v)
		if err != nil {
			return util.NewValidationError("end_date must be YYYY-MM-DD", nil)
		}
	}

	analytics, err := h.dashboards.SubjectAnalytics(c.UserContext(), caller, c.Params("id"), since, until)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"analytics": dto.NewSubjectAnalyticsResponse(analytics),
	})
}

func (h *DashboardHandler) caller(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, util.NewUnauthorized("please login to access this resource")
	}
	return h.auth.Profile(c.UserContext(), principal.UserID)
}
