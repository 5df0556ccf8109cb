package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/api/dto"
	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// NoticesHandler exposes announcement endpoints.
type NoticesHandler struct {
	notices *service.NoticeService
	auth    *service.AuthService
}

// NewNoticesHandler constructs handler.
func NewNoticesHandler(notices *service.NoticeService, authService *service.AuthService) *NoticesHandler {
	return &NoticesHandler{notices: notices, auth: authService}
}

// Create handles POST /api/notices (multipart, faculty/admin).
func (h *NoticesHandler) Create(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	var form dto.CreateNoticeForm
	if err := c.BodyParser(&form); err != nil {
		return util.NewValidationError("invalid form", nil)
	}
	if err := dto.Validate(form); err != nil {
		return err
	}

	expiresAt, err := time.Parse(time.RFC3339, form.ExpiresAt)
	if err != nil {
		return util.NewValidationError("expires_at must be RFC3339", nil)
	}

	var refs []dto.CohortRef
	if err := json.Unmarshal([]byte(form.Audience), &refs); err != nil {
		return util.NewValidationError("audience must be a JSON array of cohorts", nil)
	}
	audience := make([]domain.Cohort, 0, len(refs))
	for _, ref := range refs {
		if err := dto.Validate(ref); err != nil {
			return err
		}
		audience = append(audience, domain.Cohort{CourseID: ref.CourseID, Semester: ref.Semester})
	}

	input := service.CreateNoticeInput{
		Title:     form.Title,
		Content:   form.Content,
		Priority:  domain.NoticePriority(form.Priority),
		ExpiresAt: expiresAt,
		Audience:  audience,
	}
	if fileHeader, err := c.FormFile("attachment"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return util.NewValidationError("attachment could not be read", nil)
		}
		defer file.Close()
		input.AttachmentName = fileHeader.Filename
		input.Attachment = file
	}

	notice, err := h.notices.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewNoticeResponse(notice),
	})
}

// List handles GET /api/notices. Students get their own cohort; staff
// select one via course_id and semester query parameters.
func (h *NoticesHandler) List(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	notices, err := h.notices.ListForUser(
		c.UserContext(),
		caller,
		c.Query("course_id"),
		c.QueryInt("semester", 0),
		c.QueryInt("limit", 20),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewNoticeResponses(notices),
	})
}

// Get handles GET /api/notices/:id.
func (h *NoticesHandler) Get(c *fiber.Ctx) error {
	notice, err := h.notices.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewNoticeResponse(notice),
	})
}

// Delete handles DELETE /api/notices/:id (author/admin).
func (h *NoticesHandler) Delete(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	if err := h.notices.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "notice deleted"})
}

func (h *NoticesHandler) caller(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, util.NewUnauthorized("please login to access this resource")
	}
	return h.auth.Profile(c.UserContext(), principal.UserID)
}
