package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/api/dto"
	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// ResourcesHandler exposes the notes/pyq/assignment endpoints.
type ResourcesHandler struct {
	resources *service.ResourceService
	auth      *service.AuthService
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(resources *service.ResourceService, authService *service.AuthService) *ResourcesHandler {
	return &ResourcesHandler{resources: resources, auth: authService}
}

// Create handles POST /api/resources (multipart).
func (h *ResourcesHandler) Create(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	var form dto.CreateResourceForm
	if err := c.BodyParser(&form); err != nil {
		return util.NewValidationError("invalid form", nil)
	}
	if err := dto.Validate(form); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return util.NewValidationError("file is required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return util.NewValidationError("file could not be read", nil)
	}
	defer file.Close()

	input := service.CreateResourceInput{
		Title:     form.Title,
		Type:      domain.ResourceType(form.Type),
		SubjectID: form.SubjectID,
		Semester:  form.Semester,
		CourseID:  form.CourseID,
		Year:      form.Year,
		FileName:  fileHeader.Filename,
		File:      file,
	}
	if form.DueDate != nil && *form.DueDate != "" {
		due, err := time.Parse(time.RFC3339, *form.DueDate)
		if err != nil {
			return util.NewValidationError("due_date must be RFC3339", nil)
		}
		input.DueDate = &due
	}

	resource, err := h.resources.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewResourceResponse(resource),
	})
}

// List handles GET /api/resources with query filters.
func (h *ResourcesHandler) List(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	filter := repository.ResourceFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.Query("course_id"); v != "" {
		filter.CourseID = &v
	}
	if v := c.Query("semester"); v != "" {
		semester, err := strconv.Atoi(v)
		if err != nil {
			return util.NewValidationError("semester must be a number", nil)
		}
		filter.Semester = &semester
	}
	if v := c.Query("subject_id"); v != "" {
		filter.SubjectID = &v
	}
	if v := c.Query("type"); v != "" {
		resourceType := domain.ResourceType(v)
		if !resourceType.Valid() {
			return util.NewValidationError("unknown resource type", map[string]any{"type": v})
		}
		filter.Type = &resourceType
	}
	if v := c.Query("uploaded_by"); v != "" {
		filter.UploadedBy = &v
	}

	resources, err := h.resources.List(c.UserContext(), caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewResourceResponses(resources),
	})
}

// Search handles GET /api/search. Results are grouped by resource type,
// restricted to the caller's subjects by the service.
func (h *ResourcesHandler) Search(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	query := c.Query("query")
	if query == "" {
		return util.NewValidationError("query is required", nil)
	}

	filter := repository.ResourceFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.Query("subject_id"); v != "" {
		filter.SubjectID = &v
	}
	if v := c.Query("semester"); v != "" {
		semester, err := strconv.Atoi(v)
		if err != nil {
			return util.NewValidationError("semester must be a number", nil)
		}
		filter.Semester = &semester
	}
	if v := c.Query("type"); v != "" {
		resourceType := domain.ResourceType(v)
		if !resourceType.Valid() {
			return util.NewValidationError("unknown resource type", map[string]any{"type": v})
		}
		filter.Type = &resourceType
	}

	resources, err := h.resources.Search(c.UserContext(), caller, query, filter)
	if err != nil {
		return err
	}

	grouped := map[string][]dto.ResourceResponse{
		"notes":       {},
		"pyqs":        {},
		"assignments": {},
	}
	for i := range resources {
		response := dto.NewResourceResponse(&resources[i])
		switch resources[i].Type {
		case domain.ResourceTypePYQ:
			grouped["pyqs"] = append(grouped["pyqs"], response)
		case domain.ResourceTypeAssignment:
			grouped["assignments"] = append(grouped["assignments"], response)
		default:
			grouped["notes"] = append(grouped["notes"], response)
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"results": grouped,
	})
}

// Get handles GET /api/resources/:id.
func (h *ResourcesHandler) Get(c *fiber.Ctx) error {
	resource, err := h.resources.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewResourceResponse(resource),
	})
}

// DownloadLink handles GET /api/resources/:id/download.
func (h *ResourcesHandler) DownloadLink(c *fiber.Ctx) error {
	link, err := h.resources.DownloadLink(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"url": link},
	})
}

// Update handles PUT /api/resources/:id.
func (h *ResourcesHandler) Update(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	input := service.UpdateResourceInput{Title: req.Title, Year: req.Year}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return util.NewValidationError("due_date must be RFC3339", nil)
		}
		input.DueDate = &due
	}
	resource, err := h.resources.Update(c.UserContext(), caller, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewResourceResponse(resource),
	})
}

// Delete handles DELETE /api/resources/:id.
func (h *ResourcesHandler) Delete(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	if err := h.resources.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "resource deleted"})
}

// Submit handles POST /api/resources/:id/submissions (multipart, student).
func (h *ResourcesHandler) Submit(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return util.NewValidationError("file is required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return util.NewValidationError("file could not be read", nil)
	}
	defer file.Close()

	submission, err := h.resources.SubmitAssignment(c.UserContext(), caller, service.SubmitAssignmentInput{
		AssignmentID: c.Params("id"),
		StudentID:    caller.ID,
		FileName:     fileHeader.Filename,
		File:         file,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewSubmissionResponse(submission),
	})
}

// ListSubmissions handles GET /api/resources/:id/submissions (uploader/admin).
func (h *ResourcesHandler) ListSubmissions(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	submissions, err := h.resources.ListSubmissions(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewSubmissionResponses(submissions),
	})
}

// DeleteSubmission handles DELETE /api/assignment-submissions/:id (student).
func (h *ResourcesHandler) DeleteSubmission(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	if err := h.resources.DeleteSubmission(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "submission deleted"})
}

func (h *ResourcesHandler) caller(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, util.NewUnauthorized("please login to access this resource")
	}
	return h.auth.Profile(c.UserContext(), principal.UserID)
}
