package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/api/dto"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// CatalogHandler exposes course, semester and subject administration.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateCourse handles POST /api/courses.
func (h *CatalogHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	course := &domain.Course{Name: req.Name, Code: req.Code, CoordinatorID: req.CoordinatorID}
	if err := h.catalog.CreateCourse(c.UserContext(), course); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewCourseResponse(course),
	})
}

// ListCourses handles GET /api/courses.
func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.catalog.ListCourses(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, dto.NewCourseResponse(&courses[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

// GetCourse handles GET /api/courses/:id.
func (h *CatalogHandler) GetCourse(c *fiber.Ctx) error {
	course, err := h.catalog.GetCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewCourseResponse(course)})
}

// UpdateCourse handles PUT /api/courses/:id.
func (h *CatalogHandler) UpdateCourse(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	course := &domain.Course{ID: c.Params("id"), Name: req.Name, Code: req.Code, CoordinatorID: req.CoordinatorID}
	if err := h.catalog.UpdateCourse(c.UserContext(), course); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewCourseResponse(course)})
}

// DeleteCourse handles DELETE /api/courses/:id.
func (h *CatalogHandler) DeleteCourse(c *fiber.Ctx) error {
	if err := h.catalog.DeleteCourse(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "course deleted"})
}

// CreateSemester handles POST /api/semesters.
func (h *CatalogHandler) CreateSemester(c *fiber.Ctx) error {
	var req dto.SemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	semester := &domain.Semester{Name: req.Name, Code: req.Code}
	if err := h.catalog.CreateSemester(c.UserContext(), semester); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewSemesterResponse(semester),
	})
}

// ListSemesters handles GET /api/semesters.
func (h *CatalogHandler) ListSemesters(c *fiber.Ctx) error {
	semesters, err := h.catalog.ListSemesters(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, dto.NewSemesterResponse(&semesters[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

// UpdateSemester handles PUT /api/semesters/:id.
func (h *CatalogHandler) UpdateSemester(c *fiber.Ctx) error {
	var req dto.SemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	semester := &domain.Semester{ID: c.Params("id"), Name: req.Name, Code: req.Code}
	if err := h.catalog.UpdateSemester(c.UserContext(), semester); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewSemesterResponse(semester)})
}

// DeleteSemester handles DELETE /api/semesters/:id.
func (h *CatalogHandler) DeleteSemester(c *fiber.Ctx) error {
	if err := h.catalog.DeleteSemester(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "semester deleted"})
}

// CreateSubject handles POST /api/subjects.
func (h *CatalogHandler) CreateSubject(c *fiber.Ctx) error {
	var req dto.SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	subject := &domain.Subject{
		Name:      req.Name,
		Code:      req.Code,
		FacultyID: req.FacultyID,
		CourseID:  req.CourseID,
		Semester:  req.Semester,
	}
	if err := h.catalog.CreateSubject(c.UserContext(), subject); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewSubjectResponse(subject),
	})
}

// ListSubjects handles GET /api/subjects.
func (h *CatalogHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.catalog.ListSubjects(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, dto.NewSubjectResponse(&subjects[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

// GetSubject handles GET /api/subjects/:id.
func (h *CatalogHandler) GetSubject(c *fiber.Ctx) error {
	subject, err := h.catalog.GetSubject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewSubjectResponse(subject)})
}

// UpdateSubject handles PUT /api/subjects/:id.
func (h *CatalogHandler) UpdateSubject(c *fiber.Ctx) error {
	var req dto.SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	subject := &domain.Subject{
		ID:        c.Params("id"),
		Name:      req.Name,
		Code:      req.Code,
		FacultyID: req.FacultyID,
		CourseID:  req.CourseID,
		Semester:  req.Semester,
	}
	if err := h.catalog.UpdateSubject(c.UserContext(), subject); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewSubjectResponse(subject)})
}

// DeleteSubject handles DELETE /api/subjects/:id.
func (h *CatalogHandler) DeleteSubject(c *fiber.Ctx) error {
	if err := h.catalog.DeleteSubject(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "subject deleted"})
}
