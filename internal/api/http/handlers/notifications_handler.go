package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/service"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// NotificationsHandler exposes the recipient-scoped notification endpoints.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /api/notifications?page=&limit=.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("please login to access this resource")
	}
	items, pagination, err := h.notifications.List(
		c.UserContext(),
		principal.UserID,
		principal.Kind(),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 20),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": pagination,
	})
}

// MarkRead handles PATCH /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("please login to access this resource")
	}
	notification, err := h.notifications.MarkRead(c.UserContext(), c.Params("id"), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": notification})
}

// MarkAllRead handles PATCH /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("please login to access this resource")
	}
	if err := h.notifications.MarkAllRead(c.UserContext(), principal.UserID, principal.Kind()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "all notifications marked read"})
}

// Delete handles DELETE /api/notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("please login to access this resource")
	}
	if err := h.notifications.Delete(c.UserContext(), c.Params("id"), principal.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "notification deleted"})
}
