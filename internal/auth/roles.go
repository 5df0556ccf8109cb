package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	apperrors "github.com/spec-kit/campus-resource-service/pkg/util"
)

// RequireRoles ensures the principal carries one of the allowed roles.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("please login to access this resource")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden(fmt.Sprintf("role (%s) is not allowed to access this resource", principal.Role))
		}
		return c.Next()
	}
}

// RequireAdmin restricts a route to admin accounts.
func RequireAdmin() fiber.Handler {
	return RequireRoles(domain.RoleAdmin)
}

// RequireFaculty restricts a route to faculty accounts.
func RequireFaculty() fiber.Handler {
	return RequireRoles(domain.RoleFaculty)
}

// RequireStudent restricts a route to student accounts.
func RequireStudent() fiber.Handler {
	return RequireRoles(domain.RoleStudent)
}
