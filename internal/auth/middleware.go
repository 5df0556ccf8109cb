package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	apperrors "github.com/spec-kit/campus-resource-service/pkg/util"
)

const principalKey = "auth_principal"

// AccessTokenCookie is the primary access token carrier.
const AccessTokenCookie = "accessToken"

// RefreshTokenCookie carries the refresh token.
const RefreshTokenCookie = "refreshToken"

// Principal is the decoded identity attached to an authenticated request.
type Principal struct {
	UserID string
	Role   domain.Role
}

// Kind maps the principal onto the notification recipient discriminator.
func (p *Principal) Kind() domain.RecipientKind {
	return domain.RecipientKindForRole(p.Role)
}

// AuthMiddleware validates session tokens and attaches the principal.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. The access token is
// read from the accessToken cookie first, then from the Authorization
// header as a fallback.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c)
	if token == "" {
		return apperrors.NewUnauthorized("please login to access this resource")
	}

	claims, err := m.tokens.ParseAccess(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, &Principal{UserID: claims.UserID, Role: claims.Role})
	return c.Next()
}

// TokenFromRequest extracts the bearer token from cookie or header.
func TokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
