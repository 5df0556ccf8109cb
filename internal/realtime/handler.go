package realtime

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/auth"
)

// Handler upgrades authenticated clients onto the live delivery registry.
type Handler struct {
	registry *Registry
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewHandler constructs the websocket handler.
func NewHandler(registry *Registry, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, tokens: tokens, logger: logger}
}

// Upgrade gates the endpoint to websocket upgrade requests.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve authenticates the handshake via bearer token, then keeps the
// connection registered until it drops. The channel is receive-only for
// the client; inbound frames are drained and discarded.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token := conn.Cookies(auth.AccessTokenCookie)
		if token == "" {
			token = bearerToken(conn)
		}
		if token == "" {
			_ = conn.Close()
			return
		}

		claims, err := h.tokens.ParseAccess(token)
		if err != nil {
			_ = conn.Close()
			return
		}

		h.registry.Register(claims.UserID, conn)
		h.logger.Debug("websocket connected", zap.String("user_id", claims.UserID))
		defer func() {
			h.registry.Unregister(claims.UserID, conn)
			_ = conn.Close()
			h.logger.Debug("websocket disconnected", zap.String("user_id", claims.UserID))
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func bearerToken(conn *websocket.Conn) string {
	authHeader := conn.Headers("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
