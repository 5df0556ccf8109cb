package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/config"
	"github.com/spec-kit/campus-resource-service/internal/observability"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling,
// per-client rate limiting and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, appCfg config.AppConfig) {
	if timeout := appCfg.RequestTimeout(); timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	if appCfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        appCfg.RateLimitMax,
			Expiration: appCfg.RateLimitWindow(),
			LimitReached: func(c *fiber.Ctx) error {
				return util.NewTooManyRequests("too many requests, please try again later")
			},
		}))
	}
	app.Use(observability.RequestLogger(logger, metrics))
}

// SearchRateLimiter caps the comparatively expensive search endpoint more
// tightly than the global limit.
func SearchRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return util.NewTooManyRequests("search rate limit exceeded")
		},
	})
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = util.NewInternalError(nil)
			}
			if err != nil {
				domainErr := util.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{
					"success": false,
					"message": domainErr.Message,
				}
				if len(domainErr.Details) > 0 {
					response["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
