package handlers

import (
	"time"

	"estately/apperrors"
	"estately/pkg/logger"
	"estately/server/middleware/csrf"

	"github.com/gofiber/fiber/v2"
)

// InjectCSRFToken makes a per-session CSRF token available to templates
// through Locals, minting one on first use. Requests without a session
// pass through untouched.
func InjectCSRFToken(storage csrf.Storage, cookieName string, expiration time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookieName)
		if sessionID == "" {
			return c.Next()
		}

		token, err := storage.Get(sessionID)
		if err != nil {
			if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) &&
				!apperrors.HasCode(err, apperrors.ErrCodeSessionExpired) {
				logger.WithError(err).Error("Failed to read CSRF token from storage")
			}
			token = ""
		}

		if token == "" {
			token, err = csrf.GenerateToken(c, sessionID, storage, expiration)
			if err != nil {
				// The request itself can still proceed; state-changing
				// follow-ups will be rejected until a token exists
				logger.WithError(err).Error("Failed to generate CSRF token")
				return c.Next()
			}
		}

		c.Locals("csrf_token", token)
		return c.Next()
	}
}
