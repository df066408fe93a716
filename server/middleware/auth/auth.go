package auth

import (
	"estately/apperrors"

	"github.com/gofiber/fiber/v2"
)

// New resolves the session cookie and stores the logged-in user's identity
// in Locals("username") and Locals("role"). Requests without a live session
// are sent back to the login page.
func New(config Config) fiber.Handler {
	cfg := configDefault(config)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		sessionID := c.Cookies(cfg.CookieName)
		if sessionID == "" {
			return cfg.Unauthorized(c)
		}

		sess, err := cfg.SessionManager.GetSession(c.Context(), sessionID)
		if err != nil || sess == nil {
			return cfg.Unauthorized(c)
		}

		if err := cfg.SessionManager.RenewSession(c.Context(), sessionID); err != nil {
			return cfg.Unauthorized(c)
		}

		c.Locals("username", sess.Username)
		c.Locals("role", sess.Role)

		return c.Next()
	}
}

// RequireRole gates a route group to one role. It runs after New, so a
// missing role means the auth middleware was skipped and the request is
// treated as unauthenticated.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals("role").(string)
		if !ok || current == "" {
			return redirectToLogin(c)
		}
		if current != role {
			return apperrors.NewForbidden("This page is not available for your account type.")
		}
		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	if c.Get("HX-Request") == "true" {
		c.Set("HX-Redirect", "/")
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.Redirect("/")
}
