package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// isHTMXRequest checks if the request is from HTMX
func isHTMXRequest(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// usernameFromContext safely extracts username from context locals
func usernameFromContext(c *fiber.Ctx) (string, error) {
	val := c.Locals("username")
	if val == nil {
		return "", fiber.ErrUnauthorized
	}

	username, ok := val.(string)
	if !ok || username == "" {
		return "", fiber.ErrUnauthorized
	}

	return username, nil
}

// roleFromContext extracts the logged-in user's role, empty when absent
func roleFromContext(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

// csrfFromContext returns the CSRF token injected for this session,
// empty when there is none
func csrfFromContext(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf_token").(string)
	return token
}

// handleUnauthorized redirects to login for unauthorized requests
func handleUnauthorized(c *fiber.Ctx) error {
	if isHTMXRequest(c) {
		c.Set("HX-Redirect", "/")
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.Redirect("/")
}

// renderNotice renders the flash partial for HTMX callers and a plain
// string otherwise
func renderNotice(c *fiber.Ctx, message string) error {
	if isHTMXRequest(c) {
		return c.Render("partials/notice", fiber.Map{"Message": message})
	}
	return c.SendString(message)
}
