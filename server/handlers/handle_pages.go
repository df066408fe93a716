package handlers

import (
	"fmt"

	"estately/services/collections"

	"github.com/gofiber/fiber/v2"
)

func HandleHomepage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("homepage", fiber.Map{
			"Title": "Estately - Find Your Next Home",
		})
	}
}

func HandleLoginForm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isHTMXRequest(c) {
			return c.Render("partials/login", fiber.Map{})
		}
		return c.Render("login", fiber.Map{})
	}
}

func HandleSignupForm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isHTMXRequest(c) {
			return c.Render("partials/signup", fiber.Map{})
		}
		return c.Render("signup", fiber.Map{})
	}
}

func HandleInfoPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, _ := c.Locals("username").(string)
		return c.Render("info", fiber.Map{
			"Username":  username,
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
		})
	}
}

func HandleProfilePage(favorites *collections.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		return c.Render("profile", fiber.Map{
			"Username":  username,
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
			"Favorites": favorites.ListFor(username),
		})
	}
}

func HandleAreaPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("area", fiber.Map{
			"Username":  c.Locals("username"),
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
		})
	}
}

// HandleAreaRegister confirms the subscription. There is no delivery
// behind it; the notice is the whole feature.
func HandleAreaRegister() fiber.Handler {
	return func(c *fiber.Ctx) error {
		areaType := c.FormValue("area_type")
		if areaType == "" {
			areaType = "Urban"
		}
		return renderNotice(c, fmt.Sprintf("✅ Registered for updates in %s areas.", areaType))
	}
}

func HandleIntegrationPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("integration", fiber.Map{
			"Username":  c.Locals("username"),
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
		})
	}
}

func HandleContactPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("contact", fiber.Map{
			"Username":  c.Locals("username"),
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
		})
	}
}
