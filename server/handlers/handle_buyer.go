package handlers

import (
	"estately/apperrors"
	"estately/services/collections"
	"estately/services/search"

	"github.com/gofiber/fiber/v2"
)

// EnquiryNotice is static; no enquiry is actually delivered anywhere
const EnquiryNotice = "Enquiry sent to the seller. They will contact you soon."

func HandleBuyerDashboard(favorites *collections.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		return c.Render("buyer-dashboard", fiber.Map{
			"Username":  username,
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
			"Favorites": favorites.ListFor(username),
		})
	}
}

func HandleSearch(ssrv *search.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		text, err := ssrv.Search(username,
			c.FormValue("location"),
			c.FormValue("max_price"),
			c.FormValue("property_type"))
		if err != nil {
			appErr := apperrors.FromError(err)
			return c.Status(appErr.StatusCode).Render("partials/search-results", fiber.Map{
				"Error": appErr.Message,
			})
		}

		return c.Render("partials/search-results", fiber.Map{
			"Results": text,
		})
	}
}

func HandleSaveFavorite(ssrv *search.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		message, err := ssrv.SaveFavorite(username,
			c.FormValue("location"),
			c.FormValue("property_type"))
		if err != nil {
			appErr := apperrors.FromError(err)
			return c.Status(appErr.StatusCode).Render("partials/notice", fiber.Map{
				"Message": appErr.Message,
			})
		}

		return renderNotice(c, message)
	}
}

func HandleFavoritesList(favorites *collections.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		return c.Render("partials/favorites-list", fiber.Map{
			"Favorites": favorites.ListFor(username),
		})
	}
}

func HandleEnquiry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderNotice(c, EnquiryNotice)
	}
}
