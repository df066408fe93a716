package handlers

import (
	"estately/apperrors"
	"estately/pkg/logger"
	"estately/services/listings"

	"github.com/gofiber/fiber/v2"
)

func HandleSellerDashboard(lsrv *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		return c.Render("seller-dashboard", fiber.Map{
			"Username":  username,
			"Role":      roleFromContext(c),
			"CSRFToken": csrfFromContext(c),
			"Listings":  lsrv.ListFor(username),
		})
	}
}

func HandleAddProperty(lsrv *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		// The image is validated and then discarded. Nothing reads it back.
		if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
			if _, err := ValidateImageUpload(fileHeader); err != nil {
				appErr := apperrors.FromError(err)
				return c.Status(appErr.StatusCode).Render("partials/listings-panel", fiber.Map{
					"Error":    appErr.Message,
					"Listings": lsrv.ListFor(username),
				})
			}
		}

		input := listings.PropertyInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Price:       c.FormValue("price"),
			Type:        c.FormValue("property_type"),
			Location:    c.FormValue("location"),
		}

		message, err := lsrv.AddProperty(username, input)
		if err != nil {
			appErr := apperrors.FromError(err)
			return c.Status(appErr.StatusCode).Render("partials/listings-panel", fiber.Map{
				"Error":    appErr.Message,
				"Listings": lsrv.ListFor(username),
			})
		}

		return c.Render("partials/listings-panel", fiber.Map{
			"Message":  message,
			"Listings": lsrv.ListFor(username),
		})
	}
}

func HandleUpdateListing(lsrv *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		index, err := c.ParamsInt("index")
		if err != nil {
			return apperrors.NewBadRequest("Invalid listing index")
		}

		if err := lsrv.UpdateListingViaPrompt(username, index, dialogsFromForm(c)); err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeCancelled) {
				// Cancelled prompt leaves everything as it was
				return c.Render("partials/listings-panel", fiber.Map{
					"Listings": lsrv.ListFor(username),
				})
			}
			appErr := apperrors.FromError(err)
			return c.Status(appErr.StatusCode).Render("partials/listings-panel", fiber.Map{
				"Error":    appErr.Message,
				"Listings": lsrv.ListFor(username),
			})
		}

		logger.WithFields(map[string]any{
			"username": username,
			"index":    index,
		}).Info("Listing updated")

		return c.Render("partials/listings-panel", fiber.Map{
			"Listings": lsrv.ListFor(username),
		})
	}
}

func HandleDeleteListing(lsrv *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameFromContext(c)
		if err != nil {
			return handleUnauthorized(c)
		}

		index, err := c.ParamsInt("index")
		if err != nil {
			return apperrors.NewBadRequest("Invalid listing index")
		}

		message, err := lsrv.DeleteListing(username, index, dialogsFromForm(c))
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeCancelled) {
				return c.Render("partials/listings-panel", fiber.Map{
					"Listings": lsrv.ListFor(username),
				})
			}
			appErr := apperrors.FromError(err)
			return c.Status(appErr.StatusCode).Render("partials/listings-panel", fiber.Map{
				"Error":    appErr.Message,
				"Listings": lsrv.ListFor(username),
			})
		}

		return c.Render("partials/listings-panel", fiber.Map{
			"Message":  message,
			"Listings": lsrv.ListFor(username),
		})
	}
}
