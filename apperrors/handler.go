package apperrors

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HandlerConfig configures the error handler
type HandlerConfig struct {
	// Logger for error logging
	Logger *log.Logger

	// ShowInternalErrors shows internal error details in responses (dev only)
	ShowInternalErrors bool

	// OnError is called for each error (useful for metrics/monitoring)
	OnError func(c *fiber.Ctx, err *AppError)
}

// DefaultHandlerConfig returns sensible defaults
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		Logger:             log.Default(),
		ShowInternalErrors: false,
		OnError:            nil,
	}
}

// Handler creates a Fiber error handler
func Handler(config HandlerConfig) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := FromError(err)

		if config.Logger != nil {
			logError(config.Logger, c, appErr)
		}

		if config.OnError != nil {
			config.OnError(c, appErr)
		}

		isHTMX := c.Get("HX-Request") == "true"
		isAPI := strings.HasPrefix(c.Path(), "/api")

		if isHTMX {
			return handleHTMXError(c, appErr)
		}
		if isAPI {
			return handleAPIError(c, appErr, config.ShowInternalErrors)
		}
		return handleBrowserError(c, appErr)
	}
}

// handleHTMXError returns HTML fragments for HTMX requests
func handleHTMXError(c *fiber.Ctx, err *AppError) error {
	// For authentication errors, redirect to login
	if err.Code == ErrCodeUnauthorized || err.Code == ErrCodeSessionExpired {
		c.Set("HX-Redirect", "/")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	html := `<div class="notice notice-error"><strong>` + string(err.Code) +
		`</strong><p>` + err.Message + `</p></div>`
	return c.Status(err.StatusCode).SendString(html)
}

// handleAPIError returns JSON for API requests
func handleAPIError(c *fiber.Ctx, err *AppError, showInternal bool) error {
	payload := fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	}
	if len(err.Details) > 0 {
		payload["details"] = err.Details
	}
	if showInternal && err.Internal != nil {
		payload["internal"] = err.Internal.Error()
	}
	return c.Status(err.StatusCode).JSON(fiber.Map{"error": payload})
}

// handleBrowserError returns full HTML pages for browser requests
func handleBrowserError(c *fiber.Ctx, err *AppError) error {
	if err.Code == ErrCodeUnauthorized || err.Code == ErrCodeSessionExpired {
		return c.Redirect("/")
	}

	renderErr := c.Status(err.StatusCode).Render("error", fiber.Map{
		"Code":    err.Code,
		"Message": err.Message,
		"Status":  err.StatusCode,
	})
	if renderErr != nil {
		return c.Status(err.StatusCode).SendString(err.Message)
	}
	return nil
}

// logError logs the error with request context
func logError(logger *log.Logger, c *fiber.Ctx, err *AppError) {
	// Expected failures (validation, auth) stay at warn level
	if err.StatusCode < 500 {
		logger.Printf("[WARN] %s %s | %s | Status: %d | User: %v",
			c.Method(), c.Path(), err.Error(), err.StatusCode, c.Locals("username"))
		return
	}

	logger.Printf("[ERROR] %s %s | %s | Status: %d | IP: %s | User: %v",
		c.Method(), c.Path(), err.Error(), err.StatusCode, c.IP(), c.Locals("username"))

	if err.Internal != nil {
		logger.Printf("[ERROR] Internal error: %+v", err.Internal)
	}
}
