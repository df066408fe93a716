package handlers

import (
	"context"
	"os"
	"time"

	"estately/apperrors"
	"estately/pkg/logger"
	"estately/services/accounts"

	"github.com/gofiber/fiber/v2"
)

func HandleUserSignup(asrv *accounts.Service) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		username := ctx.FormValue("username")
		password := ctx.FormValue("password")
		role := ctx.FormValue("role")

		reqCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := asrv.Signup(reqCtx, username, password, role); err != nil {
			appErr := apperrors.FromError(err)
			return ctx.Status(appErr.StatusCode).Render("partials/signup", fiber.Map{
				"Error":    appErr.Message,
				"Username": username,
				"Role":     role,
			})
		}

		return ctx.Render("partials/account-created", fiber.Map{
			"Username": username,
		})
	}
}

func HandleUserLogin(asrv *accounts.Service, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		username := ctx.FormValue("username")
		password := ctx.FormValue("password")

		reqCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		session, section, err := asrv.Login(reqCtx, username, password)
		if err != nil {
			appErr := apperrors.FromError(err)
			return ctx.Status(appErr.StatusCode).Render("partials/login", fiber.Map{
				"Error":    appErr.Message,
				"Username": username,
			})
		}

		isSecure := os.Getenv("APP_ENV") != "development"
		ctx.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    session.SessionID,
			Expires:  time.Now().Add(24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
			Secure:   isSecure,
			Path:     "/",
		})

		ctx.Set("HX-Redirect", "/"+section)
		return ctx.SendStatus(fiber.StatusOK)
	}
}

func HandleUserLogout(asrv *accounts.Service, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := ctx.Cookies(cookieName)

		if sessionID != "" {
			reqCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := asrv.Logout(reqCtx, sessionID); err != nil {
				logger.WithFields(map[string]any{
					"session_id": sessionID,
					"error":      err.Error(),
				}).Warn("Failed to delete session during logout")
				// Continue anyway and clear the cookie
			}
		}

		ctx.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    "",
			Expires:  time.Now().Add(-1 * time.Hour),
			HTTPOnly: true,
			Path:     "/",
		})

		ctx.Set("HX-Redirect", "/")
		return ctx.SendStatus(fiber.StatusOK)
	}
}
