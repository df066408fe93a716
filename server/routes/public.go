package routes

import (
	"estately/server/handlers"
	"estately/services/accounts"

	"github.com/gofiber/fiber/v2"
)

// PublicRoutes handles all public-facing routes (no authentication required)
type PublicRoutes struct {
	asrv       *accounts.Service
	cookieName string
}

func NewPublicRoutes(asrv *accounts.Service, cookieName string) *PublicRoutes {
	return &PublicRoutes{
		asrv:       asrv,
		cookieName: cookieName,
	}
}

// Register sets up all public routes
func (pr *PublicRoutes) Register(app *fiber.App) {
	// Landing page, login and signup cards
	app.Get("/", handlers.HandleHomepage())
	app.Get("/login-form", handlers.HandleLoginForm())
	app.Get("/signup-form", handlers.HandleSignupForm())

	// Account actions
	app.Post("/signup", handlers.HandleUserSignup(pr.asrv))
	app.Post("/login", handlers.HandleUserLogin(pr.asrv, pr.cookieName))
	app.Post("/logout", handlers.HandleUserLogout(pr.asrv, pr.cookieName))
}
