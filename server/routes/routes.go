package routes

import (
	"estately/config"
	"estately/db"
	"estately/services/accounts"
	"estately/services/collections"
	"estately/services/listings"
	"estately/services/search"
	"estately/services/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Services bundles everything the route handlers need
type Services struct {
	Store     *db.BucketStore
	Users     *db.UsersDB
	Accounts  *accounts.Service
	Favorites *collections.Service
	Listings  *listings.Service
	Search    *search.Service
	Sessions  *sessions.SessionManager
	Redis     *redis.Client
}

// RegisterRoutes sets up every route group on the app. The auth middleware
// mounts at the root, so everything public registers before it.
func RegisterRoutes(app *fiber.App, cfg *config.Config, svcs Services) {
	NewPublicRoutes(svcs.Accounts, cfg.Session.CookieName).Register(app)
	RegisterAPIRoutes(app, svcs)
	NewAuthRoutes(cfg, svcs).Register(app)
}
