package routes

import (
	"estately/config"
	"estately/db"
	"estately/server/handlers"
	"estately/server/middleware/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthRoutes handles all authenticated routes (requires valid session)
type AuthRoutes struct {
	cfg  *config.Config
	svcs Services
}

func NewAuthRoutes(cfg *config.Config, svcs Services) *AuthRoutes {
	return &AuthRoutes{cfg: cfg, svcs: svcs}
}

// Register sets up all authenticated routes with auth middleware
func (ar *AuthRoutes) Register(app *fiber.App) {
	authed := app.Group("")
	authed.Use(auth.New(auth.Config{
		SessionManager: ar.svcs.Sessions,
		CookieName:     ar.cfg.Session.CookieName,
	}))

	// Pages every logged-in user can reach
	authed.Get("/info", handlers.HandleInfoPage())
	authed.Get("/profile", handlers.HandleProfilePage(ar.svcs.Favorites))
	authed.Get("/area", handlers.HandleAreaPage())
	authed.Post("/area/register", handlers.HandleAreaRegister())
	authed.Get("/integration", handlers.HandleIntegrationPage())
	authed.Get("/contact", handlers.HandleContactPage())
	authed.Post("/contact/enquiry", handlers.HandleEnquiry())

	ar.registerBuyerRoutes(authed)
	ar.registerSellerRoutes(authed)
}

// registerBuyerRoutes sets up the buyer dashboard endpoints. The role gate
// is attached per route; the buyer pages share no path prefix.
func (ar *AuthRoutes) registerBuyerRoutes(router fiber.Router) {
	buyerOnly := auth.RequireRole(db.RoleBuyer)

	router.Get("/buyer-dashboard", buyerOnly, handlers.HandleBuyerDashboard(ar.svcs.Favorites))
	router.Post("/search", buyerOnly, handlers.HandleSearch(ar.svcs.Search))
	router.Post("/favorites", buyerOnly, handlers.HandleSaveFavorite(ar.svcs.Search))
	router.Get("/favorites", buyerOnly, handlers.HandleFavoritesList(ar.svcs.Favorites))
}

// registerSellerRoutes sets up the seller dashboard endpoints
func (ar *AuthRoutes) registerSellerRoutes(router fiber.Router) {
	sellerOnly := auth.RequireRole(db.RoleSeller)

	router.Get("/seller-dashboard", sellerOnly, handlers.HandleSellerDashboard(ar.svcs.Listings))

	seller := router.Group("/seller", sellerOnly)
	seller.Post("/listings", handlers.HandleAddProperty(ar.svcs.Listings))
	seller.Put("/listings/:index", handlers.HandleUpdateListing(ar.svcs.Listings))
	seller.Delete("/listings/:index", handlers.HandleDeleteListing(ar.svcs.Listings))
}
