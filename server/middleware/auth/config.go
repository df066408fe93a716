package auth

import (
	"estately/services/sessions"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	// Next defines a function to skip middleware.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// SessionManager resolves session cookies to logged-in users.
	//
	// Required. Default: nil
	SessionManager *sessions.SessionManager

	// CookieName is the cookie holding the session ID.
	//
	// Optional. Default: "session_id"
	CookieName string

	// Unauthorized overrides the response for requests without a valid
	// session.
	//
	// Optional. Default: redirect to "/"
	Unauthorized fiber.Handler
}

var ConfigDefault = Config{
	Next:           nil,
	SessionManager: nil,
	CookieName:     "session_id",
	Unauthorized:   nil,
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CookieName == "" {
		cfg.CookieName = ConfigDefault.CookieName
	}
	if cfg.Unauthorized == nil {
		cfg.Unauthorized = redirectToLogin
	}

	return cfg
}
