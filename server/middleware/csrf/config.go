package csrf

import (
	"time"

	"estately/apperrors"

	"github.com/gofiber/fiber/v2"
)

// Config defines CSRF middleware configuration
type Config struct {
	// Next defines a function to skip middleware
	Next func(c *fiber.Ctx) bool

	// KeyLookup defines where to look for the CSRF token.
	// Format: "<source>:<key>"
	// Possible values: "header:X-CSRF-Token", "form:_csrf", "query:csrf"
	KeyLookup string

	// SessionCookieName is the cookie that carries the session ID the
	// token is bound to
	SessionCookieName string

	// Expiration is the duration for which a stored token is valid
	Expiration time.Duration

	// Storage holds tokens keyed by session ID (in-memory by default)
	Storage Storage

	// ErrorHandler is called when CSRF validation fails
	ErrorHandler fiber.ErrorHandler
}

// ConfigDefault is the default configuration
var ConfigDefault = Config{
	KeyLookup:         "header:X-CSRF-Token",
	SessionCookieName: "session_id",
	Expiration:        1 * time.Hour,
	ErrorHandler: func(c *fiber.Ctx, err error) error {
		return apperrors.New(
			apperrors.ErrCodeValidationFailed,
			"CSRF token validation failed",
			fiber.StatusForbidden,
		).WithInternal(err)
	},
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		cfg := ConfigDefault
		cfg.Storage = NewInMemoryStorage()
		return cfg
	}

	cfg := config[0]

	if cfg.KeyLookup == "" {
		cfg.KeyLookup = ConfigDefault.KeyLookup
	}
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = ConfigDefault.SessionCookieName
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = ConfigDefault.Expiration
	}
	if cfg.Storage == nil {
		cfg.Storage = NewInMemoryStorage()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = ConfigDefault.ErrorHandler
	}

	return cfg
}
