package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"

	"estately/apperrors"

	"github.com/gofiber/fiber/v2"
)

// TokenCookieName is the cookie the generated token is mirrored into
const TokenCookieName = "csrf_token"

// New returns a middleware that rejects state-changing requests whose
// token does not match the one stored for the caller's session. Requests
// without a session cookie pass through; the auth middleware owns those.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	extractor := createExtractor(cfg.KeyLookup)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		sessionID := c.Cookies(cfg.SessionCookieName)
		if sessionID == "" {
			return c.Next()
		}

		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodPatch:
		default:
			return c.Next()
		}

		token := extractor(c)
		if token == "" {
			return cfg.ErrorHandler(c, apperrors.New(
				apperrors.ErrCodeValidationFailed,
				"CSRF token missing",
				fiber.StatusForbidden,
			))
		}

		storedToken, err := cfg.Storage.Get(sessionID)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(storedToken)) != 1 {
			return cfg.ErrorHandler(c, apperrors.New(
				apperrors.ErrCodeValidationFailed,
				"CSRF token invalid",
				fiber.StatusForbidden,
			))
		}

		return c.Next()
	}
}

// GenerateToken mints a token for sessionID, stores it, and mirrors it
// into the csrf_token cookie
func GenerateToken(c *fiber.Ctx, sessionID string, storage Storage, expiration time.Duration) (string, error) {
	token, err := generateRandomToken(32)
	if err != nil {
		return "", err
	}

	if err := storage.Set(sessionID, token, expiration); err != nil {
		return "", err
	}

	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(expiration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})

	return token, nil
}

// createExtractor builds the token extractor from a "source:key" lookup
func createExtractor(lookup string) func(*fiber.Ctx) string {
	source, key := "header", "X-CSRF-Token"
	if parts := strings.SplitN(lookup, ":", 2); len(parts) == 2 && parts[0] != "" {
		source, key = parts[0], parts[1]
	}

	switch source {
	case "form":
		return func(c *fiber.Ctx) string {
			return c.FormValue(key)
		}
	case "query":
		return func(c *fiber.Ctx) string {
			return c.Query(key)
		}
	default:
		return func(c *fiber.Ctx) string {
			return c.Get(key)
		}
	}
}

func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
