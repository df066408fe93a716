package security

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	// AllowedScriptSources for CSP script-src directive
	AllowedScriptSources []string

	// AllowedStyleSources for CSP style-src directive
	AllowedStyleSources []string

	// Development mode relaxes CSP for inline scripts
	Development bool
}

var DefaultConfig = Config{
	AllowedScriptSources: []string{
		"'self'",
		"https://unpkg.com",
	},
	AllowedStyleSources: []string{
		"'self'",
		"https://fonts.googleapis.com",
	},
	Development: false,
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return DefaultConfig
	}

	cfg := config[0]

	if len(cfg.AllowedScriptSources) == 0 {
		cfg.AllowedScriptSources = DefaultConfig.AllowedScriptSources
	}
	if len(cfg.AllowedStyleSources) == 0 {
		cfg.AllowedStyleSources = DefaultConfig.AllowedStyleSources
	}

	return cfg
}

// New sets the standard security headers on every response
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		c.Set("Content-Security-Policy", buildCSP(cfg))
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		return c.Next()
	}
}

func buildCSP(cfg Config) string {
	var b strings.Builder

	b.WriteString("default-src 'self'; ")

	b.WriteString("script-src")
	for _, src := range cfg.AllowedScriptSources {
		b.WriteString(" " + src)
	}
	if cfg.Development {
		b.WriteString(" 'unsafe-inline'")
	}
	b.WriteString("; ")

	b.WriteString("style-src")
	for _, src := range cfg.AllowedStyleSources {
		b.WriteString(" " + src)
	}
	// Inline styles are used by the dashboard result panels
	b.WriteString(" 'unsafe-inline'; ")

	b.WriteString("font-src 'self' https://fonts.gstatic.com data:; ")
	b.WriteString("img-src 'self' data:; ")
	b.WriteString("connect-src 'self'; ")
	b.WriteString("frame-ancestors 'none'; ")
	b.WriteString("base-uri 'self'; ")
	b.WriteString("form-action 'self';")

	return b.String()
}
