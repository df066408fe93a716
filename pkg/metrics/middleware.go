package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HTTPMetricsMiddleware tracks HTTP request metrics
func HTTPMetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		method := c.Method()
		path := sanitizePath(c.Path())

		HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()

		return err
	}
}

// sanitizePath normalizes dynamic segments to avoid high cardinality.
// Example: /seller/listings/3 -> /seller/listings/:index
func sanitizePath(path string) string {
	prefixes := map[string]string{
		"/seller/listings/": "/seller/listings/:index",
		"/api/v1/":          "/api/v1/:endpoint",
	}

	for prefix, normalized := range prefixes {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return normalized
		}
	}
	return path
}
