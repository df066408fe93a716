package handlers

import (
	"context"
	"time"

	"estately/db"
	"estately/services/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthCheckHandler provides health and readiness checks
type HealthCheckHandler struct {
	rdb   *redis.Client
	store *db.BucketStore
	smngr *sessions.SessionManager
}

func NewHealthCheckHandler(rdb *redis.Client, store *db.BucketStore, smngr *sessions.SessionManager) *HealthCheckHandler {
	return &HealthCheckHandler{
		rdb:   rdb,
		store: store,
		smngr: smngr,
	}
}

// HealthCheckResponse represents the health status
type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    float64                `json:"uptime_seconds"`
	Checks    map[string]CheckStatus `json:"checks"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// CheckStatus represents individual component status
type CheckStatus struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Latency     float64 `json:"latency_ms,omitempty"`
	LastChecked string  `json:"last_checked"`
}

var startTime = time.Now()

// HandleHealthCheck performs a basic health check
func (h *HealthCheckHandler) HandleHealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		response := HealthCheckResponse{
			Status:    "healthy",
			Timestamp: time.Now().Format(time.RFC3339),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime).Seconds(),
			Checks:    make(map[string]CheckStatus),
		}

		response.Checks["server"] = CheckStatus{
			Status:      "up",
			Message:     "Server is running",
			LastChecked: time.Now().Format(time.RFC3339),
		}

		return c.JSON(response)
	}
}

// HandleReadinessCheck performs detailed readiness check
func (h *HealthCheckHandler) HandleReadinessCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		response := HealthCheckResponse{
			Status:    "ready",
			Timestamp: time.Now().Format(time.RFC3339),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime).Seconds(),
			Checks:    make(map[string]CheckStatus),
		}

		overallHealthy := true

		storeStatus := h.checkStore()
		response.Checks["store"] = storeStatus
		if storeStatus.Status != "healthy" {
			overallHealthy = false
		}

		// The session mirror is optional; only check Redis when configured
		if h.rdb != nil {
			redisStatus := h.checkRedis(ctx)
			response.Checks["redis"] = redisStatus
			if redisStatus.Status != "healthy" {
				overallHealthy = false
			}
		}

		response.Metrics = map[string]interface{}{
			"active_sessions": h.smngr.CountActive(),
			"session_mirror":  h.smngr.GetMetrics(),
		}

		if !overallHealthy {
			response.Status = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(response)
		}

		return c.JSON(response)
	}
}

// HandleLivenessCheck is a simple liveness probe
func (h *HealthCheckHandler) HandleLivenessCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("OK")
	}
}

// checkStore verifies the bucket directory is readable
func (h *HealthCheckHandler) checkStore() CheckStatus {
	start := time.Now()

	var table map[string]any
	h.store.Load(db.UsersBucket, &table)
	latency := time.Since(start).Milliseconds()

	return CheckStatus{
		Status:      "healthy",
		Message:     "Bucket store is responding",
		Latency:     float64(latency),
		LastChecked: time.Now().Format(time.RFC3339),
	}
}

// checkRedis verifies Redis connectivity and latency
func (h *HealthCheckHandler) checkRedis(ctx context.Context) CheckStatus {
	start := time.Now()

	err := h.rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return CheckStatus{
			Status:      "unhealthy",
			Message:     "Redis connection failed: " + err.Error(),
			Latency:     float64(latency),
			LastChecked: time.Now().Format(time.RFC3339),
		}
	}

	status := "healthy"
	message := "Redis is responding"
	if latency > 100 {
		status = "degraded"
		message = "Redis latency is high"
	}

	return CheckStatus{
		Status:      status,
		Message:     message,
		Latency:     float64(latency),
		LastChecked: time.Now().Format(time.RFC3339),
	}
}
