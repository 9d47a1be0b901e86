package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// Stats returns diagnostic counters of a dependency, such as a connection
// pool.
type Stats func() fiber.Map

// HealthHandler reports the state of the service dependencies.
type HealthHandler struct {
	checks map[string]Checker
	stats  map[string]Stats
}

// NewHealthHandler creates the handler. stats may be nil.
func NewHealthHandler(checks map[string]Checker, stats map[string]Stats) *HealthHandler {
	return &HealthHandler{checks: checks, stats: stats}
}

// HealthCheck handles GET /health. Any failing dependency turns the
// response into 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	services := fiber.Map{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = "degraded"
			services[name] = err.Error()
			continue
		}
		services[name] = "connected"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	body := fiber.Map{
		"status":   status,
		"services": services,
	}
	if len(h.stats) > 0 {
		stats := fiber.Map{}
		for name, collect := range h.stats {
			stats[name] = collect()
		}
		body["stats"] = stats
	}
	return c.Status(code).JSON(body)
}
