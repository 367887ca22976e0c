package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthController reports database and cache reachability. The cache is
// optional and never makes the service unhealthy.
type HealthController struct {
	db    Pinger
	cache Pinger
}

func NewHealthController(db, cache Pinger) *HealthController {
	return &HealthController{db: db, cache: cache}
}

func (hc *HealthController) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	status := fiber.StatusOK
	body := fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "ok",
		"cache":     "disabled",
	}

	if err := hc.db.Ping(ctx); err != nil {
		log.Errorf("[Health] database unreachable: %v", err)
		status = fiber.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	}
	if hc.cache != nil {
		if err := hc.cache.Ping(ctx); err != nil {
			log.Warnf("[Health] cache unreachable: %v", err)
			body["cache"] = "unreachable"
		} else {
			body["cache"] = "ok"
		}
	}
	return c.Status(status).JSON(body)
}
