package handler

import (
	"context"
	"time"

	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports 503 when the database is unreachable. The cache is optional and only
// reported.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := fiber.Map{"database": "ok", "cache": "disabled"}
	status := fiber.StatusOK
	if h.db == nil || h.db.Ping(ctx) != nil {
		out["database"] = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		out["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			out["cache"] = "down"
		}
	}
	return response.Success(c, status, "", out)
}
