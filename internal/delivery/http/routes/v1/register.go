package v1

import (
	"talent-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Match    *handler.MatchHandler
	Profile  *handler.ProfileHandler
	Weights  *handler.WeightsHandler
	Skills   *handler.SkillHandler
	Pipeline *handler.PipelineHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(r)
	}
	if h.Weights != nil {
		h.Weights.RegisterRoutes(r)
	}
	if h.Skills != nil {
		h.Skills.RegisterRoutes(r)
	}
	if h.Pipeline != nil {
		h.Pipeline.RegisterRoutes(r)
	}
}
