package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type WeightsHandler struct {
	uc usecase.WeightsUsecase
}

func NewWeightsHandler(uc usecase.WeightsUsecase) *WeightsHandler {
	return &WeightsHandler{uc: uc}
}

func (h *WeightsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matching/weights")
	grp.Get("/", h.Get)
	grp.Put("/", h.Set)
}

func (h *WeightsHandler) Get(c fiber.Ctx) error {
	w, err := h.uc.GetMatchingWeights(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, w)
}

func (h *WeightsHandler) Set(c fiber.Ctx) error {
	var req dto.WeightsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	w, err := h.uc.SetMatchingWeights(c.Context(), req.Weights())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Weights updated", w)
}
