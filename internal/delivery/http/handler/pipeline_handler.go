package handler

import (
	"context"
	"time"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain"
	"talent-match/internal/pipeline"
	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type RematchRunner interface {
	Start(ctx context.Context, params pipeline.Params) bool
	Status() domain.PipelineStatus
}

// PipelineHandler binds background runs to base, which outlives any request.
type PipelineHandler struct {
	runner RematchRunner
	base   context.Context
	db     Pinger
	cache  Pinger
}

func NewPipelineHandler(base context.Context, runner RematchRunner, db, cache Pinger) *PipelineHandler {
	if base == nil {
		base = context.Background()
	}
	return &PipelineHandler{runner: runner, base: base, db: db, cache: cache}
}

func (h *PipelineHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/pipeline/status", h.GetStatus)
	r.Post("/pipeline/rematch", h.Rematch)
}

func (h *PipelineHandler) GetStatus(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	st := h.runner.Status()
	st.DatabaseHealthy = h.db != nil && h.db.Ping(ctx) == nil
	st.RedisHealthy = h.cache != nil && h.cache.Ping(ctx) == nil
	st.ServerTime = time.Now().UTC()
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

func (h *PipelineHandler) Rematch(c fiber.Ctx) error {
	jobLimit, err := parseQueryIntStrict(c, "job_limit", 0)
	if err != nil {
		return err
	}
	candLimit, err := parseQueryIntStrict(c, "candidate_limit", 0)
	if err != nil {
		return err
	}
	if jobLimit < 0 || candLimit < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}

	if !h.runner.Start(h.base, pipeline.Params{JobLimit: jobLimit, CandidateLimit: candLimit}) {
		return middleware.NewAppError(fiber.StatusConflict, "Rematch already running", nil, pipeline.ErrAlreadyRunning)
	}
	return response.Success(c, fiber.StatusAccepted, "Rematch started", nil)
}
