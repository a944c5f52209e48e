package handler

import (
	"strings"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ExtractionUsecase
}

func NewProfileHandler(uc usecase.ExtractionUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/extract/candidate", h.ExtractCandidate)
	r.Post("/extract/job", h.ExtractJob)
	r.Put("/candidates/:candidate_id/profile", h.ParseCandidate)
	r.Put("/jobs/:job_id/profile", h.ParseJob)
}

func bindParse(c fiber.Ctx) (dto.ParseRequest, error) {
	var req dto.ParseRequest
	if err := c.Bind().Body(&req); err != nil {
		return req, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if strings.TrimSpace(req.Text) == "" && !req.HasDocument() {
		return req, middleware.NewAppError(fiber.StatusBadRequest, "text or document is required", nil, nil)
	}
	return req, nil
}

func (h *ProfileHandler) ExtractCandidate(c fiber.Ctx) error {
	req, err := bindParse(c)
	if err != nil {
		return err
	}
	if req.HasDocument() {
		p, err := h.uc.ExtractCandidateProfileJSON(c.Context(), req.Document)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, p)
	}
	p, err := h.uc.ExtractCandidateProfile(c.Context(), req.Text)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) ExtractJob(c fiber.Ctx) error {
	req, err := bindParse(c)
	if err != nil {
		return err
	}
	p, err := h.uc.ExtractJobProfile(c.Context(), req.Text)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfileHandler) ParseCandidate(c fiber.Ctx) error {
	id, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	req, err := bindParse(c)
	if err != nil {
		return err
	}
	if req.HasDocument() {
		p, err := h.uc.ParseCandidateJSON(c.Context(), id, req.Document)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Success(c, fiber.StatusOK, "Candidate profile stored", p)
	}
	p, err := h.uc.ParseCandidate(c.Context(), id, req.Text)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Candidate profile stored", p)
}

func (h *ProfileHandler) ParseJob(c fiber.Ctx) error {
	id, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	req, err := bindParse(c)
	if err != nil {
		return err
	}
	p, err := h.uc.ParseJob(c.Context(), id, req.Text)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job profile stored", p)
}
