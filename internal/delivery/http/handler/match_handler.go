package handler

import (
	"bytes"
	"fmt"
	"time"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/export"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MatchHandler struct {
	matching usecase.MatchingUsecase
	query    usecase.MatchQueryUsecase
	reports  usecase.ReportUsecase
}

func NewMatchHandler(matching usecase.MatchingUsecase, query usecase.MatchQueryUsecase, reports usecase.ReportUsecase) *MatchHandler {
	return &MatchHandler{matching: matching, query: query, reports: reports}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	jobs := r.Group("/jobs/:job_id")
	jobs.Post("/matching", h.RunMatching)
	jobs.Get("/matches", h.ListForJob)
	jobs.Get("/matches/stats", h.Stats)
	jobs.Get("/matches/export", h.Export)
	jobs.Get("/candidates/:candidate_id/score", h.GetScore)

	r.Get("/candidates/:candidate_id/matches", h.ListForCandidate)
	r.Delete("/matching/scores", h.Cleanup)
}

func (h *MatchHandler) RunMatching(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	var req dto.RunMatchingRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	res, err := h.matching.RunMatching(c.Context(), jobID, usecase.RunMatchingParams{CandidateIDs: req.CandidateIDs, Limit: req.Limit})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Matching completed", res)
}

func (h *MatchHandler) ListForJob(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	f := usecase.JobMatchFilter{}
	if f.MinScore, err = parseQueryFloat(c, "min_score"); err != nil {
		return err
	}
	if f.QualifiedOnly, err = parseQueryBool(c, "qualified_only"); err != nil {
		return err
	}
	if f.Limit, err = parseQueryIntStrict(c, "limit", usecase.DefaultListLimit); err != nil {
		return err
	}
	if f.Offset, err = parseQueryIntStrict(c, "offset", 0); err != nil {
		return err
	}

	items, err := h.query.ListMatchesForJob(c.Context(), jobID, f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Page(c, items, response.Meta{Limit: pageLimit(f.Limit), Offset: f.Offset, Count: len(items)})
}

func (h *MatchHandler) ListForCandidate(c fiber.Ctx) error {
	candID, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	f := usecase.CandidateMatchFilter{Location: c.Query("location")}
	if f.MinScore, err = parseQueryFloat(c, "min_score"); err != nil {
		return err
	}
	if f.QualifiedOnly, err = parseQueryBool(c, "qualified_only"); err != nil {
		return err
	}
	if f.Limit, err = parseQueryIntStrict(c, "limit", usecase.DefaultListLimit); err != nil {
		return err
	}
	if f.Offset, err = parseQueryIntStrict(c, "offset", 0); err != nil {
		return err
	}

	items, err := h.query.ListMatchesForCandidate(c.Context(), candID, f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Page(c, items, response.Meta{Limit: pageLimit(f.Limit), Offset: f.Offset, Count: len(items)})
}

func (h *MatchHandler) GetScore(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	candID, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}

	score, err := h.query.GetMatchScore(c.Context(), jobID, candID)
	if err != nil {
		return mapUsecaseError(err)
	}
	if score == nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Match score not found", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, score)
}

func (h *MatchHandler) Stats(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	stats, err := h.query.GetMatchingStats(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}

func (h *MatchHandler) Export(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return err
	}

	report, err := h.reports.BuildMatchReport(c.Context(), jobID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, report); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="matches-%s.xlsx"`, jobID))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *MatchHandler) Cleanup(c fiber.Ctx) error {
	window := c.Query("older_than", "720h")
	d, err := time.ParseDuration(window)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid older_than", nil, err)
	}

	n, err := h.query.CleanupStaleScores(c.Context(), d)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CleanupResponse{Deleted: n, Window: d.String()})
}

func pageLimit(limit int) int {
	if limit > usecase.MaxListLimit {
		return usecase.MaxListLimit
	}
	return limit
}
