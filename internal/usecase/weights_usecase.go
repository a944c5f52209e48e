package usecase

import (
	"context"
	"errors"

	"talent-match/internal/domain/matching"
	"talent-match/internal/logger"
	"talent-match/internal/repository"

	"go.uber.org/zap"
)

type WeightsUsecase interface {
	GetMatchingWeights(ctx context.Context) (matching.Weights, error)
	SetMatchingWeights(ctx context.Context, w matching.Weights) (matching.Weights, error)
}

type WeightsService struct {
	weights repository.WeightsRepository
	log     *zap.Logger
}

func NewWeightsUsecase(weights repository.WeightsRepository, log *zap.Logger) *WeightsService {
	return &WeightsService{weights: weights, log: logger.OrNop(log)}
}

func (u *WeightsService) GetMatchingWeights(ctx context.Context) (matching.Weights, error) {
	w, err := u.weights.Get(ctx)
	if err != nil {
		return matching.Weights{}, internal("get weights", err)
	}
	return w, nil
}

// SetMatchingWeights replaces the active set. A zero threshold keeps the default.
// Existing scores are not recomputed.
func (u *WeightsService) SetMatchingWeights(ctx context.Context, w matching.Weights) (matching.Weights, error) {
	if w.QualificationThreshold == 0 {
		w.QualificationThreshold = matching.DefaultQualificationThreshold
	}
	if err := w.Validate(); err != nil {
		return matching.Weights{}, err
	}
	if err := u.weights.Replace(ctx, w); err != nil {
		return matching.Weights{}, internal("replace weights", err)
	}
	u.log.Info("matching weights updated", append(
		logger.Step(pipelineMatching, "weights", "ok"),
		zap.Float64("skills", w.Skills),
		zap.Float64("experience", w.Experience),
		zap.Float64("education", w.Education),
		zap.Float64("location", w.Location),
		zap.Float64("salary", w.Salary),
		zap.Float64("threshold", w.QualificationThreshold),
	)...)
	return w, nil
}

// IsWeightsError reports whether err came from weight validation.
func IsWeightsError(err error) bool {
	return errors.Is(err, matching.ErrInvalidWeights)
}
