package usecase

import (
	"context"
	"errors"
	"fmt"

	"talent-match/internal/domain/profile"
	"talent-match/internal/extraction"
	"talent-match/internal/logger"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pipelineExtraction = "extraction"

type ExtractionUsecase interface {
	ExtractCandidateProfile(ctx context.Context, rawText string) (profile.CandidateProfile, error)
	ExtractCandidateProfileJSON(ctx context.Context, data []byte) (profile.CandidateProfile, error)
	ExtractJobProfile(ctx context.Context, rawText string) (profile.JobProfile, error)

	ParseCandidate(ctx context.Context, candidateID uuid.UUID, rawText string) (profile.CandidateProfile, error)
	ParseCandidateJSON(ctx context.Context, candidateID uuid.UUID, data []byte) (profile.CandidateProfile, error)
	ParseJob(ctx context.Context, jobID uuid.UUID, rawText string) (profile.JobProfile, error)
}

type Extraction struct {
	extractor *extraction.Extractor
	profiles  repository.ProfileRepository
	log       *zap.Logger
}

func NewExtractionUsecase(extractor *extraction.Extractor, profiles repository.ProfileRepository, log *zap.Logger) *Extraction {
	return &Extraction{extractor: extractor, profiles: profiles, log: logger.OrNop(log)}
}

func (u *Extraction) ExtractCandidateProfile(ctx context.Context, rawText string) (profile.CandidateProfile, error) {
	p, err := u.extractor.Candidate(ctx, rawText)
	if err != nil {
		return profile.CandidateProfile{}, mapExtractionError(err)
	}
	return p, nil
}

func (u *Extraction) ExtractCandidateProfileJSON(_ context.Context, data []byte) (profile.CandidateProfile, error) {
	p, err := u.extractor.CandidateFromJSON(data)
	if err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return p, nil
}

func (u *Extraction) ExtractJobProfile(ctx context.Context, rawText string) (profile.JobProfile, error) {
	p, err := u.extractor.Job(ctx, rawText)
	if err != nil {
		return profile.JobProfile{}, mapExtractionError(err)
	}
	return p, nil
}

// ParseCandidate extracts a profile and replaces whatever was stored for the candidate.
func (u *Extraction) ParseCandidate(ctx context.Context, candidateID uuid.UUID, rawText string) (profile.CandidateProfile, error) {
	if candidateID == uuid.Nil {
		return profile.CandidateProfile{}, ErrInvalidInput
	}
	p, err := u.ExtractCandidateProfile(ctx, rawText)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	return u.storeCandidate(ctx, candidateID, p)
}

// ParseCandidateJSON stores a structured candidate document.
func (u *Extraction) ParseCandidateJSON(ctx context.Context, candidateID uuid.UUID, data []byte) (profile.CandidateProfile, error) {
	if candidateID == uuid.Nil {
		return profile.CandidateProfile{}, ErrInvalidInput
	}
	p, err := u.ExtractCandidateProfileJSON(ctx, data)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	return u.storeCandidate(ctx, candidateID, p)
}

func (u *Extraction) storeCandidate(ctx context.Context, candidateID uuid.UUID, p profile.CandidateProfile) (profile.CandidateProfile, error) {
	p.CandidateID = candidateID
	if err := u.profiles.SaveCandidateProfile(ctx, p); err != nil {
		u.log.Warn("candidate profile not stored", append(
			logger.Step(pipelineExtraction, "store_candidate", "error"),
			zap.String(logger.FieldCandidateID, candidateID.String()),
			zap.Error(err),
		)...)
		return profile.CandidateProfile{}, internal("store candidate profile", err)
	}

	u.log.Info("candidate parsed", append(
		logger.Step(pipelineExtraction, "parse_candidate", "ok"),
		zap.String(logger.FieldCandidateID, candidateID.String()),
		zap.Int("skills", len(p.Skills)),
		zap.Float64("experience_years", p.TotalExperienceYears),
		zap.Float64("confidence", p.Confidence),
	)...)
	return p, nil
}

// ParseJob extracts a job profile and replaces the stored profile and skill rows.
func (u *Extraction) ParseJob(ctx context.Context, jobID uuid.UUID, rawText string) (profile.JobProfile, error) {
	if jobID == uuid.Nil {
		return profile.JobProfile{}, ErrInvalidInput
	}
	p, err := u.ExtractJobProfile(ctx, rawText)
	if err != nil {
		return profile.JobProfile{}, err
	}
	p.JobID = jobID
	if err := u.profiles.SaveJobProfile(ctx, p); err != nil {
		u.log.Warn("job profile not stored", append(
			logger.Step(pipelineExtraction, "store_job", "error"),
			zap.String(logger.FieldJobID, jobID.String()),
			zap.Error(err),
		)...)
		return profile.JobProfile{}, internal("store job profile", err)
	}

	u.log.Info("job parsed", append(
		logger.Step(pipelineExtraction, "parse_job", "ok"),
		zap.String(logger.FieldJobID, jobID.String()),
		zap.Int("requirements", len(p.RequiredSkills)),
		zap.Float64("min_experience_years", p.MinExperienceYears),
	)...)
	return p, nil
}

func mapExtractionError(err error) error {
	if errors.Is(err, extraction.ErrEmptyText) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}
