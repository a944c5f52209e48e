package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/logger"
	"talent-match/internal/repository"
	"talent-match/internal/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMatchingLimit = 100

	pipelineMatching = "matching"
)

type RunMatchingParams struct {
	CandidateIDs []uuid.UUID
	Limit        int
}

// CandidateMatch is a stored score enriched with the candidate fields shown next to it.
type CandidateMatch struct {
	matching.MatchScore
	matching.Breakdown

	FullName             string                 `json:"full_name,omitempty"`
	Email                string                 `json:"email,omitempty"`
	CurrentPosition      string                 `json:"current_position,omitempty"`
	PreferredLocation    string                 `json:"preferred_location,omitempty"`
	TotalExperienceYears float64                `json:"total_experience_years"`
	EducationLevel       profile.EducationLevel `json:"education_level,omitempty"`
}

type MatchingResult struct {
	JobID               uuid.UUID        `json:"job_id"`
	TotalCandidates     int              `json:"total_candidates"`
	QualifiedCandidates int              `json:"qualified_candidates"`
	FailedCandidates    int              `json:"failed_candidates"`
	Matches             []CandidateMatch `json:"matches"`
}

// MatchingEvents is told about every finished run.
type MatchingEvents interface {
	MatchingCompleted(ctx context.Context, result MatchingResult)
}

type MatchingUsecase interface {
	RunMatching(ctx context.Context, jobID uuid.UUID, params RunMatchingParams) (MatchingResult, error)
}

type Matching struct {
	profiles repository.ProfileRepository
	skills   repository.SkillSource
	scores   repository.MatchScoreRepository
	weights  repository.WeightsRepository

	cache  SearchCache
	events MatchingEvents
	log    *zap.Logger

	workers int
	limit   int
}

type MatchingOption func(*Matching)

func WithWorkers(n int) MatchingOption {
	return func(u *Matching) {
		if n > 0 {
			u.workers = n
		}
	}
}

func WithDefaultLimit(n int) MatchingOption {
	return func(u *Matching) {
		if n > 0 {
			u.limit = n
		}
	}
}

func WithListingCache(c SearchCache) MatchingOption {
	return func(u *Matching) { u.cache = c }
}

func WithEvents(e MatchingEvents) MatchingOption {
	return func(u *Matching) { u.events = e }
}

func WithMatchingLogger(l *zap.Logger) MatchingOption {
	return func(u *Matching) { u.log = logger.OrNop(l) }
}

func NewMatchingUsecase(
	profiles repository.ProfileRepository,
	skills repository.SkillSource,
	scores repository.MatchScoreRepository,
	weights repository.WeightsRepository,
	opts ...MatchingOption,
) *Matching {
	u := &Matching{
		profiles: profiles,
		skills:   skills,
		scores:   scores,
		weights:  weights,
		log:      zap.NewNop(),
		workers:  runtime.NumCPU(),
		limit:    DefaultMatchingLimit,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// RunMatching scores up to params.Limit candidates against one job and upserts every
// score. Candidates that cannot be scored are logged and left out. When ctx ends
// mid-run the scores written so far are kept and returned together with ctx.Err().
func (u *Matching) RunMatching(ctx context.Context, jobID uuid.UUID, params RunMatchingParams) (MatchingResult, error) {
	if jobID == uuid.Nil || params.Limit < 0 {
		return MatchingResult{}, ErrInvalidInput
	}
	limit := params.Limit
	if limit == 0 {
		limit = u.limit
	}

	start := time.Now()
	log := u.log.With(zap.String(logger.FieldJobID, jobID.String()))
	log.Info("matching started", logger.Step(pipelineMatching, "run", "started")...)

	job, err := u.loadJob(ctx, jobID)
	if err != nil {
		log.Warn("matching aborted", append(logger.Step(pipelineMatching, "load_job", "error"), zap.Error(err))...)
		return MatchingResult{}, err
	}

	weights, err := u.weights.Get(ctx)
	if err != nil {
		return MatchingResult{}, internal("load weights", err)
	}
	if err := weights.Validate(); err != nil {
		return MatchingResult{}, err
	}

	candidates, err := u.profiles.ListCandidateProfiles(ctx, params.CandidateIDs, limit)
	if err != nil {
		return MatchingResult{}, internal("load candidates", err)
	}
	skillSet, err := u.skills.CandidateSkills(ctx, candidates)
	if err != nil {
		return MatchingResult{}, internal("load candidate skills", err)
	}

	var (
		mu      sync.Mutex
		matches = make([]CandidateMatch, 0, len(candidates))
		failed  int
	)

	pool := worker.NewPool(u.workers, len(candidates))
	results := pool.Run(ctx)
	for _, cand := range candidates {
		if cause := skillSet.Malformed[cand.CandidateID]; cause != nil {
			failed++
			u.warnCandidate(log, cand.CandidateID, &matching.CandidateScoringError{CandidateID: cand.CandidateID, Reason: cause.Error()})
			continue
		}
		cand := cand
		cand.Skills = skillSet.Skills[cand.CandidateID]

		ok := pool.Submit(ctx, func(ctx context.Context) error {
			m, err := u.scoreOne(ctx, job, cand, weights)
			if err != nil {
				u.warnCandidate(log, cand.CandidateID, err)
				return err
			}
			mu.Lock()
			matches = append(matches, m)
			mu.Unlock()
			return nil
		})
		if !ok {
			break
		}
	}
	pool.Close()
	for r := range results {
		if r.Err != nil {
			failed++
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].TotalScore != matches[j].TotalScore {
			return matches[i].TotalScore > matches[j].TotalScore
		}
		return matches[i].CandidateID.String() < matches[j].CandidateID.String()
	})

	res := MatchingResult{JobID: jobID, TotalCandidates: len(matches), FailedCandidates: failed, Matches: matches}
	for _, m := range matches {
		if m.IsQualified {
			res.QualifiedCandidates++
		}
	}

	summary := []zap.Field{
		zap.Int("total", res.TotalCandidates),
		zap.Int("qualified", res.QualifiedCandidates),
		zap.Int("failed", res.FailedCandidates),
		zap.Duration("duration", time.Since(start)),
	}
	if err := ctx.Err(); err != nil {
		// Scores written before the cancel stay stored, so their listings are stale too.
		u.invalidateListings(context.WithoutCancel(ctx), log, res)
		log.Warn("matching cancelled", append(logger.Step(pipelineMatching, "run", "cancelled"), summary...)...)
		return res, err
	}

	u.invalidateListings(ctx, log, res)
	if u.events != nil {
		u.events.MatchingCompleted(ctx, res)
	}
	log.Info("matching finished", append(logger.Step(pipelineMatching, "run", "ok"), summary...)...)
	return res, nil
}

func (u *Matching) loadJob(ctx context.Context, jobID uuid.UUID) (profile.JobProfile, error) {
	job, err := u.profiles.GetJobProfile(ctx, jobID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return profile.JobProfile{}, internal("load job", err)
		}
		exists, existsErr := u.profiles.JobExists(ctx, jobID)
		if existsErr != nil {
			return profile.JobProfile{}, internal("check job", existsErr)
		}
		if exists {
			return profile.JobProfile{}, fmt.Errorf("%w: %s", ErrJobNotParsed, jobID)
		}
		return profile.JobProfile{}, fmt.Errorf("%w: job %s", ErrProfileNotFound, jobID)
	}

	reqs, err := u.skills.JobRequirements(ctx, job)
	if err != nil {
		return profile.JobProfile{}, internal("load job requirements", err)
	}
	job.RequiredSkills = reqs
	return job, nil
}

func (u *Matching) scoreOne(ctx context.Context, job profile.JobProfile, cand profile.CandidateProfile, w matching.Weights) (CandidateMatch, error) {
	score, err := matching.Score(job, cand, w)
	if err != nil {
		return CandidateMatch{}, err
	}
	if err := u.scores.Upsert(ctx, score); err != nil {
		return CandidateMatch{}, fmt.Errorf("store score for candidate %s: %w", cand.CandidateID, err)
	}
	return CandidateMatch{
		MatchScore:           score,
		Breakdown:            matching.Explain(job.RequiredSkills, cand.Skills),
		FullName:             cand.FullName,
		Email:                cand.Email,
		CurrentPosition:      cand.CurrentPosition,
		PreferredLocation:    cand.PreferredLocation,
		TotalExperienceYears: cand.TotalExperienceYears,
		EducationLevel:       cand.EducationLevel,
	}, nil
}

func (u *Matching) warnCandidate(log *zap.Logger, candidateID uuid.UUID, err error) {
	log.Warn("candidate skipped", append(
		logger.Step(pipelineMatching, "score", "error"),
		zap.String(logger.FieldCandidateID, candidateID.String()),
		zap.Error(err),
	)...)
}

func (u *Matching) invalidateListings(ctx context.Context, log *zap.Logger, res MatchingResult) {
	if u.cache == nil {
		return
	}
	patterns := make([]string, 0, len(res.Matches)+1)
	patterns = append(patterns, jobMatchesPattern(res.JobID))
	for _, m := range res.Matches {
		patterns = append(patterns, candidateMatchesPrefix+m.CandidateID.String()+":*")
	}
	for _, p := range patterns {
		if err := u.cache.DeleteByPattern(ctx, p); err != nil {
			log.Warn("listing cache invalidation failed", zap.String("pattern", p), zap.Error(err))
		}
	}
}
