package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/logger"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	fillLockTTL  = 30 * time.Second
	fillLockWait = 300 * time.Millisecond
)

type JobMatchFilter struct {
	MinScore      float64
	QualifiedOnly bool
	Limit         int
	Offset        int
}

type CandidateMatchFilter struct {
	MinScore      float64
	Location      string
	QualifiedOnly bool
	Limit         int
	Offset        int
}

type MatchQueryUsecase interface {
	GetMatchScore(ctx context.Context, jobID, candidateID uuid.UUID) (*matching.MatchScore, error)
	ListMatchesForJob(ctx context.Context, jobID uuid.UUID, f JobMatchFilter) ([]matching.MatchScore, error)
	ListMatchesForCandidate(ctx context.Context, candidateID uuid.UUID, f CandidateMatchFilter) ([]matching.MatchScore, error)
	GetMatchingStats(ctx context.Context, jobID uuid.UUID) (repository.MatchStats, error)
	CleanupStaleScores(ctx context.Context, olderThan time.Duration) (int64, error)
}

type MatchQuery struct {
	scores repository.MatchScoreRepository
	cache  SearchCache
	log    *zap.Logger
	now    func() time.Time
}

func NewMatchQueryUsecase(scores repository.MatchScoreRepository, cache SearchCache, log *zap.Logger) *MatchQuery {
	return &MatchQuery{scores: scores, cache: cache, log: logger.OrNop(log), now: time.Now}
}

// GetMatchScore returns nil without error when the pair was never scored.
func (u *MatchQuery) GetMatchScore(ctx context.Context, jobID, candidateID uuid.UUID) (*matching.MatchScore, error) {
	if jobID == uuid.Nil || candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	s, err := u.scores.Get(ctx, jobID, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, internal("get match score", err)
	}
	return &s, nil
}

func (u *MatchQuery) ListMatchesForJob(ctx context.Context, jobID uuid.UUID, f JobMatchFilter) ([]matching.MatchScore, error) {
	if jobID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	limit, offset, err := normalizePage(f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	if err := validMinScore(f.MinScore); err != nil {
		return nil, err
	}
	f.Limit, f.Offset = limit, offset

	return u.cached(ctx, JobMatchesCacheKey(jobID, f), func() ([]matching.MatchScore, error) {
		return u.scores.ListForJob(ctx, jobID, repository.MatchFilter{
			MinScore:      f.MinScore,
			QualifiedOnly: f.QualifiedOnly,
			Limit:         limit,
			Offset:        offset,
		})
	})
}

func (u *MatchQuery) ListMatchesForCandidate(ctx context.Context, candidateID uuid.UUID, f CandidateMatchFilter) ([]matching.MatchScore, error) {
	if candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	limit, offset, err := normalizePage(f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	if err := validMinScore(f.MinScore); err != nil {
		return nil, err
	}
	f.Limit, f.Offset = limit, offset
	f.Location = strings.TrimSpace(f.Location)

	return u.cached(ctx, CandidateMatchesCacheKey(candidateID, f), func() ([]matching.MatchScore, error) {
		return u.scores.ListForCandidate(ctx, candidateID, repository.MatchFilter{
			MinScore:      f.MinScore,
			QualifiedOnly: f.QualifiedOnly,
			Location:      f.Location,
			Limit:         limit,
			Offset:        offset,
		})
	})
}

func (u *MatchQuery) GetMatchingStats(ctx context.Context, jobID uuid.UUID) (repository.MatchStats, error) {
	if jobID == uuid.Nil {
		return repository.MatchStats{}, ErrInvalidInput
	}
	stats, err := u.scores.Stats(ctx, jobID)
	if err != nil {
		return repository.MatchStats{}, internal("matching stats", err)
	}
	return stats, nil
}

// CleanupStaleScores deletes scores that no run has refreshed within olderThan.
func (u *MatchQuery) CleanupStaleScores(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidInput
	}
	cutoff := u.now().UTC().Add(-olderThan)
	n, err := u.scores.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, internal("cleanup scores", err)
	}
	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, "matches:*"); err != nil {
			u.log.Warn("listing cache invalidation failed", zap.Error(err))
		}
	}
	u.log.Info("stale scores removed", append(
		logger.Step(pipelineMatching, "cleanup", "ok"),
		zap.Int64("deleted", n),
		zap.Time("cutoff", cutoff),
	)...)
	return n, nil
}

// cached serves a listing from the cache, taking a short fill lock on a miss so that
// concurrent misses for the same key do not all reach the store.
func (u *MatchQuery) cached(ctx context.Context, key string, load func() ([]matching.MatchScore, error)) ([]matching.MatchScore, error) {
	if u.cache == nil {
		out, err := load()
		if err != nil {
			return nil, internal("list matches", err)
		}
		return out, nil
	}

	var hit []matching.MatchScore
	if ok, err := u.cache.GetJSON(ctx, key, &hit); err == nil && ok {
		u.log.Debug("listing cache hit", zap.String("key", key))
		return hit, nil
	}
	u.log.Debug("listing cache miss", zap.String("key", key))

	lockKey := MatchesLockKey(key)
	locked, err := u.cache.SetIfNotExists(ctx, lockKey, "1", fillLockTTL)
	if err == nil && !locked {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(fillLockWait):
		}
		if ok, err := u.cache.GetJSON(ctx, key, &hit); err == nil && ok {
			return hit, nil
		}
		u.log.Debug("listing lock wait fallback", zap.String("key", lockKey))
	}

	out, err := load()
	if err != nil {
		return nil, internal("list matches", err)
	}
	_ = u.cache.SetJSON(ctx, key, out, 0)
	if locked {
		_ = u.cache.Delete(ctx, lockKey)
	}
	return out, nil
}

func normalizePage(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || offset < 0 {
		return 0, 0, ErrInvalidInput
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, offset, nil
}

func validMinScore(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return ErrInvalidInput
	}
	return nil
}
