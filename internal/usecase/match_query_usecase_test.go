package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

func TestMatchQuery_GetMatchScore(t *testing.T) {
	scores := newMockScoreRepo()
	jobID, candID := uuid.New(), uuid.New()
	_ = scores.Upsert(context.Background(), matching.MatchScore{JobID: jobID, CandidateID: candID, TotalScore: 81})
	uc := NewMatchQueryUsecase(scores, nil, nil)

	got, err := uc.GetMatchScore(context.Background(), jobID, candID)
	if err != nil || got == nil || got.TotalScore != 81 {
		t.Fatalf("expected stored score, got %+v err=%v", got, err)
	}

	got, err = uc.GetMatchScore(context.Background(), jobID, uuid.New())
	if err != nil || got != nil {
		t.Fatalf("expected nil for unscored pair, got %+v err=%v", got, err)
	}

	if _, err := uc.GetMatchScore(context.Background(), uuid.Nil, candID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchQuery_ListMatchesForJob_Paging(t *testing.T) {
	scores := newMockScoreRepo()
	uc := NewMatchQueryUsecase(scores, nil, nil)
	jobID := uuid.New()

	tests := []struct {
		name      string
		in        JobMatchFilter
		wantLimit int
		wantErr   error
	}{
		{name: "default limit", in: JobMatchFilter{}, wantLimit: DefaultListLimit},
		{name: "capped", in: JobMatchFilter{Limit: 500}, wantLimit: MaxListLimit},
		{name: "explicit", in: JobMatchFilter{Limit: 7, Offset: 14}, wantLimit: 7},
		{name: "negative limit", in: JobMatchFilter{Limit: -1}, wantErr: ErrInvalidInput},
		{name: "negative offset", in: JobMatchFilter{Offset: -3}, wantErr: ErrInvalidInput},
		{name: "min score above 100", in: JobMatchFilter{MinScore: 101}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.ListMatchesForJob(context.Background(), jobID, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if scores.lastFilter.Limit != tt.wantLimit || scores.lastFilter.Offset != tt.in.Offset {
				t.Fatalf("unexpected filter %+v", scores.lastFilter)
			}
		})
	}
}

func TestMatchQuery_ListMatchesForCandidate_PassesFilter(t *testing.T) {
	scores := newMockScoreRepo()
	uc := NewMatchQueryUsecase(scores, nil, nil)

	_, err := uc.ListMatchesForCandidate(context.Background(), uuid.New(), CandidateMatchFilter{
		MinScore:      60,
		QualifiedOnly: true,
		Location:      "  Hanoi ",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := repository.MatchFilter{MinScore: 60, QualifiedOnly: true, Location: "Hanoi", Limit: DefaultListLimit}
	if scores.lastFilter != want {
		t.Fatalf("expected %+v, got %+v", want, scores.lastFilter)
	}
}

func TestMatchQuery_ListingsAreCached(t *testing.T) {
	scores := newMockScoreRepo()
	jobID := uuid.New()
	scores.list = []matching.MatchScore{{JobID: jobID, CandidateID: uuid.New(), TotalScore: 90, IsQualified: true}}
	cache := newMemoryCache()
	uc := NewMatchQueryUsecase(scores, cache, nil)
	ctx := context.Background()

	first, err := uc.ListMatchesForJob(ctx, jobID, JobMatchFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.ListMatchesForJob(ctx, jobID, JobMatchFilter{Limit: DefaultListLimit})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if scores.listCalls != 1 {
		t.Fatalf("expected equivalent filters to share one store read, got %d", scores.listCalls)
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Fatalf("cached listing differs: %+v vs %+v", second, first)
	}

	key := JobMatchesCacheKey(jobID, JobMatchFilter{Limit: DefaultListLimit})
	if cache.has(MatchesLockKey(key)) {
		t.Fatalf("expected fill lock released")
	}

	if _, err := uc.ListMatchesForJob(ctx, jobID, JobMatchFilter{QualifiedOnly: true}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if scores.listCalls != 2 {
		t.Fatalf("expected a different filter to miss, got %d reads", scores.listCalls)
	}
}

func TestMatchQuery_LockedMissFallsBackToStore(t *testing.T) {
	scores := newMockScoreRepo()
	cache := newMemoryCache()
	uc := NewMatchQueryUsecase(scores, cache, nil)
	jobID := uuid.New()

	key := JobMatchesCacheKey(jobID, JobMatchFilter{Limit: DefaultListLimit})
	_, _ = cache.SetIfNotExists(context.Background(), MatchesLockKey(key), "1", time.Minute)

	if _, err := uc.ListMatchesForJob(context.Background(), jobID, JobMatchFilter{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if scores.listCalls != 1 {
		t.Fatalf("expected store read after lock wait, got %d", scores.listCalls)
	}
	if !cache.has(MatchesLockKey(key)) {
		t.Fatalf("expected foreign lock left in place")
	}
}

func TestMatchQuery_GetMatchingStats(t *testing.T) {
	scores := newMockScoreRepo()
	scores.stats = repository.MatchStats{TotalMatches: 5, QualifiedCount: 3, AvgTotal: 68.4}
	uc := NewMatchQueryUsecase(scores, nil, nil)
	jobID := uuid.New()

	got, err := uc.GetMatchingStats(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.JobID != jobID || got.TotalMatches != 5 || got.AvgTotal != 68.4 {
		t.Fatalf("unexpected stats %+v", got)
	}
}

func TestMatchQuery_CleanupStaleScores(t *testing.T) {
	scores := newMockScoreRepo()
	scores.deleted = 4
	cache := newMemoryCache()
	uc := NewMatchQueryUsecase(scores, cache, nil)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	n, err := uc.CleanupStaleScores(context.Background(), 30*24*time.Hour)
	if err != nil || n != 4 {
		t.Fatalf("expected 4 deleted, got %d err=%v", n, err)
	}
	if want := now.Add(-30 * 24 * time.Hour); !scores.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, scores.cutoff)
	}
	if len(cache.patterns) != 1 {
		t.Fatalf("expected listing cache flushed, got %v", cache.patterns)
	}

	if _, err := uc.CleanupStaleScores(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
