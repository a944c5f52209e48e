package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticJobs []uuid.UUID

func (s staticJobs) ListJobIDs(context.Context, int) ([]uuid.UUID, error) { return s, nil }

type fakeMatching struct {
	mu      sync.Mutex
	failFor map[uuid.UUID]error
	calls   []uuid.UUID
	block   chan struct{}
	limit   int
}

func (f *fakeMatching) RunMatching(ctx context.Context, jobID uuid.UUID, params usecase.RunMatchingParams) (usecase.MatchingResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, jobID)
	f.limit = params.Limit
	f.mu.Unlock()
	if err := f.failFor[jobID]; err != nil {
		return usecase.MatchingResult{}, err
	}
	return usecase.MatchingResult{JobID: jobID, TotalCandidates: 3, QualifiedCandidates: 1, FailedCandidates: 1}, nil
}

func TestRematch_RunSummarisesAndSkipsFailedJobs(t *testing.T) {
	jobs := staticJobs{uuid.New(), uuid.New(), uuid.New()}
	m := &fakeMatching{failFor: map[uuid.UUID]error{jobs[1]: usecase.ErrJobNotParsed}}
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewRematch(m, jobs, zap.New(core))

	sum, err := p.Run(context.Background(), Params{CandidateLimit: 50})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Jobs != 3 || sum.Succeeded != 2 || sum.Failed != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.CandidatesScored != 6 || sum.CandidatesQualified != 2 || sum.CandidatesFailed != 2 {
		t.Fatalf("unexpected candidate totals %+v", sum)
	}
	if m.limit != 50 {
		t.Fatalf("expected candidate limit passed through, got %d", m.limit)
	}
	if logs.FilterMessage("rematch job failed").Len() != 1 {
		t.Fatalf("expected one job failure logged")
	}

	st := p.Status()
	if st.Running || st.LastSummary == nil || st.LastSummary.Succeeded != 2 || st.FinishedAt == nil {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestRematch_StartRejectsConcurrentRun(t *testing.T) {
	m := &fakeMatching{block: make(chan struct{})}
	p := NewRematch(m, staticJobs{uuid.New()}, nil)

	if !p.Start(context.Background(), Params{}) {
		t.Fatalf("expected first start to run")
	}
	if p.Start(context.Background(), Params{}) {
		t.Fatalf("expected second start rejected while running")
	}
	if _, err := p.Run(context.Background(), Params{}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	close(m.block)

	deadline := time.Now().Add(2 * time.Second)
	for p.Status().Running {
		if time.Now().After(deadline) {
			t.Fatalf("background run did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRematch_CancelledStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &fakeMatching{}
	p := NewRematch(m, staticJobs{uuid.New(), uuid.New()}, nil)

	if _, err := p.Run(ctx, Params{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(m.calls) != 0 {
		t.Fatalf("expected no jobs matched after cancel")
	}
	if p.Status().LastError == "" {
		t.Fatalf("expected last error recorded")
	}
}
