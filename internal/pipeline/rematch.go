// Package pipeline runs matching across all parsed jobs.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"talent-match/internal/domain"
	"talent-match/internal/logger"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pipelineRematch = "rematch"

var ErrAlreadyRunning = errors.New("rematch already running")

type JobLister interface {
	ListJobIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type Params struct {
	JobLimit       int
	CandidateLimit int
}

// Rematch re-scores every parsed job, one job at a time. Each job is scored by the
// matching usecase's own worker pool.
type Rematch struct {
	matching usecase.MatchingUsecase
	jobs     JobLister
	log      *zap.Logger

	mu         sync.Mutex
	running    bool
	startedAt  time.Time
	finishedAt time.Time
	last       *domain.RematchSummary
	lastErr    error
}

func NewRematch(matching usecase.MatchingUsecase, jobs JobLister, log *zap.Logger) *Rematch {
	return &Rematch{matching: matching, jobs: jobs, log: logger.OrNop(log)}
}

// Run blocks until every job is processed or ctx ends. A failing job is logged and
// counted; only a failure to list jobs or cancellation is returned.
func (p *Rematch) Run(ctx context.Context, params Params) (domain.RematchSummary, error) {
	if !p.begin() {
		return domain.RematchSummary{}, ErrAlreadyRunning
	}
	sum, err := p.run(ctx, params)
	p.end(sum, err)
	return sum, err
}

// Start runs the pipeline in the background. It reports false when a run is in progress.
func (p *Rematch) Start(ctx context.Context, params Params) bool {
	if !p.begin() {
		return false
	}
	go func() {
		sum, err := p.run(ctx, params)
		p.end(sum, err)
	}()
	return true
}

// Status fills the run fields of a status snapshot.
func (p *Rematch) Status() domain.PipelineStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := domain.PipelineStatus{Running: p.running, LastSummary: p.last}
	if !p.startedAt.IsZero() {
		t := p.startedAt
		st.StartedAt = &t
	}
	if !p.finishedAt.IsZero() {
		t := p.finishedAt
		st.FinishedAt = &t
	}
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	return st
}

func (p *Rematch) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return false
	}
	p.running = true
	p.startedAt = time.Now().UTC()
	p.finishedAt = time.Time{}
	return true
}

func (p *Rematch) end(sum domain.RematchSummary, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.finishedAt = time.Now().UTC()
	p.last = &sum
	p.lastErr = err
}

func (p *Rematch) run(ctx context.Context, params Params) (domain.RematchSummary, error) {
	start := time.Now()
	var sum domain.RematchSummary

	p.log.Info("rematch started", logger.Step(pipelineRematch, "", "started")...)
	defer func() {
		p.log.Info("rematch finished", append(logger.Step(pipelineRematch, "", "finished"),
			zap.Int("jobs", sum.Jobs),
			zap.Int("succeeded", sum.Succeeded),
			zap.Int("failed", sum.Failed),
			zap.Int("scored", sum.CandidatesScored),
			zap.Duration("duration", time.Since(start)),
		)...)
	}()

	ids, err := p.jobs.ListJobIDs(ctx, params.JobLimit)
	if err != nil {
		p.log.Error("rematch job listing failed", append(logger.Step(pipelineRematch, "list_jobs", "error"), zap.Error(err))...)
		sum.Duration = time.Since(start)
		return sum, err
	}
	sum.Jobs = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			sum.Duration = time.Since(start)
			return sum, err
		}

		res, err := p.matching.RunMatching(ctx, id, usecase.RunMatchingParams{Limit: params.CandidateLimit})
		sum.CandidatesScored += res.TotalCandidates
		sum.CandidatesQualified += res.QualifiedCandidates
		sum.CandidatesFailed += res.FailedCandidates
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				sum.Duration = time.Since(start)
				return sum, ctxErr
			}
			sum.Failed++
			p.log.Warn("rematch job failed", append(logger.Step(pipelineRematch, "match_job", "error"),
				zap.String(logger.FieldJobID, id.String()),
				zap.Error(err),
			)...)
			continue
		}
		sum.Succeeded++
	}

	sum.Duration = time.Since(start)
	return sum, nil
}
