package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/domain/profile"
	"talent-match/internal/export"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

const MaxReportRows = 1000

type ReportUsecase interface {
	BuildMatchReport(ctx context.Context, jobID uuid.UUID, limit int) (export.Report, error)
}

type Reports struct {
	profiles repository.ProfileRepository
	scores   repository.MatchScoreRepository
	now      func() time.Time
}

func NewReportUsecase(profiles repository.ProfileRepository, scores repository.MatchScoreRepository) *Reports {
	return &Reports{profiles: profiles, scores: scores, now: time.Now}
}

// BuildMatchReport collects the top stored scores of a job with candidate names attached.
func (u *Reports) BuildMatchReport(ctx context.Context, jobID uuid.UUID, limit int) (export.Report, error) {
	if jobID == uuid.Nil || limit < 0 {
		return export.Report{}, ErrInvalidInput
	}
	if limit == 0 || limit > MaxReportRows {
		limit = MaxReportRows
	}

	job, err := u.profiles.GetJobProfile(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return export.Report{}, fmt.Errorf("%w: job %s", ErrProfileNotFound, jobID)
		}
		return export.Report{}, internal("load job", err)
	}

	scores, err := u.scores.ListForJob(ctx, jobID, repository.MatchFilter{Limit: limit})
	if err != nil {
		return export.Report{}, internal("list scores", err)
	}
	stats, err := u.scores.Stats(ctx, jobID)
	if err != nil {
		return export.Report{}, internal("matching stats", err)
	}

	byID := map[uuid.UUID]profile.CandidateProfile{}
	if len(scores) > 0 {
		ids := make([]uuid.UUID, 0, len(scores))
		for _, s := range scores {
			ids = append(ids, s.CandidateID)
		}
		cands, err := u.profiles.ListCandidateProfiles(ctx, ids, len(ids))
		if err != nil {
			return export.Report{}, internal("load candidates", err)
		}
		for _, c := range cands {
			byID[c.CandidateID] = c
		}
	}

	rows := make([]export.ReportRow, 0, len(scores))
	for i, s := range scores {
		c := byID[s.CandidateID]
		rows = append(rows, export.ReportRow{Rank: i + 1, FullName: c.FullName, Email: c.Email, MatchScore: s})
	}

	return export.Report{
		JobID:       jobID,
		JobTitle:    job.Title,
		Location:    job.Location,
		GeneratedAt: u.now().UTC(),
		Stats:       stats,
		Rows:        rows,
	}, nil
}
