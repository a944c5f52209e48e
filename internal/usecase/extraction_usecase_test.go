package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/skill"
	"talent-match/internal/extraction"

	"github.com/google/uuid"
)

func newExtraction(profiles *mockProfileRepo) *Extraction {
	tax := &mockTaxonomyCache{entries: []skill.Entry{
		{ID: uuid.New(), Name: "Go", Slug: "go"},
		{ID: uuid.New(), Name: "PostgreSQL", Slug: "postgresql"},
		{ID: uuid.New(), Name: "Docker", Slug: "docker"},
	}}
	clock := func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewExtractionUsecase(extraction.New(tax, extraction.WithClock(clock)), profiles, nil)
}

func TestExtractionUsecase_ParseJobStoresProfile(t *testing.T) {
	profiles := &mockProfileRepo{}
	uc := newExtraction(profiles)
	jobID := uuid.New()

	got, err := uc.ParseJob(context.Background(), jobID, "Backend Engineer\nRequirements: Go, PostgreSQL. At least 3 years of experience.\nNice to have: Docker")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.JobID != jobID || len(profiles.savedJobs) != 1 || profiles.savedJobs[0].JobID != jobID {
		t.Fatalf("expected job stored under %s, got %+v", jobID, profiles.savedJobs)
	}
	if len(got.RequiredSkills) != 3 || got.MinExperienceYears != 3 {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestExtractionUsecase_InvalidInput(t *testing.T) {
	uc := newExtraction(&mockProfileRepo{})
	ctx := context.Background()

	if _, err := uc.ParseJob(ctx, uuid.Nil, "Go developer"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil id, got %v", err)
	}
	if _, err := uc.ExtractCandidateProfile(ctx, " \n\t "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank text, got %v", err)
	}
	if _, err := uc.ExtractCandidateProfileJSON(ctx, []byte(`{"skills": 12}`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad document, got %v", err)
	}
}

func TestExtractionUsecase_ParseCandidateStoreFailure(t *testing.T) {
	profiles := &mockProfileRepo{err: errors.New("disk full")}
	uc := newExtraction(profiles)

	_, err := uc.ParseCandidate(context.Background(), uuid.New(), "Nguyen Van A\nGo developer with 4 years of experience")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestExtractionUsecase_ParseCandidateJSON(t *testing.T) {
	profiles := &mockProfileRepo{}
	uc := newExtraction(profiles)
	id := uuid.New()

	got, err := uc.ParseCandidateJSON(context.Background(), id, []byte(`{
		"full_name": "Tran Thi B",
		"skills": [{"name": "Go", "level": 4}, "Docker"],
		"total_experience_years": 5,
		"education_level": "master",
		"location": "Hanoi"
	}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.CandidateID != id || len(got.Skills) != 2 || got.TotalExperienceYears != 5 {
		t.Fatalf("unexpected profile %+v", got)
	}
	if len(profiles.savedCand) != 1 {
		t.Fatalf("expected candidate stored")
	}
}
