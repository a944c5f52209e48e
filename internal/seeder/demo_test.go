package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

type recordingParser struct {
	jobs  map[uuid.UUID]string
	cands map[uuid.UUID][]byte
	fail  bool
}

func (p *recordingParser) ParseJob(_ context.Context, id uuid.UUID, text string) (profile.JobProfile, error) {
	if p.fail {
		return profile.JobProfile{}, errors.New("boom")
	}
	p.jobs[id] = text
	return profile.JobProfile{JobID: id}, nil
}

func (p *recordingParser) ParseCandidateJSON(_ context.Context, id uuid.UUID, data []byte) (profile.CandidateProfile, error) {
	p.cands[id] = data
	return profile.CandidateProfile{CandidateID: id}, nil
}

func TestDemo_StableIDsAndValidDocuments(t *testing.T) {
	p := &recordingParser{jobs: map[uuid.UUID]string{}, cands: map[uuid.UUID][]byte{}}

	first, err := Demo(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := Demo(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(p.jobs) != len(demoJobs) || len(p.cands) != len(demoCandidates) {
		t.Fatalf("expected reruns to reuse ids, got %d jobs %d candidates", len(p.jobs), len(p.cands))
	}
	for i := range first.Jobs {
		if first.Jobs[i] != second.Jobs[i] {
			t.Fatalf("job id %d changed between runs", i)
		}
	}
	for id, doc := range p.cands {
		if !json.Valid(doc) {
			t.Fatalf("candidate %s document is not valid json", id)
		}
	}
}

func TestDemo_StopsOnFailure(t *testing.T) {
	p := &recordingParser{jobs: map[uuid.UUID]string{}, cands: map[uuid.UUID][]byte{}, fail: true}
	res, err := Demo(context.Background(), p)
	if err == nil || len(res.Jobs) != 0 || len(p.cands) != 0 {
		t.Fatalf("expected early failure, got %+v / %v", res, err)
	}
}
