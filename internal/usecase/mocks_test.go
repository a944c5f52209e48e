package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type mockProfileRepo struct {
	mu sync.Mutex

	jobs       map[uuid.UUID]profile.JobProfile
	bareJobs   map[uuid.UUID]bool
	candidates []profile.CandidateProfile
	err        error

	lastLimit int
	savedJobs []profile.JobProfile
	savedCand []profile.CandidateProfile
}

func (m *mockProfileRepo) JobExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, parsed := m.jobs[id]
	return parsed || m.bareJobs[id], nil
}

func (m *mockProfileRepo) GetJobProfile(_ context.Context, id uuid.UUID) (profile.JobProfile, error) {
	if m.err != nil {
		return profile.JobProfile{}, m.err
	}
	j, ok := m.jobs[id]
	if !ok {
		return profile.JobProfile{}, repository.ErrNotFound
	}
	return j, nil
}

func (m *mockProfileRepo) GetCandidateProfile(_ context.Context, id uuid.UUID) (profile.CandidateProfile, error) {
	for _, c := range m.candidates {
		if c.CandidateID == id {
			return c, nil
		}
	}
	return profile.CandidateProfile{}, repository.ErrNotFound
}

func (m *mockProfileRepo) ListCandidateProfiles(_ context.Context, ids []uuid.UUID, limit int) ([]profile.CandidateProfile, error) {
	m.mu.Lock()
	m.lastLimit = limit
	m.mu.Unlock()

	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := make([]profile.CandidateProfile, 0, len(m.candidates))
	for _, c := range m.candidates {
		if len(want) > 0 && !want[c.CandidateID] {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockProfileRepo) ListJobIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(m.jobs))
	for id := range m.jobs {
		out = append(out, id)
	}
	return out, nil
}

func (m *mockProfileRepo) SaveJobProfile(_ context.Context, p profile.JobProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedJobs = append(m.savedJobs, p)
	return m.err
}

func (m *mockProfileRepo) SaveCandidateProfile(_ context.Context, p profile.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedCand = append(m.savedCand, p)
	return m.err
}

// mockSkillSource serves requirements and candidate skills straight from the profiles.
type mockSkillSource struct {
	malformed map[uuid.UUID]error
}

func (m mockSkillSource) JobRequirements(_ context.Context, job profile.JobProfile) ([]profile.JobSkillRequirement, error) {
	return job.RequiredSkills, nil
}

func (m mockSkillSource) CandidateSkills(_ context.Context, cands []profile.CandidateProfile) (repository.CandidateSkillSet, error) {
	set := repository.CandidateSkillSet{
		Skills:    map[uuid.UUID][]profile.CandidateSkill{},
		Malformed: map[uuid.UUID]error{},
	}
	for _, c := range cands {
		if err := m.malformed[c.CandidateID]; err != nil {
			set.Malformed[c.CandidateID] = err
			continue
		}
		set.Skills[c.CandidateID] = c.Skills
	}
	return set, nil
}

type pairKey struct {
	job, cand uuid.UUID
}

type mockScoreRepo struct {
	mu sync.Mutex

	scores   map[pairKey]matching.MatchScore
	upserts  int
	failFor  map[uuid.UUID]bool
	onUpsert func()

	listCalls  int
	lastFilter repository.MatchFilter
	list       []matching.MatchScore
	stats      repository.MatchStats
	cutoff     time.Time
	deleted    int64
}

func newMockScoreRepo() *mockScoreRepo {
	return &mockScoreRepo{scores: map[pairKey]matching.MatchScore{}, failFor: map[uuid.UUID]bool{}}
}

func (m *mockScoreRepo) Upsert(_ context.Context, s matching.MatchScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[s.CandidateID] {
		return errors.New("write failed")
	}
	m.upserts++
	m.scores[pairKey{s.JobID, s.CandidateID}] = s
	if m.onUpsert != nil {
		m.onUpsert()
	}
	return nil
}

func (m *mockScoreRepo) Get(_ context.Context, jobID, candID uuid.UUID) (matching.MatchScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scores[pairKey{jobID, candID}]
	if !ok {
		return matching.MatchScore{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockScoreRepo) ListForJob(_ context.Context, _ uuid.UUID, f repository.MatchFilter) ([]matching.MatchScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastFilter = f
	return m.list, nil
}

func (m *mockScoreRepo) ListForCandidate(_ context.Context, _ uuid.UUID, f repository.MatchFilter) ([]matching.MatchScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastFilter = f
	return m.list, nil
}

func (m *mockScoreRepo) Stats(_ context.Context, jobID uuid.UUID) (repository.MatchStats, error) {
	s := m.stats
	s.JobID = jobID
	return s, nil
}

func (m *mockScoreRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	return m.deleted, nil
}

type mockWeightsRepo struct {
	w        matching.Weights
	replaced int
}

func (m *mockWeightsRepo) Get(context.Context) (matching.Weights, error) { return m.w, nil }

func (m *mockWeightsRepo) Replace(_ context.Context, w matching.Weights) error {
	m.w = w
	m.replaced++
	return nil
}

// memoryCache is a SearchCache over a map, recording pattern deletes. Deletes honour
// ctx and fail for patterns listed in failPatterns.
type memoryCache struct {
	mu           sync.Mutex
	data         map[string][]byte
	patterns     []string
	failPatterns map[string]bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	if c.failPatterns[pattern] {
		return errors.New("cache unavailable")
	}
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type mockEvents struct {
	mu      sync.Mutex
	results []MatchingResult
}

func (m *mockEvents) MatchingCompleted(_ context.Context, r MatchingResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
}

type mockTaxonomyCache struct {
	entries     []skill.Entry
	invalidated int
}

func (m *mockTaxonomyCache) Skills(context.Context) []skill.Entry { return m.entries }
func (m *mockTaxonomyCache) Invalidate()                          { m.invalidated++ }
