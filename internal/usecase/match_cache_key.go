package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const (
	jobMatchesPrefix       = "matches:job:"
	candidateMatchesPrefix = "matches:candidate:"
	matchesLockPrefix      = "matches:lock:"
)

type matchListCacheKeyInput struct {
	MinScore      float64 `json:"min_score"`
	QualifiedOnly bool    `json:"qualified_only"`
	Location      string  `json:"location"`
	Limit         int     `json:"limit"`
	Offset        int     `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func filterHash(in matchListCacheKeyInput) string {
	in.Location = normalizeSearchValue(in.Location)
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func JobMatchesCacheKey(jobID uuid.UUID, f JobMatchFilter) string {
	return jobMatchesPrefix + jobID.String() + ":" + filterHash(matchListCacheKeyInput{
		MinScore:      f.MinScore,
		QualifiedOnly: f.QualifiedOnly,
		Limit:         f.Limit,
		Offset:        f.Offset,
	})
}

func CandidateMatchesCacheKey(candidateID uuid.UUID, f CandidateMatchFilter) string {
	return candidateMatchesPrefix + candidateID.String() + ":" + filterHash(matchListCacheKeyInput{
		MinScore:      f.MinScore,
		QualifiedOnly: f.QualifiedOnly,
		Location:      f.Location,
		Limit:         f.Limit,
		Offset:        f.Offset,
	})
}

// MatchesLockKey is the fill lock that keeps concurrent misses from all hitting the store.
func MatchesLockKey(cacheKey string) string {
	return matchesLockPrefix + cacheKey
}

// jobMatchesPattern matches every cached listing a run for jobID makes stale.
func jobMatchesPattern(jobID uuid.UUID) string {
	return jobMatchesPrefix + jobID.String() + ":*"
}
