package matching

import (
	"math"
	"strings"

	"talent-match/internal/domain/profile"
	"talent-match/internal/textutil"

	"github.com/google/uuid"
)

// Skills present without a stated proficiency count as intermediate.
const defaultProficiency = 3

// SkillsScore is the weighted average of per-requirement credit.
func SkillsScore(reqs []profile.JobSkillRequirement, skills []profile.CandidateSkill) float64 {
	if len(reqs) == 0 {
		return 100
	}

	byKey := make(map[string]profile.CandidateSkill, len(skills)*2)
	for _, cs := range skills {
		if cs.Skill.ID != uuid.Nil {
			byKey[cs.Skill.ID.String()] = cs
		}
		if slug := strings.ToLower(strings.TrimSpace(cs.Skill.Slug)); slug != "" {
			byKey[slug] = cs
		}
	}

	var total, totalWeight float64
	for _, r := range reqs {
		weight := r.Weight
		if weight <= 0 {
			weight = profile.DefaultSkillWeight
		}
		totalWeight += weight

		cs, ok := lookupSkill(byKey, r.Skill)
		if !ok {
			if !r.IsRequired {
				total += 50 * weight
			}
			continue
		}
		total += levelCredit(cs.ProficiencyLevel, r.RequiredLevel) * weight
	}

	if totalWeight <= 0 {
		return 0
	}
	return total / totalWeight
}

func lookupSkill(byKey map[string]profile.CandidateSkill, ref profile.SkillRef) (profile.CandidateSkill, bool) {
	if ref.ID != uuid.Nil {
		if cs, ok := byKey[ref.ID.String()]; ok {
			return cs, true
		}
	}
	if slug := strings.ToLower(strings.TrimSpace(ref.Slug)); slug != "" {
		if cs, ok := byKey[slug]; ok {
			return cs, true
		}
	}
	return profile.CandidateSkill{}, false
}

func levelCredit(candidateLevel, requiredLevel int) float64 {
	if candidateLevel <= 0 {
		candidateLevel = defaultProficiency
	}
	if requiredLevel <= 0 {
		requiredLevel = profile.DefaultRequiredLevel
	}
	switch {
	case candidateLevel >= requiredLevel:
		return 100
	case candidateLevel == requiredLevel-1:
		return 80
	default:
		return 60
	}
}

// ExperienceScore compares candidate years with the job's [min, max] window.
// A nil max means open-ended.
func ExperienceScore(minYears float64, maxYears *float64, candidateYears float64) float64 {
	if minYears <= 0 && (maxYears == nil || *maxYears <= 0) {
		return 100
	}
	if candidateYears <= 0 {
		return 0
	}

	upper := math.Inf(1)
	if maxYears != nil && *maxYears > 0 {
		upper = *maxYears
	}

	switch {
	case candidateYears >= minYears && candidateYears <= upper:
		return 100
	case candidateYears > upper:
		return 90
	}

	ratio := candidateYears / minYears
	switch {
	case ratio >= 0.8:
		return 80
	case ratio >= 0.6:
		return 60
	default:
		return math.Max(0, ratio*100)
	}
}

// EducationScore compares ranks when both are known, then falls back to free text,
// then to a neutral 50.
func EducationScore(required, candidate profile.EducationLevel, candidateText string) float64 {
	reqRank := required.Rank()
	if reqRank == 0 {
		return 100
	}

	if candRank := candidate.Rank(); candRank > 0 {
		switch {
		case candRank >= reqRank:
			return 100
		case candRank == reqRank-1:
			return 80
		default:
			return 60
		}
	}

	text := textutil.Fold(candidateText)
	if text != "" && strings.Contains(text, textutil.Fold(required.Name())) {
		return 100
	}
	return 50
}

var cityAliases = []struct {
	alias string
	city  string
}{
	{"hanoi", "hanoi"},
	{"hochiminh", "hcm"},
	{"hcmc", "hcm"},
	{"tphcm", "hcm"},
	{"hcm", "hcm"},
	{"saigon", "hcm"},
	{"danang", "danang"},
	{"haiphong", "haiphong"},
	{"cantho", "cantho"},
}

// LocationScore gives full credit to equal or containing locations.
func LocationScore(jobLocation string, jobRemote bool, candidateLocation string) float64 {
	jobLoc := textutil.Fold(jobLocation)
	if jobLoc == "" {
		return 100
	}
	candLoc := textutil.Fold(candidateLocation)
	if candLoc == "" {
		return 50
	}

	if jobLoc == candLoc || strings.Contains(jobLoc, candLoc) || strings.Contains(candLoc, jobLoc) {
		return 100
	}
	if jc, cc := cityOf(jobLoc), cityOf(candLoc); jc != "" && jc == cc {
		return 100
	}
	if jobRemote || isRemote(jobLoc) || isRemote(candLoc) {
		return 90
	}
	return 30
}

func cityOf(folded string) string {
	compact := strings.ReplaceAll(folded, " ", "")
	if compact == "hn" {
		return "hanoi"
	}
	for _, a := range cityAliases {
		if strings.Contains(compact, a.alias) {
			return a.city
		}
	}
	return ""
}

func isRemote(folded string) bool {
	return strings.Contains(folded, "remote") || strings.Contains(folded, "tu xa") || strings.Contains(folded, "wfh")
}

// SalaryScore compares the job's offer with the candidate's expectation.
func SalaryScore(job, candidate profile.SalaryRange) float64 {
	if job.IsEmpty() || candidate.IsEmpty() {
		return 100
	}

	jMin, jMax := bounds(job)
	cMin, cMax := bounds(candidate)

	if cMin <= jMax && cMax >= jMin {
		overlap := math.Min(cMax, jMax) - math.Max(cMin, jMin)
		denom := math.Min(jMax-jMin, cMax-cMin)

		ratio := 1.0
		if !math.IsInf(denom, 1) && denom > 0 {
			ratio = overlap / denom
		}
		return math.Min(100, 50+ratio*50)
	}

	if cMin > jMax {
		if jMax <= 0 {
			return 0
		}
		gap := (cMin - jMax) / jMax * 100
		switch {
		case gap <= 10:
			return 40
		case gap <= 20:
			return 20
		default:
			return 0
		}
	}

	return 80
}

func bounds(r profile.SalaryRange) (float64, float64) {
	lo := 0.0
	hi := math.Inf(1)
	if r.Min != nil && *r.Min > 0 {
		lo = *r.Min
	}
	if r.Max != nil && *r.Max > 0 {
		hi = *r.Max
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}
