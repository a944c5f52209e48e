package matching

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

var ErrCandidateScoring = errors.New("candidate scoring failed")

// CandidateScoringError marks a single candidate whose data could not be scored.
type CandidateScoringError struct {
	CandidateID uuid.UUID
	Reason      string
}

func (e *CandidateScoringError) Error() string {
	return fmt.Sprintf("score candidate %s: %s", e.CandidateID, e.Reason)
}

func (e *CandidateScoringError) Unwrap() error { return ErrCandidateScoring }

type MatchScore struct {
	JobID       uuid.UUID `json:"job_id"`
	CandidateID uuid.UUID `json:"candidate_id"`

	SkillsScore     float64 `json:"skills_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	LocationScore   float64 `json:"location_score"`
	SalaryScore     float64 `json:"salary_score"`
	TotalScore      float64 `json:"total_score"`
	IsQualified     bool    `json:"is_qualified"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type MissingSkill struct {
	Skill       profile.SkillRef `json:"skill"`
	IsMandatory bool             `json:"is_mandatory"`
}

// Breakdown lists which requirements a candidate covers.
type Breakdown struct {
	MatchedSkills []profile.SkillRef `json:"matched_skills"`
	MissingSkills []MissingSkill     `json:"missing_skills"`
}

// Score computes the five sub-scores and their weighted total for one pair.
// Weights are expected to be validated by the caller.
func Score(job profile.JobProfile, cand profile.CandidateProfile, w Weights) (MatchScore, error) {
	if err := validateCandidate(cand); err != nil {
		return MatchScore{}, err
	}
	if reason := invalidRequirements(job.RequiredSkills); reason != "" {
		return MatchScore{}, &CandidateScoringError{CandidateID: cand.CandidateID, Reason: reason}
	}

	s := MatchScore{
		JobID:           job.JobID,
		CandidateID:     cand.CandidateID,
		SkillsScore:     round2(SkillsScore(job.RequiredSkills, cand.Skills)),
		ExperienceScore: round2(ExperienceScore(job.MinExperienceYears, job.MaxExperienceYears, cand.TotalExperienceYears)),
		EducationScore:  round2(EducationScore(job.RequiredEducationLevel, cand.EducationLevel, cand.EducationText)),
		LocationScore:   round2(LocationScore(job.Location, job.IsRemote, cand.PreferredLocation)),
		SalaryScore:     round2(SalaryScore(job.Salary, cand.ExpectedSalary)),
	}

	total := s.SkillsScore*w.Skills +
		s.ExperienceScore*w.Experience +
		s.EducationScore*w.Education +
		s.LocationScore*w.Location +
		s.SalaryScore*w.Salary
	s.TotalScore = round2(clamp(total, 0, 100))
	s.IsQualified = s.TotalScore >= w.QualificationThreshold

	return s, nil
}

// Explain reports matched and missing requirements, mandatory first.
func Explain(reqs []profile.JobSkillRequirement, skills []profile.CandidateSkill) Breakdown {
	byKey := make(map[string]profile.CandidateSkill, len(skills)*2)
	for _, cs := range skills {
		if cs.Skill.ID != uuid.Nil {
			byKey[cs.Skill.ID.String()] = cs
		}
		if slug := strings.ToLower(strings.TrimSpace(cs.Skill.Slug)); slug != "" {
			byKey[slug] = cs
		}
	}

	out := Breakdown{
		MatchedSkills: make([]profile.SkillRef, 0, len(reqs)),
		MissingSkills: make([]MissingSkill, 0),
	}
	for _, mandatory := range []bool{true, false} {
		for _, r := range reqs {
			if r.IsRequired != mandatory {
				continue
			}
			if _, ok := lookupSkill(byKey, r.Skill); ok {
				out.MatchedSkills = append(out.MatchedSkills, r.Skill)
				continue
			}
			out.MissingSkills = append(out.MissingSkills, MissingSkill{Skill: r.Skill, IsMandatory: r.IsRequired})
		}
	}
	return out
}

func validateCandidate(c profile.CandidateProfile) error {
	fail := func(format string, args ...any) error {
		return &CandidateScoringError{CandidateID: c.CandidateID, Reason: fmt.Sprintf(format, args...)}
	}

	if math.IsNaN(c.TotalExperienceYears) || math.IsInf(c.TotalExperienceYears, 0) || c.TotalExperienceYears < 0 {
		return fail("invalid total experience %v", c.TotalExperienceYears)
	}
	for i, cs := range c.Skills {
		if cs.Skill.Key() == "" {
			return fail("skill %d has neither id nor slug", i)
		}
		if cs.ProficiencyLevel < 0 || cs.ProficiencyLevel > 5 {
			return fail("skill %s proficiency %d out of range", cs.Skill.Key(), cs.ProficiencyLevel)
		}
		if math.IsNaN(cs.YearsExperience) || cs.YearsExperience < 0 {
			return fail("skill %s has invalid years %v", cs.Skill.Key(), cs.YearsExperience)
		}
	}
	for _, v := range []*float64{c.ExpectedSalary.Min, c.ExpectedSalary.Max} {
		if v != nil && (math.IsNaN(*v) || *v < 0) {
			return fail("invalid expected salary %v", *v)
		}
	}
	return nil
}

func invalidRequirements(reqs []profile.JobSkillRequirement) string {
	for i, r := range reqs {
		if r.Skill.Key() == "" {
			return fmt.Sprintf("requirement %d has neither id nor slug", i)
		}
		if math.IsNaN(r.Weight) {
			return fmt.Sprintf("requirement %s has invalid weight", r.Skill.Key())
		}
	}
	return ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
