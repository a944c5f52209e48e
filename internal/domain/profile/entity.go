package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Confidence values attached to extracted records.
const (
	ConfidenceStructured = 1.0
	ConfidenceRuleBased  = 0.7
)

// Defaults applied to requirements that do not state a level or weight.
const (
	DefaultRequiredLevel = 3
	DefaultSkillWeight   = 1.0
)

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high_school"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
	EducationOther      EducationLevel = "other"
)

// Rank orders education levels; 0 means unknown.
func (l EducationLevel) Rank() int {
	switch l {
	case EducationHighSchool:
		return 1
	case EducationAssociate:
		return 2
	case EducationBachelor:
		return 3
	case EducationMaster:
		return 4
	case EducationPhD:
		return 5
	default:
		return 0
	}
}

// Name is the human readable form used for free-text comparison.
func (l EducationLevel) Name() string {
	return strings.ReplaceAll(string(l), "_", " ")
}

func ParseEducationLevel(s string) EducationLevel {
	v := EducationLevel(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case EducationHighSchool, EducationAssociate, EducationBachelor, EducationMaster, EducationPhD, EducationOther:
		return v
	case "":
		return ""
	default:
		return EducationOther
	}
}

type SkillRef struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name,omitempty"`
	Slug string    `json:"slug"`
}

// Key returns the identity used to join candidate skills to job requirements.
func (r SkillRef) Key() string {
	if r.ID != uuid.Nil {
		return r.ID.String()
	}
	return strings.ToLower(strings.TrimSpace(r.Slug))
}

type CandidateSkill struct {
	Skill            SkillRef `json:"skill"`
	ProficiencyLevel int      `json:"proficiency_level,omitempty"`
	YearsExperience  float64  `json:"years_experience,omitempty"`
}

type JobSkillRequirement struct {
	Skill         SkillRef `json:"skill"`
	IsRequired    bool     `json:"is_required"`
	RequiredLevel int      `json:"required_level,omitempty"`
	Weight        float64  `json:"weight,omitempty"`
}

type SalaryRange struct {
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Negotiable bool     `json:"negotiable,omitempty"`
}

func (s SalaryRange) IsEmpty() bool {
	return s.Min == nil && s.Max == nil
}

type CandidateProfile struct {
	CandidateID uuid.UUID `json:"candidate_id"`

	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`

	Skills []CandidateSkill `json:"skills"`
	// EmbeddedSkills is the denormalized JSON skill list kept on the profile row.
	EmbeddedSkills string `json:"-"`

	TotalExperienceYears float64        `json:"total_experience_years"`
	EducationLevel       EducationLevel `json:"education_level,omitempty"`
	EducationText        string         `json:"education_text,omitempty"`
	CurrentPosition      string         `json:"current_position,omitempty"`
	PreferredLocation    string         `json:"preferred_location,omitempty"`
	ExpectedSalary       SalaryRange    `json:"expected_salary"`

	Confidence float64   `json:"confidence"`
	ParsedAt   time.Time `json:"parsed_at,omitempty"`
}

type JobProfile struct {
	JobID uuid.UUID `json:"job_id"`
	Title string    `json:"title,omitempty"`

	RequiredSkills []JobSkillRequirement `json:"required_skills"`
	EmbeddedSkills string                `json:"-"`

	MinExperienceYears     float64        `json:"min_experience_years"`
	MaxExperienceYears     *float64       `json:"max_experience_years,omitempty"`
	RequiredEducationLevel EducationLevel `json:"required_education_level,omitempty"`
	Location               string         `json:"location,omitempty"`
	IsRemote               bool           `json:"is_remote,omitempty"`
	Salary                 SalaryRange    `json:"salary"`

	JobLevel string   `json:"job_level,omitempty"`
	JobType  string   `json:"job_type,omitempty"`
	Benefits []string `json:"benefits,omitempty"`

	Confidence float64   `json:"confidence"`
	ParsedAt   time.Time `json:"parsed_at,omitempty"`
}

func Float(v float64) *float64 {
	return &v
}
