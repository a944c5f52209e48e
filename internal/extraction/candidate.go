package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"talent-match/internal/domain/profile"
)

var (
	nameLabelRe     = regexp.MustCompile(`(?i)(?:^|\n)\s*(?:full name|name|họ và tên|họ tên|tên)\s*:\s*([^\n]+)`)
	nameLineRe      = regexp.MustCompile(`(?m)^(\p{Lu}\p{Ll}+(?:[ \t]+\p{Lu}\p{Ll}+)+)[ \t]*$`)
	positionLabelRe = regexp.MustCompile(`(?i)(?:vị trí|position|chức vụ|current role)\s*:\s*([^\n]+)`)
	expectedPayRe   = regexp.MustCompile(`(?i)(?:mức lương mong muốn|lương mong muốn|expected salary|mức lương|desired salary)[^\n]*`)
)

var titleKeywords = []string{
	"developer", "engineer", "programmer", "architect", "designer",
	"analyst", "manager", "director", "lead", "senior", "junior",
	"specialist", "consultant", "admin", "devops", "tester",
	"qa", "ba", "product owner", "scrum master", "cto", "ceo",
}

// Candidate extracts a candidate profile from résumé text.
func (e *Extractor) Candidate(ctx context.Context, raw string) (profile.CandidateProfile, error) {
	text := Normalize(raw)
	if text == "" {
		return profile.CandidateProfile{}, ErrEmptyText
	}
	lower := strings.ToLower(text)

	hits := e.matchSkills(ctx, lower)
	skills := make([]profile.CandidateSkill, 0, len(hits))
	for _, h := range hits {
		skills = append(skills, profile.CandidateSkill{Skill: refOf(h.entry)})
	}

	edu, eduText := educationLevel(text)
	now := e.now()

	p := profile.CandidateProfile{
		FullName:             fullName(text),
		Email:                email(text),
		Phone:                phone(text),
		Skills:               skills,
		TotalExperienceYears: experienceYears(lower, now.Year()),
		EducationLevel:       edu,
		EducationText:        eduText,
		CurrentPosition:      currentPosition(text),
		PreferredLocation:    location(lower),
		Confidence:           profile.ConfidenceRuleBased,
		ParsedAt:             now.UTC(),
	}
	if m := expectedPayRe.FindString(text); m != "" {
		p.ExpectedSalary = salaryRange(strings.ToLower(m))
	}
	return p, nil
}

func fullName(text string) string {
	if m := nameLabelRe.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	if m := nameLineRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func currentPosition(text string) string {
	lines := nonEmptyLines(text)
	for i := 0; i < len(lines) && i < 5; i++ {
		lower := strings.ToLower(lines[i])
		for _, kw := range titleKeywords {
			if containsWord(lower, kw) {
				return lines[i]
			}
		}
	}
	if m := positionLabelRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// containsWord is a whole-word strings.Contains for short keywords like "qa" or "ba".
func containsWord(lower, word string) bool {
	for from := 0; ; {
		idx := strings.Index(lower[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)
		if isBoundary(lower, start-1) && isBoundary(lower, end) {
			return true
		}
		from = start + 1
	}
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 0x80)
}

// CandidateDocument is the structured candidate form accepted by CandidateFromJSON.
type CandidateDocument struct {
	FullName             string          `json:"full_name"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	Skills               json.RawMessage `json:"skills"`
	TotalExperienceYears float64         `json:"total_experience_years"`
	EducationLevel       string          `json:"education_level"`
	Education            string          `json:"education"`
	CurrentPosition      string          `json:"current_position"`
	Location             string          `json:"location"`
	ExpectedSalaryMin    *float64        `json:"expected_salary_min"`
	ExpectedSalaryMax    *float64        `json:"expected_salary_max"`
	SalaryCurrency       string          `json:"salary_currency"`
}

// CandidateFromJSON maps an already-structured candidate document. Skills may be a
// list of names or of objects with levels.
func (e *Extractor) CandidateFromJSON(data []byte) (profile.CandidateProfile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return profile.CandidateProfile{}, ErrEmptyText
	}

	var doc CandidateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("decode candidate document: %w", err)
	}

	skills, err := profile.ParseEmbeddedCandidateSkills(string(doc.Skills))
	if err != nil {
		return profile.CandidateProfile{}, err
	}

	return profile.CandidateProfile{
		FullName:             strings.TrimSpace(doc.FullName),
		Email:                strings.TrimSpace(doc.Email),
		Phone:                strings.TrimSpace(doc.Phone),
		Skills:               skills,
		TotalExperienceYears: doc.TotalExperienceYears,
		EducationLevel:       profile.ParseEducationLevel(doc.EducationLevel),
		EducationText:        strings.TrimSpace(doc.Education),
		CurrentPosition:      strings.TrimSpace(doc.CurrentPosition),
		PreferredLocation:    strings.TrimSpace(doc.Location),
		ExpectedSalary: profile.SalaryRange{
			Min:      doc.ExpectedSalaryMin,
			Max:      doc.ExpectedSalaryMax,
			Currency: strings.ToUpper(strings.TrimSpace(doc.SalaryCurrency)),
		},
		Confidence: profile.ConfidenceStructured,
		ParsedAt:   e.now().UTC(),
	}, nil
}
