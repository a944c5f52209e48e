package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"talent-match/internal/domain/skill"

	"github.com/google/uuid"
)

// Embedded skill lists are stored as JSON on the profile rows. Older rows hold a
// plain array of slugs; newer ones hold objects with levels.

type embeddedSkill struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Slug             string   `json:"slug,omitempty"`
	ProficiencyLevel int      `json:"proficiency_level,omitempty"`
	Level            int      `json:"level,omitempty"`
	YearsExperience  float64  `json:"years_experience,omitempty"`
	IsRequired       *bool    `json:"is_required,omitempty"`
	RequiredLevel    int      `json:"required_level,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
}

func (e embeddedSkill) ref() SkillRef {
	ref := SkillRef{Name: strings.TrimSpace(e.Name), Slug: strings.ToLower(strings.TrimSpace(e.Slug))}
	if id, err := uuid.Parse(strings.TrimSpace(e.ID)); err == nil {
		ref.ID = id
	}
	if ref.Slug == "" {
		ref.Slug = skill.Slugify(ref.Name)
	}
	return ref
}

func decodeEmbedded(raw string) ([]embeddedSkill, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode embedded skills: %w", err)
	}

	out := make([]embeddedSkill, 0, len(items))
	for i, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			out = append(out, embeddedSkill{Name: s, Slug: skill.Slugify(s)})
			continue
		}
		var obj embeddedSkill
		if err := json.Unmarshal(it, &obj); err != nil {
			return nil, fmt.Errorf("decode embedded skill %d: %w", i, err)
		}
		out = append(out, obj)
	}
	return out, nil
}

// ParseEmbeddedCandidateSkills decodes a candidate's JSON skill list.
// Entries without a level stay at 0 and are scored at the default proficiency.
func ParseEmbeddedCandidateSkills(raw string) ([]CandidateSkill, error) {
	items, err := decodeEmbedded(raw)
	if err != nil {
		return nil, err
	}

	out := make([]CandidateSkill, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		ref := it.ref()
		if ref.Key() == "" {
			continue
		}
		if _, ok := seen[ref.Key()]; ok {
			continue
		}
		seen[ref.Key()] = struct{}{}

		level := it.ProficiencyLevel
		if level == 0 {
			level = it.Level
		}
		out = append(out, CandidateSkill{Skill: ref, ProficiencyLevel: level, YearsExperience: it.YearsExperience})
	}
	return out, nil
}

// ParseEmbeddedJobSkills decodes a job's JSON requirement list. Plain entries are
// required at level 3 with weight 1.0.
func ParseEmbeddedJobSkills(raw string) ([]JobSkillRequirement, error) {
	items, err := decodeEmbedded(raw)
	if err != nil {
		return nil, err
	}

	out := make([]JobSkillRequirement, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		ref := it.ref()
		if ref.Key() == "" {
			continue
		}
		if _, ok := seen[ref.Key()]; ok {
			continue
		}
		seen[ref.Key()] = struct{}{}

		r := JobSkillRequirement{Skill: ref, IsRequired: true, RequiredLevel: DefaultRequiredLevel, Weight: DefaultSkillWeight}
		if it.IsRequired != nil {
			r.IsRequired = *it.IsRequired
		}
		if it.RequiredLevel > 0 {
			r.RequiredLevel = it.RequiredLevel
		}
		if it.Weight != nil && *it.Weight > 0 {
			r.Weight = *it.Weight
		}
		out = append(out, r)
	}
	return out, nil
}

// EncodeCandidateSkills renders skills in the embedded JSON form.
func EncodeCandidateSkills(skills []CandidateSkill) (string, error) {
	items := make([]embeddedSkill, 0, len(skills))
	for _, s := range skills {
		it := embeddedSkill{Name: s.Skill.Name, Slug: s.Skill.Slug, ProficiencyLevel: s.ProficiencyLevel, YearsExperience: s.YearsExperience}
		if s.Skill.ID != uuid.Nil {
			it.ID = s.Skill.ID.String()
		}
		items = append(items, it)
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeJobSkills renders requirements in the embedded JSON form.
func EncodeJobSkills(reqs []JobSkillRequirement) (string, error) {
	items := make([]embeddedSkill, 0, len(reqs))
	for _, r := range reqs {
		required := r.IsRequired
		weight := r.Weight
		it := embeddedSkill{Name: r.Skill.Name, Slug: r.Skill.Slug, IsRequired: &required, RequiredLevel: r.RequiredLevel, Weight: &weight}
		if r.Skill.ID != uuid.Nil {
			it.ID = r.Skill.ID.String()
		}
		items = append(items, it)
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

