package repository

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

// CandidateSkillSet is the batch result for a set of candidates. Malformed holds the
// candidates whose skill data could not be decoded.
type CandidateSkillSet struct {
	Skills    map[uuid.UUID][]profile.CandidateSkill
	Malformed map[uuid.UUID]error
}

func newCandidateSkillSet() CandidateSkillSet {
	return CandidateSkillSet{
		Skills:    map[uuid.UUID][]profile.CandidateSkill{},
		Malformed: map[uuid.UUID]error{},
	}
}

// SkillSource supplies skill associations for scoring. Candidate skills are loaded for a
// whole batch in one call.
type SkillSource interface {
	JobRequirements(ctx context.Context, job profile.JobProfile) ([]profile.JobSkillRequirement, error)
	CandidateSkills(ctx context.Context, candidates []profile.CandidateProfile) (CandidateSkillSet, error)
}

// RelationalSkillSource reads job_skills and candidate_skills.
type RelationalSkillSource struct {
	db database.DB
}

func NewRelationalSkillSource(db database.DB) *RelationalSkillSource {
	return &RelationalSkillSource{db: db}
}

func (s *RelationalSkillSource) JobRequirements(ctx context.Context, job profile.JobProfile) ([]profile.JobSkillRequirement, error) {
	rows, err := s.db.Query(ctx,
		`SELECT sm.id, sm.name, sm.slug, js.is_required, js.required_level, js.weight
		 FROM job_skills js
		 JOIN skills_master sm ON sm.id = js.skill_id
		 WHERE js.job_id = $1
		 ORDER BY js.is_required DESC, sm.slug ASC`,
		job.JobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.JobSkillRequirement, 0)
	for rows.Next() {
		var req profile.JobSkillRequirement
		if err := rows.Scan(&req.Skill.ID, &req.Skill.Name, &req.Skill.Slug, &req.IsRequired, &req.RequiredLevel, &req.Weight); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RelationalSkillSource) CandidateSkills(ctx context.Context, candidates []profile.CandidateProfile) (CandidateSkillSet, error) {
	out := newCandidateSkillSet()
	if len(candidates) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(candidates))
	for _, c := range candidates {
		args = append(args, c.CandidateID)
	}
	rows, err := s.db.Query(ctx,
		`SELECT cs.candidate_id, sm.id, sm.name, sm.slug, cs.proficiency_level, cs.years_experience
		 FROM candidate_skills cs
		 JOIN skills_master sm ON sm.id = cs.skill_id
		 WHERE cs.candidate_id IN (`+placeholders(1, len(args))+`)
		 ORDER BY cs.candidate_id ASC, sm.slug ASC`,
		args...,
	)
	if err != nil {
		return CandidateSkillSet{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var cs profile.CandidateSkill
		if err := rows.Scan(&id, &cs.Skill.ID, &cs.Skill.Name, &cs.Skill.Slug, &cs.ProficiencyLevel, &cs.YearsExperience); err != nil {
			return CandidateSkillSet{}, err
		}
		out.Skills[id] = append(out.Skills[id], cs)
	}
	if err := rows.Err(); err != nil {
		return CandidateSkillSet{}, err
	}
	return out, nil
}

// EmbeddedJSONSkillSource decodes the skill lists denormalized onto the profile rows.
type EmbeddedJSONSkillSource struct{}

func (EmbeddedJSONSkillSource) JobRequirements(_ context.Context, job profile.JobProfile) ([]profile.JobSkillRequirement, error) {
	reqs, err := profile.ParseEmbeddedJobSkills(job.EmbeddedSkills)
	if err != nil {
		return nil, fmt.Errorf("job %s embedded skills: %w", job.JobID, err)
	}
	return reqs, nil
}

func (EmbeddedJSONSkillSource) CandidateSkills(_ context.Context, candidates []profile.CandidateProfile) (CandidateSkillSet, error) {
	out := newCandidateSkillSet()
	for _, c := range candidates {
		skills, err := profile.ParseEmbeddedCandidateSkills(c.EmbeddedSkills)
		if err != nil {
			out.Malformed[c.CandidateID] = err
			continue
		}
		if len(skills) > 0 {
			out.Skills[c.CandidateID] = skills
		}
	}
	return out, nil
}

// FallbackSkillSource prefers Primary and consults Fallback for every job or candidate
// Primary has no skills for.
type FallbackSkillSource struct {
	Primary  SkillSource
	Fallback SkillSource
}

func NewFallbackSkillSource(primary, fallback SkillSource) *FallbackSkillSource {
	return &FallbackSkillSource{Primary: primary, Fallback: fallback}
}

func (s *FallbackSkillSource) JobRequirements(ctx context.Context, job profile.JobProfile) ([]profile.JobSkillRequirement, error) {
	reqs, err := s.Primary.JobRequirements(ctx, job)
	if err != nil {
		return nil, err
	}
	if len(reqs) > 0 || s.Fallback == nil {
		return reqs, nil
	}
	return s.Fallback.JobRequirements(ctx, job)
}

func (s *FallbackSkillSource) CandidateSkills(ctx context.Context, candidates []profile.CandidateProfile) (CandidateSkillSet, error) {
	out, err := s.Primary.CandidateSkills(ctx, candidates)
	if err != nil {
		return CandidateSkillSet{}, err
	}
	if s.Fallback == nil {
		return out, nil
	}
	if out.Skills == nil {
		out.Skills = map[uuid.UUID][]profile.CandidateSkill{}
	}
	if out.Malformed == nil {
		out.Malformed = map[uuid.UUID]error{}
	}

	missing := make([]profile.CandidateProfile, 0)
	for _, c := range candidates {
		if len(out.Skills[c.CandidateID]) == 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	extra, err := s.Fallback.CandidateSkills(ctx, missing)
	if err != nil {
		return CandidateSkillSet{}, err
	}
	for id, skills := range extra.Skills {
		out.Skills[id] = skills
	}
	for id, e := range extra.Malformed {
		out.Malformed[id] = e
	}
	return out, nil
}
