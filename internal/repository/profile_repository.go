package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talent-match/internal/database"
	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

// ProfileRepository stores structured job and candidate profiles. Loaded profiles carry
// their embedded JSON skill list; relational skills are served by a SkillSource.
type ProfileRepository interface {
	JobExists(ctx context.Context, jobID uuid.UUID) (bool, error)
	GetJobProfile(ctx context.Context, jobID uuid.UUID) (profile.JobProfile, error)
	GetCandidateProfile(ctx context.Context, candidateID uuid.UUID) (profile.CandidateProfile, error)
	ListCandidateProfiles(ctx context.Context, candidateIDs []uuid.UUID, limit int) ([]profile.CandidateProfile, error)
	ListJobIDs(ctx context.Context, limit int) ([]uuid.UUID, error)

	SaveJobProfile(ctx context.Context, p profile.JobProfile) error
	SaveCandidateProfile(ctx context.Context, p profile.CandidateProfile) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const jobProfileColumns = `jp.job_id, j.title, jp.required_skills_json, jp.min_experience_years, jp.max_experience_years,
	jp.required_education_level, jp.location, jp.is_remote, jp.salary_min, jp.salary_max, jp.salary_currency,
	jp.salary_negotiable, jp.job_level, jp.job_type, jp.benefits_json, jp.confidence, jp.parsed_at`

const candidateProfileColumns = `cp.candidate_id, cp.full_name, cp.email, cp.phone, cp.skills_json,
	cp.total_experience_years, cp.education_level, cp.education_text, cp.current_position,
	cp.preferred_location, cp.expected_salary_min, cp.expected_salary_max, cp.expected_salary_currency,
	cp.confidence, cp.parsed_at`

func (r *PostgresProfileRepository) JobExists(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs WHERE id = $1`, jobID)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresProfileRepository) GetJobProfile(ctx context.Context, jobID uuid.UUID) (profile.JobProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobProfileColumns+`
		 FROM job_profiles jp
		 JOIN jobs j ON j.id = jp.job_id
		 WHERE jp.job_id = $1`,
		jobID,
	)
	p, err := scanJobProfile(row)
	if err != nil {
		if database.IsNoRows(err) {
			return profile.JobProfile{}, ErrNotFound
		}
		return profile.JobProfile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetCandidateProfile(ctx context.Context, candidateID uuid.UUID) (profile.CandidateProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateProfileColumns+` FROM candidate_profiles cp WHERE cp.candidate_id = $1`,
		candidateID,
	)
	p, err := scanCandidateProfile(row)
	if err != nil {
		if database.IsNoRows(err) {
			return profile.CandidateProfile{}, ErrNotFound
		}
		return profile.CandidateProfile{}, err
	}
	return p, nil
}

// ListCandidateProfiles returns up to limit profiles, most recently parsed first. A non-empty
// candidateIDs restricts the result to those candidates.
func (r *PostgresProfileRepository) ListCandidateProfiles(ctx context.Context, candidateIDs []uuid.UUID, limit int) ([]profile.CandidateProfile, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + candidateProfileColumns + ` FROM candidate_profiles cp`
	args := make([]any, 0, len(candidateIDs)+1)
	if len(candidateIDs) > 0 {
		for _, id := range candidateIDs {
			args = append(args, id)
		}
		query += ` WHERE cp.candidate_id IN (` + placeholders(1, len(candidateIDs)) + `)`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY cp.parsed_at DESC, cp.candidate_id ASC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.CandidateProfile, 0)
	for rows.Next() {
		p, err := scanCandidateProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListJobIDs returns the ids of jobs that have a parsed profile, most recently parsed first.
func (r *PostgresProfileRepository) ListJobIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `SELECT job_id FROM job_profiles ORDER BY parsed_at DESC, job_id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveJobProfile overwrites the job's profile and its relational skill rows in one
// transaction. Requirements are linked by id, or by slug when the taxonomy knows it.
func (r *PostgresProfileRepository) SaveJobProfile(ctx context.Context, p profile.JobProfile) error {
	if p.JobID == uuid.Nil {
		return fmt.Errorf("save job profile: empty job id")
	}
	skillsJSON, err := profile.EncodeJobSkills(p.RequiredSkills)
	if err != nil {
		return err
	}
	benefits, err := encodeStrings(p.Benefits)
	if err != nil {
		return err
	}
	parsedAt := p.ParsedAt.UTC()
	if p.ParsedAt.IsZero() {
		parsedAt = nowUTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO jobs (id, title, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
		p.JobID, p.Title, parsedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO job_profiles (
			job_id, required_skills_json, min_experience_years, max_experience_years, required_education_level,
			location, is_remote, salary_min, salary_max, salary_currency, salary_negotiable,
			job_level, job_type, benefits_json, confidence, parsed_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (job_id) DO UPDATE SET
			required_skills_json = EXCLUDED.required_skills_json,
			min_experience_years = EXCLUDED.min_experience_years,
			max_experience_years = EXCLUDED.max_experience_years,
			required_education_level = EXCLUDED.required_education_level,
			location = EXCLUDED.location,
			is_remote = EXCLUDED.is_remote,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency,
			salary_negotiable = EXCLUDED.salary_negotiable,
			job_level = EXCLUDED.job_level,
			job_type = EXCLUDED.job_type,
			benefits_json = EXCLUDED.benefits_json,
			confidence = EXCLUDED.confidence,
			parsed_at = EXCLUDED.parsed_at`,
		p.JobID, skillsJSON, p.MinExperienceYears, p.MaxExperienceYears, string(p.RequiredEducationLevel),
		p.Location, p.IsRemote, p.Salary.Min, p.Salary.Max, p.Salary.Currency, p.Salary.Negotiable,
		p.JobLevel, p.JobType, benefits, p.Confidence, parsedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM job_skills WHERE job_id = $1`, p.JobID); err != nil {
		return err
	}
	for _, req := range p.RequiredSkills {
		skillID, ok, err := resolveSkillID(ctx, tx, req.Skill)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		level := req.RequiredLevel
		if level <= 0 {
			level = profile.DefaultRequiredLevel
		}
		weight := req.Weight
		if weight <= 0 {
			weight = profile.DefaultSkillWeight
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id, is_required, required_level, weight)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (job_id, skill_id) DO UPDATE SET
				is_required = EXCLUDED.is_required,
				required_level = EXCLUDED.required_level,
				weight = EXCLUDED.weight`,
			p.JobID, skillID, req.IsRequired, level, weight,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SaveCandidateProfile overwrites the candidate's profile and relational skill rows.
func (r *PostgresProfileRepository) SaveCandidateProfile(ctx context.Context, p profile.CandidateProfile) error {
	if p.CandidateID == uuid.Nil {
		return fmt.Errorf("save candidate profile: empty candidate id")
	}
	skillsJSON, err := profile.EncodeCandidateSkills(p.Skills)
	if err != nil {
		return err
	}
	parsedAt := p.ParsedAt.UTC()
	if p.ParsedAt.IsZero() {
		parsedAt = nowUTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO candidates (id, created_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		p.CandidateID, parsedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO candidate_profiles (
			candidate_id, full_name, email, phone, skills_json, total_experience_years, education_level,
			education_text, current_position, preferred_location, expected_salary_min, expected_salary_max,
			expected_salary_currency, confidence, parsed_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (candidate_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			skills_json = EXCLUDED.skills_json,
			total_experience_years = EXCLUDED.total_experience_years,
			education_level = EXCLUDED.education_level,
			education_text = EXCLUDED.education_text,
			current_position = EXCLUDED.current_position,
			preferred_location = EXCLUDED.preferred_location,
			expected_salary_min = EXCLUDED.expected_salary_min,
			expected_salary_max = EXCLUDED.expected_salary_max,
			expected_salary_currency = EXCLUDED.expected_salary_currency,
			confidence = EXCLUDED.confidence,
			parsed_at = EXCLUDED.parsed_at`,
		p.CandidateID, p.FullName, p.Email, p.Phone, skillsJSON, p.TotalExperienceYears, string(p.EducationLevel),
		p.EducationText, p.CurrentPosition, p.PreferredLocation, p.ExpectedSalary.Min, p.ExpectedSalary.Max,
		p.ExpectedSalary.Currency, p.Confidence, parsedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_skills WHERE candidate_id = $1`, p.CandidateID); err != nil {
		return err
	}
	for _, cs := range p.Skills {
		skillID, ok, err := resolveSkillID(ctx, tx, cs.Skill)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO candidate_skills (candidate_id, skill_id, proficiency_level, years_experience)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (candidate_id, skill_id) DO UPDATE SET
				proficiency_level = EXCLUDED.proficiency_level,
				years_experience = EXCLUDED.years_experience`,
			p.CandidateID, skillID, cs.ProficiencyLevel, cs.YearsExperience,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// resolveSkillID maps a reference onto a taxonomy row; references the taxonomy does not
// know stay in the embedded JSON only.
func resolveSkillID(ctx context.Context, tx database.Tx, ref profile.SkillRef) (uuid.UUID, bool, error) {
	var id uuid.UUID
	var row database.Row
	if ref.ID != uuid.Nil {
		row = tx.QueryRow(ctx, `SELECT id FROM skills_master WHERE id = $1`, ref.ID)
	} else {
		slug := strings.ToLower(strings.TrimSpace(ref.Slug))
		if slug == "" {
			return uuid.Nil, false, nil
		}
		row = tx.QueryRow(ctx, `SELECT id FROM skills_master WHERE slug = $1`, slug)
	}
	if err := row.Scan(&id); err != nil {
		if database.IsNoRows(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func scanJobProfile(row database.Row) (profile.JobProfile, error) {
	var (
		p         profile.JobProfile
		education string
		benefits  string
	)
	err := row.Scan(
		&p.JobID, &p.Title, &p.EmbeddedSkills, &p.MinExperienceYears, &p.MaxExperienceYears,
		&education, &p.Location, &p.IsRemote, &p.Salary.Min, &p.Salary.Max, &p.Salary.Currency,
		&p.Salary.Negotiable, &p.JobLevel, &p.JobType, &benefits, &p.Confidence, &p.ParsedAt,
	)
	if err != nil {
		return profile.JobProfile{}, err
	}
	p.RequiredEducationLevel = profile.ParseEducationLevel(education)
	if p.Benefits, err = decodeStrings(benefits); err != nil {
		return profile.JobProfile{}, fmt.Errorf("decode benefits for job %s: %w", p.JobID, err)
	}
	p.ParsedAt = p.ParsedAt.UTC()
	return p, nil
}

func scanCandidateProfile(row database.Row) (profile.CandidateProfile, error) {
	var (
		p         profile.CandidateProfile
		education string
	)
	err := row.Scan(
		&p.CandidateID, &p.FullName, &p.Email, &p.Phone, &p.EmbeddedSkills,
		&p.TotalExperienceYears, &education, &p.EducationText, &p.CurrentPosition,
		&p.PreferredLocation, &p.ExpectedSalary.Min, &p.ExpectedSalary.Max, &p.ExpectedSalary.Currency,
		&p.Confidence, &p.ParsedAt,
	)
	if err != nil {
		return profile.CandidateProfile{}, err
	}
	p.EducationLevel = profile.ParseEducationLevel(education)
	p.ParsedAt = p.ParsedAt.UTC()
	return p, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	out := make([]string, 0)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
