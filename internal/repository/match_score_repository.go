package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

// MatchFilter narrows score listings. Location applies to candidate listings and matches
// the job location by case-insensitive substring (ASCII-only case folding on SQLite).
type MatchFilter struct {
	MinScore      float64
	QualifiedOnly bool
	Location      string
	Limit         int
	Offset        int
}

// MatchStats aggregates the stored scores of one job.
type MatchStats struct {
	JobID          uuid.UUID `json:"job_id"`
	TotalMatches   int       `json:"total_matches"`
	QualifiedCount int       `json:"qualified_count"`
	Excellent      int       `json:"excellent"`
	Good           int       `json:"good"`
	Fair           int       `json:"fair"`

	AvgTotal      float64 `json:"avg_total_score"`
	AvgSkills     float64 `json:"avg_skills_score"`
	AvgExperience float64 `json:"avg_experience_score"`
	AvgEducation  float64 `json:"avg_education_score"`
	AvgLocation   float64 `json:"avg_location_score"`
	AvgSalary     float64 `json:"avg_salary_score"`
}

type MatchScoreRepository interface {
	Upsert(ctx context.Context, s matching.MatchScore) error
	Get(ctx context.Context, jobID, candidateID uuid.UUID) (matching.MatchScore, error)
	ListForJob(ctx context.Context, jobID uuid.UUID, f MatchFilter) ([]matching.MatchScore, error)
	ListForCandidate(ctx context.Context, candidateID uuid.UUID, f MatchFilter) ([]matching.MatchScore, error)
	Stats(ctx context.Context, jobID uuid.UUID) (MatchStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PostgresMatchScoreRepository struct {
	db database.DB
}

func NewPostgresMatchScoreRepository(db database.DB) *PostgresMatchScoreRepository {
	return &PostgresMatchScoreRepository{db: db}
}

const matchScoreColumns = `ms.job_id, ms.candidate_id, ms.skills_score, ms.experience_score, ms.education_score,
	ms.location_score, ms.salary_score, ms.total_score, ms.is_qualified, ms.created_at, ms.updated_at`

// Upsert writes one pair in a single statement. created_at survives re-scoring.
func (r *PostgresMatchScoreRepository) Upsert(ctx context.Context, s matching.MatchScore) error {
	now := nowUTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO matching_scores (
			job_id, candidate_id, skills_score, experience_score, education_score,
			location_score, salary_score, total_score, is_qualified, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		 ON CONFLICT (job_id, candidate_id) DO UPDATE SET
			skills_score = EXCLUDED.skills_score,
			experience_score = EXCLUDED.experience_score,
			education_score = EXCLUDED.education_score,
			location_score = EXCLUDED.location_score,
			salary_score = EXCLUDED.salary_score,
			total_score = EXCLUDED.total_score,
			is_qualified = EXCLUDED.is_qualified,
			updated_at = EXCLUDED.updated_at`,
		s.JobID, s.CandidateID, s.SkillsScore, s.ExperienceScore, s.EducationScore,
		s.LocationScore, s.SalaryScore, s.TotalScore, s.IsQualified, now,
	)
	return err
}

func (r *PostgresMatchScoreRepository) Get(ctx context.Context, jobID, candidateID uuid.UUID) (matching.MatchScore, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+matchScoreColumns+` FROM matching_scores ms WHERE ms.job_id = $1 AND ms.candidate_id = $2`,
		jobID, candidateID,
	)
	s, err := scanMatchScore(row)
	if err != nil {
		if database.IsNoRows(err) {
			return matching.MatchScore{}, ErrNotFound
		}
		return matching.MatchScore{}, err
	}
	return s, nil
}

func (r *PostgresMatchScoreRepository) ListForJob(ctx context.Context, jobID uuid.UUID, f MatchFilter) ([]matching.MatchScore, error) {
	where := []string{`ms.job_id = $1`, `ms.total_score >= $2`}
	args := []any{jobID, f.MinScore}
	if f.QualifiedOnly {
		args = append(args, true)
		where = append(where, fmt.Sprintf(`ms.is_qualified = $%d`, len(args)))
	}
	return r.list(ctx, `FROM matching_scores ms`, where, args, `ms.candidate_id ASC`, f)
}

func (r *PostgresMatchScoreRepository) ListForCandidate(ctx context.Context, candidateID uuid.UUID, f MatchFilter) ([]matching.MatchScore, error) {
	from := `FROM matching_scores ms`
	where := []string{`ms.candidate_id = $1`, `ms.total_score >= $2`}
	args := []any{candidateID, f.MinScore}
	if f.QualifiedOnly {
		args = append(args, true)
		where = append(where, fmt.Sprintf(`ms.is_qualified = $%d`, len(args)))
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" {
		from += ` JOIN job_profiles jp ON jp.job_id = ms.job_id`
		args = append(args, "%"+loc+"%")
		where = append(where, fmt.Sprintf(`LOWER(jp.location) LIKE $%d`, len(args)))
	}
	return r.list(ctx, from, where, args, `ms.job_id ASC`, f)
}

func (r *PostgresMatchScoreRepository) list(ctx context.Context, from string, where []string, args []any, tieBreak string, f MatchFilter) ([]matching.MatchScore, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := `SELECT ` + matchScoreColumns + ` ` + from +
		` WHERE ` + strings.Join(where, ` AND `) +
		` ORDER BY ms.total_score DESC, ` + tieBreak +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.MatchScore, 0)
	for rows.Next() {
		s, err := scanMatchScore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats buckets scores as excellent (>= 80), good (60 to 80) and fair (< 60).
func (r *PostgresMatchScoreRepository) Stats(ctx context.Context, jobID uuid.UUID) (MatchStats, error) {
	out := MatchStats{JobID: jobID}
	row := r.db.QueryRow(ctx,
		`SELECT
			COUNT(1),
			COALESCE(SUM(CASE WHEN is_qualified THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN total_score >= 80 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN total_score >= 60 AND total_score < 80 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN total_score < 60 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(total_score), 0),
			COALESCE(AVG(skills_score), 0),
			COALESCE(AVG(experience_score), 0),
			COALESCE(AVG(education_score), 0),
			COALESCE(AVG(location_score), 0),
			COALESCE(AVG(salary_score), 0)
		 FROM matching_scores
		 WHERE job_id = $1`,
		jobID,
	)
	err := row.Scan(
		&out.TotalMatches, &out.QualifiedCount, &out.Excellent, &out.Good, &out.Fair,
		&out.AvgTotal, &out.AvgSkills, &out.AvgExperience, &out.AvgEducation, &out.AvgLocation, &out.AvgSalary,
	)
	if err != nil {
		return MatchStats{}, err
	}
	return out, nil
}

// DeleteOlderThan removes scores not refreshed since cutoff.
func (r *PostgresMatchScoreRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM matching_scores WHERE updated_at < $1`, cutoff.UTC())
}

func scanMatchScore(row database.Row) (matching.MatchScore, error) {
	var s matching.MatchScore
	err := row.Scan(
		&s.JobID, &s.CandidateID, &s.SkillsScore, &s.ExperienceScore, &s.EducationScore,
		&s.LocationScore, &s.SalaryScore, &s.TotalScore, &s.IsQualified, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return matching.MatchScore{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
