package repository

import (
	"context"
	"strings"

	"talent-match/internal/database"
	"talent-match/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillRepository interface {
	FetchAll(ctx context.Context) ([]skill.Entry, error)
	Upsert(ctx context.Context, e skill.Entry) (skill.Entry, error)
	FindBySlugs(ctx context.Context, slugs []string) (map[string]skill.Entry, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

// FetchAll loads the whole taxonomy ordered by name.
func (r *PostgresSkillRepository) FetchAll(ctx context.Context) ([]skill.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, category, created_at FROM skills_master ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Entry, 0)
	for rows.Next() {
		var e skill.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Slug, &e.Category, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert inserts an entry keyed by slug. An existing slug keeps its id; name and category
// are refreshed.
func (r *PostgresSkillRepository) Upsert(ctx context.Context, e skill.Entry) (skill.Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Slug == "" {
		e.Slug = skill.Slugify(e.Name)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO skills_master (id, name, slug, category, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category`,
		e.ID, e.Name, e.Slug, e.Category, nowUTC(),
	)
	if err != nil {
		return skill.Entry{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT id, name, slug, category, created_at FROM skills_master WHERE slug = $1`, e.Slug)
	var out skill.Entry
	if err := row.Scan(&out.ID, &out.Name, &out.Slug, &out.Category, &out.CreatedAt); err != nil {
		return skill.Entry{}, err
	}
	return out, nil
}

// FindBySlugs resolves slugs to stored entries. Unknown slugs are absent from the map.
func (r *PostgresSkillRepository) FindBySlugs(ctx context.Context, slugs []string) (map[string]skill.Entry, error) {
	out := make(map[string]skill.Entry, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(slugs))
	for _, s := range slugs {
		args = append(args, strings.ToLower(strings.TrimSpace(s)))
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, name, slug, category, created_at FROM skills_master WHERE slug IN (`+placeholders(1, len(args))+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e skill.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Slug, &e.Category, &e.CreatedAt); err != nil {
			return nil, err
		}
		out[e.Slug] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
