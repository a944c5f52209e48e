package seeder

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/skill"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Skill is one taxonomy entry as written in a skills file.
type Skill struct {
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug"`
	Category string `yaml:"category"`
}

type skillsFile struct {
	Skills []Skill `yaml:"skills"`
}

// LoadSkillsFile reads a YAML document of the form
//
//	skills:
//	  - name: Go
//	    category: language
func LoadSkillsFile(path string) ([]Skill, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	skills, err := parseSkills(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return skills, nil
}

func parseSkills(b []byte) ([]Skill, error) {
	var f skillsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	for i, s := range f.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("skill %d has no name", i)
		}
	}
	return f.Skills, nil
}

//go:embed skills.yaml
var builtinFile []byte

// builtinSkills is the taxonomy seeded when no skills file is given.
func builtinSkills() []Skill {
	skills, err := parseSkills(builtinFile)
	if err != nil {
		panic(fmt.Sprintf("embedded skills.yaml: %v", err))
	}
	return skills
}

// SkillsSeeder inserts taxonomy entries by slug. Existing slugs are left untouched.
type SkillsSeeder struct {
	Skills []Skill
}

func (SkillsSeeder) Name() string { return "skills" }

func (s SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills_master", "id", "name", "slug", "category", "created_at"); err != nil {
		return err
	}

	items := s.Skills
	if len(items) == 0 {
		items = builtinSkills()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := time.Now().UTC()
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		slug := strings.ToLower(strings.TrimSpace(it.Slug))
		if slug == "" {
			slug = skill.Slugify(name)
		}
		if slug == "" {
			continue
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skills_master (id, name, slug, category, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (slug) DO NOTHING`,
			uuid.New(),
			name,
			slug,
			strings.TrimSpace(it.Category),
			now,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
