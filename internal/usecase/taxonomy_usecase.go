package usecase

import (
	"context"
	"strings"

	"talent-match/internal/domain/skill"
	"talent-match/internal/logger"
	"talent-match/internal/repository"

	"go.uber.org/zap"
)

// TaxonomyCache is the in-process skill snapshot.
type TaxonomyCache interface {
	Skills(ctx context.Context) []skill.Entry
	Invalidate()
}

// SharedTaxonomy drops the copy shared between instances.
type SharedTaxonomy interface {
	Invalidate(ctx context.Context) error
}

type TaxonomyUsecase interface {
	ListSkills(ctx context.Context) []skill.Entry
	UpsertSkill(ctx context.Context, e skill.Entry) (skill.Entry, error)
	InvalidateTaxonomy(ctx context.Context) error
}

type Taxonomy struct {
	skills repository.SkillRepository
	cache  TaxonomyCache
	shared SharedTaxonomy
	log    *zap.Logger
}

func NewTaxonomyUsecase(skills repository.SkillRepository, cache TaxonomyCache, shared SharedTaxonomy, log *zap.Logger) *Taxonomy {
	return &Taxonomy{skills: skills, cache: cache, shared: shared, log: logger.OrNop(log)}
}

func (u *Taxonomy) ListSkills(ctx context.Context) []skill.Entry {
	return u.cache.Skills(ctx)
}

// UpsertSkill stores the entry and invalidates every cached copy of the taxonomy.
func (u *Taxonomy) UpsertSkill(ctx context.Context, e skill.Entry) (skill.Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Slug == "" {
		e.Slug = skill.Slugify(e.Name)
	}
	if e.Name == "" || e.Slug == "" {
		return skill.Entry{}, ErrInvalidInput
	}
	out, err := u.skills.Upsert(ctx, e)
	if err != nil {
		return skill.Entry{}, internal("upsert skill", err)
	}
	if err := u.InvalidateTaxonomy(ctx); err != nil {
		return out, err
	}
	return out, nil
}

func (u *Taxonomy) InvalidateTaxonomy(ctx context.Context) error {
	u.cache.Invalidate()
	if u.shared != nil {
		if err := u.shared.Invalidate(ctx); err != nil {
			u.log.Warn("shared taxonomy invalidation failed", append(logger.Step("taxonomy", "invalidate", "error"), zap.Error(err))...)
			return internal("invalidate taxonomy", err)
		}
	}
	u.log.Info("taxonomy invalidated", logger.Step("taxonomy", "invalidate", "ok")...)
	return nil
}
