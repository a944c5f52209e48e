package seeder

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"
)

// WeightsSeeder stores the default weights when no active configuration exists.
type WeightsSeeder struct{}

func (WeightsSeeder) Name() string { return "matching_weights" }

func (WeightsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "matching_config", "criteria", "weight", "is_active", "updated_at"); err != nil {
		return err
	}

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM matching_config WHERE is_active = $1`, true).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return repository.NewPostgresWeightsRepository(db).Replace(ctx, matching.DefaultWeights())
}
