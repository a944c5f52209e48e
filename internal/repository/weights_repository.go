package repository

import (
	"context"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"
)

type WeightsRepository interface {
	Get(ctx context.Context) (matching.Weights, error)
	Replace(ctx context.Context, w matching.Weights) error
}

type PostgresWeightsRepository struct {
	db database.DB
}

func NewPostgresWeightsRepository(db database.DB) *PostgresWeightsRepository {
	return &PostgresWeightsRepository{db: db}
}

// Get returns the active weight set; criteria missing from the table fall back to the
// defaults.
func (r *PostgresWeightsRepository) Get(ctx context.Context) (matching.Weights, error) {
	rows, err := r.db.Query(ctx, `SELECT criteria, weight FROM matching_config WHERE is_active = $1`, true)
	if err != nil {
		return matching.Weights{}, err
	}
	defer rows.Close()

	criteria := map[string]float64{}
	for rows.Next() {
		var name string
		var v float64
		if err := rows.Scan(&name, &v); err != nil {
			return matching.Weights{}, err
		}
		criteria[name] = v
	}
	if err := rows.Err(); err != nil {
		return matching.Weights{}, err
	}
	return matching.WeightsFromCriteria(criteria), nil
}

// Replace swaps the whole active set in one transaction. Callers validate first.
func (r *PostgresWeightsRepository) Replace(ctx context.Context, w matching.Weights) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM matching_config`); err != nil {
		return err
	}
	now := nowUTC()
	for name, v := range w.AsCriteria() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO matching_config (criteria, weight, is_active, updated_at) VALUES ($1, $2, $3, $4)`,
			name, v, true, now,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
