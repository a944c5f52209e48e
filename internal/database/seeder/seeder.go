// Package seeder loads reference data: the skill taxonomy and the default weights.
package seeder

import (
	"context"

	"talent-match/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
