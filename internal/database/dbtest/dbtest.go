// Package dbtest opens migrated SQLite databases for repository tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"talent-match/internal/database"
	"talent-match/internal/database/migration"
	"talent-match/internal/database/sqlite"
	"talent-match/migrations"
)

func Open(t *testing.T) database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	fsys, err := migrations.For(db.Dialect())
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	if err := (migration.Runner{FS: fsys}).Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
