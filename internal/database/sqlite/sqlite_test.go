package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"talent-match/internal/database"

	"github.com/google/uuid"
)

func TestRebind(t *testing.T) {
	got := Rebind(`SELECT * FROM t WHERE a = $1 AND b IN ($2, $10)`)
	want := `SELECT * FROM t WHERE a = ?1 AND b IN (?2, ?10)`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDB_RoundTripsDriverTypes(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "rt.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if db.Dialect() != database.DialectSQLite {
		t.Fatalf("unexpected dialect %q", db.Dialect())
	}

	if _, err := db.Exec(ctx, `CREATE TABLE rt (id TEXT PRIMARY KEY, ok BOOLEAN NOT NULL, score REAL, at DATETIME NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	id := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n, err := db.Exec(ctx, `INSERT INTO rt (id, ok, score, at) VALUES ($1, $2, $3, $4)`, id, true, nil, at)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}

	var (
		gotID    uuid.UUID
		gotOK    bool
		gotScore *float64
		gotAt    time.Time
	)
	if err := db.QueryRow(ctx, `SELECT id, ok, score, at FROM rt WHERE id = $1`, id).Scan(&gotID, &gotOK, &gotScore, &gotAt); err != nil {
		t.Fatalf("select: %v", err)
	}
	if gotID != id || !gotOK || gotScore != nil || !gotAt.Equal(at) {
		t.Fatalf("unexpected row: %v %v %v %v", gotID, gotOK, gotScore, gotAt)
	}

	err = db.QueryRow(ctx, `SELECT id FROM rt WHERE id = $1`, uuid.New()).Scan(&gotID)
	if !database.IsNoRows(err) {
		t.Fatalf("expected no rows, got %v", err)
	}
}

func TestDB_TxRollback(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ctx, `CREATE TABLE t (v INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO t (v) VALUES ($1)`, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rollback to discard insert, got %d rows", n)
	}
}
