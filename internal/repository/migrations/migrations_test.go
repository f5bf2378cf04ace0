package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestUpSQLiteIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	applied, err := Up(ctx, db, SQLite)
	if err != nil {
		t.Fatalf("first Up: %v", err)
	}
	if applied != 2 {
		t.Fatalf("applied %d migrations, want 2", applied)
	}

	applied, err = Up(ctx, db, SQLite)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if applied != 0 {
		t.Fatalf("second run applied %d migrations, want 0", applied)
	}

	for _, table := range []string{"users", "tasks"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestUpUnknownDialect(t *testing.T) {
	if _, err := Up(context.Background(), nil, Dialect("oracle")); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}

func TestEmbeddedPostgresSchema(t *testing.T) {
	entries, err := FS.ReadDir("postgres")
	if err != nil {
		t.Fatalf("read postgres dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("postgres migrations = %d, want 2", len(entries))
	}
}
