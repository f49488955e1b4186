package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/finledger/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (email, display_name, password_hash, role) VALUES (?, ?, ?, ?)",
		"test@example.com", "Test User", "hash123", "USER",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO users (email, display_name, password_hash, role) VALUES (?, ?, ?, ?)",
		"other@example.com", "Other", "hash123", "ROOT",
	)
	if err == nil {
		t.Fatal("expected role check constraint to reject unknown role")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 migration records, got %d", count)
	}

	pending, err := migrations.Pending(ctx, db)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending migrations, got %v", pending)
	}
}
