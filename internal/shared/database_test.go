package shared

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("ForeignKeysOnEveryConnection", func(t *testing.T) {
		db, err := NewDatabase(filepath.Join(t.TempDir(), "fk.db"))
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		ctx := context.Background()

		// Holding one connection forces the pool to open a fresh second
		// one, which must enforce foreign keys just like the first.
		first, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("failed to get first connection: %v", err)
		}
		defer first.Close()

		second, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("failed to get second connection: %v", err)
		}
		defer second.Close()

		var enabled int
		if err := second.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("failed to read foreign_keys pragma: %v", err)
		}
		if enabled != 1 {
			t.Fatalf("expected foreign_keys=1 on second connection, got %d", enabled)
		}

		if _, err := second.ExecContext(ctx,
			"INSERT INTO embeddings (token, vector) VALUES (999, x'00')",
		); err == nil {
			t.Error("expected foreign key violation for embedding without a songs row")
		}
	})

	t.Run("InvalidPath", func(t *testing.T) {
		if _, err := NewDatabase("/nonexistent-dir/melodia.db"); err == nil {
			t.Error("expected error for unwritable path")
		}
	})
}
