// Package backup writes and restores point-in-time copies of the to-do
// database, optionally encrypted with a passphrase.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Snapshot writes a consistent copy of db to dst. With a non-empty
// passphrase the copy is encrypted. dst must not already exist.
func Snapshot(ctx context.Context, db *sql.DB, dst, passphrase string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("snapshot %s: file exists", dst)
	}

	if passphrase == "" {
		if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
			return fmt.Errorf("vacuum into: %w", err)
		}
		slog.Info("snapshot written", "path", dst, "encrypted", false)
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "cadence-snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	plain := filepath.Join(tmpDir, "snapshot.db")
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", plain); err != nil {
		return fmt.Errorf("vacuum into: %w", err)
	}

	data, err := os.ReadFile(plain)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	sealed, err := seal(data, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, sealed, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.Info("snapshot written", "path", dst, "encrypted", true, "bytes", len(sealed))
	return nil
}

// Restore validates the snapshot at src and copies it over dbPath. The
// database at dbPath must be closed by the caller first.
func Restore(ctx context.Context, src, dbPath, passphrase string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if passphrase != "" {
		if data, err = open(data, passphrase); err != nil {
			return err
		}
	}

	tmpDir, err := os.MkdirTemp("", "cadence-restore-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	candidate := filepath.Join(tmpDir, "restore.db")
	if err := os.WriteFile(candidate, data, 0o600); err != nil {
		return fmt.Errorf("write candidate: %w", err)
	}
	if err := checkIntegrity(ctx, candidate); err != nil {
		return err
	}

	if err := os.WriteFile(dbPath, data, 0o644); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	// Stale WAL pages belong to the replaced file.
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")

	slog.Info("database restored", "from", src, "path", dbPath)
	return nil
}

func checkIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	var tables int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'todo_series'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("inspect snapshot: %w", err)
	}
	if tables == 0 {
		return fmt.Errorf("snapshot holds no to-do data")
	}
	return nil
}
