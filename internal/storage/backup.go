package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup errors.
var (
	ErrBackupExists    = errors.New("backup destination already exists")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrInvalidBackup   = errors.New("invalid backup path")
)

// BackupInfo describes a completed backup.
type BackupInfo struct {
	CreatedAt     time.Time
	Path          string
	Transactions  int
	FileSize      int64
	SchemaVersion int
}

// Backup writes a consistent copy of the database to destPath and verifies it.
func (s *SQLiteStorage) Backup(ctx context.Context, destPath string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(destPath, "destPath"); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	// VACUUM INTO takes a string literal, so quoting characters are refused outright.
	if strings.ContainsAny(absPath, "'\";") {
		return nil, fmt.Errorf("%w: contains forbidden characters", ErrInvalidBackup)
	}
	if _, statErr := os.Stat(absPath); statErr == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, absPath)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	schemaVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	if s.dbPath != ":memory:" {
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return nil, fmt.Errorf("failed to checkpoint WAL: %w", err)
		}
	}

	// #nosec G201 - absPath is validated above
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", absPath)); err != nil {
		return nil, fmt.Errorf("failed to backup database: %w", err)
	}

	count, err := verifyBackup(ctx, absPath)
	if err != nil {
		if rmErr := os.Remove(absPath); rmErr != nil {
			slog.Error("failed to remove corrupt backup", "path", absPath, "error", rmErr)
		}
		return nil, err
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	slog.Info("Created database backup",
		"path", absPath,
		"transactions", count,
		"size", stat.Size())

	return &BackupInfo{
		CreatedAt:     time.Now(),
		Path:          absPath,
		Transactions:  count,
		FileSize:      stat.Size(),
		SchemaVersion: schemaVersion,
	}, nil
}

func verifyBackup(ctx context.Context, path string) (int, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close backup database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return 0, err
	}
	if result != "ok" {
		return 0, fmt.Errorf("%w: %s", ErrBackupCorrupted, result)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBackupCorrupted, err)
	}
	return count, nil
}
