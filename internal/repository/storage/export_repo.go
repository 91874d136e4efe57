package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// ExportRepository defines the interface for archiving generated CSV exports
type ExportRepository interface {
	Store(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// ObjectPath creates a timestamped object path for one export, e.g.
// "dues/2024/dues_20240115T093000.csv"
func ObjectPath(kind string, at time.Time) string {
	filename := fmt.Sprintf("%s_%s.csv", kind, at.UTC().Format("20060102T150405"))
	return path.Join(kind, fmt.Sprintf("%d", at.Year()), filename)
}

// LocalExportRepository implements ExportRepository on the local filesystem,
// for development and single-machine deployments
type LocalExportRepository struct {
	dir string
}

// NewLocalExportRepository creates a LocalExportRepository rooted at dir
func NewLocalExportRepository(dir string) (*LocalExportRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &LocalExportRepository{dir: dir}, nil
}

// Store writes the export under the repository's root directory
func (r *LocalExportRepository) Store(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	full := filepath.Join(r.dir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return full, nil
}

// Delete removes an archived export
func (r *LocalExportRepository) Delete(ctx context.Context, objectPath string) error {
	full := filepath.Join(r.dir, filepath.FromSlash(objectPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete export file: %w", err)
	}
	return nil
}
