package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// StubFileArchive keeps archived source files on the local filesystem, one
// directory per job. Intended for development and tests; production runs
// use the S3 archive.
type StubFileArchive struct {
	dir string
}

// NewStubFileArchive creates an archive rooted at dir, creating it if needed
func NewStubFileArchive(dir string) (*StubFileArchive, error) {
	if dir == "" {
		return nil, errors.New("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &StubFileArchive{dir: dir}, nil
}

// Ensure StubFileArchive implements FileArchive
var _ reconapp.FileArchive = (*StubFileArchive)(nil)

func (a *StubFileArchive) filePath(jobID uuid.UUID, name string) string {
	// Base keeps uploaded names from escaping the job directory.
	return filepath.Join(a.dir, jobID.String(), filepath.Base(name))
}

// Store archives one source file of a job
func (a *StubFileArchive) Store(ctx context.Context, jobID uuid.UUID, name string, data []byte) error {
	if name == "" {
		return errors.New("file name is required")
	}
	jobDir := filepath.Join(a.dir, jobID.String())
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}
	if err := os.WriteFile(a.filePath(jobID, name), data, 0644); err != nil {
		return fmt.Errorf("failed to archive file: %w", err)
	}
	return nil
}

// Fetch reads back one archived source file
func (a *StubFileArchive) Fetch(ctx context.Context, jobID uuid.UUID, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("file name is required")
	}
	data, err := os.ReadFile(a.filePath(jobID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read archived file: %w", err)
	}
	return data, nil
}
