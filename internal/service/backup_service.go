package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tiendapos/internal/dto"
	"tiendapos/internal/repository"
)

type BackupService interface {
	// ExportAllTables returns a structured snapshot of the whole database.
	ExportAllTables(ctx context.Context) (*dto.Snapshot, error)
	// ImportAllTables restores the snapshot, replacing current content.
	ImportAllTables(ctx context.Context, snap *dto.Snapshot) error
	// WriteSnapshotFile exports and writes a dated JSON file under dir,
	// returning the file path. Used by the backup worker.
	WriteSnapshotFile(ctx context.Context, dir string) (string, error)
}

type backupService struct {
	repo repository.BackupRepository
}

func NewBackupService(repo repository.BackupRepository) BackupService {
	return &backupService{repo: repo}
}

func (s *backupService) ExportAllTables(ctx context.Context) (*dto.Snapshot, error) {
	return s.repo.ExportAll(ctx)
}

func (s *backupService) ImportAllTables(ctx context.Context, snap *dto.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	return s.repo.ImportAll(ctx, snap)
}

func (s *backupService) WriteSnapshotFile(ctx context.Context, dir string) (string, error) {
	snap, err := s.repo.ExportAll(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("backup_%s.json", snap.ExportedAt.Format("2006-01-02_150405")))
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
