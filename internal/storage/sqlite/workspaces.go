package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/tnerp/internal/models"
)

// CreateWorkspace inserts a desk workspace.
func (s *SQLiteStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO workspaces (name, label, module) VALUES (?, ?, ?)",
		ws.Name, ws.Label, ws.Module,
	)
	if err != nil {
		return insertErr("workspace", ws.Name, err)
	}
	return nil
}

// WorkspaceExists reports whether a workspace called name exists.
func (s *SQLiteStore) WorkspaceExists(ctx context.Context, name string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT 1 FROM workspaces WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to check workspace: %w", err)
	}
	return ok, nil
}

// DeleteWorkspace removes a workspace. Deleting a missing one is not an error.
func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM workspaces WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// RenameWorkspace renames a workspace and its label.
func (s *SQLiteStore) RenameWorkspace(ctx context.Context, oldName, newName string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE workspaces SET name = ?, label = ? WHERE name = ?", newName, newName, oldName)
	if err != nil {
		if isUniqueViolation(err) {
			return insertErr("workspace", newName, err)
		}
		return fmt.Errorf("failed to rename workspace: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("workspace", oldName)
	}
	return nil
}

// PatchApplied reports whether a patch has been recorded.
func (s *SQLiteStore) PatchApplied(ctx context.Context, name string) (bool, error) {
	ok, err := s.exists(ctx, "SELECT 1 FROM patch_log WHERE patch = ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to check patch log: %w", err)
	}
	return ok, nil
}

// RecordPatch marks a patch as applied. Recording it twice is harmless.
func (s *SQLiteStore) RecordPatch(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO patch_log (patch, applied_at) VALUES (?, ?) ON CONFLICT(patch) DO NOTHING",
		name, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record patch: %w", err)
	}
	return nil
}
