// Package patches runs one-off data migrations, each at most once.
package patches

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/tnerp/internal/storage"
)

// Store is the storage a patch runner needs.
type Store interface {
	storage.PatchLog
	storage.WorkspaceStore
}

// Patch is a named data migration.
type Patch struct {
	Name string
	Run  func(ctx context.Context, store Store, logger *slog.Logger) error
}

// Runner executes patches in registration order, skipping recorded ones.
type Runner struct {
	store   Store
	patches []Patch
	logger  *slog.Logger
}

// NewRunner returns a runner over the given patches.
func NewRunner(store Store, logger *slog.Logger, patches ...Patch) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, patches: patches, logger: logger.With("component", "patches")}
}

// Default returns the runner with every shipped patch registered.
func Default(store Store, logger *slog.Logger) *Runner {
	return NewRunner(store, logger, DeleteIntegrationsWorkspace, RenameSettingsWorkspace)
}

// Run applies every pending patch and returns the names it applied. A failed
// patch is not recorded and stops the run.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	var applied []string
	for _, p := range r.patches {
		done, err := r.store.PatchApplied(ctx, p.Name)
		if err != nil {
			return applied, err
		}
		if done {
			r.logger.DebugContext(ctx, "patch already applied", "patch", p.Name)
			continue
		}

		r.logger.InfoContext(ctx, "applying patch", "patch", p.Name)
		if err := p.Run(ctx, r.store, r.logger.With("patch", p.Name)); err != nil {
			return applied, fmt.Errorf("patch %s: %w", p.Name, err)
		}
		if err := r.store.RecordPatch(ctx, p.Name); err != nil {
			return applied, err
		}
		applied = append(applied, p.Name)
	}
	return applied, nil
}
