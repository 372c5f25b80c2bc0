package patches

import (
	"context"
	"log/slog"
)

// Workspace names touched by the shipped patches.
const (
	IntegrationsWorkspace = "ERPNext Integrations"
	OldSettingsWorkspace  = "ERPNext Settings"
	NewSettingsWorkspace  = "Settings"
)

// DeleteIntegrationsWorkspace removes the stock integrations workspace.
var DeleteIntegrationsWorkspace = Patch{
	Name: "v0_1.delete_integrations_workspace",
	Run: func(ctx context.Context, store Store, logger *slog.Logger) error {
		ok, err := store.WorkspaceExists(ctx, IntegrationsWorkspace)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := store.DeleteWorkspace(ctx, IntegrationsWorkspace); err != nil {
			return err
		}
		logger.InfoContext(ctx, "deleted workspace", "workspace", IntegrationsWorkspace)
		return nil
	},
}

// RenameSettingsWorkspace renames "ERPNext Settings" to "Settings". Rename
// failures are logged and the patch still counts as applied.
var RenameSettingsWorkspace = Patch{
	Name: "v0_1.rename_erpnext_settings_workspace",
	Run: func(ctx context.Context, store Store, logger *slog.Logger) error {
		oldExists, err := store.WorkspaceExists(ctx, OldSettingsWorkspace)
		if err != nil {
			return err
		}
		newExists, err := store.WorkspaceExists(ctx, NewSettingsWorkspace)
		if err != nil {
			return err
		}

		switch {
		case !oldExists:
			logger.InfoContext(ctx, "workspace not found, skipping rename", "workspace", OldSettingsWorkspace)
		case newExists:
			logger.InfoContext(ctx, "workspace already exists, skipping rename", "workspace", NewSettingsWorkspace)
		default:
			if err := store.RenameWorkspace(ctx, OldSettingsWorkspace, NewSettingsWorkspace); err != nil {
				logger.ErrorContext(ctx, "error renaming workspace", "error", err)
				return nil
			}
			logger.InfoContext(ctx, "renamed workspace", "from", OldSettingsWorkspace, "to", NewSettingsWorkspace)
		}
		return nil
	},
}
