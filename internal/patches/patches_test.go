package patches

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tnerp/internal/models"
	"github.com/mmynk/tnerp/internal/storage/sqlite"
)

func newStore(t *testing.T, workspaces ...string) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "patches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, name := range workspaces {
		require.NoError(t, store.CreateWorkspace(context.Background(), &models.Workspace{Name: name, Label: name}))
	}
	return store
}

func exists(t *testing.T, store *sqlite.SQLiteStore, name string) bool {
	t.Helper()
	ok, err := store.WorkspaceExists(context.Background(), name)
	require.NoError(t, err)
	return ok
}

func TestDefaultRunner(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, IntegrationsWorkspace, OldSettingsWorkspace, "Home")

	applied, err := Default(store, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{DeleteIntegrationsWorkspace.Name, RenameSettingsWorkspace.Name}, applied)

	assert.False(t, exists(t, store, IntegrationsWorkspace))
	assert.False(t, exists(t, store, OldSettingsWorkspace))
	assert.True(t, exists(t, store, NewSettingsWorkspace))
	assert.True(t, exists(t, store, "Home"))

	t.Run("second run applies nothing", func(t *testing.T) {
		require.NoError(t, store.CreateWorkspace(ctx, &models.Workspace{Name: IntegrationsWorkspace}))
		applied, err := Default(store, nil).Run(ctx)
		require.NoError(t, err)
		assert.Empty(t, applied)
		assert.True(t, exists(t, store, IntegrationsWorkspace))
	})
}

func TestRenameSkips(t *testing.T) {
	tests := []struct {
		name       string
		workspaces []string
		wantOld    bool
		wantNew    bool
	}{
		{"old missing", nil, false, false},
		{"new already present", []string{OldSettingsWorkspace, NewSettingsWorkspace}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, tt.workspaces...)
			applied, err := NewRunner(store, nil, RenameSettingsWorkspace).Run(context.Background())
			require.NoError(t, err)
			assert.Len(t, applied, 1)
			assert.Equal(t, tt.wantOld, exists(t, store, OldSettingsWorkspace))
			assert.Equal(t, tt.wantNew, exists(t, store, NewSettingsWorkspace))
		})
	}
}

func TestFailedPatchIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	boom := errors.New("boom")
	runs := 0
	failing := Patch{Name: "v0_1.failing", Run: func(context.Context, Store, *slog.Logger) error {
		runs++
		return boom
	}}
	never := Patch{Name: "v0_1.never", Run: func(context.Context, Store, *slog.Logger) error {
		t.Fatal("patch after a failure must not run")
		return nil
	}}

	r := NewRunner(store, nil, failing, never)
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, boom)

	ok, err := store.PatchApplied(ctx, failing.Name)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _ = r.Run(ctx)
	assert.Equal(t, 2, runs)
}
