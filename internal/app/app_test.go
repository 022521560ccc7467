package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbnaments/internal/adapters/filelock"
	"orbnaments/internal/application"
)

func writeFile(t *testing.T, vault, rel, content string) {
	t.Helper()
	full := filepath.Join(vault, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	vault := t.TempDir()
	writeFile(t, vault, "expenses.md", "# Expenses\n")
	writeFile(t, vault, "a.md", "Paid: [[expenses]]\n")
	writeFile(t, vault, "b.md", "See [expenses](expenses.md)\n")
	writeFile(t, vault, "X/c.md", "[[expenses]]\n")
	writeFile(t, vault, "note.md", "plain\n")
	writeFile(t, vault, "note.sync-conflict-20240101.md", "conflict\n")
	writeFile(t, vault, "report.sync-conflict.txt", "conflict\n")

	a, err := New(Options{VaultPath: vault, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, vault
}

func exists(vault, rel string) bool {
	_, err := os.Stat(filepath.Join(vault, filepath.FromSlash(rel)))
	return err == nil
}

func TestNew_RejectsMissingVault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	_, err := New(Options{VaultPath: filepath.Join(t.TempDir(), "missing"), LogOutput: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault not found")
}

func TestNew_ReadsVaultSettings(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	vault := t.TempDir()
	writeFile(t, vault, "orbnaments.yaml", "target_note: budget\ndestination_folder: Money\n")

	a, err := New(Options{VaultPath: vault, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "budget", a.Settings.TargetNote)
	assert.Equal(t, "Money", a.Settings.DestinationFolder)
	assert.False(t, a.Index.NeedsFullRebuild(), "index is built on first use")
}

func TestNew_RejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	vault := t.TempDir()

	_, err := New(Options{VaultPath: vault, LogLevel: "bogus", LogOutput: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: bogus")

	a, err := New(Options{VaultPath: vault, LogLevel: "debug", LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "debug", a.Settings.LogLevel)
}

func TestApp_RemoveSyncConflicts(t *testing.T) {
	a, vault := newTestApp(t)
	ctx := context.Background()

	preview, err := a.RemoveSyncConflicts(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.Count)
	assert.True(t, exists(vault, "report.sync-conflict.txt"), "dry run leaves files in place")

	outcome, err := a.RemoveSyncConflicts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Count)
	assert.Equal(t, "Removed 2 sync conflict file(s)", outcome.Message)
	assert.True(t, exists(vault, "note.md"))
	assert.False(t, exists(vault, "note.sync-conflict-20240101.md"))
	assert.True(t, exists(vault, ".trash/report.sync-conflict.txt"))

	again, err := a.RemoveSyncConflicts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count)
	assert.Equal(t, "No sync conflict files found", again.Message)
}

func TestApp_RemoveSyncConflicts_BackslashName(t *testing.T) {
	if filepath.Separator == '\\' {
		t.Skip("backslash is the path separator on this platform")
	}
	a, vault := newTestApp(t)
	writeFile(t, vault, `odd\name.sync-conflict.md`, "conflict\n")

	outcome, err := a.RemoveSyncConflicts(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Count)
	assert.Contains(t, outcome.Files, `odd\name.sync-conflict.md`)
	assert.True(t, exists(vault, `.trash/odd\name.sync-conflict.md`))
}

func TestApp_MoveLinkedFiles_UsesDefaults(t *testing.T) {
	a, vault := newTestApp(t)

	outcome, err := a.MoveLinkedFiles(context.Background(), "", "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Count)
	assert.Equal(t, "Moved 2 file(s) to Finanzas", outcome.Message)

	assert.True(t, exists(vault, "Finanzas/a.md"))
	assert.True(t, exists(vault, "Finanzas/b.md"))
	assert.True(t, exists(vault, "X/c.md"))
	assert.True(t, exists(vault, "expenses.md"))
}

func TestApp_MoveLinkedFiles_SeesLinksAddedAfterStartup(t *testing.T) {
	a, vault := newTestApp(t)
	writeFile(t, vault, "d.md", "new note about [[expenses]]\n")

	outcome, err := a.MoveLinkedFiles(context.Background(), "expenses", "Finanzas", false)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Count)
	assert.True(t, exists(vault, "Finanzas/d.md"))
}

func TestApp_MoveLinkedFiles_CollisionFailsTheRun(t *testing.T) {
	a, vault := newTestApp(t)
	writeFile(t, vault, "Finanzas/a.md", "already here\n")

	_, err := a.MoveLinkedFiles(context.Background(), "expenses", "Finanzas", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrMutation)
	assert.True(t, exists(vault, "a.md"))
}

func TestApp_VaultBusy(t *testing.T) {
	a, _ := newTestApp(t)

	other := filelock.NewFileLock(a.lock.Path())
	acquired, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)
	defer other.Unlock()

	_, err = a.RemoveSyncConflicts(context.Background(), false)
	assert.ErrorIs(t, err, application.ErrVaultBusy)
}

func TestApp_Reindex(t *testing.T) {
	a, vault := newTestApp(t)
	writeFile(t, vault, "new.md", "[[expenses]]\n")

	stats, err := a.Reindex(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NodesAdded)

	stats, err = a.Reindex(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.NodesAdded)
}

func TestApp_ReindexWaitsForLock(t *testing.T) {
	a, _ := newTestApp(t)

	other := filelock.NewFileLock(a.lock.Path())
	acquired, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = a.Reindex(ctx, false)
	require.Error(t, err)

	require.NoError(t, other.Unlock())
	_, err = a.Reindex(context.Background(), false)
	assert.NoError(t, err)
}
