package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbnaments/internal/domain"
)

func writeFile(t *testing.T, vault, rel, content string) {
	t.Helper()
	full := filepath.Join(vault, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// touch moves a file's mtime forward so incremental sync sees it as changed
func touch(t *testing.T, vault, rel string) {
	t.Helper()
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(vault, filepath.FromSlash(rel)), future, future))
}

func setupVault(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	vault := t.TempDir()
	writeFile(t, vault, "expenses.md", "# Expenses\n")
	writeFile(t, vault, "a.md", "Paid [[expenses]] today. Again [[expenses|here]].\n")
	writeFile(t, vault, "b.md", "[Budget](expenses.md)\n")
	writeFile(t, vault, "X/c.md", "[[expenses]]\n")
	writeFile(t, vault, "unrelated.md", "[[missing]] and [web](https://example.com)\n")
	writeFile(t, vault, "attachments/receipt.png", "png")
	writeFile(t, vault, ".obsidian/app.json", "{}")
	writeFile(t, vault, ".trash/old.md", "[[expenses]]\n")
	return vault
}

func openIndex(t *testing.T, vault string) *Index {
	t.Helper()
	idx := NewIndex()
	require.NoError(t, idx.Open(vault))
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndex_SyncFull(t *testing.T) {
	vault := setupVault(t)
	idx := openIndex(t, vault)

	assert.True(t, idx.NeedsFullRebuild(), "fresh index needs a rebuild")

	stats, err := idx.SyncFull()
	require.NoError(t, err)
	assert.Equal(t, 6, stats.FilesScanned, "hidden folders are skipped")
	assert.Equal(t, 6, stats.NodesAdded)
	assert.Equal(t, 5, stats.EdgesAdded)
	assert.False(t, idx.NeedsFullRebuild())

	links, err := idx.ResolvedLinks()
	require.NoError(t, err)
	assert.Equal(t, domain.ResolvedLinks{
		"a.md":   {"expenses.md": 2},
		"b.md":   {"expenses.md": 1},
		"X/c.md": {"expenses.md": 1},
	}, links)

	node, err := idx.GetNode("X/c.md")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "c.md", node.Name)
	assert.Equal(t, "X", node.Folder)

	missing, err := idx.GetNode(".trash/old.md")
	require.NoError(t, err)
	assert.Nil(t, missing)

	to, err := idx.FindLinksTo("expenses.md")
	require.NoError(t, err)
	assert.Len(t, to, 4)

	from, err := idx.FindLinksFromFile("unrelated.md")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "missing", from[0].Linkpath)
	assert.Empty(t, from[0].TargetPath)
}

func TestIndex_SyncFullIsRepeatable(t *testing.T) {
	vault := setupVault(t)
	idx := openIndex(t, vault)

	_, err := idx.SyncFull()
	require.NoError(t, err)
	_, err = idx.SyncFull()
	require.NoError(t, err)

	to, err := idx.FindLinksTo("expenses.md")
	require.NoError(t, err)
	assert.Len(t, to, 4, "a rebuild must not duplicate edges")
}

func TestIndex_ResolveLinkpath(t *testing.T) {
	vault := setupVault(t)
	idx := openIndex(t, vault)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	got, err := idx.ResolveLinkpath("expenses", "")
	require.NoError(t, err)
	assert.Equal(t, "expenses.md", got)

	got, err = idx.ResolveLinkpath("receipt.png", "a.md")
	require.NoError(t, err)
	assert.Equal(t, "attachments/receipt.png", got)

	got, err = idx.ResolveLinkpath("missing", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIndex_SelfLinksAreResolved(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	vault := t.TempDir()
	writeFile(t, vault, "journal.md", "Back to [[journal]] and [[#Top]].\n")

	idx := openIndex(t, vault)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	links, err := idx.ResolvedLinks()
	require.NoError(t, err)
	assert.Equal(t, domain.ResolvedLinks{"journal.md": {"journal.md": 1}}, links)
}

func TestIndex_SyncIncremental(t *testing.T) {
	vault := setupVault(t)
	idx := openIndex(t, vault)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	t.Run("unchanged vault", func(t *testing.T) {
		stats, err := idx.SyncIncremental()
		require.NoError(t, err)
		assert.Zero(t, stats.NodesAdded)
		assert.Zero(t, stats.NodesUpdated)
		assert.Zero(t, stats.NodesDeleted)
	})

	t.Run("new file resolves dangling links", func(t *testing.T) {
		writeFile(t, vault, "missing.md", "now exists\n")

		stats, err := idx.SyncIncremental()
		require.NoError(t, err)
		assert.Equal(t, 1, stats.NodesAdded)

		links, err := idx.ResolvedLinks()
		require.NoError(t, err)
		assert.Equal(t, 1, links["unrelated.md"]["missing.md"])
	})

	t.Run("deleted file", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(vault, "b.md")))

		stats, err := idx.SyncIncremental()
		require.NoError(t, err)
		assert.Equal(t, 1, stats.NodesDeleted)

		links, err := idx.ResolvedLinks()
		require.NoError(t, err)
		assert.NotContains(t, links, "b.md")
	})

	t.Run("modified file", func(t *testing.T) {
		writeFile(t, vault, "a.md", "Only once: [[expenses]]\n")
		touch(t, vault, "a.md")

		stats, err := idx.SyncIncremental()
		require.NoError(t, err)
		assert.Equal(t, 1, stats.NodesUpdated)
		assert.Equal(t, 2, stats.EdgesDeleted)
		assert.Equal(t, 1, stats.EdgesAdded)

		links, err := idx.ResolvedLinks()
		require.NoError(t, err)
		assert.Equal(t, 1, links["a.md"]["expenses.md"])
	})
}

func TestIndex_Tx(t *testing.T) {
	vault := setupVault(t)
	idx := openIndex(t, vault)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	t.Run("rename keeps outgoing links", func(t *testing.T) {
		tx, err := idx.BeginTx()
		require.NoError(t, err)
		require.NoError(t, tx.RenameNode("a.md", "Finanzas/a.md"))
		require.NoError(t, tx.Commit())

		old, err := idx.GetNode("a.md")
		require.NoError(t, err)
		assert.Nil(t, old)

		moved, err := idx.GetNode("Finanzas/a.md")
		require.NoError(t, err)
		require.NotNil(t, moved)
		assert.Equal(t, "Finanzas", moved.Folder)
		assert.Equal(t, "a.md", moved.Name)

		links, err := idx.ResolvedLinks()
		require.NoError(t, err)
		assert.Equal(t, 2, links["Finanzas/a.md"]["expenses.md"])
	})

	t.Run("retarget incoming links", func(t *testing.T) {
		tx, err := idx.BeginTx()
		require.NoError(t, err)
		require.NoError(t, tx.RenameNode("expenses.md", "Finanzas/expenses.md"))
		require.NoError(t, tx.RetargetEdges("expenses.md", "Finanzas/expenses.md"))
		require.NoError(t, tx.Commit())

		to, err := idx.FindLinksTo("Finanzas/expenses.md")
		require.NoError(t, err)
		assert.Len(t, to, 4)
	})

	t.Run("delete unresolves incoming links", func(t *testing.T) {
		tx, err := idx.BeginTx()
		require.NoError(t, err)
		require.NoError(t, tx.DeleteNode("Finanzas/expenses.md"))
		require.NoError(t, tx.Commit())

		links, err := idx.ResolvedLinks()
		require.NoError(t, err)
		assert.Empty(t, links)

		from, err := idx.FindLinksFromFile("b.md")
		require.NoError(t, err)
		require.Len(t, from, 1)
		assert.Empty(t, from[0].TargetPath)
	})

	t.Run("rollback discards changes", func(t *testing.T) {
		tx, err := idx.BeginTx()
		require.NoError(t, err)
		require.NoError(t, tx.DeleteNode("b.md"))
		require.NoError(t, tx.Rollback())

		node, err := idx.GetNode("b.md")
		require.NoError(t, err)
		assert.NotNil(t, node)
	})
}

func TestIndex_ReopenKeepsData(t *testing.T) {
	vault := setupVault(t)

	idx := NewIndex()
	require.NoError(t, idx.Open(vault))
	_, err := idx.SyncFull()
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	reopened := openIndex(t, vault)
	assert.False(t, reopened.NeedsFullRebuild())
	node, err := reopened.GetNode("expenses.md")
	require.NoError(t, err)
	assert.NotNil(t, node)
}

func TestDatabasePath(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	first := DatabasePath("/vaults/one")
	second := DatabasePath("/vaults/two")

	assert.Equal(t, filepath.Join(dataHome, "orbnaments"), filepath.Dir(first))
	assert.Equal(t, ".db", filepath.Ext(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, DatabasePath("/vaults/one"))
}
