package analytics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeSet is a test helper that writes a single keyword-set YAML file into dir.
func writeSet(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileSystemKeywordRepository_Load(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "streaming.yaml", `
name: "streaming"
keywords: ["Kafka", "real-time"]
`)
	writeSet(t, dir, "languages.yaml", `
name: "languages"
keywords: ["Python"]
`)

	repo, err := NewFileSystemKeywordRepository(dir)
	require.NoError(t, err)

	sets := repo.Sets()
	require.Len(t, sets, 2)
	require.Equal(t, "languages", sets[0].Name)
	require.Equal(t, "streaming", sets[1].Name)
	require.NotEmpty(t, sets[0].Fingerprint)

	// Union is ordered by set name, then file order.
	require.Equal(t, []string{"Python", "Kafka", "real-time"}, repo.Keywords())
}

func TestFileSystemKeywordRepository_Get(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "streaming.yaml", `
name: "streaming"
keywords: ["Kafka"]
`)

	repo, err := NewFileSystemKeywordRepository(dir)
	require.NoError(t, err)

	set, err := repo.Get(context.Background(), "streaming")
	require.NoError(t, err)
	require.Equal(t, []string{"Kafka"}, set.Keywords)

	_, err = repo.Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestFileSystemKeywordRepository_MissingDirIsEmpty(t *testing.T) {
	repo, err := NewFileSystemKeywordRepository(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, repo.Sets())
	require.Empty(t, repo.Keywords())
}

func TestFileSystemKeywordRepository_Errors(t *testing.T) {
	t.Run("duplicate set name", func(t *testing.T) {
		dir := t.TempDir()
		writeSet(t, dir, "a.yaml", "name: dup\nkeywords: [x]\n")
		writeSet(t, dir, "b.yaml", "name: dup\nkeywords: [y]\n")

		_, err := NewFileSystemKeywordRepository(dir)
		require.ErrorContains(t, err, "duplicate set name")
	})

	t.Run("set without keywords", func(t *testing.T) {
		dir := t.TempDir()
		writeSet(t, dir, "a.yaml", "name: empty\nkeywords: []\n")

		_, err := NewFileSystemKeywordRepository(dir)
		require.ErrorContains(t, err, "at least one keyword")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeSet(t, dir, "a.yaml", "name: [unclosed\n")

		_, err := NewFileSystemKeywordRepository(dir)
		require.Error(t, err)
	})

	t.Run("comment-only file skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeSet(t, dir, "a.yaml", "# nothing here\n")

		repo, err := NewFileSystemKeywordRepository(dir)
		require.NoError(t, err)
		require.Empty(t, repo.Sets())
	})
}
