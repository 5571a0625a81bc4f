package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectUpFiles_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"002_b.up.sql",
		"001_a.up.sql",
		"000_drop_all.sql",
		"000_consolidated.sql",
		"001_a.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.up.sql"), 0o755))

	files, err := collectUpFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.up.sql", "002_b.up.sql"}, files)
}

func TestCollectUpFiles_MissingDir(t *testing.T) {
	_, err := collectUpFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRepositoryMigrationsAreConsistent(t *testing.T) {
	files, err := collectUpFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.NotEmpty(t, files)
	for _, name := range []string{"000_drop_all.sql", "000_consolidated.sql"} {
		_, err := os.Stat(filepath.Join("..", "..", "migrations", name))
		assert.NoError(t, err, name)
	}

	// The consolidated schema creates exactly the indexes the up files do.
	var incremental []string
	for _, f := range files {
		incremental = append(incremental, indexNames(t, filepath.Join("..", "..", "migrations", f))...)
	}
	consolidated := indexNames(t, filepath.Join("..", "..", "migrations", "000_consolidated.sql"))
	assert.ElementsMatch(t, incremental, consolidated)
	assert.Equal(t, []string{"contacts_created_at_idx"}, consolidated)
}

var createIndexRe = regexp.MustCompile(`(?i)CREATE\s+INDEX\s+IF\s+NOT\s+EXISTS\s+(\w+)`)

func indexNames(t *testing.T, path string) []string {
	t.Helper()
	sql, err := os.ReadFile(path)
	require.NoError(t, err)
	var names []string
	for _, m := range createIndexRe.FindAllStringSubmatch(string(sql), -1) {
		names = append(names, m[1])
	}
	return names
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"reset", "fresh", "indexes"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("dir"))
}
