package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		configPath = ""
		migrateDatabaseURL = ""
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	err := execute(t, "migrate", "sideways")
	assert.Error(t, err)
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("repository:\n  type: inmemory\n"), 0o600))

	err := execute(t, "migrate", "up", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url required")
}

func TestServe_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("repository:\n  type: mongo\n"), 0o600))

	err := execute(t, "serve", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository.type")
}
