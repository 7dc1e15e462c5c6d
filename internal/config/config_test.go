package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SNIPPETHUB_DB_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabasePath(), cfg.DatabasePath)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("SNIPPETHUB_DB_PATH", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: /tmp/custom.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DatabasePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: /tmp/from-file.db\n"), 0o644))

	t.Setenv("SNIPPETHUB_DB_PATH", "/tmp/from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.DatabasePath)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	t.Setenv("SNIPPETHUB_DB_PATH", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabasePath(), cfg.DatabasePath)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultDatabasePath_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	path := DefaultDatabasePath()
	assert.Equal(t, filepath.Join("/xdg/data", "snippethub", "snippethub.db"), path)
}

func TestEnsureParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "app.db")
	require.NoError(t, EnsureParentDir(dbPath))

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
