package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/config"
)

func TestInitConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvBackend, "")

	path, err := initConfig("", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, config.FileName), path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, home, cfg.DataDir)

	_, err = initConfig("", false)
	assert.ErrorIs(t, err, errConfigExists)

	_, err = initConfig("", true)
	assert.NoError(t, err)

	custom := filepath.Join(home, "other", "custom.yaml")
	path, err = initConfig(custom, false)
	require.NoError(t, err)
	assert.Equal(t, custom, path)
	assert.FileExists(t, custom)
}
