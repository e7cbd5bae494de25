package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/elfrun/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetLocalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		workDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(domain.LocalConfigPath(workDir), []byte(configContent), 0o644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(workDir, "")
		info := manager.GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(workDir, domain.LocalConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		workDir := t.TempDir()

		manager := NewManagerWithGlobalDir(workDir, "")
		info := manager.GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(workDir, domain.LocalConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[vm]\nmax_cycles = 10"
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(configContent), 0o644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		info := manager.GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir(t.TempDir(), "")
		info := manager.GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitLocalConfig(t *testing.T) {
	workDir := t.TempDir()
	manager := NewManagerWithGlobalDir(workDir, "")

	path, err := manager.InitLocalConfig(domain.NewDefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.LocalConfigPath(workDir), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.RenderConfigTemplate(domain.NewDefaultConfig()), string(content))

	// Second init refuses to overwrite
	_, err = manager.InitLocalConfig(domain.NewDefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestManager_InitLocalConfig_KeepsExistingFile(t *testing.T) {
	workDir := t.TempDir()
	path := domain.LocalConfigPath(workDir)
	require.NoError(t, os.WriteFile(path, []byte("[vm]\nmax_cycles = 5\n"), 0o600))
	manager := NewManagerWithGlobalDir(workDir, "")

	_, err := manager.InitLocalConfig(domain.NewDefaultConfig())

	require.ErrorIs(t, err, domain.ErrConfigExists)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[vm]\nmax_cycles = 5\n", string(content))
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates the directory", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "nested", "elfrun")
		manager := NewManagerWithGlobalDir(t.TempDir(), globalDir)

		path, err := manager.InitGlobalConfig(domain.NewDefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), path)
		assert.FileExists(t, path)
	})

	t.Run("fails without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir(t.TempDir(), "")
		_, err := manager.InitGlobalConfig(domain.NewDefaultConfig())
		assert.Error(t, err)
	})
}
