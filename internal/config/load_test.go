package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/constants"
)

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	// Change to a temp directory with no config files
	tempDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(tempDir)
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(oldWd)
	}()

	cfg, err := Load(context.Background())
	require.NoError(t, err, "Load should not fail when no config file exists")
	require.NotNil(t, cfg, "Config should not be nil")

	assert.InDelta(t, constants.DefaultLowPercentile, cfg.Contrast.LowPercentile, 0, "should use default low percentile")
	assert.InDelta(t, constants.DefaultHighPercentile, cfg.Contrast.HighPercentile, 0, "should use default high percentile")
	assert.Equal(t, constants.DefaultPlaybackFPS, cfg.Playback.FPS, "should use default playback fps")
	assert.Equal(t, constants.DefaultPreviewDir, cfg.Preview.Dir, "should use default preview dir")
	assert.Equal(t, "auto", cfg.Viewer.Color, "should use default color mode")
}

func TestLoadFromPaths_ProjectConfigOverridesGlobal(t *testing.T) {
	ctx := context.Background()

	globalDir := t.TempDir()
	projectDir := t.TempDir()

	globalConfig := filepath.Join(globalDir, "config.yaml")
	err := os.WriteFile(globalConfig, []byte(`
contrast:
  low_percentile: 2
  high_percentile: 98
playback:
  fps: 15
`), 0o600)
	require.NoError(t, err)

	projectConfig := filepath.Join(projectDir, "config.yaml")
	err = os.WriteFile(projectConfig, []byte(`
playback:
  fps: 60
`), 0o600)
	require.NoError(t, err)

	cfg, err := LoadFromPaths(ctx, projectConfig, globalConfig)
	require.NoError(t, err, "LoadFromPaths should succeed")

	// Project config overrides global for playback.fps
	assert.Equal(t, 60, cfg.Playback.FPS, "project config should override global for playback.fps")

	// Global config values that aren't overridden should persist
	assert.InDelta(t, 2.0, cfg.Contrast.LowPercentile, 0, "global low_percentile should be preserved")
	assert.InDelta(t, 98.0, cfg.Contrast.HighPercentile, 0, "global high_percentile should be preserved")
}

func TestLoadFromPaths_GlobalConfigOnly(t *testing.T) {
	ctx := context.Background()

	globalDir := t.TempDir()

	globalConfig := filepath.Join(globalDir, "config.yaml")
	err := os.WriteFile(globalConfig, []byte(`
preview:
  dir: quicklooks
  overwrite: true
viewer:
  color: never
`), 0o600)
	require.NoError(t, err)

	cfg, err := LoadFromPaths(ctx, "", globalConfig)
	require.NoError(t, err, "LoadFromPaths should succeed with only global config")

	assert.Equal(t, "quicklooks", cfg.Preview.Dir, "should use global preview.dir")
	assert.True(t, cfg.Preview.Overwrite, "should use global preview.overwrite")
	assert.Equal(t, "never", cfg.Viewer.Color, "should use global viewer.color")
}

func TestLoad_EnvVarOverridesConfigFile(t *testing.T) {
	ctx := context.Background()

	tempDir := t.TempDir()
	projectDir := filepath.Join(tempDir, ".stackscope")
	err := os.MkdirAll(projectDir, 0o750)
	require.NoError(t, err)

	configPath := filepath.Join(projectDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(`
playback:
  fps: 15
`), 0o600)
	require.NoError(t, err)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(tempDir)
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(oldWd)
	}()

	// Env var has higher precedence than the project config file
	t.Setenv("STACKSCOPE_PLAYBACK_FPS", "90")

	cfg, err := Load(ctx)
	require.NoError(t, err, "Load should succeed")

	assert.Equal(t, 90, cfg.Playback.FPS, "env var should override config file")
}

func TestLoadFromPaths_InvalidConfigRejected(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(configPath, []byte(`
playback:
  fps: 500
`), 0o600)
	require.NoError(t, err)

	_, err = LoadFromPaths(ctx, configPath, "")
	require.Error(t, err, "out-of-range fps should fail validation")
	assert.Contains(t, err.Error(), "playback.fps")
}

func TestLoadFromPaths_MissingFilesIgnored(t *testing.T) {
	ctx := context.Background()

	cfg, err := LoadFromPaths(ctx, filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err, "missing config files should not be an error")
	assert.Equal(t, constants.DefaultPlaybackFPS, cfg.Playback.FPS)
}

func TestLoadWithOverrides(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(tempDir)
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(oldWd)
	}()

	t.Run("nil overrides returns base config", func(t *testing.T) {
		cfg, loadErr := LoadWithOverrides(context.Background(), nil)
		require.NoError(t, loadErr)
		assert.Equal(t, constants.DefaultPlaybackFPS, cfg.Playback.FPS)
	})

	t.Run("partial overrides applied", func(t *testing.T) {
		cfg, loadErr := LoadWithOverrides(context.Background(), &Config{
			Playback: PlaybackConfig{FPS: 12},
			Preview:  PreviewConfig{Dir: "out"},
		})
		require.NoError(t, loadErr)
		assert.Equal(t, 12, cfg.Playback.FPS, "override should replace default fps")
		assert.Equal(t, "out", cfg.Preview.Dir, "override should replace default dir")
		assert.InDelta(t, constants.DefaultLowPercentile, cfg.Contrast.LowPercentile, 0,
			"untouched values should keep defaults")
	})

	t.Run("invalid overrides rejected", func(t *testing.T) {
		_, loadErr := LoadWithOverrides(context.Background(), &Config{
			Contrast: ContrastConfig{LowPercentile: 99, HighPercentile: 1},
		})
		require.Error(t, loadErr, "inverted contrast window should fail validation")
	})
}
