package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/config"
)

func TestConfigShowCmd_YAML(t *testing.T) {
	output, err := execRoot(t, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, output, "contrast:")
	assert.Contains(t, output, "low_percentile: 1")
	assert.Contains(t, output, "high_percentile: 99")
	assert.Contains(t, output, "fps: 30")
	assert.Contains(t, output, "dir: previews")
	assert.Contains(t, output, "color: auto")
	// Source annotations for the consulted files.
	assert.Contains(t, output, "# global:")
	assert.Contains(t, output, "# project:")
}

func TestConfigShowCmd_JSON(t *testing.T) {
	output, err := execRoot(t, "config", "show", "--format", "json")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(output), &cfg))
	assert.InDelta(t, 1.0, cfg.Contrast.LowPercentile, 0.001)
	assert.InDelta(t, 99.0, cfg.Contrast.HighPercentile, 0.001)
	assert.Equal(t, 30, cfg.Playback.FPS)
	assert.Equal(t, "previews", cfg.Preview.Dir)
}
