package config

import (
	"github.com/vcnlab/stackscope/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Contrast: ContrastConfig{
			// LowPercentile/HighPercentile: the 1/99 window clips hot
			// pixels and sensor noise without flattening real signal.
			LowPercentile:  constants.DefaultLowPercentile,
			HighPercentile: constants.DefaultHighPercentile,

			// PerFrame: false keeps brightness stable across playback.
			PerFrame: false,
		},
		Playback: PlaybackConfig{
			// FPS: 30 matches typical acquisition rates for time movies.
			FPS: constants.DefaultPlaybackFPS,

			// Loop: true, movies are usually watched repeatedly.
			Loop: true,
		},
		Preview: PreviewConfig{
			// Dir: relative to the working directory so artifacts land
			// next to the data being summarized.
			Dir: constants.DefaultPreviewDir,

			// Overwrite: false, re-runs ask before clobbering.
			Overwrite: false,
		},
		Viewer: ViewerConfig{
			// Color: "auto" probes the terminal and falls back to the
			// ASCII ramp on dumb terminals.
			Color: "auto",
		},
	}
}
