// Package config provides configuration management for stackscope with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence
// first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (STACKSCOPE_* prefix)
//  3. Project config (.stackscope/config.yaml)
//  4. Global config (~/.stackscope/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

// Config is the root configuration structure for stackscope.
// It contains all configuration sections for the application.
type Config struct {
	// Contrast contains settings for the percentile contrast stretch.
	Contrast ContrastConfig `yaml:"contrast" mapstructure:"contrast"`

	// Playback contains settings for viewer playback.
	Playback PlaybackConfig `yaml:"playback" mapstructure:"playback"`

	// Preview contains settings for the summarize preview pipeline.
	Preview PreviewConfig `yaml:"preview" mapstructure:"preview"`

	// Viewer contains settings for the terminal viewer rendering.
	Viewer ViewerConfig `yaml:"viewer" mapstructure:"viewer"`
}

// ContrastConfig controls how raw samples map to display intensities.
// Both the viewer and the preview pipeline use this window.
type ContrastConfig struct {
	// LowPercentile is the percentile mapped to black.
	// Default: 1.0, Valid range: 0-100
	LowPercentile float64 `yaml:"low_percentile" mapstructure:"low_percentile"`

	// HighPercentile is the percentile mapped to white.
	// Must be at least LowPercentile.
	// Default: 99.0, Valid range: 0-100
	HighPercentile float64 `yaml:"high_percentile" mapstructure:"high_percentile"`

	// PerFrame recomputes the stretch window per frame instead of once
	// from a sample of the whole stack.
	// Default: false
	PerFrame bool `yaml:"per_frame" mapstructure:"per_frame"`
}

// PlaybackConfig controls viewer playback speed.
type PlaybackConfig struct {
	// FPS is the playback rate in frames per second.
	// Default: 30, Valid range: 1-120
	FPS int `yaml:"fps" mapstructure:"fps"`

	// Loop restarts playback from the first frame after the last.
	// Default: true
	Loop bool `yaml:"loop" mapstructure:"loop"`
}

// PreviewConfig controls where and how summarize writes its artifacts.
type PreviewConfig struct {
	// Dir is the directory summarize writes artifacts into.
	// Default: "previews"
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Overwrite skips the confirmation prompt when the directory already
	// holds a previous run.
	// Default: false
	Overwrite bool `yaml:"overwrite" mapstructure:"overwrite"`
}

// ViewerConfig controls terminal rendering.
type ViewerConfig struct {
	// Color selects the raster mode: "auto" probes the terminal,
	// "always" forces half-block color output, "never" uses the ASCII ramp.
	// Default: "auto"
	Color string `yaml:"color" mapstructure:"color"`
}

// ViewerColorModes lists the accepted values for ViewerConfig.Color.
var ViewerColorModes = []string{"auto", "always", "never"}
