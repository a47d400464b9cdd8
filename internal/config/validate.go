package config

import (
	"github.com/vcnlab/stackscope/internal/constants"
	"github.com/vcnlab/stackscope/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Contrast percentiles must lie in [0, 100] with low <= high
//   - Playback FPS must be between 1 and 120
//   - Preview directory must not be empty
//   - Viewer color mode must be one of auto, always, never
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateContrastConfig(&cfg.Contrast); err != nil {
		return err
	}

	if err := validatePlaybackConfig(&cfg.Playback); err != nil {
		return err
	}

	if err := validatePreviewConfig(&cfg.Preview); err != nil {
		return err
	}

	return validateViewerConfig(&cfg.Viewer)
}

// validateContrastConfig checks contrast-specific configuration values.
func validateContrastConfig(cfg *ContrastConfig) error {
	if cfg.LowPercentile < 0 || cfg.LowPercentile > 100 {
		return errors.Wrapf(errors.ErrConfigInvalidContrast,
			"contrast.low_percentile must be between 0 and 100, got %g", cfg.LowPercentile)
	}

	if cfg.HighPercentile < 0 || cfg.HighPercentile > 100 {
		return errors.Wrapf(errors.ErrConfigInvalidContrast,
			"contrast.high_percentile must be between 0 and 100, got %g", cfg.HighPercentile)
	}

	if cfg.LowPercentile > cfg.HighPercentile {
		return errors.Wrapf(errors.ErrConfigInvalidContrast,
			"contrast.low_percentile (%g) must not exceed contrast.high_percentile (%g)",
			cfg.LowPercentile, cfg.HighPercentile)
	}

	return nil
}

// validatePlaybackConfig checks playback-specific configuration values.
func validatePlaybackConfig(cfg *PlaybackConfig) error {
	if cfg.FPS < constants.MinPlaybackFPS || cfg.FPS > constants.MaxPlaybackFPS {
		return errors.Wrapf(errors.ErrConfigInvalidPlayback,
			"playback.fps must be between %d and %d, got %d",
			constants.MinPlaybackFPS, constants.MaxPlaybackFPS, cfg.FPS)
	}

	return nil
}

// validatePreviewConfig checks preview-specific configuration values.
func validatePreviewConfig(cfg *PreviewConfig) error {
	if cfg.Dir == "" {
		return errors.Wrap(errors.ErrConfigInvalidPreview,
			"preview.dir must not be empty")
	}

	return nil
}

// validateViewerConfig checks viewer-specific configuration values.
func validateViewerConfig(cfg *ViewerConfig) error {
	for _, mode := range ViewerColorModes {
		if cfg.Color == mode {
			return nil
		}
	}

	return errors.Wrapf(errors.ErrConfigInvalidViewer,
		"viewer.color must be one of auto, always, never, got %q", cfg.Color)
}
