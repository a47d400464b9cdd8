// Package constants provides centralized constant values used throughout stackscope.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// File names used by stackscope for persisted artifacts.
const (
	// RunManifestFileName is the name of the JSON file that records a summarize run
	// inside a preview directory.
	RunManifestFileName = "run.json"

	// PreviewLockFileName is the name of the advisory lock file guarding a preview
	// directory against concurrent summarize runs.
	PreviewLockFileName = ".stackscope.lock"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "stackscope.log"

	// MeanProjectionBase is the base name for mean-projection artifacts
	// (extension added per format).
	MeanProjectionBase = "mean_projection"

	// MaxProjectionBase is the base name for max-projection artifacts
	// (extension added per format).
	MaxProjectionBase = "max_projection"
)

// Directory names and paths used by stackscope for organizing data.
const (
	// AppHome is the hidden directory name where stackscope stores its data.
	// This directory is created in the user's home directory.
	AppHome = ".stackscope"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// DefaultPreviewDir is the directory where summarize drops preview artifacts
	// when no other location is configured.
	DefaultPreviewDir = "previews"
)

// Display transform defaults. The 1/99 window matches what the original
// acquisition tooling used for on-screen stretching.
const (
	// DefaultLowPercentile is the lower bound of the contrast stretch window.
	DefaultLowPercentile = 1.0

	// DefaultHighPercentile is the upper bound of the contrast stretch window.
	DefaultHighPercentile = 99.0
)

// Playback defaults and limits for the interactive viewer.
const (
	// DefaultPlaybackFPS is the frame rate used by playback until changed.
	DefaultPlaybackFPS = 30

	// MinPlaybackFPS is the slowest selectable playback rate.
	MinPlaybackFPS = 1

	// MaxPlaybackFPS is the fastest selectable playback rate.
	MaxPlaybackFPS = 120
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days before a rotated file is deleted.
	LogMaxAgeDays = 30

	// LogCompress controls gzip compression of rotated files.
	LogCompress = true
)

// Schema version constants for persisted artifacts.
const (
	// RunManifestSchemaVersion is the current version of the run.json schema.
	// This enables forward-compatible schema migrations.
	RunManifestSchemaVersion = "1.0"
)
