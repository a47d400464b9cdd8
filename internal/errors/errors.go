// Package errors provides centralized error handling for stackscope.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrNotTIFF indicates that a file does not begin with a valid TIFF header.
	ErrNotTIFF = errors.New("not a TIFF file")

	// ErrUnsupportedTIFF indicates a structurally valid TIFF that uses a feature
	// outside the supported baseline (BigTIFF, tiles, palette color, ...).
	ErrUnsupportedTIFF = errors.New("unsupported TIFF feature")

	// ErrUnsupportedCompression indicates a TIFF compression scheme outside the
	// supported set (none, Deflate).
	ErrUnsupportedCompression = errors.New("unsupported TIFF compression")

	// ErrCorruptTIFF indicates truncated or internally inconsistent TIFF data.
	ErrCorruptTIFF = errors.New("corrupt TIFF data")

	// ErrEmptyStack indicates a TIFF with no decodable pages.
	ErrEmptyStack = errors.New("stack contains no frames")

	// ErrFrameOutOfRange indicates a frame index outside the stack bounds.
	ErrFrameOutOfRange = errors.New("frame index out of range")

	// ErrBadManifest indicates a dependency manifest line that is not a valid
	// package specifier.
	ErrBadManifest = errors.New("invalid manifest specifier")

	// ErrPreviewLocked indicates that another summarize run holds the preview
	// directory lock.
	ErrPreviewLocked = errors.New("preview directory is locked by another run")

	// ErrPreviewDeclined indicates the user declined to overwrite an existing
	// preview directory.
	ErrPreviewDeclined = errors.New("preview overwrite declined")

	// ErrNotATerminal indicates that the interactive viewer was started without
	// a usable TTY.
	ErrNotATerminal = errors.New("standard output is not a terminal")

	// ErrDoctorFailed indicates that one or more required environment checks
	// did not pass.
	ErrDoctorFailed = errors.New("environment checks failed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidContrast indicates an invalid contrast configuration value.
	ErrConfigInvalidContrast = errors.New("invalid contrast configuration")

	// ErrConfigInvalidPlayback indicates an invalid playback configuration value.
	ErrConfigInvalidPlayback = errors.New("invalid playback configuration")

	// ErrConfigInvalidPreview indicates an invalid preview configuration value.
	ErrConfigInvalidPreview = errors.New("invalid preview configuration")

	// ErrConfigInvalidViewer indicates an invalid viewer configuration value.
	ErrConfigInvalidViewer = errors.New("invalid viewer configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")
)
