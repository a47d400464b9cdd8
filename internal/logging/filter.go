// Package logging provides logging utilities for zerolog output.
//
// Log files end up attached to bug reports, and nearly every message stackscope
// emits carries a file path. The filtering writer rewrites the user's home
// directory to "~" before entries reach the shared log file, so reports do not
// leak usernames or lab-volume mount points.
package logging

import (
	"io"
	"os"
	"strings"
)

// HomePlaceholder is the replacement string for the user's home directory.
const HomePlaceholder = "~"

// Anonymizer rewrites user-identifying path prefixes in log text.
type Anonymizer struct {
	home string
}

// NewAnonymizer creates an Anonymizer for the current user's home directory.
// If the home directory cannot be determined, the anonymizer is a no-op.
func NewAnonymizer() *Anonymizer {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return NewAnonymizerWithHome(home)
}

// NewAnonymizerWithHome creates an Anonymizer for an explicit home directory.
// This is primarily intended for testing.
func NewAnonymizerWithHome(home string) *Anonymizer {
	// A bare "/" would rewrite every absolute path; treat it as unset.
	if home == "/" {
		home = ""
	}
	return &Anonymizer{home: strings.TrimRight(home, "/")}
}

// Clean returns s with every occurrence of the home directory replaced by "~".
func (a *Anonymizer) Clean(s string) string {
	if a.home == "" {
		return s
	}
	return strings.ReplaceAll(s, a.home, HomePlaceholder)
}

// FilteringWriter wraps an io.Writer and anonymizes each write before passing
// it through. It is designed to sit between zerolog and the rotating log file.
//
// Writes are line-oriented in practice (one JSON log entry per Write call from
// zerolog), so replacing within each chunk is safe; a home path split across
// two Write calls would be missed, but zerolog never splits entries.
type FilteringWriter struct {
	target io.Writer
	anon   *Anonymizer
}

// NewFilteringWriter creates a FilteringWriter for the current user.
func NewFilteringWriter(target io.Writer) *FilteringWriter {
	return &FilteringWriter{target: target, anon: NewAnonymizer()}
}

// NewFilteringWriterWithHome creates a FilteringWriter with an explicit home
// directory. This is primarily intended for testing.
func NewFilteringWriterWithHome(target io.Writer, home string) *FilteringWriter {
	return &FilteringWriter{target: target, anon: NewAnonymizerWithHome(home)}
}

// Write implements io.Writer. The reported length is the length of the input,
// not the filtered output, so callers (zerolog) never see a short write when
// the replacement changes the byte count.
func (w *FilteringWriter) Write(p []byte) (int, error) {
	filtered := w.anon.Clean(string(p))
	if _, err := io.WriteString(w.target, filtered); err != nil {
		return 0, err
	}
	return len(p), nil
}
