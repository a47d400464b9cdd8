// Package doctor verifies the environment prerequisites for the interactive
// viewer and the preview pipeline: a usable terminal, a sane TERM, color
// capability, and a writable preview directory.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/colorprofile"
	"golang.org/x/term"

	"github.com/vcnlab/stackscope/internal/errors"
)

// Status classifies a check outcome.
type Status string

// Check statuses.
const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is the outcome of one environment check.
type Result struct {
	// Name identifies the check.
	Name string `json:"name"`

	// Status is pass, warn or fail.
	Status Status `json:"status"`

	// Detail explains the outcome.
	Detail string `json:"detail"`

	// Required marks checks whose failure fails the whole run.
	Required bool `json:"required"`
}

// Options configures a doctor run.
type Options struct {
	// PreviewDir is the configured preview directory to probe for
	// writability.
	PreviewDir string

	// Stdout is the fd probed for TTY-ness. Zero uses os.Stdout.
	Stdout *os.File
}

// Run executes all environment checks and returns their results.
// The error is ErrDoctorFailed when any required check fails.
func Run(opts Options) ([]Result, error) {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	results := []Result{
		checkTTY(stdout),
		checkTerm(),
		checkColor(stdout),
		checkPreviewDir(opts.PreviewDir),
	}

	for _, r := range results {
		if r.Required && r.Status == StatusFail {
			return results, errors.ErrDoctorFailed
		}
	}
	return results, nil
}

// checkTTY verifies stdout is a terminal. The viewer cannot run without one.
func checkTTY(stdout *os.File) Result {
	r := Result{Name: "terminal", Required: true}
	if term.IsTerminal(int(stdout.Fd())) {
		r.Status = StatusPass
		r.Detail = "stdout is a terminal"
		return r
	}
	r.Status = StatusFail
	r.Detail = "stdout is not a terminal; the view command needs one"
	return r
}

// checkTerm verifies TERM is set to something usable.
func checkTerm() Result {
	r := Result{Name: "TERM", Required: true}
	switch t := os.Getenv("TERM"); t {
	case "":
		r.Status = StatusFail
		r.Detail = "TERM is not set"
	case "dumb":
		r.Status = StatusFail
		r.Detail = "TERM=dumb cannot drive the viewer"
	default:
		r.Status = StatusPass
		r.Detail = "TERM=" + t
	}
	return r
}

// checkColor reports the detected color profile. Poor profiles degrade the
// viewer to the ASCII ramp, so this only warns.
func checkColor(stdout *os.File) Result {
	r := Result{Name: "color"}
	p := colorprofile.Detect(stdout, os.Environ())
	switch p {
	case colorprofile.TrueColor, colorprofile.ANSI256:
		r.Status = StatusPass
		r.Detail = fmt.Sprintf("%s color support", p)
	case colorprofile.ANSI:
		r.Status = StatusWarn
		r.Detail = "16-color terminal; grayscale rendering will band"
	default:
		r.Status = StatusWarn
		r.Detail = "no color support; the viewer falls back to the ASCII ramp"
	}
	return r
}

// checkPreviewDir probes that the preview directory can be created and
// written to.
func checkPreviewDir(dir string) Result {
	r := Result{Name: "preview directory", Required: true}
	if dir == "" {
		r.Status = StatusFail
		r.Detail = "no preview directory configured"
		return r
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		r.Status = StatusFail
		r.Detail = fmt.Sprintf("cannot create %s: %v", dir, err)
		return r
	}

	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		r.Status = StatusFail
		r.Detail = fmt.Sprintf("cannot write to %s: %v", dir, err)
		return r
	}
	_ = os.Remove(probe)

	r.Status = StatusPass
	r.Detail = dir + " is writable"
	return r
}
