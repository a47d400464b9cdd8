// Package manifest parses pip-style dependency manifests (requirements.txt).
//
// The grammar covered here is the subset that appears in acquisition-pipeline
// manifests: one specifier per line, where a specifier is a distribution name,
// an optional extras marker ("napari[all]"), optional version constraints
// ("numpy>=1.24,<2"), and an optional environment marker after ";". Hash
// options and editable/url requirements are out of scope.
package manifest

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/vcnlab/stackscope/internal/errors"
)

// Constraint is a single version constraint, e.g. ">=1.24".
type Constraint struct {
	// Op is the comparison operator (==, !=, <=, >=, ~=, <, >).
	Op string `json:"op"`

	// Version is the version literal the operator compares against.
	Version string `json:"version"`
}

// String returns the constraint in specifier form, e.g. ">=1.24".
func (c Constraint) String() string {
	return c.Op + c.Version
}

// Requirement is one parsed manifest line.
type Requirement struct {
	// Name is the distribution name exactly as written.
	Name string `json:"name"`

	// Extras lists the names inside an extras marker, in file order.
	// Empty when no marker is present.
	Extras []string `json:"extras,omitempty"`

	// Constraints lists version constraints in file order.
	Constraints []Constraint `json:"constraints,omitempty"`

	// Marker is the raw environment marker after ";", preserved verbatim
	// and never evaluated.
	Marker string `json:"marker,omitempty"`

	// Raw is the specifier text after comment stripping.
	Raw string `json:"raw"`

	// Line is the 1-based line number in the source file.
	Line int `json:"line"`
}

// NormalizedName returns the PEP 503 normalized distribution name:
// lowercase, with runs of "-", "_" and "." collapsed to a single "-".
func (r Requirement) NormalizedName() string {
	return normalizeRuns.ReplaceAllString(strings.ToLower(r.Name), "-")
}

// String reconstructs the specifier from its parsed parts.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteString("]")
	}
	for i, c := range r.Constraints {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(c.String())
	}
	if r.Marker != "" {
		b.WriteString("; ")
		b.WriteString(r.Marker)
	}
	return b.String()
}

// Manifest is a parsed dependency manifest.
type Manifest struct {
	// Path is the source file path, empty when parsed from a reader.
	Path string `json:"path,omitempty"`

	// Requirements lists the valid requirements in file order.
	Requirements []Requirement `json:"requirements"`
}

// Names returns the normalized names of all requirements in file order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Requirements))
	for _, r := range m.Requirements {
		names = append(names, r.NormalizedName())
	}
	return names
}

// LineError describes one invalid manifest line.
type LineError struct {
	// Line is the 1-based line number.
	Line int

	// Text is the offending specifier text after comment stripping.
	Text string

	// Reason describes what made the specifier invalid.
	Reason string
}

// Error implements the error interface. The error chain includes
// errors.ErrBadManifest so callers can categorize with errors.Is.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Unwrap returns the sentinel so errors.Is(err, errors.ErrBadManifest) holds.
func (e *LineError) Unwrap() error {
	return errors.ErrBadManifest
}

var (
	// namePattern matches a PEP 503 distribution name at the start of a specifier.
	// Names begin and end with a letter or digit; interior runs may include
	// ".", "-" and "_".
	namePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)

	// extraPattern matches a single extras name.
	extraPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)

	// versionPattern matches a version literal, including wildcard forms like "1.*".
	versionPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._*+!-]*)$`)

	// normalizeRuns collapses separator runs during name normalization.
	normalizeRuns = regexp.MustCompile(`[-_.]+`)
)

// constraintOps lists recognized operators, longest first so that ">=" is
// matched before ">".
var constraintOps = []string{"===", "==", "!=", "<=", ">=", "~=", "<", ">"}

// ParseFile reads and parses the manifest at path.
// Valid lines are always returned; invalid lines are reported through the
// joined error, each entry a *LineError wrapping errors.ErrBadManifest.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied manifest path is the point
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open manifest %s", path)
	}
	defer func() { _ = f.Close() }()

	m, parseErr := Parse(f)
	m.Path = path
	return m, parseErr
}

// Parse parses a manifest from r.
// Valid lines are collected into the returned manifest even when other lines
// fail; the error (if any) is a join of *LineError values.
func Parse(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Manifest{}, errors.Wrap(err, "failed to read manifest")
	}

	m := &Manifest{}
	var lineErrs []error

	for i, line := range strings.Split(string(data), "\n") {
		text := stripComment(line)
		if text == "" {
			continue
		}

		req, reason := parseSpecifier(text)
		if reason != "" {
			lineErrs = append(lineErrs, &LineError{Line: i + 1, Text: text, Reason: reason})
			continue
		}
		req.Line = i + 1
		m.Requirements = append(m.Requirements, req)
	}

	return m, stderrors.Join(lineErrs...)
}

// stripComment removes a trailing "#" comment and surrounding whitespace.
// A "#" that starts the specifier makes the whole line a comment.
func stripComment(line string) string {
	line = strings.TrimRight(line, "\r")
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// parseSpecifier parses one specifier. On failure it returns a non-empty
// reason describing the first problem found.
func parseSpecifier(text string) (Requirement, string) {
	req := Requirement{Raw: text}
	rest := text

	// Environment marker: everything after the first ";" is preserved raw.
	if idx := strings.Index(rest, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(rest[idx+1:])
		rest = strings.TrimSpace(rest[:idx])
		if req.Marker == "" {
			return req, "empty environment marker"
		}
	}

	name := namePattern.FindString(rest)
	if name == "" {
		return req, "missing distribution name"
	}
	req.Name = name
	rest = strings.TrimSpace(rest[len(name):])

	// Extras marker: [a,b]
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return req, "unterminated extras marker"
		}
		extras, reason := parseExtras(rest[1:end])
		if reason != "" {
			return req, reason
		}
		req.Extras = extras
		rest = strings.TrimSpace(rest[end+1:])
	}

	if rest == "" {
		return req, ""
	}

	constraints, reason := parseConstraints(rest)
	if reason != "" {
		return req, reason
	}
	req.Constraints = constraints
	return req, ""
}

// parseExtras parses the comma-separated body of an extras marker.
func parseExtras(body string) ([]string, string) {
	if strings.TrimSpace(body) == "" {
		return nil, "empty extras marker"
	}
	parts := strings.Split(body, ",")
	extras := make([]string, 0, len(parts))
	for _, part := range parts {
		extra := strings.TrimSpace(part)
		if !extraPattern.MatchString(extra) {
			return nil, fmt.Sprintf("invalid extras name %q", extra)
		}
		extras = append(extras, extra)
	}
	return extras, ""
}

// parseConstraints parses a comma-separated constraint list like ">=1.24,<2".
func parseConstraints(rest string) ([]Constraint, string) {
	parts := strings.Split(rest, ",")
	constraints := make([]Constraint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		c, ok := parseConstraint(part)
		if !ok {
			return nil, fmt.Sprintf("invalid version constraint %q", part)
		}
		constraints = append(constraints, c)
	}
	return constraints, ""
}

// parseConstraint parses a single "op version" pair.
func parseConstraint(part string) (Constraint, bool) {
	for _, op := range constraintOps {
		if strings.HasPrefix(part, op) {
			version := strings.TrimSpace(strings.TrimPrefix(part, op))
			if !versionPattern.MatchString(version) {
				return Constraint{}, false
			}
			return Constraint{Op: op, Version: version}, true
		}
	}
	return Constraint{}, false
}
