package manifest

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/errors"
)

// referenceManifest is the manifest of the acquisition viewer/reader scripts
// this tool descends from. It must parse to exactly five requirements.
const referenceManifest = `numpy
tifffile
matplotlib
scikit-image
napari[all]
`

func TestParse_ReferenceManifest(t *testing.T) {
	t.Parallel()

	m, err := Parse(strings.NewReader(referenceManifest))
	require.NoError(t, err)
	require.Len(t, m.Requirements, 5)

	assert.Equal(t, []string{"numpy", "tifffile", "matplotlib", "scikit-image", "napari"}, m.Names())

	napari := m.Requirements[4]
	assert.Equal(t, "napari", napari.Name)
	assert.Equal(t, []string{"all"}, napari.Extras)
	assert.Empty(t, napari.Constraints)
	assert.Equal(t, 5, napari.Line)
}

func TestParse_CommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	input := `
# image IO
tifffile  # multi-page reader

numpy
`
	m, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, m.Requirements, 2)
	assert.Equal(t, "tifffile", m.Requirements[0].Name)
	assert.Equal(t, 3, m.Requirements[0].Line)
	assert.Equal(t, "numpy", m.Requirements[1].Name)
}

func TestParse_VersionConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []Constraint
	}{
		{
			name: "single exact pin",
			in:   "numpy==1.26.4",
			want: []Constraint{{Op: "==", Version: "1.26.4"}},
		},
		{
			name: "range",
			in:   "numpy>=1.24,<2",
			want: []Constraint{{Op: ">=", Version: "1.24"}, {Op: "<", Version: "2"}},
		},
		{
			name: "compatible release",
			in:   "tifffile~=2024.2",
			want: []Constraint{{Op: "~=", Version: "2024.2"}},
		},
		{
			name: "wildcard exclusion",
			in:   "matplotlib!=3.8.*",
			want: []Constraint{{Op: "!=", Version: "3.8.*"}},
		},
		{
			name: "spaces around operator list",
			in:   "numpy >=1.24, <2",
			want: []Constraint{{Op: ">=", Version: "1.24"}, {Op: "<", Version: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := Parse(strings.NewReader(tt.in))
			require.NoError(t, err)
			require.Len(t, m.Requirements, 1)
			assert.Equal(t, tt.want, m.Requirements[0].Constraints)
		})
	}
}

func TestParse_EnvironmentMarkerPreserved(t *testing.T) {
	t.Parallel()

	m, err := Parse(strings.NewReader(`napari[all]>=0.4; python_version >= "3.9"`))
	require.NoError(t, err)
	require.Len(t, m.Requirements, 1)

	req := m.Requirements[0]
	assert.Equal(t, "napari", req.Name)
	assert.Equal(t, []string{"all"}, req.Extras)
	assert.Equal(t, `python_version >= "3.9"`, req.Marker)
}

func TestParse_InvalidLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		reason string
	}{
		{name: "bare operator", in: "==1.0", reason: "missing distribution name"},
		{name: "unterminated extras", in: "napari[all", reason: "unterminated extras marker"},
		{name: "empty extras", in: "napari[]", reason: "empty extras marker"},
		{name: "garbage after name", in: "numpy @@ 1.0", reason: "invalid version constraint"},
		{name: "empty version", in: "numpy==", reason: "invalid version constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrBadManifest)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestParse_ValidLinesSurviveInvalidOnes(t *testing.T) {
	t.Parallel()

	input := "numpy\n==broken\ntifffile\n"
	m, err := Parse(strings.NewReader(input))

	require.Error(t, err)

	var lineErr *LineError
	require.True(t, stderrors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Line)

	assert.Equal(t, []string{"numpy", "tifffile"}, m.Names())
}

func TestNormalizedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "scikit-image", want: "scikit-image"},
		{in: "Scikit_Image", want: "scikit-image"},
		{in: "zope.interface", want: "zope-interface"},
		{in: "A__B--C..D", want: "a-b-c-d"},
	}

	for _, tt := range tests {
		r := Requirement{Name: tt.in}
		assert.Equal(t, tt.want, r.NormalizedName())
	}
}

func TestRequirement_String(t *testing.T) {
	t.Parallel()

	r := Requirement{
		Name:        "napari",
		Extras:      []string{"all"},
		Constraints: []Constraint{{Op: ">=", Version: "0.4"}},
		Marker:      `python_version >= "3.9"`,
	}
	assert.Equal(t, `napari[all]>=0.4; python_version >= "3.9"`, r.String())
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte(referenceManifest), 0o600))

	m, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Len(t, m.Requirements, 5)
}

func TestParseFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open manifest")
}
