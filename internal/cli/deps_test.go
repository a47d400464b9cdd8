package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/manifest"
)

func writeManifestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execRoot runs the root command against a scratch environment and returns
// what it wrote to stdout. Stderr stays separate so JSON output is not
// polluted by cobra's trailing error line.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STACKSCOPE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestDepsCmd_Text(t *testing.T) {
	path := writeManifestFile(t, `
# imaging deps
numpy>=1.24
scikit_image[data]==0.22.0  # pinned
tifffile; python_version >= "3.9"
`)

	output, err := execRoot(t, "deps", path)
	require.NoError(t, err)

	assert.Contains(t, output, "numpy")
	assert.Contains(t, output, "scikit-image")
	assert.Contains(t, output, "data")
	assert.Contains(t, output, "==0.22.0")
	assert.Contains(t, output, `python_version >= "3.9"`)
	assert.Contains(t, output, "3 requirements")
}

func TestDepsCmd_JSON(t *testing.T) {
	path := writeManifestFile(t, "numpy>=1.24,<2\n")

	output, err := execRoot(t, "-o", "json", "deps", path)
	require.NoError(t, err)

	var m manifest.Manifest
	require.NoError(t, json.Unmarshal([]byte(output), &m))
	require.Len(t, m.Requirements, 1)
	assert.Equal(t, "numpy", m.Requirements[0].Name)
	require.Len(t, m.Requirements[0].Constraints, 2)
	assert.Equal(t, ">=", m.Requirements[0].Constraints[0].Op)
}

func TestDepsCmd_BadLine(t *testing.T) {
	path := writeManifestFile(t, "numpy\n???not a requirement\n")

	_, err := execRoot(t, "deps", path)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestDepsCmd_MissingFile(t *testing.T) {
	_, err := execRoot(t, "deps", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
