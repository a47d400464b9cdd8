package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/testutil"
)

func writeMovieTIFF(t *testing.T) string {
	t.Helper()

	pages := make([]testutil.PageSpec, 0, 3)
	for i := 0; i < 3; i++ {
		page := testutil.GradientPage(8, 6, 16)
		page.Description = "ImageJ=1.54f\nframes=3\n"
		page.XResNum, page.XResDen = 20000, 1
		page.YResNum, page.YResDen = 20000, 1
		pages = append(pages, page)
	}

	path := filepath.Join(t.TempDir(), "movie.tif")
	return testutil.WriteTIFF(t, path, pages...)
}

func TestInfoCmd_Text(t *testing.T) {
	path := writeMovieTIFF(t)

	output, err := execRoot(t, "info", path)
	require.NoError(t, err)

	assert.Contains(t, output, "movie.tif")
	assert.Contains(t, output, "(3, 6, 8)")
	assert.Contains(t, output, "time axis")
	assert.Contains(t, output, "16-bit grayscale")
	// Tags are opt-in for text output.
	assert.NotContains(t, output, "TIFF tags")
}

func TestInfoCmd_Tags(t *testing.T) {
	path := writeMovieTIFF(t)

	output, err := execRoot(t, "info", path, "--tags")
	require.NoError(t, err)

	assert.Contains(t, output, "TIFF tags (page 0)")
	assert.Contains(t, output, "ImageWidth")
	assert.Contains(t, output, "BitsPerSample")
}

func TestInfoCmd_JSON(t *testing.T) {
	path := writeMovieTIFF(t)

	output, err := execRoot(t, "-o", "json", "info", path)
	require.NoError(t, err)

	var info stackInfo
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, 3, info.Frames)
	assert.Equal(t, 8, info.Width)
	assert.Equal(t, 6, info.Height)
	assert.Equal(t, 16, info.Bits)
	assert.Equal(t, "time", info.Axis)
	assert.Equal(t, 3*8*6, info.TotalSamples)
	assert.NotEmpty(t, info.Tags)
}

func TestInfoCmd_NotATIFF(t *testing.T) {
	path := writeManifestFile(t, "this is not a TIFF")

	_, err := execRoot(t, "info", path)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestInfoCmd_MissingArg(t *testing.T) {
	_, err := execRoot(t, "info")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
