package stack_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/errors"
	"github.com/vcnlab/stackscope/internal/stack"
	"github.com/vcnlab/stackscope/internal/testutil"
)

func moviePages(t *testing.T, frames int) []testutil.PageSpec {
	t.Helper()

	pages := make([]testutil.PageSpec, 0, frames)
	for i := 0; i < frames; i++ {
		page := testutil.UniformPage(8, 6, 16, uint16(100*(i+1)))
		if i == 0 {
			page.Description = "ImageJ=1.54f\nimages=5\nframes=5\nunit=micron\n"
			// 20000 px/cm -> 0.5 micron pixels
			page.XResNum, page.XResDen = 20000, 1
			page.YResNum, page.YResDen = 20000, 1
		}
		pages = append(pages, page)
	}
	return pages
}

func TestLoad_Movie(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "movie.tif"), moviePages(t, 5)...)

	s, err := stack.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 8, s.Width)
	assert.Equal(t, 6, s.Height)
	assert.Equal(t, 16, s.Bits)
	assert.Equal(t, 5, s.Frames())
	assert.Equal(t, "(5, 6, 8)", s.Shape())
	assert.Equal(t, stack.AxisTime, s.Axis())
	assert.Equal(t, 2, s.MidFrame())

	lo, hi := s.MinMax()
	assert.Equal(t, uint16(100), lo)
	assert.Equal(t, uint16(500), hi)

	assert.InDelta(t, 1.0/20000.0, s.Meta.PixelWidth, 1e-12)
	assert.Equal(t, "cm", s.Meta.ResolutionUnit)
	assert.Equal(t, "micron", s.Meta.ImageJ["unit"])
}

func TestLoad_ZStackAxis(t *testing.T) {
	t.Parallel()

	page := testutil.UniformPage(4, 4, 8, 10)
	page.Description = "ImageJ=1.54f\nslices=1\n"
	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "z.tif"), page)

	s, err := stack.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, stack.AxisDepth, s.Axis())
}

func TestLoad_UnknownAxis(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "plain.tif"), testutil.UniformPage(4, 4, 8, 10))

	s, err := stack.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, stack.AxisUnknown, s.Axis())
	assert.Equal(t, "unknown", s.Axis().String())
	// No resolution tags: pixel size defaults to 1.
	assert.Equal(t, 1.0, s.Meta.PixelWidth)
	assert.Equal(t, "none", s.Meta.ResolutionUnit)
}

func TestLoad_MismatchedPages(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "bad.tif"),
		testutil.UniformPage(4, 4, 8, 1),
		testutil.UniformPage(8, 8, 8, 1),
	)

	_, err := stack.Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedTIFF)
	assert.Contains(t, err.Error(), "geometry")
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "movie.tif"), moviePages(t, 5)...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stack.Load(ctx, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrame_Bounds(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "movie.tif"), moviePages(t, 5)...)
	s, err := stack.Load(context.Background(), path)
	require.NoError(t, err)

	frame, err := s.Frame(4)
	require.NoError(t, err)
	assert.Equal(t, uint16(500), frame[0])

	_, err = s.Frame(5)
	assert.ErrorIs(t, err, errors.ErrFrameOutOfRange)
	_, err = s.Frame(-1)
	assert.ErrorIs(t, err, errors.ErrFrameOutOfRange)
}

func TestMean(t *testing.T) {
	t.Parallel()

	// Frames are uniform 100 and 200, so the stack mean is exactly 150.
	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "movie.tif"), moviePages(t, 2)...)
	s, err := stack.Load(context.Background(), path)
	require.NoError(t, err)

	assert.InDelta(t, 150.0, s.Mean(), 0.0001)
}

func TestSampleEvery(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTIFF(t, filepath.Join(t.TempDir(), "movie.tif"), moviePages(t, 2)...)
	s, err := stack.Load(context.Background(), path)
	require.NoError(t, err)

	all := s.SampleEvery(1)
	assert.Len(t, all, 2*8*6)

	strided := s.SampleEvery(7)
	assert.Len(t, strided, (2*8*6+6)/7)
}

func TestParseImageJDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "typical block",
			in:   "ImageJ=1.54f\nimages=333\nframes=333\nfinterval=0.0333\n",
			want: map[string]string{"imagej": "1.54f", "images": "333", "frames": "333", "finterval": "0.0333"},
		},
		{
			name: "crlf and whitespace",
			in:   "ImageJ=1.54f\r\n  unit = micron \r\n",
			want: map[string]string{"imagej": "1.54f", "unit": "micron"},
		},
		{
			name: "non key-value lines skipped",
			in:   "just a comment\nframes=10\n\n",
			want: map[string]string{"frames": "10"},
		},
		{
			name: "empty description",
			in:   "",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stack.ParseImageJDescription(tt.in))
		})
	}
}
