package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/constants"
	"github.com/vcnlab/stackscope/internal/stack"
	"github.com/vcnlab/stackscope/internal/testutil"
	"github.com/vcnlab/stackscope/internal/tiff"
)

// newTestStack builds a small three-frame movie for viewer tests.
func newTestStack(t *testing.T) *stack.Stack {
	t.Helper()

	pages := make([]testutil.PageSpec, 0, 3)
	for i := 0; i < 3; i++ {
		page := testutil.GradientPage(16, 12, 16)
		page.Description = "ImageJ=1.54f\nframes=3\n"
		pages = append(pages, page)
	}

	f, err := tiff.Decode(testutil.BuildTIFF(t, pages...))
	require.NoError(t, err)

	s, err := stack.FromTIFF(context.Background(), f)
	require.NoError(t, err)
	return s
}

// keyRunes builds a rune key message.
func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewViewer_Defaults(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{Source: "movie.tif"})

	assert.Equal(t, 1, v.Frame(), "viewer should open on the middle frame")
	assert.Equal(t, constants.DefaultPlaybackFPS, v.FPS())
	assert.False(t, v.Playing())
	assert.False(t, v.PerFrameContrast())

	lo, hi := v.GlobalLimits()
	assert.Less(t, lo, hi, "gradient stack must yield a non-degenerate window")
}

func TestViewer_FrameNavigation(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{})

	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, v.Frame())

	// Stepping past the last frame stays put
	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, v.Frame())

	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, v.Frame())

	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, v.Frame())

	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, v.Frame())

	_, _ = v.Update(keyRunes('['))
	assert.Equal(t, 0, v.Frame(), "jump back clamps at the first frame")

	_, _ = v.Update(keyRunes(']'))
	assert.Equal(t, 2, v.Frame(), "jump forward clamps at the last frame")
}

func TestViewer_Playback(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{Loop: true})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, v.Playing())
	assert.NotNil(t, cmd, "starting playback must schedule a tick")

	v.frame = 2
	_, _ = v.Update(tickMsg{})
	assert.Equal(t, 0, v.Frame(), "looping playback wraps to the first frame")
	assert.True(t, v.Playing())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, v.Playing())
	assert.Nil(t, cmd)

	// Ticks after pausing are ignored
	_, _ = v.Update(tickMsg{})
	assert.Equal(t, 0, v.Frame())
}

func TestViewer_PlaybackStopsWithoutLoop(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{Loop: false})
	v.playing = true
	v.frame = 2

	_, _ = v.Update(tickMsg{})
	assert.False(t, v.Playing(), "playback pauses at the last frame when not looping")
	assert.Equal(t, 2, v.Frame())
}

func TestViewer_SpeedAdjustment(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{FPS: constants.MaxPlaybackFPS - 1})

	_, _ = v.Update(keyRunes('+'))
	assert.Equal(t, constants.MaxPlaybackFPS, v.FPS(), "fps is capped at the maximum")

	v.fps = constants.MinPlaybackFPS + 1
	_, _ = v.Update(keyRunes('-'))
	assert.Equal(t, constants.MinPlaybackFPS, v.FPS(), "fps is floored at the minimum")
}

func TestViewer_ContrastToggleAndReset(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{})

	_, _ = v.Update(keyRunes('c'))
	assert.True(t, v.PerFrameContrast())

	v.frame = 2
	v.fps = 5
	_, _ = v.Update(keyRunes('r'))
	assert.Equal(t, 1, v.Frame(), "reset returns to the middle frame")
	assert.Equal(t, constants.DefaultPlaybackFPS, v.FPS())
	assert.False(t, v.PerFrameContrast())
}

func TestViewer_Quit(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{})

	_, cmd := v.Update(keyRunes('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, v.View(), "quitting viewer renders nothing")
}

func TestViewer_View(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{Source: "/data/movie.tif"})

	_, _ = v.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	out := v.View()
	assert.Contains(t, out, "movie.tif")
	assert.Contains(t, out, "frame 2/3")
	assert.Contains(t, out, "time axis")
	assert.Contains(t, out, "16-bit")
	assert.Contains(t, out, "paused")
}

func TestViewer_ViewTooSmall(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{})

	_, _ = v.Update(tea.WindowSizeMsg{Width: 10, Height: 5})

	assert.Contains(t, v.View(), "too small")
}

func TestViewer_HelpToggle(t *testing.T) {
	t.Parallel()

	v := NewViewer(newTestStack(t), ViewerOptions{})
	_, _ = v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	short := v.View()
	_, _ = v.Update(keyRunes('?'))
	full := v.View()

	assert.Greater(t, strings.Count(full, "\n"), strings.Count(short, "\n"),
		"full help should occupy more lines")
}
