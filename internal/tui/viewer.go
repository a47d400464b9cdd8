package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vcnlab/stackscope/internal/constants"
	"github.com/vcnlab/stackscope/internal/render"
	"github.com/vcnlab/stackscope/internal/stack"
)

// contrastSampleBudget bounds how many samples feed the global stretch window.
const contrastSampleBudget = 1 << 18

// chromeRows is the number of terminal rows reserved around the image:
// header, timeline, status line and one spacer.
const chromeRows = 4

// ViewerOptions configures a viewer session.
type ViewerOptions struct {
	// Source is the path of the loaded file, shown in the header.
	Source string

	// FPS is the initial playback rate. Zero uses the default.
	FPS int

	// Loop restarts playback after the last frame.
	Loop bool

	// PerFrame starts in per-frame contrast mode.
	PerFrame bool

	// LowPercentile and HighPercentile define the contrast window.
	// Both zero uses the defaults.
	LowPercentile  float64
	HighPercentile float64

	// Color enables half-block color rendering; off uses the ASCII ramp.
	Color bool
}

// tickMsg advances playback.
type tickMsg time.Time

// Viewer is the Bubble Tea model for the interactive stack viewer.
type Viewer struct {
	stack *stack.Stack
	opts  ViewerOptions

	frame    int
	playing  bool
	fps      int
	perFrame bool

	// loLimit and hiLimit are the global stretch limits, computed once from
	// a sample of the whole stack.
	loLimit float64
	hiLimit float64

	width  int
	height int

	keys     viewerKeyMap
	help     help.Model
	timeline progress.Model

	quitting bool
}

// NewViewer creates a viewer model for the given stack.
func NewViewer(s *stack.Stack, opts ViewerOptions) *Viewer {
	if opts.FPS <= 0 {
		opts.FPS = constants.DefaultPlaybackFPS
	}
	if opts.LowPercentile == 0 && opts.HighPercentile == 0 {
		opts.LowPercentile = constants.DefaultLowPercentile
		opts.HighPercentile = constants.DefaultHighPercentile
	}

	v := &Viewer{
		stack:    s,
		opts:     opts,
		frame:    s.MidFrame(),
		fps:      opts.FPS,
		perFrame: opts.PerFrame,
		keys:     newViewerKeyMap(),
		help:     help.New(),
		timeline: progress.New(progress.WithSolidFill("#00D7FF"), progress.WithoutPercentage()),
	}
	v.computeGlobalLimits()
	return v
}

// computeGlobalLimits derives the shared stretch window from a stack sample.
func (v *Viewer) computeGlobalLimits() {
	total := v.stack.Frames() * v.stack.Width * v.stack.Height
	stride := total/contrastSampleBudget + 1
	samples := v.stack.SampleEvery(stride)
	v.loLimit, v.hiLimit = render.PercentilePair(samples, v.opts.LowPercentile, v.opts.HighPercentile)
}

// Init is the Bubble Tea initialization function.
func (v *Viewer) Init() tea.Cmd {
	return nil
}

// tickCmd schedules the next playback step at the current rate.
func (v *Viewer) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(v.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.help.Width = msg.Width
		v.timeline.Width = msg.Width - 2
		return v, nil

	case tickMsg:
		if !v.playing {
			return v, nil
		}
		v.advance()
		if !v.playing {
			return v, nil
		}
		return v, v.tickCmd()
	}

	return v, nil
}

// advance steps playback one frame, honoring the loop setting.
func (v *Viewer) advance() {
	if v.frame+1 < v.stack.Frames() {
		v.frame++
		return
	}
	if v.opts.Loop {
		v.frame = 0
		return
	}
	v.playing = false
}

// handleKey handles keyboard input.
func (v *Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := v.keys
	last := v.stack.Frames() - 1

	switch {
	case key.Matches(msg, keys.Quit):
		v.quitting = true
		return v, tea.Quit

	case key.Matches(msg, keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		return v, nil

	case key.Matches(msg, keys.Play):
		v.playing = !v.playing
		if v.playing {
			return v, v.tickCmd()
		}
		return v, nil

	case key.Matches(msg, keys.Prev):
		v.playing = false
		if v.frame > 0 {
			v.frame--
		}
		return v, nil

	case key.Matches(msg, keys.Next):
		v.playing = false
		if v.frame < last {
			v.frame++
		}
		return v, nil

	case key.Matches(msg, keys.JumpBack):
		v.playing = false
		v.frame = max(0, v.frame-10)
		return v, nil

	case key.Matches(msg, keys.JumpFwd):
		v.playing = false
		v.frame = min(last, v.frame+10)
		return v, nil

	case key.Matches(msg, keys.First):
		v.playing = false
		v.frame = 0
		return v, nil

	case key.Matches(msg, keys.Last):
		v.playing = false
		v.frame = last
		return v, nil

	case key.Matches(msg, keys.Faster):
		v.fps = min(constants.MaxPlaybackFPS, v.fps+5)
		return v, nil

	case key.Matches(msg, keys.Slower):
		v.fps = max(constants.MinPlaybackFPS, v.fps-5)
		return v, nil

	case key.Matches(msg, keys.Contrast):
		v.perFrame = !v.perFrame
		return v, nil

	case key.Matches(msg, keys.Reset):
		v.frame = v.stack.MidFrame()
		v.fps = constants.DefaultPlaybackFPS
		v.perFrame = v.opts.PerFrame
		v.playing = false
		return v, nil
	}

	return v, nil
}

// View renders the viewer.
func (v *Viewer) View() string {
	if v.quitting {
		return ""
	}
	if v.width == 0 || v.height == 0 {
		return "loading..."
	}

	imageRows := v.height - chromeRows
	if v.width < 16 || imageRows < 4 {
		return NoticeStyle.Render("terminal too small for the viewer; enlarge the window or press q")
	}

	header := v.headerLine()
	image := v.imageLines(imageRows)
	timeline := v.timelineLine()
	status := v.statusLine()

	return header + "\n" + image + "\n" + timeline + "\n" + status
}

// headerLine renders the top metadata line.
func (v *Viewer) headerLine() string {
	name := filepath.Base(v.opts.Source)
	meta := fmt.Sprintf("  frame %d/%d  %s axis  %d-bit",
		v.frame+1, v.stack.Frames(), v.stack.Axis(), v.stack.Bits)
	if v.stack.Meta.ResolutionUnit != "none" && v.stack.Meta.PixelWidth > 0 {
		meta += fmt.Sprintf("  %.4g %s/px", v.stack.Meta.PixelWidth, v.stack.Meta.ResolutionUnit)
	}
	return HeaderStyle.Render(name) + HeaderMetaStyle.Render(meta)
}

// imageLines renders the current frame into the available cell area.
func (v *Viewer) imageLines(rows int) string {
	frame, err := v.stack.Frame(v.frame)
	if err != nil {
		return NoticeStyle.Render(err.Error())
	}

	var d *render.DisplayFrame
	if v.perFrame {
		d = render.Stretch(frame, v.stack.Width, v.stack.Height,
			v.opts.LowPercentile, v.opts.HighPercentile)
	} else {
		d = render.StretchWithLimits(frame, v.stack.Width, v.stack.Height,
			v.loLimit, v.hiLimit)
	}

	lines := render.Rasterize(d, v.width, rows, v.opts.Color)
	raster := lipgloss.JoinVertical(lipgloss.Left, lines...)

	// Pad so the timeline and status stay anchored to the bottom.
	for i := len(lines); i < rows; i++ {
		raster += "\n"
	}
	return raster
}

// timelineLine renders the frame position bar.
func (v *Viewer) timelineLine() string {
	if v.stack.Frames() < 2 {
		return ""
	}
	frac := float64(v.frame) / float64(v.stack.Frames()-1)
	return v.timeline.ViewAs(frac)
}

// statusLine renders playback state and key help.
func (v *Viewer) statusLine() string {
	state := "paused"
	if v.playing {
		state = "playing"
	}
	contrast := "global"
	if v.perFrame {
		contrast = "per-frame"
	}
	left := StatusStyle.Render(fmt.Sprintf("%s  %d fps  %s contrast  ", state, v.fps, contrast))
	return left + v.help.View(v.keys)
}

// Frame returns the currently displayed frame index.
func (v *Viewer) Frame() int {
	return v.frame
}

// Playing reports whether playback is running.
func (v *Viewer) Playing() bool {
	return v.playing
}

// FPS returns the current playback rate.
func (v *Viewer) FPS() int {
	return v.fps
}

// PerFrameContrast reports whether the stretch window is recomputed per frame.
func (v *Viewer) PerFrameContrast() bool {
	return v.perFrame
}

// GlobalLimits returns the shared stretch window.
func (v *Viewer) GlobalLimits() (float64, float64) {
	return v.loLimit, v.hiLimit
}

// RunViewer starts the interactive viewer and blocks until it exits.
func RunViewer(ctx context.Context, s *stack.Stack, opts ViewerOptions) error {
	p := tea.NewProgram(NewViewer(s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
