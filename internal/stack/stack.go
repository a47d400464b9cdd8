// Package stack models a TIFF stack loaded into RAM: a sequence of equally
// sized grayscale frames plus the acquisition metadata needed to interpret
// them (what axis 0 means, and how large a pixel is physically).
package stack

import (
	"context"
	"fmt"

	"github.com/vcnlab/stackscope/internal/ctxutil"
	"github.com/vcnlab/stackscope/internal/errors"
	"github.com/vcnlab/stackscope/internal/tiff"
)

// AxisKind describes what axis 0 of a stack represents.
type AxisKind int

// Axis interpretations, derived from the ImageJ description block.
const (
	// AxisUnknown means the metadata did not say; consumers treat it as time.
	AxisUnknown AxisKind = iota

	// AxisTime means axis 0 is time (the stack is a movie).
	AxisTime

	// AxisDepth means axis 0 is depth (the stack is a z-stack).
	AxisDepth
)

// String returns the lowercase axis name.
func (k AxisKind) String() string {
	switch k {
	case AxisTime:
		return "time"
	case AxisDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// Meta holds per-stack acquisition metadata.
type Meta struct {
	// Description is the raw ImageDescription of the first page.
	Description string

	// ImageJ holds the parsed key=value pairs of an ImageJ-style description.
	// Empty (not nil) when the description carries none.
	ImageJ map[string]string

	// PixelWidth and PixelHeight are the physical size of one pixel in the
	// resolution unit (the reciprocal of pixels-per-unit). 1.0 when the file
	// carries no resolution.
	PixelWidth  float64
	PixelHeight float64

	// XResolution and YResolution are the raw pixels-per-unit rationals,
	// preserved so exports can carry the same calibration. Zero when absent.
	XResolution tiff.Rational
	YResolution tiff.Rational

	// ResolutionUnit names the unit of the pixel sizes: "inch", "cm" or "none".
	ResolutionUnit string

	// ResolutionUnitTag is the raw ResolutionUnit tag value, preserved with
	// the resolution rationals so exports carry the same unit. Zero when the
	// file carries no resolution.
	ResolutionUnitTag uint16
}

// Stack is a fully decoded TIFF stack.
type Stack struct {
	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int

	// Bits is the source sample depth (8 or 16). Samples are stored widened
	// to uint16 without rescaling.
	Bits int

	// Meta is the interpreted acquisition metadata.
	Meta Meta

	frames [][]uint16
}

// Load opens and fully decodes the TIFF stack at path.
func Load(ctx context.Context, path string) (*Stack, error) {
	f, err := tiff.Open(path)
	if err != nil {
		return nil, err
	}
	return FromTIFF(ctx, f)
}

// FromTIFF decodes every page of f into a stack.
// All pages must share the same geometry and sample depth. The context is
// checked between pages so loading a large stack can be interrupted.
func FromTIFF(ctx context.Context, f *tiff.File) (*Stack, error) {
	if len(f.Pages) == 0 {
		return nil, errors.ErrEmptyStack
	}

	first := f.Pages[0]
	s := &Stack{
		Width:  first.Width,
		Height: first.Height,
		Bits:   first.BitsPerSample,
		frames: make([][]uint16, 0, len(f.Pages)),
		Meta:   metaFromPage(first),
	}

	for _, page := range f.Pages {
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, errors.Wrap(err, "stack load interrupted")
		}
		if page.Width != s.Width || page.Height != s.Height || page.BitsPerSample != s.Bits {
			return nil, errors.Wrapf(errors.ErrUnsupportedTIFF,
				"page %d geometry %dx%dx%d differs from first page %dx%dx%d",
				page.Index, page.Width, page.Height, page.BitsPerSample, s.Width, s.Height, s.Bits)
		}
		pix, err := page.DecodePixels()
		if err != nil {
			return nil, err
		}
		s.frames = append(s.frames, pix)
	}

	return s, nil
}

// metaFromPage interprets the first page's tags.
func metaFromPage(p *tiff.Page) Meta {
	m := Meta{
		Description: p.Description,
		ImageJ:      ParseImageJDescription(p.Description),
		PixelWidth:  1.0,
		PixelHeight: 1.0,
		XResolution: p.XResolution,
		YResolution: p.YResolution,
	}

	// Resolution tags are pixels per unit; physical pixel size is the reciprocal.
	if v := p.XResolution.Float(); v > 0 {
		m.PixelWidth = 1.0 / v
	}
	if v := p.YResolution.Float(); v > 0 {
		m.PixelHeight = 1.0 / v
	}

	// The ResolutionUnit tag defaults to inch even in files that carry no
	// resolution at all; only an actual X/YResolution tag makes it meaningful.
	hasResolution := p.XResolution.Den != 0 || p.YResolution.Den != 0
	switch {
	case !hasResolution:
		m.ResolutionUnit = "none"
	case p.ResolutionUnit == tiff.ResolutionUnitInch:
		m.ResolutionUnit = "inch"
	case p.ResolutionUnit == tiff.ResolutionUnitCentimeter:
		m.ResolutionUnit = "cm"
	default:
		m.ResolutionUnit = "none"
	}
	if hasResolution {
		m.ResolutionUnitTag = p.ResolutionUnit
	}
	return m
}

// Frames returns the number of frames.
func (s *Stack) Frames() int {
	return len(s.frames)
}

// Frame returns the samples of frame i in row-major order.
// The returned slice aliases the stack's storage; callers must not modify it.
func (s *Stack) Frame(i int) ([]uint16, error) {
	if i < 0 || i >= len(s.frames) {
		return nil, errors.Wrapf(errors.ErrFrameOutOfRange, "frame %d of %d", i, len(s.frames))
	}
	return s.frames[i], nil
}

// MidFrame returns the index of the middle frame, the frame summaries preview.
func (s *Stack) MidFrame() int {
	return len(s.frames) / 2
}

// Axis reports what axis 0 represents, from the ImageJ description:
// a "frames" key marks a movie, a "slices" key marks a z-stack, anything
// else is unknown and treated as time downstream.
func (s *Stack) Axis() AxisKind {
	if _, ok := s.Meta.ImageJ["frames"]; ok {
		return AxisTime
	}
	if _, ok := s.Meta.ImageJ["slices"]; ok {
		return AxisDepth
	}
	return AxisUnknown
}

// Shape renders the stack shape numpy-style, axis 0 first.
func (s *Stack) Shape() string {
	return fmt.Sprintf("(%d, %d, %d)", len(s.frames), s.Height, s.Width)
}

// MaxSampleValue returns the largest representable sample for the source depth.
func (s *Stack) MaxSampleValue() uint16 {
	if s.Bits == 8 {
		return 255
	}
	return 65535
}

// MinMax scans the whole stack for its intensity range.
// Returns (0, 0) for a stack with no frames.
func (s *Stack) MinMax() (uint16, uint16) {
	if len(s.frames) == 0 {
		return 0, 0
	}
	lo, hi := s.frames[0][0], s.frames[0][0]
	for _, frame := range s.frames {
		for _, v := range frame {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// Mean returns the mean sample value over the whole stack.
// Returns 0 for a stack with no frames.
func (s *Stack) Mean() float64 {
	total := 0
	var sum float64
	for _, frame := range s.frames {
		for _, v := range frame {
			sum += float64(v)
		}
		total += len(frame)
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}

// SampleEvery returns every stride-th sample across the whole stack, in scan
// order. The viewer uses this to estimate global contrast limits without
// sorting hundreds of millions of samples; stride 1 returns a full copy.
func (s *Stack) SampleEvery(stride int) []uint16 {
	if stride < 1 {
		stride = 1
	}
	total := 0
	for _, frame := range s.frames {
		total += len(frame)
	}
	out := make([]uint16, 0, total/stride+1)
	idx := 0
	for _, frame := range s.frames {
		for _, v := range frame {
			if idx%stride == 0 {
				out = append(out, v)
			}
			idx++
		}
	}
	return out
}
