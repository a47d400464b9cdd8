package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// asciiRamp maps brightness to glyphs for terminals without color support.
const asciiRamp = " .:-=+*#%@"

// FitSize computes the largest pixel grid that fits a cols x rows cell area
// while preserving the frame's aspect ratio. One cell shows two pixel rows
// (Unicode half blocks), so the vertical budget is rows*2. The frame is never
// upscaled past its native size.
func FitSize(srcW, srcH, cols, rows int) (int, int) {
	if srcW <= 0 || srcH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	maxW, maxH := cols, rows*2

	scale := float64(maxW) / float64(srcW)
	if s := float64(maxH) / float64(srcH); s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}

	w := int(float64(srcW)*scale + 0.5)
	h := int(float64(srcH)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Downsample scales a display frame to w x h with a box filter.
// Upscaling is not supported; requests larger than the source return a copy
// at the source size.
func Downsample(d *DisplayFrame, w, h int) *DisplayFrame {
	if w >= d.Width && h >= d.Height {
		out := &DisplayFrame{Width: d.Width, Height: d.Height, Pix: make([]uint8, len(d.Pix))}
		copy(out.Pix, d.Pix)
		return out
	}
	if w > d.Width {
		w = d.Width
	}
	if h > d.Height {
		h = d.Height
	}

	out := &DisplayFrame{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		y0 := y * d.Height / h
		y1 := (y + 1) * d.Height / h
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for x := 0; x < w; x++ {
			x0 := x * d.Width / w
			x1 := (x + 1) * d.Width / w
			if x1 <= x0 {
				x1 = x0 + 1
			}
			var sum, count int
			for sy := y0; sy < y1; sy++ {
				row := sy * d.Width
				for sx := x0; sx < x1; sx++ {
					sum += int(d.Pix[row+sx])
					count++
				}
			}
			out.Pix[y*w+x] = uint8(sum / count)
		}
	}
	return out
}

// Rasterize renders a display frame into terminal lines fitting cols x rows
// cells. With color, each cell is a half block carrying two vertically stacked
// pixels as foreground and background grays; without color, an ASCII ramp is
// used at one pixel pair per cell.
func Rasterize(d *DisplayFrame, cols, rows int, color bool) []string {
	w, h := FitSize(d.Width, d.Height, cols, rows)
	if w == 0 || h == 0 {
		return nil
	}
	small := Downsample(d, w, h)

	cellRows := (small.Height + 1) / 2
	lines := make([]string, 0, cellRows)

	var styles map[uint16]lipgloss.Style
	if color {
		styles = make(map[uint16]lipgloss.Style)
	}

	for r := 0; r < cellRows; r++ {
		var b strings.Builder
		for x := 0; x < small.Width; x++ {
			top := small.Pix[2*r*small.Width+x]
			var bottom uint8
			if 2*r+1 < small.Height {
				bottom = small.Pix[(2*r+1)*small.Width+x]
			}
			if color {
				b.WriteString(halfBlock(styles, top, bottom))
			} else {
				b.WriteByte(asciiCell(top, bottom))
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

// halfBlock renders one colored cell, caching styles by quantized gray pair.
// Quantizing to 32 levels keeps the cache (and the emitted palette) small
// without visible banding on camera noise.
func halfBlock(styles map[uint16]lipgloss.Style, top, bottom uint8) string {
	qt, qb := top&^7, bottom&^7
	key := uint16(qt)<<8 | uint16(qb)
	style, ok := styles[key]
	if !ok {
		style = lipgloss.NewStyle().
			Foreground(grayColor(qt)).
			Background(grayColor(qb))
		styles[key] = style
	}
	return style.Render("▀")
}

// asciiCell maps the average of a pixel pair onto the ASCII ramp.
func asciiCell(top, bottom uint8) byte {
	avg := (int(top) + int(bottom)) / 2
	idx := avg * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

// grayColor builds a lipgloss gray from one display value.
func grayColor(v uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
}
