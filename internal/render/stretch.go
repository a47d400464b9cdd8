package render

import "math"

// DisplayFrame is an 8-bit grayscale frame ready for display or PNG export.
type DisplayFrame struct {
	Width  int
	Height int
	// Pix holds Width*Height display values in row-major order.
	Pix []uint8
}

// Stretch maps a raw frame to display values using a percentile contrast
// window computed from that frame. Values at or below the low percentile
// become 0, values at or above the high percentile become 255.
func Stretch(frame []uint16, width, height int, lowPct, highPct float64) *DisplayFrame {
	lo, hi := PercentilePair(frame, lowPct, highPct)
	return StretchWithLimits(frame, width, height, lo, hi)
}

// StretchWithLimits maps a raw frame to display values using explicit
// contrast limits, for when the window is computed once across a whole stack.
// A degenerate window (hi <= lo) produces an all-black frame, matching the
// original display pipeline.
func StretchWithLimits(frame []uint16, width, height int, lo, hi float64) *DisplayFrame {
	d := &DisplayFrame{Width: width, Height: height, Pix: make([]uint8, len(frame))}
	if hi <= lo {
		return d
	}
	span := hi - lo
	for i, v := range frame {
		// Dividing per sample keeps the mapping exact at representable
		// points; a pre-multiplied scale factor drifts the window midpoint.
		x := math.Round((float64(v) - lo) * 255.0 / span)
		switch {
		case x <= 0:
			// leave 0
		case x >= 255:
			d.Pix[i] = 255
		default:
			d.Pix[i] = uint8(x)
		}
	}
	return d
}
