package render

// MeanProjection collapses a stack along axis 0 by averaging.
// The mean is accumulated in float64 and rounded to the nearest sample value,
// so the result stays in the stack's native range.
// Returns nil for an empty stack.
func MeanProjection(frames [][]uint16) []uint16 {
	if len(frames) == 0 {
		return nil
	}
	n := len(frames[0])
	acc := make([]float64, n)
	for _, frame := range frames {
		for i, v := range frame {
			acc[i] += float64(v)
		}
	}
	out := make([]uint16, n)
	count := float64(len(frames))
	for i, v := range acc {
		out[i] = uint16(v/count + 0.5)
	}
	return out
}

// MaxProjection collapses a stack along axis 0 by taking per-pixel maxima.
// Returns nil for an empty stack.
func MaxProjection(frames [][]uint16) []uint16 {
	if len(frames) == 0 {
		return nil
	}
	out := make([]uint16, len(frames[0]))
	copy(out, frames[0])
	for _, frame := range frames[1:] {
		for i, v := range frame {
			if v > out[i] {
				out[i] = v
			}
		}
	}
	return out
}
