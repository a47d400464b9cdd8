// Package render implements the display transforms between raw stack samples
// and something a human can look at: percentile contrast stretching, time
// projections, PNG export, and a terminal rasterizer for the viewer.
package render

import "sort"

// Percentile returns the p-th percentile (0..100) of samples using linear
// interpolation between closest ranks, matching the default behavior of the
// scientific tooling this replaces. Returns 0 for an empty slice.
func Percentile(samples []uint16, p float64) float64 {
	lo, _ := percentiles(samples, p, p)
	return lo
}

// PercentilePair returns the low and high percentiles in one sort.
// This is the common case: a contrast window needs both bounds.
func PercentilePair(samples []uint16, low, high float64) (float64, float64) {
	return percentiles(samples, low, high)
}

func percentiles(samples []uint16, low, high float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	sorted := make([]uint16, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return interpolate(sorted, low), interpolate(sorted, high)
}

// interpolate reads one percentile off a sorted slice.
func interpolate(sorted []uint16, p float64) float64 {
	if p <= 0 {
		return float64(sorted[0])
	}
	if p >= 100 {
		return float64(sorted[len(sorted)-1])
	}
	rank := p / 100 * float64(len(sorted)-1)
	idx := int(rank)
	frac := rank - float64(idx)
	if idx+1 >= len(sorted) {
		return float64(sorted[idx])
	}
	return float64(sorted[idx])*(1-frac) + float64(sorted[idx+1])*frac
}
