package pixel

import (
	"golang.org/x/exp/constraints"
)

// MaxBrightness is the upper bound of the brightness control
const MaxBrightness = 255

// ApplyBrightness returns a new grid where every sample is raised by
// level/255 of maxValue and clamped to [0, maxValue]. Level is clamped to
// [0, MaxBrightness]; level 0 is the identity. The input is never modified.
func ApplyBrightness(original []uint16, level int, maxValue uint16) []uint16 {
	level = clamp(level, 0, MaxBrightness)
	offset := level * int(maxValue) / MaxBrightness

	out := make([]uint16, len(original))
	for i, s := range original {
		out[i] = uint16(clamp(int(s)+offset, 0, int(maxValue)))
	}
	return out
}

// Invert returns maxValue - s for every sample. Samples above maxValue
// saturate to 0. Invert(Invert(x, m), m) == x for samples within [0, m].
func Invert(samples []uint16, maxValue uint16) []uint16 {
	out := make([]uint16, len(samples))
	for i, s := range samples {
		if s > maxValue {
			continue
		}
		out[i] = maxValue - s
	}
	return out
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
