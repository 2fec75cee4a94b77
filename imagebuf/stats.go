package imagebuf

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the displayed samples
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Stats computes statistics over the current grid
func (b *Buffer) Stats() Stats {
	xs := make([]float64, len(b.current))
	for i, s := range b.current {
		xs[i] = float64(s)
	}

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		std = 0
	}
	return Stats{
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		Mean:   mean,
		StdDev: std,
	}
}
