// Package imagebuf holds decoded grayscale images and their display state.
package imagebuf

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cocosip/go-dicom-viewer/pixel"
)

var (
	// ErrGeometry is returned when the sample count does not match width*height
	ErrGeometry = errors.New("sample count does not match geometry")
)

// Buffer is a decoded single-frame grayscale image.
//
// The original grid is written once by New and only read afterwards, so it
// may be shared between goroutines. The current grid and the display state
// (brightness level, inversion) belong to the goroutine that owns the
// buffer; callers serialize SetBrightness and SetInverted themselves.
type Buffer struct {
	width    int
	height   int
	bits     int
	maxValue uint16

	original []uint16
	current  []uint16

	level    int
	inverted bool
}

// New creates a buffer that takes ownership of samples. bits is the sample
// depth the samples were decoded from and bounds the display range.
func New(width, height, bits int, samples []uint16) (*Buffer, error) {
	if width <= 0 || height <= 0 || width*height != len(samples) {
		return nil, fmt.Errorf("%dx%d with %d samples: %w", width, height, len(samples), ErrGeometry)
	}
	return &Buffer{
		width:    width,
		height:   height,
		bits:     bits,
		maxValue: pixel.MaxValue(bits),
		original: samples,
		current:  slices.Clone(samples),
	}, nil
}

// Width returns the number of columns
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows
func (b *Buffer) Height() int { return b.height }

// BitsAllocated returns the decoded sample depth
func (b *Buffer) BitsAllocated() int { return b.bits }

// MaxValue returns the largest representable sample value
func (b *Buffer) MaxValue() uint16 { return b.maxValue }

// Len returns width*height
func (b *Buffer) Len() int { return len(b.original) }

// Original returns a copy of the decoded samples
func (b *Buffer) Original() []uint16 { return slices.Clone(b.original) }

// Current returns a copy of the samples after the display transform
func (b *Buffer) Current() []uint16 { return slices.Clone(b.current) }

// At returns the displayed sample at column x, row y
func (b *Buffer) At(x, y int) uint16 {
	return b.current[y*b.width+x]
}

// Brightness returns the active brightness level
func (b *Buffer) Brightness() int { return b.level }

// Inverted reports whether the display is inverted
func (b *Buffer) Inverted() bool { return b.inverted }

// SetBrightness sets the brightness level (clamped to 0..255) and recomputes
// the current grid from the original samples.
func (b *Buffer) SetBrightness(level int) {
	b.level = min(max(level, 0), pixel.MaxBrightness)
	b.render()
}

// SetInverted sets the inversion flag and recomputes the current grid
func (b *Buffer) SetInverted(inverted bool) {
	b.inverted = inverted
	b.render()
}

// ToggleInvert flips the inversion flag and returns the new value
func (b *Buffer) ToggleInvert() bool {
	b.SetInverted(!b.inverted)
	return b.inverted
}

// Reset restores the identity display transform
func (b *Buffer) Reset() {
	b.level = 0
	b.inverted = false
	b.render()
}

// render derives current from original; it never reads the previous current grid
func (b *Buffer) render() {
	out := pixel.ApplyBrightness(b.original, b.level, b.maxValue)
	if b.inverted {
		out = pixel.Invert(out, b.maxValue)
	}
	b.current = out
}
