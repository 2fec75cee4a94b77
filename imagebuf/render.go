package imagebuf

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// Gray16 renders the current grid scaled to the full 16-bit range
func (b *Buffer) Gray16() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: b.scale(b.At(x, y), 0xFFFF)})
		}
	}
	return img
}

// Gray renders the current grid scaled to 8 bits
func (b *Buffer) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.width, b.height))
	for i, s := range b.current {
		img.Pix[i] = uint8(b.scale(s, 0xFF))
	}
	return img
}

// WritePNG encodes the current grid as a 16-bit grayscale PNG
func (b *Buffer) WritePNG(w io.Writer) error {
	return png.Encode(w, b.Gray16())
}

func (b *Buffer) scale(s uint16, to uint32) uint16 {
	if b.maxValue == 0 {
		return 0
	}
	m := uint64(b.maxValue)
	return uint16((uint64(s)*uint64(to) + m/2) / m)
}
