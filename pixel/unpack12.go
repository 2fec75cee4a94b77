package pixel

import (
	"github.com/cocosip/go-dicom-viewer/codec"
)

var _ codec.Codec = (*Unpack12)(nil)

// Unpack12 decodes packed 12-bit samples, two samples per three bytes:
//
//	s0 = b0 | (b1 & 0x0F) << 8
//	s1 = b1 >> 4 | b2 << 4
//
// An odd trailing sample occupies two bytes.
type Unpack12 struct{}

// Name returns the codec name
func (Unpack12) Name() string { return "native-12bit-packed" }

// BitsAllocated returns 12
func (Unpack12) BitsAllocated() int { return 12 }

// PayloadSize returns ceil(samples * 1.5)
func (Unpack12) PayloadSize(samples int) int { return (samples*3 + 1) / 2 }

// Decode unpacks 12-bit sample pairs
func (c Unpack12) Decode(data []byte, params codec.DecodeParams) ([]uint16, error) {
	n, err := checkPayload(c, data, params)
	if err != nil {
		return nil, err
	}

	out := make([]uint16, n)
	src := 0
	for i := 0; i+1 < n; i += 2 {
		b0, b1, b2 := uint16(data[src]), uint16(data[src+1]), uint16(data[src+2])
		out[i] = b0 | (b1&0x0F)<<8
		out[i+1] = b1>>4 | b2<<4
		src += 3
	}
	if n%2 == 1 {
		out[n-1] = uint16(data[src]) | (uint16(data[src+1])&0x0F)<<8
	}
	return out, nil
}

// Pack12 is the inverse of Unpack12.Decode. Sample values are masked to 12 bits.
func Pack12(samples []uint16) []byte {
	out := make([]byte, Unpack12{}.PayloadSize(len(samples)))
	dst := 0
	for i := 0; i+1 < len(samples); i += 2 {
		s0, s1 := samples[i]&0x0FFF, samples[i+1]&0x0FFF
		out[dst] = byte(s0)
		out[dst+1] = byte(s0>>8) | byte(s1<<4)
		out[dst+2] = byte(s1 >> 4)
		dst += 3
	}
	if len(samples)%2 == 1 {
		s := samples[len(samples)-1] & 0x0FFF
		out[dst] = byte(s)
		out[dst+1] = byte(s >> 8)
	}
	return out
}
