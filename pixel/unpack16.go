package pixel

import (
	"github.com/cocosip/go-dicom-viewer/codec"
)

var _ codec.Codec = (*Unpack16)(nil)

// Unpack16 decodes two bytes per sample in the declared byte order
type Unpack16 struct{}

// Name returns the codec name
func (Unpack16) Name() string { return "native-16bit" }

// BitsAllocated returns 16
func (Unpack16) BitsAllocated() int { return 16 }

// PayloadSize returns two bytes per sample
func (Unpack16) PayloadSize(samples int) int { return samples * 2 }

// Decode reconstructs samples from consecutive byte pairs
func (c Unpack16) Decode(data []byte, params codec.DecodeParams) ([]uint16, error) {
	n, err := checkPayload(c, data, params)
	if err != nil {
		return nil, err
	}

	order := params.Order()
	out := make([]uint16, n)
	for i := range out {
		out[i] = order.Uint16(data[i*2:])
	}
	return out, nil
}
