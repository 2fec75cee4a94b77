package pixel

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cocosip/go-dicom-viewer/codec"
)

func payloadFor(bits, samples int) []byte {
	switch bits {
	case 8:
		data := make([]byte, samples)
		for i := range data {
			data[i] = byte(i * 37)
		}
		return data
	case 12:
		src := make([]uint16, samples)
		for i := range src {
			src[i] = uint16(i*613) & 0x0FFF
		}
		return Pack12(src)
	case 16:
		data := make([]byte, samples*2)
		for i := 0; i < samples; i++ {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(i*4099))
		}
		return data
	}
	return nil
}

func TestDecodeSamplesRange(t *testing.T) {
	geometries := []struct{ w, h int }{{1, 1}, {3, 1}, {4, 4}, {5, 7}, {16, 9}}

	for _, bits := range []int{8, 12, 16} {
		for _, g := range geometries {
			n := g.w * g.h
			raw := payloadFor(bits, n)

			samples, err := DecodeSamples(raw, bits, g.w, g.h, binary.LittleEndian)
			if err != nil {
				t.Fatalf("bits=%d %dx%d: DecodeSamples failed: %v", bits, g.w, g.h, err)
			}
			if len(samples) != n {
				t.Fatalf("bits=%d %dx%d: got %d samples, want %d", bits, g.w, g.h, len(samples), n)
			}
			limit := MaxValue(bits)
			for i, s := range samples {
				if s > limit {
					t.Errorf("bits=%d sample %d = %d exceeds %d", bits, i, s, limit)
				}
			}
		}
	}
}

func TestDecodeSamplesTruncated(t *testing.T) {
	for _, bits := range []int{8, 12, 16} {
		raw := payloadFor(bits, 16)
		short := raw[:len(raw)-1]

		_, err := DecodeSamples(short, bits, 4, 4, nil)
		if !errors.Is(err, codec.ErrTruncatedData) {
			t.Errorf("bits=%d: error = %v, want ErrTruncatedData", bits, err)
		}
	}
}

func TestDecodeSamplesUnsupportedDepth(t *testing.T) {
	for _, bits := range []int{0, 1, 4, 10, 24, 32} {
		samples, err := DecodeSamples(make([]byte, 64), bits, 2, 2, nil)
		if !errors.Is(err, codec.ErrUnsupportedDepth) {
			t.Errorf("bits=%d: error = %v, want ErrUnsupportedDepth", bits, err)
		}
		if samples != nil {
			t.Errorf("bits=%d: expected no samples, got %d", bits, len(samples))
		}
	}
}

func TestDecodeSamplesInvalidGeometry(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative", -2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSamples(make([]byte, 32), 8, tt.width, tt.height, nil)
			if !errors.Is(err, codec.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestUnpack8NoSignExtension(t *testing.T) {
	samples, err := DecodeSamples([]byte{0x00, 0x7F, 0x80, 0xFF}, 8, 2, 2, nil)
	if err != nil {
		t.Fatalf("DecodeSamples failed: %v", err)
	}
	want := []uint16{0, 127, 128, 255}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, samples[i], want[i])
		}
	}
}

func TestUnpack16ByteOrder(t *testing.T) {
	raw := []byte{0x12, 0x34, 0xFF, 0x00}

	tests := []struct {
		name  string
		order binary.ByteOrder
		want  []uint16
	}{
		{"default little endian", nil, []uint16{0x3412, 0x00FF}},
		{"little endian", binary.LittleEndian, []uint16{0x3412, 0x00FF}},
		{"big endian", binary.BigEndian, []uint16{0x1234, 0xFF00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := DecodeSamples(raw, 16, 2, 1, tt.order)
			if err != nil {
				t.Fatalf("DecodeSamples failed: %v", err)
			}
			for i := range tt.want {
				if samples[i] != tt.want[i] {
					t.Errorf("sample %d = %#04x, want %#04x", i, samples[i], tt.want[i])
				}
			}
		})
	}
}

func TestUnpack12KnownBytes(t *testing.T) {
	// 0xABC and 0x123 packed: BC 3A 12
	samples, err := DecodeSamples([]byte{0xBC, 0x3A, 0x12}, 12, 2, 1, nil)
	if err != nil {
		t.Fatalf("DecodeSamples failed: %v", err)
	}
	if samples[0] != 0xABC || samples[1] != 0x123 {
		t.Errorf("got %#03x %#03x, want 0xabc 0x123", samples[0], samples[1])
	}
}

func TestPack12RoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 9, 16} {
		src := make([]uint16, n)
		for i := range src {
			src[i] = uint16(4095 - i*251%4096)
		}
		raw := Pack12(src)
		if len(raw) != (Unpack12{}).PayloadSize(n) {
			t.Fatalf("n=%d: packed %d bytes, want %d", n, len(raw), (Unpack12{}).PayloadSize(n))
		}
		got, err := DecodeSamples(raw, 12, n, 1, nil)
		if err != nil {
			t.Fatalf("n=%d: DecodeSamples failed: %v", n, err)
		}
		for i := range src {
			if got[i] != src[i] {
				t.Errorf("n=%d sample %d = %d, want %d", n, i, got[i], src[i])
			}
		}
	}
}

func TestMaxValue(t *testing.T) {
	tests := []struct {
		bits int
		want uint16
	}{
		{0, 0},
		{8, 255},
		{12, 4095},
		{16, 65535},
		{32, 65535},
	}
	for _, tt := range tests {
		if got := MaxValue(tt.bits); got != tt.want {
			t.Errorf("MaxValue(%d) = %d, want %d", tt.bits, got, tt.want)
		}
	}
}
