// Command dicomcheck reads files with both header backends and compares the
// headers and decoded samples they produce.
//
// Usage:
//
//	dicomcheck <file.dcm>...
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cocosip/go-dicom-viewer/header"
	"github.com/cocosip/go-dicom-viewer/pixel"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: dicomcheck <file.dcm>...")
		os.Exit(2)
	}

	failed := 0
	for _, path := range os.Args[1:] {
		if !check(os.Stdout, path) {
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// report holds what one backend made of a file
type report struct {
	backend string
	file    *header.File
	samples []uint16
	err     error
}

func read(backend, path string) report {
	r := report{backend: backend}
	reader, err := header.NewReader(backend)
	if err != nil {
		r.err = err
		return r
	}
	r.file, r.err = reader.ReadFile(path)
	if r.err != nil {
		return r
	}
	h := r.file.Header
	r.samples, r.err = pixel.DecodeSamples(r.file.PixelData, h.BitsAllocated, h.Columns, h.Rows, h.ByteOrder())
	return r
}

// check prints a comparison for path and reports whether the backends agree
func check(w io.Writer, path string) bool {
	fmt.Fprintf(w, "Comparing backends for %s\n", path)
	a := read(header.BackendGoDicom, path)
	b := read(header.BackendSuyash, path)

	for _, r := range []report{a, b} {
		if r.err != nil {
			fmt.Fprintf(w, "  %-12s error: %v\n", r.backend, r.err)
			continue
		}
		h := r.file.Header
		fmt.Fprintf(w, "  %-12s %dx%d, %d bits, %d samples, syntax %s\n",
			r.backend, h.Columns, h.Rows, h.BitsAllocated, len(r.samples), h.TransferSyntaxUID)
	}

	if (a.err == nil) != (b.err == nil) {
		fmt.Fprintln(w, "✗ MISMATCH: only one backend could read the file")
		return false
	}
	if a.err != nil {
		fmt.Fprintln(w, "✓ both backends reject the file")
		return true
	}

	ha, hb := a.file.Header, b.file.Header
	if ha.Rows != hb.Rows || ha.Columns != hb.Columns || ha.BitsAllocated != hb.BitsAllocated {
		fmt.Fprintf(w, "✗ MISMATCH: geometry %dx%dx%d vs %dx%dx%d\n",
			ha.Columns, ha.Rows, ha.BitsAllocated, hb.Columns, hb.Rows, hb.BitsAllocated)
		return false
	}
	if len(a.samples) != len(b.samples) {
		fmt.Fprintf(w, "✗ MISMATCH: %d vs %d samples\n", len(a.samples), len(b.samples))
		return false
	}

	mismatches := 0
	for i := range a.samples {
		if a.samples[i] != b.samples[i] {
			if mismatches < 10 {
				fmt.Fprintf(w, "  sample %d: %d vs %d\n", i, a.samples[i], b.samples[i])
			}
			mismatches++
		}
	}
	if mismatches > 0 {
		fmt.Fprintf(w, "✗ MISMATCH: %d samples differ (%.2f%%)\n",
			mismatches, float64(mismatches)/float64(len(a.samples))*100)
		return false
	}
	fmt.Fprintln(w, "✓ PERFECT MATCH: headers and samples identical")
	return true
}
