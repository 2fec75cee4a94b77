package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cocosip/go-dicom-viewer/loader"
	"github.com/cocosip/go-dicom-viewer/messages"
	"github.com/cocosip/go-dicom-viewer/viewer"
)

const help = `commands:
  n            next file
  p            previous file
  b <0..255>   set brightness
  i            toggle inversion
  s            show statistics
  e <file.png> export the displayed image
  q            quit`

var errQuit = errors.New("quit")

type shell struct {
	v   *viewer.Viewer
	p   *messages.Printer
	out io.Writer
}

func (s *shell) loop(ctx context.Context, in *bufio.Scanner) int {
	fmt.Fprintln(s.out, help)
	s.prompt()
	for in.Scan() {
		err := s.exec(ctx, in.Text())
		if errors.Is(err, errQuit) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(s.out, "✗ %v\n", err)
		}
		s.prompt()
	}
	if err := in.Err(); err != nil {
		fmt.Fprintf(s.out, "✗ %v\n", err)
		return 1
	}
	return 0
}

func (s *shell) prompt() {
	fmt.Fprintf(s.out, "[%d/%d %s] > ", s.v.Cursor()+1, s.v.Len(), s.v.CurrentName())
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "n", "next":
		return s.navigate(ctx, s.v.Next)
	case "p", "prev", "previous":
		return s.navigate(ctx, s.v.Previous)
	case "b", "brightness":
		if len(fields) != 2 {
			return fmt.Errorf("usage: b <0..255>")
		}
		level, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("brightness %q: %w", fields[1], err)
		}
		if err := s.v.SetBrightness(level); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s: %d\n", s.p.BrightnessLabel(), s.v.Brightness())
	case "i", "invert":
		inverted, err := s.v.ToggleInvert()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "inverted: %v\n", inverted)
	case "s", "stats":
		st, err := s.v.Stats()
		if err != nil {
			return err
		}
		h := s.v.Header()
		fmt.Fprintf(s.out, "%dx%d %d bit  min=%.0f max=%.0f mean=%.2f std=%.2f\n",
			h.Columns, h.Rows, h.BitsAllocated, st.Min, st.Max, st.Mean, st.StdDev)
	case "e", "export":
		if len(fields) != 2 {
			return fmt.Errorf("usage: e <file.png>")
		}
		if err := exportPNG(s.v, s.p, fields[1]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ %s\n", fields[1])
	case "q", "quit", "exit":
		return errQuit
	case "h", "help", "?":
		fmt.Fprintln(s.out, help)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}

func (s *shell) navigate(ctx context.Context, move func(context.Context) (*loader.Task, error)) error {
	task, err := move(ctx)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	_, err = task.Wait(ctx)
	return err
}
