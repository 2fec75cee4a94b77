// Command dicomview browses the DICOM images of a directory from a terminal.
//
// Usage:
//
//	dicomview [-config viewer.yaml] [-backend go-dicom] [-lang de] [-png out.png] <file.dcm>
//
// With -png the file is decoded, written as PNG and the program exits.
// Otherwise an interactive prompt reads commands from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cocosip/go-dicom-viewer/config"
	"github.com/cocosip/go-dicom-viewer/loader"
	"github.com/cocosip/go-dicom-viewer/messages"
	"github.com/cocosip/go-dicom-viewer/viewer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dicomview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "dicomview.yaml", "configuration file")
	backend := fs.String("backend", "", "header backend (go-dicom or suyashkumar)")
	lang := fs.String("lang", "", "message language (en or de)")
	pngOut := fs.String("png", "", "write the image as PNG and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: dicomview [flags] <file>")
		fs.PrintDefaults()
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}
	if *backend != "" {
		cfg.Reader.Backend = *backend
	}
	if *lang != "" {
		cfg.Display.Language = *lang
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}

	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	printer, err := messages.New(cfg.Display.Language)
	if err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}

	var opts []viewer.Option
	opts = append(opts,
		viewer.WithBackend(cfg.Reader.Backend),
		viewer.WithExtensions(cfg.Files.Extensions...),
		viewer.WithMaxPixels(cfg.Reader.MaxPixels),
		viewer.WithLogger(logger),
		viewer.WithBrightness(cfg.Display.Brightness),
		viewer.WithInverted(cfg.Display.Invert),
	)
	if *pngOut == "" {
		opts = append(opts, viewer.WithObserver(func(ev loader.Event) {
			fmt.Fprintln(stdout, printer.Event(ev))
		}))
	}

	v, err := viewer.Open(fs.Arg(0), opts...)
	if err != nil {
		fmt.Fprintf(stderr, "✗ %s: %s\n", printer.Title(), printer.Describe(err))
		return 1
	}

	ctx := context.Background()
	if _, err := v.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}
	if err := v.Wait(ctx); err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}

	if *pngOut != "" {
		if err := exportPNG(v, printer, *pngOut); err != nil {
			fmt.Fprintf(stderr, "✗ %s\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "✓ %s\n", *pngOut)
		return 0
	}

	sh := &shell{v: v, p: printer, out: stdout}
	return sh.loop(ctx, bufio.NewScanner(stdin))
}

func exportPNG(v *viewer.Viewer, p *messages.Printer, path string) error {
	switch ev := v.LastEvent().(type) {
	case loader.Failed, loader.OutOfResources:
		return fmt.Errorf("%s: %s", p.Title(), p.Event(ev))
	case loader.Completed:
		if ev.NoImage() {
			return fmt.Errorf("%s", p.Event(ev))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := v.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
