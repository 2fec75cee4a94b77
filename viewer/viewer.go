// Package viewer is the display-side facade over a loader.Coordinator. It owns
// the image currently on screen, keeps brightness and inversion across
// navigation and ignores results of tasks the user has already moved past.
package viewer

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/cocosip/go-dicom-viewer/fileset"
	"github.com/cocosip/go-dicom-viewer/header"
	"github.com/cocosip/go-dicom-viewer/imagebuf"
	"github.com/cocosip/go-dicom-viewer/loader"
	"github.com/cocosip/go-dicom-viewer/pixel"
)

// ErrNoImage is returned by display commands while no image is shown
var ErrNoImage = errors.New("no image loaded")

// DefaultExtensions is the file filter used when WithExtensions is not given
var DefaultExtensions = []string{".dcm", ".dicom"}

// Observer is notified of every event that belongs to the current task, after
// the viewer has updated its state.
type Observer func(loader.Event)

type options struct {
	backend    string
	reader     header.Reader
	extensions []string
	maxPixels  int
	logger     *slog.Logger
	level      int
	inverted   bool
	observer   Observer
}

// Option configures Open
type Option func(*options)

// WithBackend selects the header backend by name, see header.NewReader
func WithBackend(name string) Option {
	return func(o *options) { o.backend = name }
}

// WithReader sets the header reader directly, overriding WithBackend
func WithReader(r header.Reader) Option {
	return func(o *options) { o.reader = r }
}

// WithExtensions restricts the browsing set to the given file name suffixes
func WithExtensions(exts ...string) Option {
	return func(o *options) { o.extensions = exts }
}

// WithMaxPixels limits the size of a single image
func WithMaxPixels(n int) Option {
	return func(o *options) { o.maxPixels = n }
}

// WithLogger sets the logger passed down to the coordinator
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBrightness sets the initial brightness level
func WithBrightness(level int) Option {
	return func(o *options) { o.level = level }
}

// WithInverted starts with inverted gray values
func WithInverted(inverted bool) Option {
	return func(o *options) { o.inverted = inverted }
}

// WithObserver registers a callback for current-task events
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// Viewer shows one image of a directory at a time
type Viewer struct {
	coord    *loader.Coordinator
	logger   *slog.Logger
	observer Observer

	mu       sync.Mutex
	image    *imagebuf.Buffer
	header   header.Header
	shown    string // path of the last terminal result
	last     loader.Event
	level    int
	inverted bool
}

// Open builds a viewer for the directory containing path with path as the
// current entry. No file is loaded until Load is called.
func Open(path string, opts ...Option) (*Viewer, error) {
	o := options{extensions: DefaultExtensions, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	reader := o.reader
	if reader == nil {
		r, err := header.NewReader(o.backend)
		if err != nil {
			return nil, err
		}
		reader = r
	}

	files, err := fileset.Open(path, fileset.ExtensionFilter(o.extensions...))
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		logger:   o.logger,
		observer: o.observer,
		level:    clampLevel(o.level),
		inverted: o.inverted,
	}
	v.coord, err = loader.NewCoordinator(files,
		loader.WithReader(reader),
		loader.WithListener(v),
		loader.WithLogger(o.logger),
		loader.WithMaxPixels(o.maxPixels),
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// HandleEvent implements loader.Listener
func (v *Viewer) HandleEvent(ev loader.Event) {
	if !v.coord.IsCurrent(ev.TaskID()) {
		v.logger.Debug("dropping stale event", "path", ev.FilePath(), "id", ev.TaskID())
		return
	}

	v.mu.Lock()
	switch e := ev.(type) {
	case loader.Completed:
		if e.Image != nil {
			e.Image.SetBrightness(v.level)
			e.Image.SetInverted(v.inverted)
		}
		v.image = e.Image
		v.header = e.Header
		v.shown = e.Path
		v.last = ev
	case loader.Failed, loader.OutOfResources:
		v.image = nil
		v.header = header.Header{}
		v.shown = ev.FilePath()
		v.last = ev
	}
	v.mu.Unlock()

	if v.observer != nil {
		v.observer(ev)
	}
}

// Load dispatches a task for the current entry
func (v *Viewer) Load(ctx context.Context) (*loader.Task, error) {
	return v.coord.LoadCurrent(ctx)
}

// Next moves to the following file. It returns a nil task at the last file.
func (v *Viewer) Next(ctx context.Context) (*loader.Task, error) {
	return v.coord.Next(ctx)
}

// Previous moves to the preceding file. It returns a nil task at the first file.
func (v *Viewer) Previous(ctx context.Context) (*loader.Task, error) {
	return v.coord.Previous(ctx)
}

// Wait blocks until the in-flight task has delivered its result
func (v *Viewer) Wait(ctx context.Context) error {
	return v.coord.Wait(ctx)
}

// SetBrightness sets the brightness level, clamped to 0..pixel.MaxBrightness.
// The level is kept for images loaded later.
func (v *Viewer) SetBrightness(level int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.image == nil {
		return ErrNoImage
	}
	v.level = clampLevel(level)
	v.image.SetBrightness(v.level)
	return nil
}

// ToggleInvert flips inversion and returns the new setting
func (v *Viewer) ToggleInvert() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.image == nil {
		return v.inverted, ErrNoImage
	}
	v.inverted = v.image.ToggleInvert()
	return v.inverted, nil
}

// Brightness returns the persistent brightness level
func (v *Viewer) Brightness() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.level
}

// Inverted returns the persistent inversion setting
func (v *Viewer) Inverted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inverted
}

// Loaded reports whether an image is shown
func (v *Viewer) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.image != nil
}

// Header returns the header of the shown file
func (v *Viewer) Header() header.Header {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.header
}

// LastEvent returns the terminal event of the most recent current task, or nil
func (v *Viewer) LastEvent() loader.Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Samples returns a copy of the displayed samples
func (v *Viewer) Samples() ([]uint16, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.image == nil {
		return nil, ErrNoImage
	}
	return v.image.Current(), nil
}

// Stats summarizes the displayed samples
func (v *Viewer) Stats() (imagebuf.Stats, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.image == nil {
		return imagebuf.Stats{}, ErrNoImage
	}
	return v.image.Stats(), nil
}

// Render returns the displayed samples as a 16-bit gray image
func (v *Viewer) Render() (*image.Gray16, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.image == nil {
		return nil, ErrNoImage
	}
	return v.image.Gray16(), nil
}

// WritePNG encodes the displayed image to w
func (v *Viewer) WritePNG(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.image == nil {
		return ErrNoImage
	}
	return v.image.WritePNG(w)
}

// CurrentName returns the base name of the file whose result is shown, or
// the current entry if nothing has finished loading yet.
func (v *Viewer) CurrentName() string {
	v.mu.Lock()
	shown := v.shown
	v.mu.Unlock()
	if shown == "" {
		shown = v.coord.CurrentPath()
	}
	return filepath.Base(shown)
}

// Cursor returns the index of the current entry
func (v *Viewer) Cursor() int { return v.coord.Cursor() }

// Len returns the number of files in the browsing set
func (v *Viewer) Len() int { return v.coord.Len() }

func clampLevel(level int) int {
	return min(max(level, 0), pixel.MaxBrightness)
}
