// Package loader decodes image files on background goroutines, one at a time,
// and navigates a fileset.FileSet.
package loader

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cocosip/go-dicom-viewer/fileset"
	"github.com/cocosip/go-dicom-viewer/header"
)

// Coordinator owns a FileSet and the single in-flight Task.
//
// Navigation waits for the in-flight task to reach a terminal state before it
// moves the cursor and dispatches the next task, so at most one task runs at
// any time and events of different tasks never interleave. Concurrent callers
// queue behind each other.
type Coordinator struct {
	files     *fileset.FileSet
	reader    header.Reader
	listener  Listener
	logger    *slog.Logger
	maxPixels int

	navMu sync.Mutex // serializes dispatching callers

	mu     sync.Mutex // guards active and the cursor
	active *Task
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithReader sets the header reader. The default is header.NewGoDicomReader().
func WithReader(r header.Reader) Option {
	return func(c *Coordinator) { c.reader = r }
}

// WithListener sets the event listener
func WithListener(l Listener) Option {
	return func(c *Coordinator) { c.listener = l }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithMaxPixels sets the largest Rows*Columns a task will allocate; 0 means no limit
func WithMaxPixels(n int) Option {
	return func(c *Coordinator) { c.maxPixels = n }
}

// NewCoordinator creates a coordinator over files. Nothing is loaded until
// LoadCurrent or Navigate is called.
func NewCoordinator(files *fileset.FileSet, opts ...Option) (*Coordinator, error) {
	if files == nil {
		return nil, ErrNilFileSet
	}
	c := &Coordinator{
		files:    files,
		listener: nopListener{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reader == nil {
		c.reader = header.NewGoDicomReader()
	}
	if c.listener == nil {
		c.listener = nopListener{}
	}
	return c, nil
}

// LoadCurrent waits for any in-flight task and dispatches a task for the
// entry under the cursor.
func (c *Coordinator) LoadCurrent(ctx context.Context) (*Task, error) {
	c.navMu.Lock()
	defer c.navMu.Unlock()

	if err := c.waitActive(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatch(c.files.Current()), nil
}

// Navigate waits for the in-flight task, moves the cursor one step in d and
// dispatches a task for the new entry. At either end of the set the cursor
// does not move and Navigate returns a nil task.
func (c *Coordinator) Navigate(ctx context.Context, d fileset.Direction) (*Task, error) {
	c.navMu.Lock()
	defer c.navMu.Unlock()

	if err := c.waitActive(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.files.Cursor()
	if c.files.Advance(d) == before {
		c.logger.Debug("navigation at boundary", "direction", d, "cursor", before)
		return nil, nil
	}
	return c.dispatch(c.files.Current()), nil
}

// Next navigates to the following entry
func (c *Coordinator) Next(ctx context.Context) (*Task, error) {
	return c.Navigate(ctx, fileset.Next)
}

// Previous navigates to the preceding entry
func (c *Coordinator) Previous(ctx context.Context) (*Task, error) {
	return c.Navigate(ctx, fileset.Previous)
}

// Wait blocks until the in-flight task, if any, is finished or ctx is done
func (c *Coordinator) Wait(ctx context.Context) error {
	return c.waitActive(ctx)
}

// Active returns the most recently dispatched task, or nil
func (c *Coordinator) Active() *Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsCurrent reports whether id belongs to the most recently dispatched task.
// Listeners use it to drop results of tasks the user has moved past.
func (c *Coordinator) IsCurrent(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && c.active.ID() == id
}

// Cursor returns the index of the current entry
func (c *Coordinator) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Cursor()
}

// CurrentPath returns the path of the current entry
func (c *Coordinator) CurrentPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Current()
}

// Len returns the number of entries in the file set
func (c *Coordinator) Len() int {
	return c.files.Len()
}

func (c *Coordinator) waitActive(ctx context.Context) error {
	t := c.Active()
	if t == nil {
		return nil
	}
	_, err := t.Wait(ctx)
	return err
}

// dispatch starts a task for path; c.mu must be held
func (c *Coordinator) dispatch(path string) *Task {
	t := newTask(path, c.reader, c.listener, c.logger, c.maxPixels)
	c.active = t
	c.logger.Debug("dispatch", "path", path, "id", t.ID())
	go t.run()
	return t
}
