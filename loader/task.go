package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cocosip/go-dicom-viewer/codec"
	"github.com/cocosip/go-dicom-viewer/header"
	"github.com/cocosip/go-dicom-viewer/imagebuf"
	"github.com/cocosip/go-dicom-viewer/pixel"
)

// State is the lifecycle state of a Task
type State int32

const (
	StatePending State = iota
	StateRunning
	StateSucceeded
	StateNoImage
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRunning:
		return "RUNNING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateNoImage:
		return "NO_IMAGE"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// IsTerminal reports whether no transition leaves s
func (s State) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateNoImage, StateFailed:
		return true
	default:
		return false
	}
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StatePending:
		return to == StateRunning
	case StateRunning:
		return to.IsTerminal()
	default:
		return false
	}
}

// Task decodes one file. It runs at most once and always reaches exactly one
// terminal state; it cannot be cancelled once running.
type Task struct {
	id        uuid.UUID
	path      string
	reader    header.Reader
	listener  Listener
	logger    *slog.Logger
	maxPixels int

	state  atomic.Int32
	result Event
	done   chan struct{}
}

func newTask(path string, reader header.Reader, listener Listener, logger *slog.Logger, maxPixels int) *Task {
	return &Task{
		id:        uuid.New(),
		path:      path,
		reader:    reader,
		listener:  listener,
		logger:    logger.With("task", path),
		maxPixels: maxPixels,
		done:      make(chan struct{}),
	}
}

// ID returns the task identity carried by its events
func (t *Task) ID() uuid.UUID { return t.id }

// Path returns the file the task loads
func (t *Task) Path() string { return t.path }

// State returns the current lifecycle state
func (t *Task) State() State { return State(t.state.Load()) }

// Done is closed after the terminal event has been delivered
func (t *Task) Done() <-chan struct{} { return t.done }

// Result returns the terminal event, or nil while the task is not finished
func (t *Task) Result() Event {
	select {
	case <-t.done:
		return t.result
	default:
		return nil
	}
}

// Wait blocks until the task is finished or ctx is done
func (t *Task) Wait(ctx context.Context) (Event, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *Task) transition(from, to State) bool {
	if !isAllowedTransition(from, to) {
		return false
	}
	return t.state.CompareAndSwap(int32(from), int32(to))
}

// run executes the task on the calling goroutine. Calls after the first are no-ops.
func (t *Task) run() {
	if !t.transition(StatePending, StateRunning) {
		return
	}
	t.logger.Debug("task running", "id", t.id)

	ev := t.execute()

	to := StateFailed
	if c, ok := ev.(Completed); ok {
		to = StateSucceeded
		if c.NoImage() {
			to = StateNoImage
		}
	}
	t.transition(StateRunning, to)
	t.result = ev
	t.log(ev, to)
	t.listener.HandleEvent(ev)
	close(t.done)
}

func (t *Task) execute() Event {
	meta := Meta{ID: t.id, Path: t.path}

	if _, err := os.Stat(t.path); errors.Is(err, fs.ErrNotExist) {
		return t.failure(meta, KindNotFound, err)
	}

	t.listener.HandleEvent(Started{Meta: meta})
	return t.decode(meta)
}

func (t *Task) decode(meta Meta) (ev Event) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if re, ok := r.(runtime.Error); ok && isAllocationFailure(re) {
			ev = t.failure(meta, KindOutOfResources, re)
			return
		}
		ev = t.failure(meta, KindParseError, fmt.Errorf("panic: %v", r))
	}()

	f, err := t.reader.ReadFile(t.path)
	if err != nil {
		return t.failure(meta, KindParseError, err)
	}
	if _, err := codec.Get(f.BitsAllocated); errors.Is(err, codec.ErrUnsupportedDepth) {
		return Completed{Meta: meta, Header: f.Header}
	}
	if t.maxPixels > 0 && f.Pixels() > t.maxPixels {
		return t.failure(meta, KindOutOfResources,
			fmt.Errorf("%dx%d exceeds %d pixels", f.Columns, f.Rows, t.maxPixels))
	}

	samples, err := pixel.DecodeSamples(f.PixelData, f.BitsAllocated, f.Columns, f.Rows, f.ByteOrder())
	switch {
	case errors.Is(err, codec.ErrTruncatedData):
		return t.failure(meta, KindTruncatedData, err)
	case err != nil:
		return t.failure(meta, KindParseError, err)
	}

	img, err := imagebuf.New(f.Columns, f.Rows, f.BitsAllocated, samples)
	if err != nil {
		return t.failure(meta, KindParseError, err)
	}
	return Completed{Meta: meta, Header: f.Header, Image: img}
}

func (t *Task) failure(meta Meta, kind Kind, err error) Event {
	te := &TaskError{Kind: kind, Path: t.path, Err: err}
	if kind == KindOutOfResources {
		return OutOfResources{Meta: meta, Err: te}
	}
	return Failed{Meta: meta, Err: te}
}

func (t *Task) log(ev Event, state State) {
	switch e := ev.(type) {
	case Failed:
		t.logger.Warn("task failed", "id", t.id, "kind", e.Err.Kind, "err", e.Err.Err)
	case OutOfResources:
		t.logger.Warn("task out of resources", "id", t.id, "err", e.Err.Err)
	default:
		t.logger.Debug("task finished", "id", t.id, "state", state)
	}
}

func isAllocationFailure(err runtime.Error) bool {
	msg := err.Error()
	return strings.Contains(msg, "makeslice") || strings.Contains(msg, "out of memory")
}
