package loader

import (
	"github.com/google/uuid"

	"github.com/cocosip/go-dicom-viewer/header"
	"github.com/cocosip/go-dicom-viewer/imagebuf"
)

// Event is one notification about a dispatched task. The concrete types are
// Started, Completed, Failed and OutOfResources; every task emits exactly one
// of the last three, after its Started event if it had one.
type Event interface {
	TaskID() uuid.UUID
	FilePath() string
	event()
}

// Meta identifies the task an event belongs to
type Meta struct {
	ID   uuid.UUID
	Path string
}

// TaskID returns the task identity
func (m Meta) TaskID() uuid.UUID { return m.ID }

// FilePath returns the file the task loads
func (m Meta) FilePath() string { return m.Path }

// Started is emitted when the task begins reading an existing file
type Started struct {
	Meta
}

// Completed is emitted when the file was read. Image is nil when the header
// declares a sample depth no codec can render.
type Completed struct {
	Meta
	Header header.Header
	Image  *imagebuf.Buffer
}

// NoImage reports whether the task finished without a renderable image
func (e Completed) NoImage() bool { return e.Image == nil }

// Failed is emitted when the file is missing, malformed or truncated
type Failed struct {
	Meta
	Err *TaskError
}

// Kind returns the failure kind
func (e Failed) Kind() Kind { return e.Err.Kind }

// OutOfResources is emitted when the sample buffers could not be allocated
type OutOfResources struct {
	Meta
	Err *TaskError
}

func (Started) event()        {}
func (Completed) event()      {}
func (Failed) event()         {}
func (OutOfResources) event() {}

// IsTerminal reports whether ev ends its task
func IsTerminal(ev Event) bool {
	_, started := ev.(Started)
	return !started
}

// Listener receives task events. It is called from the task's goroutine and
// must not block for long.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(Event)

// HandleEvent calls f(ev)
func (f ListenerFunc) HandleEvent(ev Event) { f(ev) }

type nopListener struct{}

func (nopListener) HandleEvent(Event) {}
