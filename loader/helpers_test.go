package loader

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cocosip/go-dicom-viewer/header"
)

// recorder collects events in delivery order
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) HandleEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// gatedReader blocks every ReadFile until release is closed or a token is sent
type gatedReader struct {
	gate     chan struct{}
	entered  chan string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	calls    atomic.Int32
}

func newGatedReader() *gatedReader {
	return &gatedReader{gate: make(chan struct{}), entered: make(chan string, 16)}
}

func (g *gatedReader) ReadFile(path string) (*header.File, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		seen := g.maxSeen.Load()
		if n <= seen || g.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	g.calls.Add(1)
	g.entered <- filepath.Base(path)
	<-g.gate
	return &header.File{
		Path:      path,
		Header:    header.Header{Rows: 1, Columns: 2, BitsAllocated: 8},
		PixelData: []byte{10, 20},
	}, nil
}

// release lets exactly one blocked ReadFile return
func (g *gatedReader) release() { g.gate <- struct{}{} }

type funcReader func(path string) (*header.File, error)

func (f funcReader) ReadFile(path string) (*header.File, error) { return f(path) }

func waitEntered(t *testing.T, g *gatedReader) string {
	t.Helper()
	select {
	case name := <-g.entered:
		return name
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a task to start reading")
		return ""
	}
}

func waitTask(t *testing.T, task *Task) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("task %s did not finish: %v", task.Path(), err)
	}
	return ev
}

var errBoom = errors.New("boom")
