package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cocosip/go-dicom-viewer/fileset"
	"github.com/cocosip/go-dicom-viewer/internal/dicomtest"
)

func newTestSet(t *testing.T, current string, names ...string) *fileset.FileSet {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := fileset.Open(filepath.Join(dir, current), fileset.ExtensionFilter(".dcm"))
	if err != nil {
		t.Fatalf("fileset.Open failed: %v", err)
	}
	return s
}

func TestNewCoordinatorNilFileSet(t *testing.T) {
	if _, err := NewCoordinator(nil); !errors.Is(err, ErrNilFileSet) {
		t.Errorf("error = %v, want ErrNilFileSet", err)
	}
}

func TestNavigateWaitsForActiveTask(t *testing.T) {
	files := newTestSet(t, "a.dcm", "a.dcm", "b.dcm", "c.dcm")
	reader := newGatedReader()
	rec := &recorder{}
	c, err := NewCoordinator(files, WithReader(reader), WithListener(rec))
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}

	first, err := c.LoadCurrent(context.Background())
	if err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	if name := waitEntered(t, reader); name != "a.dcm" {
		t.Fatalf("first task reads %q, want a.dcm", name)
	}

	type navResult struct {
		task *Task
		err  error
	}
	nav := make(chan navResult, 1)
	go func() {
		task, err := c.Next(context.Background())
		nav <- navResult{task, err}
	}()

	select {
	case name := <-reader.entered:
		t.Fatalf("second task %q started while the first was running", name)
	case <-nav:
		t.Fatal("Next returned while the first task was running")
	case <-time.After(50 * time.Millisecond):
	}
	if c.Cursor() != 0 {
		t.Errorf("cursor moved to %d while a task was running", c.Cursor())
	}

	reader.release()
	waitTask(t, first)

	res := <-nav
	if res.err != nil || res.task == nil {
		t.Fatalf("Next = %v, %v", res.task, res.err)
	}
	if name := waitEntered(t, reader); name != "b.dcm" {
		t.Errorf("second task reads %q, want b.dcm", name)
	}
	reader.release()
	waitTask(t, res.task)

	if got := reader.maxSeen.Load(); got != 1 {
		t.Errorf("max concurrent reads = %d, want 1", got)
	}
	if got := reader.calls.Load(); got != 2 {
		t.Errorf("reads = %d, want 2", got)
	}
	if c.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", c.Cursor())
	}
	assertOrdered(t, rec.snapshot())
}

func TestNavigateBoundaryDispatchesNothing(t *testing.T) {
	files := newTestSet(t, "b.dcm", "a.dcm", "b.dcm")
	reader := newGatedReader()
	close(reader.gate)
	c, err := NewCoordinator(files, WithReader(reader))
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	ctx := context.Background()

	task, err := c.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	waitTask(t, task)

	next, err := c.Next(ctx)
	if err != nil || next != nil {
		t.Fatalf("Next at last entry = %v, %v; want no task", next, err)
	}
	if c.Active() != task {
		t.Error("boundary navigation replaced the active task")
	}

	prev, err := c.Previous(ctx)
	if err != nil || prev == nil {
		t.Fatalf("Previous = %v, %v", prev, err)
	}
	waitTask(t, prev)
	if c.CurrentPath() != files.Path(0) {
		t.Errorf("CurrentPath = %q", c.CurrentPath())
	}

	again, err := c.Previous(ctx)
	if err != nil || again != nil {
		t.Errorf("Previous at first entry = %v, %v; want no task", again, err)
	}
	if got := reader.calls.Load(); got != 2 {
		t.Errorf("reads = %d, want 2", got)
	}
}

func TestConcurrentNavigationIsSerialized(t *testing.T) {
	files := newTestSet(t, "f0.dcm", "f0.dcm", "f1.dcm", "f2.dcm", "f3.dcm", "f4.dcm")
	reader := newGatedReader()
	close(reader.gate)
	rec := &recorder{}
	c, err := NewCoordinator(files, WithReader(reader), WithListener(rec))
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	ctx := context.Background()

	if _, err := c.LoadCurrent(ctx); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := c.Next(ctx)
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Next failed: %v", err)
		}
	}
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if c.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4", c.Cursor())
	}
	if got := reader.maxSeen.Load(); got != 1 {
		t.Errorf("max concurrent reads = %d, want 1", got)
	}
	if got := reader.calls.Load(); got != 5 {
		t.Errorf("reads = %d, want 5", got)
	}
	assertOrdered(t, rec.snapshot())
}

func TestNavigateContextCancelled(t *testing.T) {
	files := newTestSet(t, "a.dcm", "a.dcm", "b.dcm")
	reader := newGatedReader()
	c, err := NewCoordinator(files, WithReader(reader))
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}

	first, err := c.LoadCurrent(context.Background())
	if err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	waitEntered(t, reader)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next error = %v, want deadline exceeded", err)
	}
	if c.Cursor() != 0 {
		t.Errorf("cursor = %d after cancelled navigation, want 0", c.Cursor())
	}

	reader.release()
	waitTask(t, first)
}

func TestIsCurrent(t *testing.T) {
	files := newTestSet(t, "a.dcm", "a.dcm", "b.dcm")
	reader := newGatedReader()
	close(reader.gate)
	c, err := NewCoordinator(files, WithReader(reader))
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	ctx := context.Background()

	first, _ := c.LoadCurrent(ctx)
	waitTask(t, first)
	if !c.IsCurrent(first.ID()) {
		t.Error("first task should be current")
	}
	second, _ := c.Next(ctx)
	waitTask(t, second)
	if c.IsCurrent(first.ID()) {
		t.Error("first task should be stale after navigation")
	}
	if !c.IsCurrent(second.ID()) {
		t.Error("second task should be current")
	}
}

func TestCoordinatorEndToEnd(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"img001.dcm", "img002.dcm"} {
		err := dicomtest.Write(filepath.Join(dir, name), dicomtest.Options{
			Rows: 4, Columns: 4, BitsAllocated: 16,
			PixelData: dicomtest.Gradient16(4, 4, uint16(i*100)),
		})
		if err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	files, err := fileset.Open(filepath.Join(dir, "img001.dcm"), fileset.ExtensionFilter(".dcm"))
	if err != nil {
		t.Fatalf("fileset.Open failed: %v", err)
	}
	c, err := NewCoordinator(files, WithMaxPixels(1<<20))
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	ctx := context.Background()

	task, err := c.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	done, ok := waitTask(t, task).(Completed)
	if !ok || done.NoImage() {
		t.Fatalf("first file did not load: %#v", task.Result())
	}
	if got := done.Image.Original()[15]; got != 15 {
		t.Errorf("last sample = %d, want 15", got)
	}

	task, err = c.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	done, ok = waitTask(t, task).(Completed)
	if !ok || done.NoImage() {
		t.Fatalf("second file did not load: %#v", task.Result())
	}
	if got := done.Image.Original()[0]; got != 100 {
		t.Errorf("first sample = %d, want 100", got)
	}
}

// assertOrdered checks that each task's events are Started then one terminal
// event, and that tasks never interleave
func assertOrdered(t *testing.T, events []Event) {
	t.Helper()
	for i := 0; i < len(events); i += 2 {
		if i+1 >= len(events) {
			t.Fatalf("event %d (%T) has no terminal event", i, events[i])
		}
		if _, ok := events[i].(Started); !ok {
			t.Errorf("event %d = %T, want Started", i, events[i])
		}
		if !IsTerminal(events[i+1]) {
			t.Errorf("event %d = %T, want terminal", i+1, events[i+1])
		}
		if events[i].TaskID() != events[i+1].TaskID() {
			t.Errorf("events %d and %d belong to different tasks", i, i+1)
		}
	}
}
