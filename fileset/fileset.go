// Package fileset lists the image files of one directory in a fixed order
// and keeps a cursor over them.
package fileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrEmptyDirectory is returned when no entry passes the filter
	ErrEmptyDirectory = errors.New("no image files in directory")

	// ErrNotInSet is returned when the requested file is not among the filtered entries
	ErrNotInSet = errors.New("file is not in directory listing")
)

// Direction selects the neighbour Advance moves to
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Filter reports whether a directory entry name is a candidate image file
type Filter func(name string) bool

// ExtensionFilter accepts regular file names ending in one of exts, ignoring case
func ExtensionFilter(exts ...string) Filter {
	lower := make([]string, len(exts))
	for i, ext := range exts {
		lower[i] = strings.ToLower(ext)
	}
	return func(name string) bool {
		return slices.Contains(lower, strings.ToLower(filepath.Ext(name)))
	}
}

// FileSet is a sorted, immutable list of files with a cursor.
// It is not safe for concurrent use; the owner serializes access.
type FileSet struct {
	dir     string
	entries []string
	cursor  int
}

// Open lists the directory containing path, keeps the regular files accepted
// by filter, sorts them by name and places the cursor on path.
func Open(path string, filter Filter) (*FileSet, error) {
	dir := filepath.Dir(path)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var names []string
	for _, e := range dirEntries {
		if e.IsDir() || (filter != nil && !filter(e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	return New(dir, names, filepath.Base(path))
}

// New builds a set from entry names in dir, positioned on current
func New(dir string, names []string, current string) (*FileSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrEmptyDirectory)
	}
	entries := slices.Clone(names)
	slices.Sort(entries)

	idx := slices.Index(entries, current)
	if idx < 0 {
		return nil, fmt.Errorf("%s in %s: %w", current, dir, ErrNotInSet)
	}
	return &FileSet{dir: dir, entries: entries, cursor: idx}, nil
}

// Dir returns the listed directory
func (s *FileSet) Dir() string { return s.dir }

// Len returns the number of entries
func (s *FileSet) Len() int { return len(s.entries) }

// Cursor returns the current index
func (s *FileSet) Cursor() int { return s.cursor }

// Names returns a copy of the sorted entry names
func (s *FileSet) Names() []string { return slices.Clone(s.entries) }

// Path returns the full path of entry i
func (s *FileSet) Path(i int) string {
	return filepath.Join(s.dir, s.entries[i])
}

// Current returns the full path under the cursor
func (s *FileSet) Current() string {
	return s.Path(s.cursor)
}

// IndexOf returns the index of the entry with the given base name, or -1
func (s *FileSet) IndexOf(name string) int {
	return slices.Index(s.entries, filepath.Base(name))
}

// Advance moves the cursor one step in direction d and returns the new index.
// At either end the cursor stays where it is.
func (s *FileSet) Advance(d Direction) int {
	switch d {
	case Next:
		if s.cursor < len(s.entries)-1 {
			s.cursor++
		}
	case Previous:
		if s.cursor > 0 {
			s.cursor--
		}
	}
	return s.cursor
}
