package loader

import (
	"errors"
	"fmt"

	"github.com/cocosip/go-dicom-viewer/codec"
)

// Kind classifies why a task failed. Kinds are stable and safe to show to users.
type Kind int

const (
	// KindNotFound: the file did not exist when the task was dispatched
	KindNotFound Kind = iota + 1
	// KindParseError: the header was malformed or incomplete
	KindParseError
	// KindTruncatedData: the pixel payload is shorter than the geometry requires
	KindTruncatedData
	// KindOutOfResources: the sample buffers could not be allocated
	KindOutOfResources
)

var (
	// ErrNotFound is matched by errors.Is for KindNotFound failures
	ErrNotFound = errors.New("file does not exist")

	// ErrParse is matched by errors.Is for KindParseError failures
	ErrParse = errors.New("header cannot be parsed")

	// ErrOutOfResources is matched by errors.Is for KindOutOfResources failures
	ErrOutOfResources = errors.New("out of resources")

	// ErrNilFileSet is returned by NewCoordinator without a file set
	ErrNilFileSet = errors.New("nil file set")
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindParseError:
		return "ParseError"
	case KindTruncatedData:
		return "TruncatedData"
	case KindOutOfResources:
		return "OutOfResources"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindTruncatedData:
		return codec.ErrTruncatedData
	case KindOutOfResources:
		return ErrOutOfResources
	default:
		return ErrParse
	}
}

// TaskError is the error carried by Failed and OutOfResources events.
// The underlying cause is kept for diagnostics.
type TaskError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *TaskError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As
func (e *TaskError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// KindOf returns the failure kind of err, or 0 if err is not a task failure
func KindOf(err error) Kind {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
