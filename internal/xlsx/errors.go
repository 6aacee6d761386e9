package xlsx

import (
	"errors"
	"fmt"
)

var (
	// ErrSequencing is matched by every *SequencingError.
	ErrSequencing = errors.New("xlsx: call out of sequence")
	// ErrIO is matched by every *IOError.
	ErrIO = errors.New("xlsx: write failed")
)

// SequencingError reports misuse of the writer or style cache API. It is a
// programming error, not a runtime condition.
type SequencingError struct {
	Op     string
	Reason string
}

func (e *SequencingError) Error() string {
	return fmt.Sprintf("xlsx: %s: %s", e.Op, e.Reason)
}

func (e *SequencingError) Is(target error) bool { return target == ErrSequencing }

// IOError wraps a failure of the destination writer.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("xlsx: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

func sequencing(op, format string, args ...any) error {
	return &SequencingError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
