package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when a task title is blank.
	ErrEmptyTitle = errors.New("title is required")

	// ErrLocked is returned when another process holds the task file lock.
	ErrLocked = errors.New("task file is locked by another process")
)

// NotFoundError reports an operation on an id that is not in the list.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError describes one problem found in a task file.
type ValidationError struct {
	Path string // Path to the offending value, e.g. "[1].title"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CorruptStateError reports a task file that exists but cannot be turned
// into a valid task list.
type CorruptStateError struct {
	Path     string
	Problems []error
	Err      error // Parse error, if the content was not well-formed
}

func (e *CorruptStateError) Error() string {
	var b strings.Builder
	b.WriteString("task file")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	b.WriteString(" is corrupt")
	switch {
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	case len(e.Problems) > 0:
		b.WriteString(": " + e.Problems[0].Error())
		if n := len(e.Problems) - 1; n > 0 {
			fmt.Fprintf(&b, " (and %d more)", n)
		}
	}
	return b.String()
}

// Unwrap returns the parse error, if any.
func (e *CorruptStateError) Unwrap() error {
	return e.Err
}
