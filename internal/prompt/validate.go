// Package prompt turns raw lines of user input into typed task fields.
//
// The Parse functions are pure and never touch I/O. Prompter wraps them with
// a read/re-prompt loop over an input stream.
package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasktracker-go/internal/task"
)

// ValidationError reports input that a validator rejected.
type ValidationError struct {
	Field  string // What was being read, e.g. "title"
	Input  string // The raw input as typed
	Reason string // Message shown to the user
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Reasons shown to the user when input is rejected.
const (
	ReasonNotNumber = "Please enter a whole number."
	ReasonBlank     = "This field cannot be blank. Try again."
	ReasonBadDate   = "Invalid date. Use YYYY-MM-DD (example: 2026-01-16) or press Enter to skip."
)

// ParseInt accepts a base-10 integer with optional surrounding whitespace.
func ParseInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: "number", Input: raw, Reason: ReasonNotNumber}
	}
	return n, nil
}

// ParseNonEmpty trims raw and rejects the result if nothing is left.
func ParseNonEmpty(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &ValidationError{Field: "text", Input: raw, Reason: ReasonBlank}
	}
	return s, nil
}

// ParseOptionalDate returns nil for blank input, otherwise the date in
// YYYY-MM-DD form.
func ParseOptionalDate(raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(task.DateLayout, s)
	if err != nil {
		return nil, &ValidationError{Field: "due date", Input: raw, Reason: ReasonBadDate}
	}
	out := d.Format(task.DateLayout)
	return &out, nil
}
