// Package task holds the task model, the in-memory task list, and the
// file-backed store that persists it.
package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due dates.
const DateLayout = "2006-01-02"

// Task represents a single tracked item.
type Task struct {
	ID         int     `json:"id" yaml:"id" toml:"id"`
	Title      string  `json:"title" yaml:"title" toml:"title"`
	DueDate    *string `json:"due_date" yaml:"due_date" toml:"due_date,omitempty"`
	IsComplete bool    `json:"is_complete" yaml:"is_complete" toml:"is_complete"`
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && *t.DueDate != ""
}

// Due returns the due date, or "none" when the task has no due date.
func (t Task) Due() string {
	if !t.HasDueDate() {
		return "none"
	}
	return *t.DueDate
}

// List is the ordered task collection. Insertion order is display order.
type List []Task

// NextID returns the id for the next added task: 1 for an empty list,
// otherwise the largest existing id plus one.
func (l List) NextID() int {
	max := 0
	for _, t := range l {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Add appends a new incomplete task and returns it. The list is not persisted.
func (l *List) Add(title string, due *string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}

	var dueDate *string
	if due != nil && strings.TrimSpace(*due) != "" {
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(*due))
		if err != nil {
			return Task{}, fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", *due)
		}
		normalized := parsed.Format(DateLayout)
		dueDate = &normalized
	}

	t := Task{
		ID:      l.NextID(),
		Title:   title,
		DueDate: dueDate,
	}
	*l = append(*l, t)
	return t, nil
}

// Get returns the task with the given id.
func (l List) Get(id int) (Task, bool) {
	if i := l.index(id); i >= 0 {
		return l[i], true
	}
	return Task{}, false
}

// Complete marks the task with the given id complete. Completing a task
// that is already complete is not an error.
func (l *List) Complete(id int) error {
	i := l.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	(*l)[i].IsComplete = true
	return nil
}

// Delete removes the task with the given id and returns it.
func (l *List) Delete(id int) (Task, error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	removed := (*l)[i]
	// Full slice expression so clones sharing the backing array are untouched.
	*l = append((*l)[:i:i], (*l)[i+1:]...)
	return removed, nil
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, t := range l {
		if t.DueDate != nil {
			d := *t.DueDate
			t.DueDate = &d
		}
		out[i] = t
	}
	return out
}

// Counts returns the number of open and completed tasks.
func (l List) Counts() (open, done int) {
	for _, t := range l {
		if t.IsComplete {
			done++
		} else {
			open++
		}
	}
	return open, done
}

func (l List) index(id int) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
