package task

import (
	"errors"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name string
		list List
		want int
	}{
		{"empty list", nil, 1},
		{"single task", List{{ID: 1, Title: "a"}}, 2},
		{"gaps use max", List{{ID: 3, Title: "a"}, {ID: 7, Title: "b"}, {ID: 2, Title: "c"}}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.NextID(); got != tt.want {
				t.Errorf("NextID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	var l List

	first, err := l.Add("  Buy milk  ", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("ID: got %d, want 1", first.ID)
	}
	if first.Title != "Buy milk" {
		t.Errorf("Title: got %q, want %q", first.Title, "Buy milk")
	}
	if first.DueDate != nil {
		t.Errorf("DueDate: got %q, want nil", *first.DueDate)
	}
	if first.IsComplete {
		t.Error("new task should not be complete")
	}

	second, err := l.Add("Pay rent", strPtr("2024-06-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("ID: got %d, want 2", second.ID)
	}
	if second.Due() != "2024-06-01" {
		t.Errorf("Due(): got %q, want 2024-06-01", second.Due())
	}
	if len(l) != 2 || l[0].Title != "Buy milk" || l[1].Title != "Pay rent" {
		t.Errorf("insertion order not preserved: %+v", l)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	var l List

	if _, err := l.Add("   ", nil); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Add(blank) error = %v, want ErrEmptyTitle", err)
	}
	if _, err := l.Add("Task", strPtr("05/01/2024")); err == nil {
		t.Error("Add with malformed due date should fail")
	}
	if len(l) != 0 {
		t.Errorf("failed adds should not modify the list, got %d tasks", len(l))
	}

	// A blank due date means no due date.
	task, err := l.Add("Task", strPtr("  "))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.HasDueDate() {
		t.Errorf("blank due date should be dropped, got %q", task.Due())
	}
}

func TestComplete(t *testing.T) {
	l := List{
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
	}

	if err := l.Complete(1); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !l[0].IsComplete {
		t.Error("task 1 should be complete")
	}
	if l[1].IsComplete {
		t.Error("task 2 should be unchanged")
	}

	// Completing again is a no-op.
	before := l.Clone()
	if err := l.Complete(1); err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if len(l) != len(before) || l[0] != before[0] || l[1] != before[1] {
		t.Errorf("idempotent complete changed the list: got %+v, want %+v", l, before)
	}

	err := l.Complete(99)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Complete(99) error = %v, want *NotFoundError", err)
	}
	if nf.ID != 99 {
		t.Errorf("NotFoundError.ID: got %d, want 99", nf.ID)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) should be true")
	}
}

func TestDelete(t *testing.T) {
	l := List{
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
		{ID: 3, Title: "Third"},
	}
	snapshot := l.Clone()

	removed, err := l.Delete(2)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.Title != "Second" {
		t.Errorf("removed: got %q, want Second", removed.Title)
	}
	if len(l) != 2 {
		t.Fatalf("len: got %d, want 2", len(l))
	}
	if l[0].ID != 1 || l[1].ID != 3 {
		t.Errorf("remaining ids: got %d,%d want 1,3", l[0].ID, l[1].ID)
	}
	if len(snapshot) != 3 || snapshot[1].ID != 2 {
		t.Errorf("clone was modified by delete: %+v", snapshot)
	}

	if _, err := l.Delete(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice: got %v, want ErrNotFound", err)
	}
	if len(l) != 2 {
		t.Errorf("failed delete changed length to %d", len(l))
	}
}

func TestIDsStayUniqueAcrossAddAndDelete(t *testing.T) {
	var l List
	ops := []struct {
		add    string
		delete int
	}{
		{add: "a"}, {add: "b"}, {add: "c"},
		{delete: 2},
		{add: "d"},
		{delete: 1},
		{add: "e"}, {add: "f"},
		{delete: 4},
		{add: "g"},
	}

	for _, op := range ops {
		if op.add != "" {
			maxBefore := l.NextID() - 1
			task, err := l.Add(op.add, nil)
			if err != nil {
				t.Fatalf("Add(%q) failed: %v", op.add, err)
			}
			if task.ID <= maxBefore {
				t.Errorf("Add(%q) id %d not greater than current max %d", op.add, task.ID, maxBefore)
			}
			continue
		}
		if _, err := l.Delete(op.delete); err != nil {
			t.Fatalf("Delete(%d) failed: %v", op.delete, err)
		}
	}

	seen := map[int]bool{}
	for _, task := range l {
		if seen[task.ID] {
			t.Errorf("duplicate id %d in %+v", task.ID, l)
		}
		seen[task.ID] = true
	}
}

func TestCounts(t *testing.T) {
	l := List{
		{ID: 1, Title: "a", IsComplete: true},
		{ID: 2, Title: "b"},
		{ID: 3, Title: "c"},
	}
	open, done := l.Counts()
	if open != 2 || done != 1 {
		t.Errorf("Counts() = %d, %d; want 2, 1", open, done)
	}
}

func TestCloneCopiesDueDate(t *testing.T) {
	l := List{{ID: 1, Title: "a", DueDate: strPtr("2024-01-01")}}
	c := l.Clone()
	*c[0].DueDate = "2025-01-01"
	if *l[0].DueDate != "2024-01-01" {
		t.Errorf("clone shares due date pointer: original now %q", *l[0].DueDate)
	}
	if List(nil).Clone() != nil {
		t.Error("Clone of nil list should be nil")
	}
}

func TestGet(t *testing.T) {
	l := List{{ID: 4, Title: "four"}}
	if task, ok := l.Get(4); !ok || task.Title != "four" {
		t.Errorf("Get(4) = %+v, %v", task, ok)
	}
	if _, ok := l.Get(5); ok {
		t.Error("Get(5) should report missing")
	}
}
