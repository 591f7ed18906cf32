package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/tasktracker-go/internal/task"
)

const ruleWidth = 40

// EmptyListMessage is shown when there is nothing to list.
const EmptyListMessage = "No tasks yet. Add one from the menu!"

func writeHeader(w io.Writer, title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, title, rule)
}

// FormatTask renders one task as a list line, e.g.
// "  2. [ ] Pay rent (due: 2024-06-01)".
func FormatTask(t task.Task) string {
	status := "[ ]"
	if t.IsComplete {
		status = "[x]"
	}
	return fmt.Sprintf("%3d. %s %s (due: %s)", t.ID, status, t.Title, t.Due())
}

// WriteList prints tasks in order, one per line, or the empty-list message.
func WriteList(w io.Writer, l task.List) {
	if len(l) == 0 {
		fmt.Fprintln(w, EmptyListMessage)
		return
	}
	for _, t := range l {
		fmt.Fprintln(w, FormatTask(t))
	}
}
