// Package ui provides the optional full-screen terminal board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker-go/internal/task"
)

// ErrNoTTY is returned when the board is started without a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

const boardTitle = "Task Tracker"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Faint(true)
)

// Option configures the board.
type Option func(*boardModel)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *boardModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Run opens the board over store and blocks until the user quits.
func Run(ctx context.Context, store *task.Store, out io.Writer, opts ...Option) error {
	if !IsTTY(out) {
		return ErrNoTTY
	}
	model := newBoardModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*boardModel); ok && m.loadErr != nil {
		return m.loadErr
	}
	return nil
}

type boardModel struct {
	store         *task.Store
	logger        *log.Logger
	tasks         task.List
	cursor        int
	loadErr       error
	status        string
	statusErr     bool
	confirmDelete bool
	showHelp      bool
}

func newBoardModel(store *task.Store, opts ...Option) *boardModel {
	m := &boardModel{
		store:  store,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *boardModel) Init() tea.Cmd {
	m.reload()
	return nil
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirmDelete {
		m.confirmDelete = false
		if key.String() == "y" {
			m.deleteSelected()
		} else {
			m.setStatus("Delete cancelled.", false)
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "x", " ", "space", "enter":
		m.completeSelected()
	case "d":
		if t, ok := m.selected(); ok {
			m.confirmDelete = true
			m.setStatus(fmt.Sprintf("Delete %q? (y/N)", t.Title), false)
		}
	case "r", "f5":
		m.reload()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *boardModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.tasks)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading task file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		b.WriteString("Fix or move the file, then press r to reload.\n\n")
		writeFooter(&b)
		return b.String()
	}

	writeTasks(&b, m.tasks, m.cursor)
	m.writeStatus(&b)
	writeFooter(&b)
	return b.String()
}

func (m *boardModel) selected() (task.Task, bool) {
	if m.loadErr != nil || m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *boardModel) completeSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	if t.IsComplete {
		m.setStatus(fmt.Sprintf("Task %d is already complete.", t.ID), false)
		return
	}
	if err := m.tasks.Complete(t.ID); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.logger.Info("task completed", "id", t.ID)
	m.save(fmt.Sprintf("Task %d marked complete.", t.ID))
}

func (m *boardModel) deleteSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	removed, err := m.tasks.Delete(t.ID)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if m.cursor >= len(m.tasks) && m.cursor > 0 {
		m.cursor--
	}
	m.logger.Info("task deleted", "id", removed.ID)
	m.save("Deleted: " + removed.Title)
}

// save persists the list. On failure the in-memory list is kept.
func (m *boardModel) save(success string) {
	if err := m.store.Save(m.tasks); err != nil {
		m.logger.Warn("save failed", "path", m.store.Path(), "err", err)
		m.setStatus("Could not save: "+err.Error(), true)
		return
	}
	m.setStatus(success, false)
}

func (m *boardModel) reload() {
	l, err := m.store.Load()
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = l
	if m.cursor >= len(l) {
		m.cursor = len(l) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.setStatus(fmt.Sprintf("Loaded %s.", m.store.Path()), false)
}

func (m *boardModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *boardModel) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	switch {
	case m.confirmDelete:
		b.WriteString(confirmStyle.Render(m.status))
	case m.statusErr:
		b.WriteString(errorStyle.Render(m.status))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
}

func writeTitle(b *strings.Builder, l task.List) {
	open, done := l.Counts()
	b.WriteString(titleStyle.Render(boardTitle) + "\n")
	b.WriteString(strings.Repeat("=", len(boardTitle)) + "\n")
	b.WriteString(fmt.Sprintf("Open: %d  Done: %d\n\n", open, done))
}

func writeTasks(b *strings.Builder, l task.List, cursor int) {
	if len(l) == 0 {
		b.WriteString("  No tasks yet. Add one from the menu!\n\n")
		return
	}
	for i, t := range l {
		marker := " "
		if i == cursor {
			marker = cursorStyle.Render(">")
		}
		b.WriteString(marker + " " + formatTask(t) + "\n")
	}
	b.WriteString("\n")
}

func formatTask(t task.Task) string {
	check := "[ ]"
	title := t.Title
	if t.IsComplete {
		check = "[x]"
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %3d  %s", check, t.ID, title)
	if t.HasDueDate() {
		line += "  " + dueStyle.Render("due "+t.Due())
	}
	return line
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up, k        Move up\n")
	b.WriteString("  down, j      Move down\n")
	b.WriteString("  x, space     Mark selected task complete\n")
	b.WriteString("  d            Delete selected task (asks first)\n")
	b.WriteString("  r, F5        Reload from disk\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press h for help | q to quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
