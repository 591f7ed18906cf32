// Package menu runs the interactive numbered menu over a task store.
//
// A Session owns the in-memory list for one run. It loads the list once,
// saves after every change, and saves again on exit. Save failures are
// reported and the session keeps going with the in-memory list.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker-go/internal/prompt"
	"github.com/nibzard/tasktracker-go/internal/task"
)

// Action is a menu selection.
type Action string

const (
	ActionList     Action = "list"
	ActionAdd      Action = "add"
	ActionComplete Action = "complete"
	ActionDelete   Action = "delete"
	ActionSave     Action = "save"
	ActionExit     Action = "exit"
)

type item struct {
	action  Action
	label   string
	aliases []string
}

// items is the menu in display order; the number shown is the index plus one.
var items = []item{
	{ActionList, "List tasks", []string{"list", "ls"}},
	{ActionAdd, "Add a task", []string{"add", "new"}},
	{ActionComplete, "Mark task as complete", []string{"complete", "done"}},
	{ActionDelete, "Delete a task", []string{"delete", "rm"}},
	{ActionSave, "Save", []string{"save"}},
	{ActionExit, "Exit", []string{"exit", "quit", "q"}},
}

// ParseChoice maps a menu number or name to an action.
func ParseChoice(raw string) (Action, bool) {
	choice := strings.ToLower(strings.TrimSpace(raw))
	if choice == "" {
		return "", false
	}
	if n, err := prompt.ParseInt(choice); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1].action, true
		}
		return "", false
	}
	for _, it := range items {
		for _, alias := range it.aliases {
			if choice == alias {
				return it.action, true
			}
		}
	}
	return "", false
}

// Session is one interactive run of the menu.
type Session struct {
	store  *task.Store
	tasks  task.List
	prompt *prompt.Prompter
	out    io.Writer
	logger *log.Logger
	pause  bool

	// unsaved is set when the session runs without the task file. Saves
	// report it instead of writing.
	unsaved error
}

// Option configures a Session.
type Option func(*Session)

// WithPause waits for Enter after each action.
func WithPause(enabled bool) Option {
	return func(s *Session) {
		s.pause = enabled
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session over store that reads answers from in and
// writes everything the user sees to out. It starts with an empty list;
// call Open to load the file.
func NewSession(ctx context.Context, store *task.Store, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		store:  store,
		tasks:  task.List{},
		prompt: prompt.New(ctx, in, out),
		out:    out,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the current in-memory list.
func (s *Session) Tasks() task.List {
	return s.tasks.Clone()
}

// Open loads the task file. If the file is corrupt the user is asked
// whether to move it aside and start empty; declining returns the
// *task.CorruptStateError and leaves the file untouched. Any other load
// error, such as task.ErrLocked, offers an empty session that is never saved.
func (s *Session) Open() error {
	l, err := s.store.Load()
	if err == nil {
		s.tasks = l
		return nil
	}

	var corrupt *task.CorruptStateError
	if !errors.As(err, &corrupt) {
		return s.openWithoutFile(err)
	}

	fmt.Fprintf(s.out, "Could not read %s:\n", s.store.Path())
	problems := corrupt.Problems
	if corrupt.Err != nil {
		problems = []error{corrupt.Err}
	}
	for _, p := range problems {
		fmt.Fprintf(s.out, "  - %v\n", p)
	}
	ok, perr := s.prompt.Confirm(fmt.Sprintf(
		"Start with an empty list? The unreadable file will be moved to %s.corrupt [y/N]: ",
		s.store.Path()))
	if perr != nil || !ok {
		return err
	}

	dest, qerr := s.store.Quarantine()
	if qerr != nil {
		return qerr
	}
	fmt.Fprintf(s.out, "Moved the unreadable file to %s.\n", dest)
	s.tasks = task.List{}
	return nil
}

// openWithoutFile handles a task file that exists but could not be read,
// for example because another process holds its lock. The user may go on
// with an empty list that is never written, so the file is left alone.
func (s *Session) openWithoutFile(loadErr error) error {
	fmt.Fprintf(s.out, "Could not read %s: %v\n", s.store.Path(), loadErr)
	ok, err := s.prompt.Confirm("Continue with an empty list that will not be saved? [y/N]: ")
	if err != nil || !ok {
		return loadErr
	}
	s.logger.Warn("running without the task file", "path", s.store.Path(), "err", loadErr)
	s.unsaved = loadErr
	s.tasks = task.List{}
	return nil
}

// Run shows the menu until the user exits or input ends. Both save the list
// one last time; a failure of that save is returned.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return s.interrupted(err)
		}

		s.writeMenu()
		line, err := s.prompt.Line(fmt.Sprintf("\nChoose an option (1-%d): ", len(items)))
		if err != nil {
			return s.stop(err)
		}

		action, ok := ParseChoice(line)
		if !ok {
			fmt.Fprintf(s.out, "Please enter a number between 1 and %d.\n", len(items))
			continue
		}
		s.logger.Debug("menu selection", "action", action)

		if action == ActionExit {
			return s.Exit()
		}
		if err := s.Do(action); err != nil {
			return s.stop(err)
		}
		s.waitForEnter()
	}
}

// Do runs a single non-exit action. It returns only input errors; task and
// save errors are reported to the user.
func (s *Session) Do(action Action) error {
	switch action {
	case ActionList:
		s.List()
		return nil
	case ActionAdd:
		return s.Add()
	case ActionComplete:
		return s.Complete()
	case ActionDelete:
		return s.Delete()
	case ActionSave:
		if s.save() {
			fmt.Fprintln(s.out, "Saved!")
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// List prints every task in insertion order.
func (s *Session) List() {
	writeHeader(s.out, "YOUR TASKS")
	WriteList(s.out, s.tasks)
}

// Add asks for a title and optional due date, appends the task, and saves.
func (s *Session) Add() error {
	writeHeader(s.out, "ADD A TASK")

	title, err := s.prompt.NonEmpty("Task title: ")
	if err != nil {
		return err
	}
	due, err := s.prompt.OptionalDate("Due date (YYYY-MM-DD) or press Enter to skip: ")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	// End of input here means no due date. The task is kept and the
	// EOF is passed on so the loop still exits.
	inputErr := err

	t, err := s.tasks.Add(title, due)
	if err != nil {
		fmt.Fprintf(s.out, "Could not add task: %v\n", err)
		return inputErr
	}
	s.logger.Info("task added", "id", t.ID)
	if s.save() {
		fmt.Fprintf(s.out, "Task %d added and saved!\n", t.ID)
	} else {
		fmt.Fprintf(s.out, "Task %d added.\n", t.ID)
	}
	return inputErr
}

// Complete asks for an id, marks that task complete, and saves.
func (s *Session) Complete() error {
	writeHeader(s.out, "MARK TASK COMPLETE")
	if len(s.tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks to mark complete.")
		return nil
	}
	WriteList(s.out, s.tasks)

	id, err := s.prompt.Int("\nEnter the task id to mark complete: ")
	if err != nil {
		return err
	}
	if err := s.tasks.Complete(id); err != nil {
		s.reportTaskError(id, err)
		return nil
	}
	s.logger.Info("task completed", "id", id)
	if s.save() {
		fmt.Fprintln(s.out, "Task marked complete and saved!")
	}
	return nil
}

// Delete asks for an id, removes that task, and saves.
func (s *Session) Delete() error {
	writeHeader(s.out, "DELETE A TASK")
	if len(s.tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks to delete.")
		return nil
	}
	WriteList(s.out, s.tasks)

	id, err := s.prompt.Int("\nEnter the task id to delete: ")
	if err != nil {
		return err
	}
	removed, err := s.tasks.Delete(id)
	if err != nil {
		s.reportTaskError(id, err)
		return nil
	}
	s.logger.Info("task deleted", "id", id)
	s.save()
	fmt.Fprintf(s.out, "Deleted: %s\n", removed.Title)
	return nil
}

// Exit saves the list and says goodbye.
func (s *Session) Exit() error {
	if s.unsaved != nil {
		fmt.Fprintf(s.out, "Changes were not saved: %v\n", s.unsaved)
		fmt.Fprintln(s.out, "Goodbye!")
		return nil
	}
	if err := s.persist(); err != nil {
		fmt.Fprintf(s.out, "Could not save: %v\n", err)
		return fmt.Errorf("save on exit: %w", err)
	}
	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

// stop ends the loop after an input error. End of input is a normal exit.
func (s *Session) stop(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		fmt.Fprintln(s.out)
		return s.Exit()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return s.interrupted(err)
	default:
		return fmt.Errorf("read input: %w", err)
	}
}

// interrupted saves what it can and returns the context error.
func (s *Session) interrupted(cause error) error {
	if err := s.persist(); err != nil {
		s.logger.Error("save after interrupt", "err", err)
	}
	return cause
}

// persist writes the list unless the session runs without its file.
func (s *Session) persist() error {
	if s.unsaved != nil {
		return fmt.Errorf("task file not loaded: %w", s.unsaved)
	}
	return s.store.Save(s.tasks)
}

func (s *Session) save() bool {
	if err := s.persist(); err != nil {
		s.logger.Warn("save failed", "path", s.store.Path(), "err", err)
		fmt.Fprintf(s.out, "Could not save: %v\n", err)
		return false
	}
	return true
}

func (s *Session) reportTaskError(id int, err error) {
	if errors.Is(err, task.ErrNotFound) {
		fmt.Fprintf(s.out, "No such task: %d\n", id)
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Session) waitForEnter() {
	if !s.pause {
		return
	}
	// End of input here surfaces on the next menu read.
	_, _ = s.prompt.Line("\nPress Enter to continue...")
}

func (s *Session) writeMenu() {
	writeHeader(s.out, "TASK TRACKER")
	for i, it := range items {
		fmt.Fprintf(s.out, "%d) %s\n", i+1, it.label)
	}
}
