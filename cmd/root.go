// Package cmd implements the CLI command structure for tasktracker.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker-go/internal/config"
	"github.com/nibzard/tasktracker-go/internal/logging"
	"github.com/nibzard/tasktracker-go/internal/menu"
	"github.com/nibzard/tasktracker-go/internal/task"
	"github.com/nibzard/tasktracker-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// env carries what every subcommand needs.
type env struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	io      Streams
}

// Run executes the tasktracker CLI.
func Run(ctx context.Context, args []string, streams Streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	fs.SetOutput(streams.Err)
	fs.Usage = func() {
		printUsage(fs, streams.Err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, streams.Out)
		return nil
	}
	if *showVersion {
		return versionCommand(streams.Out)
	}

	logger, closeLog, err := logging.Setup(cws.Config, streams.Err)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	e := &env{cfg: cws.Config, sources: cws, logger: logger, io: streams}
	logger.Debug("config loaded", "tasks_file", e.cfg.TasksFile, "files", cws.Files)

	// Determine the subcommand
	// If no args or first arg is a flag, use "menu" as default
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "menu":
		return menuCommand(ctx, e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "ls", "list":
		return lsCommand(e, remainingArgs)
	case "check":
		return checkCommand(e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version":
		return versionCommand(streams.Out)
	case "help":
		printUsage(fs, streams.Out)
		return nil
	default:
		fmt.Fprintf(streams.Err, "Unknown command: %s\n", subcommand)
		printUsage(fs, streams.Err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore returns the store for the configured file, or for path when
// a command was given one explicitly.
func (e *env) openStore(path string) *task.Store {
	if path == "" {
		path = e.cfg.TasksFile
	}
	return task.NewStore(path,
		task.WithFormat(e.cfg.TaskFormat()),
		task.WithLogger(e.logger),
	)
}

// fileArg parses a command's flags and returns its optional file argument.
func fileArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		return remaining[0], nil
	}
	return "", nil
}

// menuCommand runs the interactive menu.
func menuCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("tasktracker menu", flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}

	store := e.openStore(path)
	session := menu.NewSession(ctx, store, e.io.In, e.io.Out,
		menu.WithPause(e.cfg.Pause),
		menu.WithLogger(e.logger),
	)
	if err := session.Open(); err != nil {
		return err
	}
	return session.Run(ctx)
}

// tuiCommand launches the terminal board.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("tasktracker tui", flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	return ui.Run(ctx, e.openStore(path), e.io.Out, ui.WithLogger(e.logger))
}

// lsCommand prints the task list without prompting.
func lsCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("tasktracker ls", flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	all := fs.Bool("all", false, "Show every task (default)")
	open := fs.Bool("open", false, "Show only open tasks")
	done := fs.Bool("done", false, "Show only completed tasks")
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	filters := 0
	for _, set := range []bool{*all, *open, *done} {
		if set {
			filters++
		}
	}
	if filters > 1 {
		return fmt.Errorf("use only one of -all, -open, -done")
	}

	l, err := e.openStore(path).Load()
	if err != nil {
		return fmt.Errorf("loading task file: %w", err)
	}

	if !*open && !*done {
		menu.WriteList(e.io.Out, l)
		return nil
	}

	var filtered task.List
	for _, t := range l {
		if t.IsComplete == *done {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		fmt.Fprintln(e.io.Out, "No matching tasks.")
		return nil
	}
	menu.WriteList(e.io.Out, filtered)
	return nil
}

// checkCommand loads and validates the task file.
func checkCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("tasktracker check", flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	printSchema := fs.Bool("schema", false, "Print the JSON Schema task files are checked against")
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	if *printSchema {
		fmt.Fprint(e.io.Out, task.Schema())
		return nil
	}

	store := e.openStore(path)
	w := e.io.Out
	fmt.Fprintf(w, "Task file: %s (%s)\n", store.Path(), store.Format())

	l, err := store.Load()
	if err != nil {
		var corrupt *task.CorruptStateError
		if !errors.As(err, &corrupt) {
			fmt.Fprintf(w, "  Error: %v\n", err)
			return err
		}
		fmt.Fprintln(w, "  Invalid:")
		if corrupt.Err != nil {
			fmt.Fprintf(w, "    - %v\n", corrupt.Err)
		}
		for _, p := range corrupt.Problems {
			fmt.Fprintf(w, "    - %v\n", p)
		}
		return fmt.Errorf("task file check failed")
	}

	open, done := l.Counts()
	fmt.Fprintf(w, "  OK: %d tasks (%d open, %d done)\n", len(l), open, done)
	return nil
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("tasktracker config", flag.ContinueOnError)
	fs.SetOutput(e.io.Err)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := e.io.Out
	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	if file := e.sources.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintln(w, "Config file: (none)")
		fmt.Fprintln(w)
	}
	for _, field := range config.Fields() {
		value := e.cfg.Value(field)
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(w, "  %-15s %-40s (%s)\n", field, value, e.sources.Sources[field])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasktracker version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasktracker - A personal command-line task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktracker [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu [file]         Interactive menu (default command)")
	fmt.Fprintln(w, "  tui [file]          Full-screen task board")
	fmt.Fprintln(w, "  ls [-all|-open|-done] [file]  Print tasks")
	fmt.Fprintln(w, "  check [file]        Validate the task file")
	fmt.Fprintln(w, "  config [-example]   Show effective configuration")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Options (use with 'check' command):")
	fmt.Fprintln(w, "  -schema")
	fmt.Fprintln(w, "        Print the JSON Schema task files are checked against")
}
