package config

import "flag"

// flagToField maps flag names to config field names.
var flagToField = map[string]string{
	"file":           "tasks_file",
	"format":         "format",
	"pause":          "pause",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-file":       "log_file",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses CLI flags. Only flags that were set on the
// command line are applied, so lower layers keep their values otherwise.
// If sources is non-nil, it tracks the source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	}

	// Paths
	fs.String("file", cfg.TasksFile, "Path to the task file")
	fs.String("format", cfg.Format, "Task file format (json, yaml, toml; default from extension)")

	// Menu
	fs.Bool("pause", cfg.Pause, "Wait for Enter after each menu action")

	// Logging
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.String("log-file", cfg.LogFile, "Write logs to this file instead of stderr")
	fs.Bool("log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.Bool("log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToField[f.Name]
		if !ok || setErr != nil {
			return
		}
		if err := cfg.set(field, f.Value.String()); err != nil {
			setErr = err
			return
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})
	return setErr
}
