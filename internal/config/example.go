package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasktracker configuration file
# Values can be overridden by TASKTRACKER_* environment variables or CLI flags

# Task file (relative to the working directory; supports ~ and $VAR)
tasks_file = "tasks.json"

# Storage format: json, yaml, or toml. Leave empty to use the file extension.
# format = "yaml"

# Wait for Enter after each menu action
pause = false

# Logging
log_level = "warn"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
# log_file = "~/.tasktracker/tasktracker.log"
log_timestamps = false
log_caller = false
`
}
