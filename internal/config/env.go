package config

import "os"

// EnvPrefix is the prefix shared by every environment override.
const EnvPrefix = "TASKTRACKER_"

// envBindings maps environment variables to config fields.
var envBindings = []struct {
	name  string
	field string
}{
	{EnvPrefix + "FILE", "tasks_file"},
	{EnvPrefix + "FORMAT", "format"},
	{EnvPrefix + "PAUSE", "pause"},
	{EnvPrefix + "LOG_LEVEL", "log_level"},
	{EnvPrefix + "LOG_FORMAT", "log_format"},
	{EnvPrefix + "LOG_FILE", "log_file"},
	{EnvPrefix + "LOG_TIMESTAMPS", "log_timestamps"},
	{EnvPrefix + "LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables. Empty values
// are ignored. If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		if err := cfg.set(b.field, v); err != nil {
			continue
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}
