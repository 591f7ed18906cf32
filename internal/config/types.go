package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker-go/internal/task"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // Config files that were read, lowest priority first
}

// Default values.
const (
	DefaultTasksFile = task.DefaultFile
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasktracker.
type Config struct {
	// Storage
	TasksFile string `toml:"tasks_file"`
	Format    string `toml:"format"` // json, yaml, toml; empty infers from the extension

	// Menu
	Pause bool `toml:"pause"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogFile       string `toml:"log_file"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// fields lists every configurable key in display order.
var fields = []string{
	"tasks_file",
	"format",
	"pause",
	"log_level",
	"log_format",
	"log_file",
	"log_timestamps",
	"log_caller",
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Value returns the current value of a key formatted for display.
func (c *Config) Value(field string) string {
	switch field {
	case "tasks_file":
		return c.TasksFile
	case "format":
		return c.Format
	case "pause":
		return fmt.Sprint(c.Pause)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_file":
		return c.LogFile
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}

// TaskFormat returns the storage format to force, or "" to infer it.
func (c *Config) TaskFormat() task.Format {
	f, _ := task.ParseFormat(c.Format)
	return f
}

// Validate reports values no component can use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TasksFile) == "" {
		return fmt.Errorf("tasks_file must not be empty")
	}
	if _, err := task.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: unsupported value %q (expected text, json, or logfmt)", c.LogFormat)
	}
	return nil
}
