package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker-go/internal/config"
)

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Formatter
		wantErr bool
	}{
		{"", log.TextFormatter, false},
		{"text", log.TextFormatter, false},
		{"JSON", log.JSONFormatter, false},
		{"logfmt", log.LogfmtFormatter, false},
		{"xml", log.TextFormatter, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormatter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormatter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		LogLevel:      "debug",
		LogFormat:     "json",
		LogTimestamps: true,
		LogCaller:     true,
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Level != log.DebugLevel {
		t.Errorf("Level: got %v, want debug", opts.Level)
	}
	if opts.Formatter != log.JSONFormatter {
		t.Errorf("Formatter: got %v, want json", opts.Formatter)
	}
	if !opts.ReportTimestamp || !opts.ReportCaller {
		t.Errorf("report flags not applied: %+v", opts)
	}
	if opts.Prefix != DefaultPrefix {
		t.Errorf("Prefix: got %q", opts.Prefix)
	}

	if _, err := OptionsFromConfig(&config.Config{LogLevel: "loud"}); err == nil {
		t.Error("invalid level should fail")
	}

	nilOpts, err := OptionsFromConfig(nil)
	if err != nil || nilOpts.Level != log.WarnLevel {
		t.Errorf("OptionsFromConfig(nil) = %+v, %v", nilOpts, err)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, DefaultOptions())

	logger.Info("loaded tasks", "count", 3)
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("task file is corrupt", "path", "tasks.json")
	out := buf.String()
	if !strings.Contains(out, "task file is corrupt") || !strings.Contains(out, "tasks.json") {
		t.Errorf("warn line missing content: %q", out)
	}
	if !strings.Contains(out, DefaultPrefix) {
		t.Errorf("warn line missing prefix: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Formatter = log.JSONFormatter
	opts.Level = log.DebugLevel
	New(&buf, opts).Debug("saved tasks", "count", 2)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "saved tasks" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["count"] != float64(2) {
		t.Errorf("count: got %v", entry["count"])
	}
}

func TestSetupStderr(t *testing.T) {
	var stderr bytes.Buffer
	logger, closeFn, err := Setup(&config.Config{LogLevel: "error"}, &stderr)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closeFn()

	logger.Error("save failed")
	if !strings.Contains(stderr.String(), "save failed") {
		t.Errorf("expected log on stderr, got %q", stderr.String())
	}
}

func TestSetupLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasktracker.log")
	var stderr bytes.Buffer

	for i := 0; i < 2; i++ {
		logger, closeFn, err := Setup(&config.Config{LogLevel: "info", LogFile: path}, &stderr)
		if err != nil {
			t.Fatalf("Setup: %v", err)
		}
		logger.Info("task added", "id", i+1)
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	if stderr.Len() != 0 {
		t.Errorf("nothing should reach stderr, got %q", stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if got := strings.Count(string(data), "task added"); got != 2 {
		t.Errorf("log file should be appended to, found %d entries:\n%s", got, data)
	}
}
