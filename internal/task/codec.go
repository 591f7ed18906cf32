package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"
)

// Format identifies a task file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name. An empty name returns "", meaning
// the format is inferred from the file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json, yaml, or toml)", name)
	}
}

// FormatForPath infers the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// tomlDocument wraps the list because a TOML document must be a table.
type tomlDocument struct {
	Tasks List `toml:"tasks"`
}

// Encode serializes the list in the given format.
func Encode(l List, format Format) ([]byte, error) {
	if l == nil {
		l = List{}
	}

	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("marshal tasks as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal tasks as yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tomlDocument{Tasks: l}); err != nil {
			return nil, fmt.Errorf("marshal tasks as toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses task file content. Blank content is an empty list. Content
// that cannot be parsed, violates the schema, or repeats an id yields a
// *CorruptStateError without a path; the store fills the path in.
func Decode(data []byte, format Format) (List, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return List{}, nil
	}

	normalized, err := normalize(data, format)
	if err != nil {
		return nil, &CorruptStateError{Err: err}
	}

	var doc interface{}
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, &CorruptStateError{Err: fmt.Errorf("parse task file: %w", err)}
	}
	if result := ValidateDocument(doc); !result.Valid {
		return nil, &CorruptStateError{Problems: result.Errors}
	}

	var l List
	if err := json.Unmarshal(normalized, &l); err != nil {
		return nil, &CorruptStateError{Err: fmt.Errorf("decode tasks: %w", err)}
	}
	if result := l.Validate(); !result.Valid {
		return nil, &CorruptStateError{Problems: result.Errors}
	}
	if l == nil {
		l = List{}
	}
	return l, nil
}

// normalize converts content in any supported format to JSON bytes so a
// single schema and decoder apply to all of them.
func normalize(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		if !json.Valid(data) {
			var probe interface{}
			err := json.Unmarshal(data, &probe)
			return nil, fmt.Errorf("parse task file: %w", err)
		}
		return data, nil
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse task file as yaml: %w", err)
		}
		out, err := json.Marshal(plainDates(doc))
		if err != nil {
			return nil, fmt.Errorf("parse task file as yaml: %w", err)
		}
		return out, nil
	case FormatTOML:
		var doc map[string]interface{}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse task file as toml: %w", err)
		}
		tasks, ok := doc["tasks"]
		if !ok {
			tasks = []interface{}{}
		}
		out, err := json.Marshal(plainDates(tasks))
		if err != nil {
			return nil, fmt.Errorf("parse task file as toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// plainDates rewrites the date values YAML and TOML decoders produce for
// unquoted dates (2024-06-01) back into DateLayout strings. Values with a
// time of day keep it, so the schema still rejects them.
func plainDates(v interface{}) interface{} {
	switch v := v.(type) {
	case time.Time:
		h, m, sec := v.Clock()
		if h == 0 && m == 0 && sec == 0 && v.Nanosecond() == 0 {
			return v.Format(DateLayout)
		}
		return v.Format(time.RFC3339Nano)
	case map[string]interface{}:
		for k, item := range v {
			v[k] = plainDates(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = plainDates(item)
		}
		return v
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = plainDates(item)
		}
		return out
	default:
		return v
	}
}
