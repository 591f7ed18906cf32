package task

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{" toml ", FormatTOML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"tasks.json":       FormatJSON,
		"tasks":            FormatJSON,
		"dir/tasks.yaml":   FormatYAML,
		"dir/tasks.YML":    FormatYAML,
		"tasks.toml":       FormatTOML,
		"tasks.backup.txt": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestEncodeJSONLayout(t *testing.T) {
	l := List{
		{ID: 1, Title: "Buy milk"},
		{ID: 2, Title: "Pay rent", DueDate: strPtr("2024-06-01"), IsComplete: true},
	}

	data, err := Encode(l, FormatJSON)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `[
  {
    "id": 1,
    "title": "Buy milk",
    "due_date": null,
    "is_complete": false
  },
  {
    "id": 2,
    "title": "Pay rent",
    "due_date": "2024-06-01",
    "is_complete": true
  }
]
`
	if string(data) != want {
		t.Errorf("Encode JSON:\ngot:\n%s\nwant:\n%s", data, want)
	}

	empty, err := Encode(nil, FormatJSON)
	if err != nil {
		t.Fatalf("Encode(nil) failed: %v", err)
	}
	if string(empty) != "[]\n" {
		t.Errorf("Encode(nil) = %q, want %q", empty, "[]\n")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lists := map[string]List{
		"empty": {},
		"mixed": {
			{ID: 1, Title: "Buy milk", IsComplete: true},
			{ID: 5, Title: "Pay rent", DueDate: strPtr("2024-06-01")},
			{ID: 3, Title: "Call \"mom\"", DueDate: strPtr("2025-12-31")},
		},
	}

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		for name, l := range lists {
			t.Run(string(format)+"/"+name, func(t *testing.T) {
				data, err := Encode(l, format)
				if err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
				got, err := Decode(data, format)
				if err != nil {
					t.Fatalf("Decode failed: %v\n%s", err, data)
				}
				if !reflect.DeepEqual(got, l) {
					t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v\n%s", got, l, data)
				}
			})
		}
	}
}

func TestEncodeTOMLUsesArrayOfTables(t *testing.T) {
	data, err := Encode(List{{ID: 1, Title: "Buy milk"}}, FormatTOML)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), "[[tasks]]") {
		t.Errorf("TOML output should use [[tasks]]:\n%s", data)
	}
	if strings.Contains(string(data), "due_date") {
		t.Errorf("TOML output should omit an absent due date:\n%s", data)
	}
}

func TestDecodeBlankIsEmpty(t *testing.T) {
	for _, content := range []string{"", "   \n\t"} {
		l, err := Decode([]byte(content), FormatJSON)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", content, err)
		}
		if l == nil || len(l) != 0 {
			t.Errorf("Decode(%q) = %#v, want empty non-nil list", content, l)
		}
	}
}

func TestDecodeAcceptsMissingDueDate(t *testing.T) {
	l, err := Decode([]byte(`[{"id": 1, "title": "a", "is_complete": false}]`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(l) != 1 || l[0].DueDate != nil {
		t.Errorf("Decode = %+v, want one task without due date", l)
	}
}

func TestDecodeUnquotedDates(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		content string
	}{
		{name: "yaml", format: FormatYAML, content: "- id: 1\n  title: a\n  due_date: 2024-06-01\n  is_complete: false\n"},
		{name: "yaml quoted", format: FormatYAML, content: "- id: 1\n  title: a\n  due_date: \"2024-06-01\"\n  is_complete: false\n"},
		{name: "toml local date", format: FormatTOML, content: "[[tasks]]\nid = 1\ntitle = \"a\"\ndue_date = 2024-06-01\nis_complete = false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Decode([]byte(tt.content), tt.format)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(l) != 1 || l[0].Due() != "2024-06-01" {
				t.Errorf("Decode = %+v, want due date 2024-06-01", l)
			}
		})
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		content   string
		parseErr  bool
		wantInMsg string
	}{
		{name: "truncated json", format: FormatJSON, content: `[{"id": 1,`, parseErr: true},
		{name: "not json", format: FormatJSON, content: `hello`, parseErr: true},
		{name: "object instead of array", format: FormatJSON, content: `{"id": 1}`},
		{name: "null document", format: FormatJSON, content: `null`},
		{name: "blank title", format: FormatJSON, content: `[{"id": 1, "title": "  ", "is_complete": false}]`, wantInMsg: "[0].title"},
		{name: "missing title", format: FormatJSON, content: `[{"id": 1, "is_complete": false}]`},
		{name: "string id", format: FormatJSON, content: `[{"id": "1", "title": "a", "is_complete": false}]`, wantInMsg: "[0].id"},
		{name: "zero id", format: FormatJSON, content: `[{"id": 0, "title": "a", "is_complete": false}]`},
		{name: "fractional id", format: FormatJSON, content: `[{"id": 1.5, "title": "a", "is_complete": false}]`},
		{name: "bad date", format: FormatJSON, content: `[{"id": 1, "title": "a", "due_date": "05/01/2024", "is_complete": false}]`, wantInMsg: "[0].due_date"},
		{name: "bad completion flag", format: FormatJSON, content: `[{"id": 1, "title": "a", "is_complete": "no"}]`},
		{name: "unknown field", format: FormatJSON, content: `[{"id": 1, "title": "a", "is_complete": false, "priority": 3}]`},
		{name: "duplicate ids", format: FormatJSON, content: `[{"id": 1, "title": "a", "is_complete": false}, {"id": 1, "title": "b", "is_complete": false}]`, wantInMsg: "duplicate id 1"},
		{name: "yaml syntax", format: FormatYAML, content: "- id: 1\n  title: [unclosed\n", parseErr: true},
		{name: "yaml mapping", format: FormatYAML, content: "id: 1\ntitle: a\n"},
		{name: "yaml date with time", format: FormatYAML, content: "- id: 1\n  title: a\n  due_date: 2024-06-01T10:30:00Z\n  is_complete: false\n", wantInMsg: "[0].due_date"},
		{name: "toml syntax", format: FormatTOML, content: "[[tasks]\nid = 1\n", parseErr: true},
		{name: "toml bad field", format: FormatTOML, content: "[[tasks]]\nid = 1\ntitle = \"a\"\nis_complete = 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.content), tt.format)
			var corrupt *CorruptStateError
			if !errors.As(err, &corrupt) {
				t.Fatalf("Decode error = %v, want *CorruptStateError", err)
			}
			if tt.parseErr && corrupt.Err == nil {
				t.Errorf("expected a parse error, got problems %v", corrupt.Problems)
			}
			if !tt.parseErr && len(corrupt.Problems) == 0 {
				t.Errorf("expected validation problems, got %v", corrupt.Err)
			}
			if tt.wantInMsg != "" && !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestCorruptStateErrorMessage(t *testing.T) {
	err := &CorruptStateError{
		Path: "tasks.json",
		Problems: []error{
			&ValidationError{Path: "[0].title", Err: errors.New("missing required field")},
			&ValidationError{Path: "[1].id", Err: errors.New("duplicate id 1")},
		},
	}
	want := "task file tasks.json is corrupt: [0].title: missing required field (and 1 more)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSchemaIsExposed(t *testing.T) {
	if !strings.Contains(Schema(), `"is_complete"`) {
		t.Error("Schema() should return the embedded task schema")
	}
}
