// Package task holds the task model, the in-memory task list, and the
// file-backed store that persists it.
//
// The task file (tasks.json by default) is a JSON array of task objects:
//
//	[
//	  {
//	    "id": 1,
//	    "title": "Buy milk",
//	    "due_date": null,
//	    "is_complete": false
//	  },
//	  {
//	    "id": 2,
//	    "title": "Pay rent",
//	    "due_date": "2024-06-01",
//	    "is_complete": true
//	  }
//	]
//
// # Formats
//
// The same records can be stored as YAML (a bare sequence with the same keys)
// or TOML (a [[tasks]] array of tables, due_date omitted when absent). The
// format is picked explicitly or inferred from the file extension.
//
// # Validation
//
// Every format is normalized to the JSON data model and checked against an
// embedded JSON Schema (draft 2020-12) before it is decoded. Ids must also be
// unique. A file that fails either check yields a *CorruptStateError and is
// never rewritten by Load.
//
// # Writing
//
// Save replaces the file atomically (temp file, fsync, rename) while holding
// an advisory lock on <file>.lock. Output uses 2-space indentation and a
// trailing newline.
package task
