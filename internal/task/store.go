package task

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
)

// DefaultFile is the task file used when no path is configured.
const DefaultFile = "tasks.json"

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Store loads and saves a task list from a single file.
type Store struct {
	path   string
	format Format
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFormat forces a file format instead of inferring it from the extension.
func WithFormat(format Format) Option {
	return func(s *Store) {
		if format != "" {
			s.format = format
		}
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns a store for the file at path.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultFile
	}
	s := &Store{
		path:   path,
		format: FormatForPath(path),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Format returns the file format in use.
func (s *Store) Format() Format {
	return s.format
}

// Load reads the task file. A missing file is an empty list, not an error.
func (s *Store) Load() (List, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("task file not found, starting empty", "path", s.path)
		return List{}, nil
	}

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return List{}, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	l, err := Decode(data, s.format)
	if err != nil {
		var corrupt *CorruptStateError
		if errors.As(err, &corrupt) {
			corrupt.Path = s.path
			s.logger.Warn("task file is corrupt", "path", s.path, "err", err)
		}
		return nil, err
	}

	s.logger.Debug("loaded tasks", "path", s.path, "count", len(l))
	return l, nil
}

// Save replaces the task file with the given list. The previous file stays
// intact if writing fails part way.
func (s *Store) Save(l List) error {
	data, err := Encode(l, s.format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create task directory: %w", err)
		}
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := atomicWrite(s.path, data); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	s.logger.Debug("saved tasks", "path", s.path, "count", len(l))
	return nil
}

// Quarantine moves an unreadable task file aside so a fresh list can be
// saved without destroying it. It returns the new location.
func (s *Store) Quarantine() (string, error) {
	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	dest := quarantineName(s.path, time.Now())
	if err := os.Rename(s.path, dest); err != nil {
		return "", fmt.Errorf("move corrupt task file: %w", err)
	}

	s.logger.Warn("moved corrupt task file aside", "from", s.path, "to", dest)
	return dest, nil
}

// quarantineName returns the first of <path>.corrupt, <path>.corrupt-<ts>,
// <path>.corrupt-<ts>-2, ... that does not exist yet.
func quarantineName(path string, now time.Time) string {
	dest := path + ".corrupt"
	stamped := fmt.Sprintf("%s.corrupt-%s", path, now.UTC().Format("20060102-150405"))
	for n := 1; ; n++ {
		if _, err := os.Lstat(dest); err != nil {
			return dest
		}
		dest = stamped
		if n > 1 {
			dest = fmt.Sprintf("%s-%d", stamped, n)
		}
	}
}

// lock takes the advisory lock for the duration of one load or save.
func (s *Store) lock() (func(), error) {
	fl := flock.New(s.path + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock task file: %w", err)
	}
	if !locked {
		s.logger.Warn("task file lock is held elsewhere", "path", s.path)
		return nil, ErrLocked
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("release task file lock", "err", err)
		}
	}, nil
}

// atomicWrite writes data to a sibling temp file, syncs it, and renames it
// over path.
func atomicWrite(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
