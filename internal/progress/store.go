// Package progress persists the learner's last known outcome per question.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// CorruptError indicates the progress file exists but cannot be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("progress store %s corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store is the durable question-id -> was-correct mapping. The whole file
// is loaded per operation and Merge is the only sanctioned write path for
// round results; callers must serialize access externally.
type Store struct {
	path    string
	lenient bool
	log     *zap.Logger
}

// NewStore creates a Store at path. With lenient set, a corrupt file loads
// as empty (logged as a warning) instead of returning a *CorruptError.
func NewStore(path string, lenient bool, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, lenient: lenient, log: log}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the full mapping. A missing file is an empty mapping. A
// corrupt file returns a *CorruptError unless the store is lenient.
func (s *Store) Load() (map[int]bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[int]bool{}, nil
		}
		return nil, fmt.Errorf("read progress store: %w", err)
	}

	decoded, err := decode(raw)
	if err != nil {
		if s.lenient {
			s.log.Warn("progress store corrupt, treating as empty",
				zap.String("path", s.path),
				zap.Error(err),
			)
			return map[int]bool{}, nil
		}
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	return decoded, nil
}

// Save overwrites the whole store with m, via a temp file and rename.
func (s *Store) Save(m map[int]bool) error {
	encoded := make(map[string]bool, len(m))
	for id, correct := range m {
		encoded[strconv.Itoa(id)] = correct
	}
	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Merge overlays partial onto the stored mapping, later values winning per
// question id, and saves the result.
func (s *Store) Merge(partial map[int]bool) error {
	current, err := s.Load()
	if err != nil {
		return err
	}
	for id, correct := range partial {
		current[id] = correct
	}
	return s.Save(current)
}

// Reset deletes the store entirely, forgetting all history.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reset progress store: %w", err)
	}
	return nil
}

// decode parses the stored JSON object of string-encoded ids.
func decode(raw []byte) (map[int]bool, error) {
	var encoded map[string]bool
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}

	m := make(map[int]bool, len(encoded))
	for key, correct := range encoded {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("non-integer question id %q", key)
		}
		m[id] = correct
	}
	return m, nil
}
