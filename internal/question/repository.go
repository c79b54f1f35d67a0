package question

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// maxRecordSize bounds a single JSONL record (question bodies can carry
// sizable HTML).
const maxRecordSize = 1 << 20

// Repository is the line-oriented JSONL question bank. One Question per
// line, append order preserved, malformed lines quarantined on load.
type Repository struct {
	path string
	log  *zap.Logger
}

// NewRepository creates a Repository reading and writing path.
func NewRepository(path string, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{path: path, log: log}
}

// Path returns the backing file path.
func (r *Repository) Path() string { return r.path }

// LoadAll reads every valid record in file order. Malformed lines are
// logged and skipped. A missing file is an empty bank; any other open
// failure is an *UnavailableError.
func (r *Repository) LoadAll() ([]Question, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &UnavailableError{Path: r.path, Err: err}
	}
	defer f.Close()

	var questions []Question
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		q, err := Parse(line)
		if err != nil {
			var malformed *MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Line = lineNo
				r.log.Warn("skipping malformed question record",
					zap.String("path", r.path),
					zap.Int("line", lineNo),
					zap.Error(malformed.Err),
				)
				continue
			}
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, &UnavailableError{Path: r.path, Err: err}
	}

	return questions, nil
}

// Patch carries the fields an edit may change. A nil field is left as-is.
type Patch struct {
	Answer      []int
	Explanation *string
}

// Update rewrites the record for id with a new answer and/or explanation.
// The whole file is rewritten; lines that do not parse are preserved
// verbatim so an edit never destroys quarantined records. Returns
// *NotFoundError if no stored record has the id.
func (r *Repository) Update(id int, patch Patch) error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{ID: id}
		}
		return &UnavailableError{Path: r.path, Err: err}
	}

	lines := bytes.Split(raw, []byte("\n"))
	found := false
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		q, parseErr := Parse(trimmed)
		if parseErr != nil || q.ID != id {
			continue
		}

		if patch.Answer != nil {
			q.Answer = patch.Answer
		}
		if patch.Explanation != nil {
			q.Explanation = *patch.Explanation
		}
		if err := q.Validate(); err != nil {
			return fmt.Errorf("patched question %d invalid: %w", id, err)
		}

		updated, err := q.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode question %d: %w", id, err)
		}
		lines[i] = updated
		found = true
		break
	}
	if !found {
		return &NotFoundError{ID: id}
	}

	return r.writeAll(bytes.Join(lines, []byte("\n")))
}

// Append validates q and adds it as a new final record. Duplicate ids are
// rejected.
func (r *Repository) Append(q Question) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}

	existing, err := r.LoadAll()
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID == q.ID {
			return fmt.Errorf("question id %d already exists", q.ID)
		}
	}

	encoded, err := q.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode question %d: %w", q.ID, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &UnavailableError{Path: r.path, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("append question %d: %w", q.ID, err)
	}
	return nil
}

// writeAll replaces the backing file via a temp file and rename.
func (r *Repository) writeAll(content []byte) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
