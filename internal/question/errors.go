package question

import "fmt"

// UnavailableError indicates the question store could not be opened at
// all. A missing file is not unavailable; it reads as an empty bank.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("question store %s unavailable: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// MalformedRecordError reports a single record that failed parsing or
// validation. Loading skips and logs these, never failing the whole bank.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed record: %v", e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// NotFoundError indicates an edit targeted an id that is not in the bank.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("question %d not found", e.ID)
}
