package loader

import "fmt"

// SourceUnavailableError means the location could not be read at all.
type SourceUnavailableError struct {
	Location string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Location, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// FormatError means the source was read but is not a delimited table with a
// header row and a consistent column count.
type FormatError struct {
	Location string
	Line     int // 1-based line in the source, 0 when not tied to a line
	Reason   string
	Err      error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed table %s (line %d): %s", e.Location, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed table %s: %s", e.Location, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
