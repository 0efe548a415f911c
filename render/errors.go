package render

import "fmt"

// RenderError reports a chart that cannot be drawn: an empty view, no
// finite numbers, or unusable display options.
type RenderError struct {
	Title  string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %q: %s", e.Title, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }
