package dataset

import "fmt"

// ParseError describes a single value field that could not be interpreted.
// It is absorbed locally: the value degrades to missing and the error is only
// surfaced for observability, never as a fatal condition.
type ParseError struct {
	Column string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s", e.Raw, e.Column)
}

// ImputationError indicates a column with no observed values at all. No
// meaningful fill exists, so this is fatal and must surface to the caller.
type ImputationError struct {
	Column string
}

func (e *ImputationError) Error() string {
	return fmt.Sprintf("column %s has no observed values; cannot impute", e.Column)
}
