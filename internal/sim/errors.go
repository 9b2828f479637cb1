package sim

import (
	"errors"
	"fmt"
)

// Construction errors. A failed New returns no simulation.
var (
	// ErrInvalidParameter indicates malformed construction input.
	ErrInvalidParameter = errors.New("sim: invalid parameter")

	// ErrInsufficientNodes indicates fewer nodes than stakeholder categories.
	ErrInsufficientNodes = errors.New("sim: insufficient nodes for stakeholder placement")
)

// ParameterError wraps a construction error with the offending field.
type ParameterError struct {
	Field   string
	Value   any
	Reason  string
	Wrapped error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Wrapped, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return e.Wrapped
}
