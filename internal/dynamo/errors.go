package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidParameter indicates malformed input, rejected before any step runs.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumerical indicates a derivative or value became NaN or Inf.
	ErrNumerical = errors.New("non-finite result")
)

const (
	KindInvalidParameter = "InvalidParameter"
	KindNumerical        = "NumericalError"
	KindOther            = "Error"
)

// ParameterError names the offending input.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s (got %g)", e.Field, e.Reason, e.Value)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// InvalidParameter builds a ParameterError from a formatted reason.
func InvalidParameter(format string, args ...any) error {
	return &ParameterError{Reason: fmt.Sprintf(format, args...)}
}

// NumericalError records where integration broke down.
type NumericalError struct {
	Step       int
	Time       float64
	Value      float64
	Derivative float64
	Reason     string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g, y=%.6g, f=%.6g): %s", e.Step, e.Time, e.Value, e.Derivative, e.Reason)
}

func (e *NumericalError) Unwrap() error { return ErrNumerical }

// Kind maps err onto the reporting taxonomy used by the CLI.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidParameter):
		return KindInvalidParameter
	case errors.Is(err, ErrNumerical):
		return KindNumerical
	default:
		return KindOther
	}
}
