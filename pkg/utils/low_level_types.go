package utils

import (
	"errors"
	"fmt"
)

type XError struct {
	Reason string
	Meta   any
}

// Error lets XError travel as a plain error while keeping Reason readable.
func (xe XError) Error() string {
	if xe.Meta == nil {
		return xe.Reason
	}
	return fmt.Sprintf("%s: %v", xe.Reason, xe.Meta)
}

// Unwrap exposes Meta when it holds the underlying error.
func (xe XError) Unwrap() error {
	if err, ok := xe.Meta.(error); ok {
		return err
	}
	return nil
}

// Normalize flattens any provider error into an XError so callers only ever
// see a reason string and the raw error text.
func Normalize(reason string, err error) XError {
	var xe XError
	if errors.As(err, &xe) {
		return xe
	}
	return XError{Reason: reason, Meta: err}
}

// RawMessage returns the raw error text carried by Meta, or "" when empty.
func (xe XError) RawMessage() string {
	switch m := xe.Meta.(type) {
	case nil:
		return ""
	case error:
		return m.Error()
	default:
		return fmt.Sprint(m)
	}
}
