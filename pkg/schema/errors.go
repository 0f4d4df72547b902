package schema

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError reports one property that failed its type.
type FieldError struct {
	Key    string
	Reason string
	Value  any // nil when the key is undeclared
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError collects every FieldError of one Validate call, in key order.
type AggregateError struct {
	Errors []*FieldError
}

// Error joins the field errors on one line so it fits an API message.
func (e *AggregateError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *AggregateError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe
	}
	return out
}

// Fields returns the field errors carried by err, or nil.
func Fields(err error) []*FieldError {
	var agg *AggregateError
	if errors.As(err, &agg) {
		return agg.Errors
	}
	return nil
}

// Keys returns the names of the failing fields.
func Keys(err error) []string {
	fields := Fields(err)
	keys := make([]string, len(fields))
	for i, fe := range fields {
		keys[i] = fe.Key
	}
	return keys
}
