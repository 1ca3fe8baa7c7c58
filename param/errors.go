package param

import (
	"fmt"
	"strings"
)

// InvalidValueError reports a value outside the domain of its parameter.
type InvalidValueError struct {
	Name   string
	Value  any
	Domain string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for parameter %q, allowed: %s",
		e.Value, e.Name, e.Domain)
}

// UnknownParameterError reports a key that the schema does not declare.
type UnknownParameterError struct {
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Name)
}

// IncompatibleError reports a combination of individually valid values that
// the core cannot accept.
type IncompatibleError struct {
	Names  []string
	Reason string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("incompatible parameters %s: %s",
		strings.Join(e.Names, ", "), e.Reason)
}

// MalformedImportError reports a JSON descriptor that cannot be turned into
// a parameter set.
type MalformedImportError struct {
	Reason string
	Err    error
}

func (e *MalformedImportError) Error() string {
	if e.Err != nil {
		return "malformed descriptor import: " + e.Reason + ": " + e.Err.Error()
	}

	return "malformed descriptor import: " + e.Reason
}

func (e *MalformedImportError) Unwrap() error {
	return e.Err
}
