package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is the class of every construction failure: a
	// required parameter is missing or an explicit rule is violated.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMalformedInput marks a parameter that received a value of the wrong
	// shape. It is a kind of ErrInvalidConfiguration.
	ErrMalformedInput = fmt.Errorf("%w: malformed input type", ErrInvalidConfiguration)
)

// ConfigError reports why a constructor refused its parameters.
type ConfigError struct {
	Kind   Kind
	Param  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s parameter %q: %s", e.Err, e.Kind, e.Param, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalid(kind Kind, param, format string, args ...any) error {
	return &ConfigError{Kind: kind, Param: param, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidConfiguration}
}

func malformed(kind Kind, param, format string, args ...any) error {
	return &ConfigError{Kind: kind, Param: param, Reason: fmt.Sprintf(format, args...), Err: ErrMalformedInput}
}

func missing(kind Kind, param string) error {
	return invalid(kind, param, "is required")
}
