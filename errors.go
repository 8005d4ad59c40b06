package flagkit

import (
	"fmt"
	"strings"
)

// DuplicateFlagError reports a registration-time name collision that was not
// sanctioned by an override. It indicates a programming error and aborts
// startup; it is never recovered automatically.
type DuplicateFlagError struct {
	// Name is the colliding flag name (long or short).
	Name string
	// Module is the module attempting the second definition, when known.
	Module string
}

func (e *DuplicateFlagError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("flag --%s is already defined and cannot be redefined by module %q", e.Name, e.Module)
	}
	return fmt.Sprintf("flag --%s is already defined", e.Name)
}

// UnrecognizedFlagError reports a flag-shaped argv token that resolved to no
// registered flag while parsing in strict mode.
type UnrecognizedFlagError struct {
	// Token is the offending argv token, verbatim.
	Token string
	// Suggestions holds close known flag names, best match first.
	Suggestions []string
}

func (e *UnrecognizedFlagError) Error() string {
	msg := fmt.Sprintf("unrecognized flag %s", e.Token)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean --%s?)", strings.Join(e.Suggestions, ", --"))
	}
	return msg
}

// TypeCoercionError reports a raw value that could not be parsed into the
// flag's declared type. Parsing aborts at the offending token since later
// tokens cannot be reliably interpreted.
type TypeCoercionError struct {
	// Name is the flag's long name.
	Name string
	// Raw is the offending input text.
	Raw string
	// Err is the underlying coercion failure.
	Err error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("flag --%s: invalid value %q: %v", e.Name, e.Raw, e.Err)
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }

// ValidationError reports one or more validator rejections. At end of parse
// every violation is aggregated into a single ValidationError so users fix
// all of them in one pass; mutation-time rejections carry exactly one.
type ValidationError struct {
	// Message is the human-readable report; aggregated errors join every
	// violation, one per line.
	Message string

	violations []error
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap exposes the individual violations for errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error { return e.violations }

// newValidationError builds a single-violation error for one flag.
func newValidationError(flagName, message string) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("flag --%s: %s", flagName, message)}
}

// aggregateValidationErrors joins violations into one report. Returns nil
// when there is nothing to report.
func aggregateValidationErrors(violations []error) error {
	switch len(violations) {
	case 0:
		return nil
	case 1:
		return violations[0]
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Error()
	}
	return &ValidationError{
		Message:    fmt.Sprintf("flag validation failed:\n- %s", strings.Join(msgs, "\n- ")),
		violations: violations,
	}
}

// IllegalFlagValueError reports a programmatic Set with an invalid value,
// outside of argv parsing.
type IllegalFlagValueError struct {
	// Name is the flag's long name.
	Name string
	// Raw is the rejected input.
	Raw string
	// Err is the underlying coercion or validation failure.
	Err error
}

func (e *IllegalFlagValueError) Error() string {
	return fmt.Sprintf("cannot set flag --%s to %q: %v", e.Name, e.Raw, e.Err)
}

func (e *IllegalFlagValueError) Unwrap() error { return e.Err }

// CantOpenFlagFileError reports a --flagfile argument whose file could not
// be read.
type CantOpenFlagFileError struct {
	Path string
	Err  error
}

func (e *CantOpenFlagFileError) Error() string {
	return fmt.Sprintf("cannot open flagfile %q: %v", e.Path, e.Err)
}

func (e *CantOpenFlagFileError) Unwrap() error { return e.Err }
