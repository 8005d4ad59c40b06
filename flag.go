package flagkit

import (
	"fmt"
	"strings"
)

// Flag is one named, typed configuration cell. It owns its coercion
// strategy, current value, default, presence state, and attached
// validators. Flags are built by the Define builder and the typed factory
// functions, then registered into a FlagValues instance.
type Flag struct {
	name      string
	shortName string
	help      string

	coercer coercer

	// boolean flags support --name with no operand and --noname negation.
	boolean bool
	// multi flags accumulate one parsed item per occurrence.
	multi bool

	allowOverride  bool
	allowOverwrite bool

	hasDefault  bool
	defValue    any
	defUnparsed string

	value        any
	present      bool
	usingDefault bool

	// validators check a candidate value before it is committed. They are
	// installed by RegisterValidator and friends and run on programmatic
	// mutation; end-of-parse validation runs through the registry instead
	// so violations can be aggregated.
	validators []func(candidate any) error
}

// Name returns the flag's long name.
func (f *Flag) Name() string { return f.name }

// ShortName returns the single-character alias, or "" if none.
func (f *Flag) ShortName() string { return f.shortName }

// Help returns the flag's help text.
func (f *Flag) Help() string { return f.help }

// FlagType names the flag's value type for help rendering.
func (f *Flag) FlagType() string { return f.coercer.FlagType() }

// Boolean reports whether the flag takes no operand and supports --no
// negation.
func (f *Flag) Boolean() bool { return f.boolean }

// Present reports whether the flag was explicitly supplied via argv or an
// explicit set, as opposed to holding only its default.
func (f *Flag) Present() bool { return f.present }

// UsingDefault reports whether the value has never been set by the user.
func (f *Flag) UsingDefault() bool { return f.usingDefault }

// HasDefault reports whether the flag was defined with a concrete default.
func (f *Flag) HasDefault() bool { return f.hasDefault }

// Default returns the coerced default value, or nil if none was given.
func (f *Flag) Default() any {
	if !f.hasDefault {
		return nil
	}
	return cloneValue(f.defValue)
}

// DefaultUnparsed returns the serialized form of the default, or "" if no
// default was given.
func (f *Flag) DefaultUnparsed() string { return f.defUnparsed }

// Value returns the current coerced value, or nil while the flag is unset
// (no default and never supplied).
func (f *Flag) Value() any { return f.value }

// names returns every registry key this flag answers to.
func (f *Flag) names() []string {
	if f.shortName != "" {
		return []string{f.name, f.shortName}
	}
	return []string{f.name}
}

// Set coerces raw input, runs the flag's validators against the candidate,
// and atomically replaces the value, marking the flag present. On any
// failure the previous value is retained; there is no partial mutation.
func (f *Flag) Set(raw string) error {
	return f.set(raw, true)
}

// set is the internal assignment path. Parsing passes validate=false so
// validator violations can be collected and aggregated at end of parse
// rather than aborting at the first offending token.
func (f *Flag) set(raw string, validate bool) error {
	if f.present && !f.allowOverwrite {
		return newValidationError(f.name, "may not be set more than once")
	}
	v, err := f.coercer.ParseRaw(raw)
	if err != nil {
		return &TypeCoercionError{Name: f.name, Raw: raw, Err: err}
	}
	if f.multi && f.present {
		v, err = appendCoerced(f.value, v)
		if err != nil {
			return &TypeCoercionError{Name: f.name, Raw: raw, Err: err}
		}
	}
	if validate {
		for _, check := range f.validators {
			if err := check(v); err != nil {
				return err
			}
		}
	}
	f.value = v
	f.present = true
	f.usingDefault = false
	return nil
}

// Unparse reverts the flag to its default (or unset) state, clearing
// presence.
func (f *Flag) Unparse() {
	if f.hasDefault {
		f.value = cloneValue(f.defValue)
	} else {
		f.value = nil
	}
	f.present = false
	f.usingDefault = true
}

// SerializeArgs renders the current value as argv tokens that, if re-parsed
// by an identically configured registry, reproduce it. Boolean flags
// serialize to --name or --noname, repeatable flags to one --name=elem token
// per accumulated element, and unset flags to no tokens at all.
func (f *Flag) SerializeArgs() []string {
	if f.value == nil {
		return nil
	}
	if f.boolean {
		if b, ok := f.value.(bool); ok && !b {
			return []string{fmt.Sprintf("--no%s", f.name)}
		}
		return []string{fmt.Sprintf("--%s", f.name)}
	}
	if f.multi {
		// Each element is rendered through the coercer as a one-element
		// slice, so the per-occurrence parse inverts it exactly.
		switch elems := f.value.(type) {
		case []string:
			out := make([]string, len(elems))
			for i, e := range elems {
				out[i] = fmt.Sprintf("--%s=%s", f.name, f.coercer.SerializeAny([]string{e}))
			}
			return out
		case []int64:
			out := make([]string, len(elems))
			for i, e := range elems {
				out[i] = fmt.Sprintf("--%s=%s", f.name, f.coercer.SerializeAny([]int64{e}))
			}
			return out
		}
	}
	return []string{fmt.Sprintf("--%s=%s", f.name, f.coercer.SerializeAny(f.value))}
}

// Serialize renders the flag as a single argv string: the SerializeArgs
// tokens joined with spaces, or "" while unset. Callers rebuilding an argv
// should prefer SerializeArgs, which needs no filtering of empty tokens and
// keeps repeatable flags as separate arguments.
func (f *Flag) Serialize() string {
	return strings.Join(f.SerializeArgs(), " ")
}

func (f *Flag) String() string {
	return fmt.Sprintf("Flag(--%s=%v)", f.name, f.value)
}
