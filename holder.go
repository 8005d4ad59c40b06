package flagkit

import "fmt"

// Holder is an immutable, typed handle bound to exactly one Flag at
// definition time. It never stores a copy of the value; every read
// forwards to the live Flag.
//
// A Holder is only handed out when the flag's value is guaranteed present
// after parsing: the flag was defined with a concrete default, or was
// marked required (so parsing fails before any code could observe it
// absent). Get therefore never returns an absent value; reading a
// required flag before parsing is a programming error and panics.
type Holder[T any] struct {
	flag *Flag
}

// Name returns the bound flag's long name.
func (h *Holder[T]) Name() string { return h.flag.name }

// Flag returns the bound Flag for metadata access.
func (h *Holder[T]) Flag() *Flag { return h.flag }

// Present reports whether the flag was explicitly supplied.
func (h *Holder[T]) Present() bool { return h.flag.present }

// Get returns the flag's current value. It panics if called on a
// required flag before argv has been parsed.
func (h *Holder[T]) Get() T {
	v, ok := h.flag.value.(T)
	if !ok {
		panic(fmt.Sprintf("flag --%s accessed before a value was set; parse argv first", h.flag.name))
	}
	return v
}

// Serialize renders the flag as a single argv string reproducing its value.
func (h *Holder[T]) Serialize() string { return h.flag.Serialize() }

// SerializeArgs renders the flag as argv tokens, one per occurrence for
// repeatable flags.
func (h *Holder[T]) SerializeArgs() []string { return h.flag.SerializeArgs() }

// OptionalHolder is the handle variant for flags defined with no default
// and no required mark: absence is an ordinary observable state, so Get
// reports it explicitly and callers must handle it.
type OptionalHolder[T any] struct {
	flag *Flag
}

// Name returns the bound flag's long name.
func (h *OptionalHolder[T]) Name() string { return h.flag.name }

// Flag returns the bound Flag for metadata access.
func (h *OptionalHolder[T]) Flag() *Flag { return h.flag }

// Present reports whether the flag was explicitly supplied.
func (h *OptionalHolder[T]) Present() bool { return h.flag.present }

// Get returns the flag's current value and whether one has been set.
func (h *OptionalHolder[T]) Get() (T, bool) {
	v, ok := h.flag.value.(T)
	return v, ok
}

// Serialize renders the flag as a single argv string, or "" while unset.
func (h *OptionalHolder[T]) Serialize() string { return h.flag.Serialize() }

// SerializeArgs renders the flag as argv tokens; an unset flag yields none.
func (h *OptionalHolder[T]) SerializeArgs() []string { return h.flag.SerializeArgs() }
