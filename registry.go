package flagkit

import (
	"log/slog"
	"sort"
	"sync"
)

// FlagValues is the shared flag registry: a namespace mapping long and
// short flag names to Flag objects, plus per-module indexes used for
// scoped help. A process typically needs exactly one instance,
// CommandLine, but tests and layered parsers may construct their own.
//
// Registration, parsing, and mutation are serialized by an internal
// mutex; value reads are lock-free and safe once mutation has ceased.
type FlagValues struct {
	mu sync.Mutex

	// flags maps every reachable name (long and short) to its Flag. Both
	// keys of an aliased flag refer to the identical object.
	flags map[string]*Flag

	// flagsByModule records, in definition order, every flag a module
	// declared. keyFlagsByModule records the flags considered part of the
	// module's public configuration surface.
	flagsByModule    map[string][]*Flag
	keyFlagsByModule map[string][]*Flag

	// validators holds every registered validator in registration order,
	// re-checked in bulk at end of parse.
	validators []*registeredValidator

	parsed bool
}

// registeredValidator is the registry-level record of one single-flag or
// multi-flag validator, checked against live values at end of parse.
type registeredValidator struct {
	names []string
	run   func() error
}

// NewFlagValues creates an empty registry.
func NewFlagValues() *FlagValues {
	return &FlagValues{
		flags:            make(map[string]*Flag),
		flagsByModule:    make(map[string][]*Flag),
		keyFlagsByModule: make(map[string][]*Flag),
	}
}

// CommandLine is the default process-wide registry. The package-level
// DEFINE factories accept an explicit *FlagValues so the instance can be
// injected; production code passes CommandLine.
var CommandLine = NewFlagValues()

// Register adds a flag to the registry under every one of its names,
// attributed to the given declaring module and included in that module's
// key flags.
//
// A collision with a different flag is a hard *DuplicateFlagError unless
// either side permits override, in which case the new flag fully replaces
// the old under all of the old flag's names; the old flag's validators are
// not carried over. Registration is synchronous and never blocks.
func (fv *FlagValues) Register(f *Flag, module string) error {
	return fv.register(f, module, true)
}

func (fv *FlagValues) register(f *Flag, module string, keyFlag bool) error {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	// Check every name before touching any state, so a collision on a later
	// name leaves the registry exactly as it was.
	var replaced []*Flag
	for _, name := range f.names() {
		old, exists := fv.flags[name]
		if !exists || old == f {
			continue
		}
		if !old.allowOverride && !f.allowOverride {
			return &DuplicateFlagError{Name: name, Module: module}
		}
		replaced = append(replaced, old)
	}
	for _, old := range replaced {
		slog.Debug("Overriding existing flag definition.", "name", old.name, "module", module)
		fv.removeLocked(old)
	}

	for _, name := range f.names() {
		fv.flags[name] = f
	}
	fv.flagsByModule[module] = append(fv.flagsByModule[module], f)
	if keyFlag {
		fv.keyFlagsByModule[module] = appendUniqueFlag(fv.keyFlagsByModule[module], f)
	}
	slog.Debug("Registered flag.", "name", f.name, "module", module, "type", f.coercer.FlagType())
	return nil
}

// removeLocked unregisters a flag from the name map and both module
// indexes, atomically with respect to the registry lock.
func (fv *FlagValues) removeLocked(old *Flag) {
	for _, name := range old.names() {
		if fv.flags[name] == old {
			delete(fv.flags, name)
		}
	}
	for module, list := range fv.flagsByModule {
		fv.flagsByModule[module] = filterOutFlag(list, old)
	}
	for module, list := range fv.keyFlagsByModule {
		fv.keyFlagsByModule[module] = filterOutFlag(list, old)
	}
}

// Lookup returns the flag registered under name (long or short).
func (fv *FlagValues) Lookup(name string) (*Flag, bool) {
	f, ok := fv.flags[name]
	return f, ok
}

// Has reports whether a flag is registered under name.
func (fv *FlagValues) Has(name string) bool {
	_, ok := fv.flags[name]
	return ok
}

// Set assigns a raw value to the named flag outside of argv parsing,
// running coercion and validators. Failures are reported as
// *IllegalFlagValueError wrapping the underlying cause; unknown names are
// *UnrecognizedFlagError.
func (fv *FlagValues) Set(name, raw string) error {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	f, ok := fv.flags[name]
	if !ok {
		return &UnrecognizedFlagError{Token: "--" + name, Suggestions: fv.suggestionsLocked(name)}
	}
	if err := f.set(raw, true); err != nil {
		return &IllegalFlagValueError{Name: f.name, Raw: raw, Err: err}
	}
	slog.Debug("Flag set programmatically.", "name", f.name, "raw", raw)
	return nil
}

// Flags returns every registered flag exactly once, sorted by long name.
func (fv *FlagValues) Flags() []*Flag {
	seen := make(map[*Flag]struct{}, len(fv.flags))
	var out []*Flag
	for _, f := range fv.flags {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// FlagsByModule returns the flags declared by a module, in definition
// order.
func (fv *FlagValues) FlagsByModule(module string) []*Flag {
	return append([]*Flag(nil), fv.flagsByModule[module]...)
}

// KeyFlagsByModule returns the flags that form a module's public
// configuration surface, in declaration order.
func (fv *FlagValues) KeyFlagsByModule(module string) []*Flag {
	return append([]*Flag(nil), fv.keyFlagsByModule[module]...)
}

// Modules returns every module name with at least one registered flag,
// sorted.
func (fv *FlagValues) Modules() []string {
	out := make([]string, 0, len(fv.flagsByModule))
	for m := range fv.flagsByModule {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// DeclareKeyFlag marks an already-registered flag as key for the given
// module, so it shows up in that module's scoped help.
func (fv *FlagValues) DeclareKeyFlag(name, module string) error {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	f, ok := fv.flags[name]
	if !ok {
		return &UnrecognizedFlagError{Token: "--" + name, Suggestions: fv.suggestionsLocked(name)}
	}
	fv.keyFlagsByModule[module] = appendUniqueFlag(fv.keyFlagsByModule[module], f)
	return nil
}

// Parsed reports whether argv has been parsed (or MarkAsParsed called).
func (fv *FlagValues) Parsed() bool { return fv.parsed }

// MarkAsParsed declares the registry parsed without consuming argv. Useful
// for tests and embedders that populate flags programmatically.
func (fv *FlagValues) MarkAsParsed() {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	fv.parsed = true
}

// UnparseFlags reverts every flag to its default (or unset) state and
// clears the parsed bit. Intended for test isolation, not production
// reconfiguration.
func (fv *FlagValues) UnparseFlags() {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	for _, f := range fv.uniqueFlagsLocked() {
		f.Unparse()
	}
	fv.parsed = false
	slog.Debug("All flags reverted to defaults.")
}

// uniqueFlagsLocked returns each registered flag once, in no particular
// order.
func (fv *FlagValues) uniqueFlagsLocked() []*Flag {
	seen := make(map[*Flag]struct{}, len(fv.flags))
	var out []*Flag
	for _, f := range fv.flags {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// valuesLocked snapshots the current value of every flag by long name, for
// multi-flag validators.
func (fv *FlagValues) valuesLocked(names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, name := range names {
		if f, ok := fv.flags[name]; ok {
			out[name] = f.value
		}
	}
	return out
}

func appendUniqueFlag(list []*Flag, f *Flag) []*Flag {
	for _, existing := range list {
		if existing == f {
			return list
		}
	}
	return append(list, f)
}

func filterOutFlag(list []*Flag, drop *Flag) []*Flag {
	out := list[:0]
	for _, f := range list {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}
