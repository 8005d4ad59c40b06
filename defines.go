package flagkit

import (
	"fmt"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"
)

// Option adjusts a flag definition.
type Option func(*flagOptions)

type flagOptions struct {
	shortName      string
	allowOverride  bool
	allowOverwrite bool
	module         string
	keyFlag        bool
}

func defaultFlagOptions() flagOptions {
	return flagOptions{allowOverwrite: true, keyFlag: true}
}

// ShortName gives the flag a single-character alias, usable as -x.
func ShortName(s string) Option {
	return func(o *flagOptions) { o.shortName = s }
}

// AllowOverride sanctions redefinition: a later definition under the same
// name replaces this flag instead of failing with a DuplicateFlagError.
func AllowOverride() Option {
	return func(o *flagOptions) { o.allowOverride = true }
}

// DisallowOverwrite makes supplying the flag more than once an error.
func DisallowOverwrite() Option {
	return func(o *flagOptions) { o.allowOverwrite = false }
}

// Module attributes the flag to an explicit module name instead of the
// declaring package inferred from the call stack.
func Module(name string) Option {
	return func(o *flagOptions) { o.module = name }
}

// NotKeyFlag excludes the flag from its module's key-flag index, keeping
// it out of the module's scoped help.
func NotKeyFlag() Option {
	return func(o *flagOptions) { o.keyFlag = false }
}

// Def is the generic definition builder. Exactly one of its terminals —
// Default, Required, or Optional — finishes the definition, registers the
// flag, and fixes the holder's nullability contract for its lifetime:
//
//   - Required: value guaranteed present after parsing → *Holder[T].
//   - Default:  the default satisfies the guarantee even before parsing
//     → *Holder[T].
//   - Optional: absence is observable → *OptionalHolder[T].
type Def[T any] struct {
	fv      *FlagValues
	name    string
	help    string
	coercer Coercer[T]
	opts    flagOptions
	boolean bool
	multi   bool
}

// Define starts a flag definition with an explicit coercion strategy.
// The typed factory functions cover the common types; Define is the
// escape hatch for custom coercers.
func Define[T any](fv *FlagValues, name string, c Coercer[T], help string, opts ...Option) *Def[T] {
	d := &Def[T]{fv: fv, name: name, help: help, coercer: c, opts: defaultFlagOptions()}
	d.opts.module = callerModule(2)
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// Default finishes the definition with a concrete default value. The
// returned holder guarantees a present value from the moment of
// definition. Panics on a name conflict or an invalid default; both are
// programming errors that must abort startup.
func (d *Def[T]) Default(v T) *Holder[T] {
	f := d.build()
	f.hasDefault = true
	f.defValue = cloneValue(v)
	f.defUnparsed = d.coercer.Serialize(v)
	if _, err := d.coercer.Parse(f.defUnparsed); err != nil && !d.multi {
		panic(&IllegalFlagValueError{Name: d.name, Raw: f.defUnparsed, Err: err})
	}
	f.value = cloneValue(v)
	f.usingDefault = true
	d.register(f)
	return &Holder[T]{flag: f}
}

// Required finishes the definition with no default and a registered
// required validator: parsing fails unless the flag is supplied, so the
// returned holder's guarantee holds for any code running after a
// successful parse.
func (d *Def[T]) Required() *Holder[T] {
	f := d.build()
	f.usingDefault = true
	d.register(f)
	if err := MarkFlagAsRequired(d.fv, d.name); err != nil {
		panic(err)
	}
	return &Holder[T]{flag: f}
}

// Optional finishes the definition with no default and no required mark;
// the flag may remain unset and callers must handle absence.
func (d *Def[T]) Optional() *OptionalHolder[T] {
	f := d.build()
	f.usingDefault = true
	d.register(f)
	return &OptionalHolder[T]{flag: f}
}

func (d *Def[T]) build() *Flag {
	if d.opts.shortName != "" && utf8.RuneCountInString(d.opts.shortName) != 1 {
		panic(fmt.Sprintf("flag --%s: short name %q must be a single character", d.name, d.opts.shortName))
	}
	help := d.help
	if help == "" {
		help = "(no help available)"
	}
	return &Flag{
		name:           d.name,
		shortName:      d.opts.shortName,
		help:           help,
		coercer:        d.coercer,
		boolean:        d.boolean,
		multi:          d.multi,
		allowOverride:  d.opts.allowOverride,
		allowOverwrite: d.opts.allowOverwrite,
	}
}

func (d *Def[T]) register(f *Flag) {
	if err := d.fv.register(f, d.opts.module, d.opts.keyFlag); err != nil {
		panic(err)
	}
}

// callerModule derives the declaring module name from the call stack: the
// import path of the package that invoked the DEFINE factory.
func callerModule(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	full := fn.Name()
	slash := strings.LastIndex(full, "/")
	dot := strings.Index(full[slash+1:], ".")
	if dot < 0 {
		return full
	}
	return full[:slash+1+dot]
}

// withModule prepends the inferred declaring module so an explicit Module
// option from the caller still wins.
func withModule(module string, opts []Option) []Option {
	return append([]Option{Module(module)}, opts...)
}

// String defines a string flag with a default value.
func String(fv *FlagValues, name, def, help string, opts ...Option) *Holder[string] {
	return Define(fv, name, StringCoercer(), help, withModule(callerModule(2), opts)...).Default(def)
}

// StringRequired defines a string flag that must be supplied on the
// command line.
func StringRequired(fv *FlagValues, name, help string, opts ...Option) *Holder[string] {
	return Define(fv, name, StringCoercer(), help, withModule(callerModule(2), opts)...).Required()
}

// StringOptional defines a string flag with no default; absence is
// observable through the returned holder.
func StringOptional(fv *FlagValues, name, help string, opts ...Option) *OptionalHolder[string] {
	return Define(fv, name, StringCoercer(), help, withModule(callerModule(2), opts)...).Optional()
}

// Bool defines a boolean flag, which accepts --name, --name=<bool>, and
// the negated --noname form.
func Bool(fv *FlagValues, name string, def bool, help string, opts ...Option) *Holder[bool] {
	d := Define(fv, name, BoolCoercer(), help, withModule(callerModule(2), opts)...)
	d.boolean = true
	return d.Default(def)
}

// BoolOptional defines a boolean flag with no default.
func BoolOptional(fv *FlagValues, name, help string, opts ...Option) *OptionalHolder[bool] {
	d := Define(fv, name, BoolCoercer(), help, withModule(callerModule(2), opts)...)
	d.boolean = true
	return d.Optional()
}

// Int defines an int64 flag with a default value.
func Int(fv *FlagValues, name string, def int64, help string, opts ...Option) *Holder[int64] {
	return Define(fv, name, IntCoercer(), help, withModule(callerModule(2), opts)...).Default(def)
}

// IntOptional defines an int64 flag with no default.
func IntOptional(fv *FlagValues, name, help string, opts ...Option) *OptionalHolder[int64] {
	return Define(fv, name, IntCoercer(), help, withModule(callerModule(2), opts)...).Optional()
}

// BoundedInt defines an int64 flag whose values must fall within the
// given inclusive bounds; a nil bound is unconstrained. The default is
// checked against the bounds at definition time.
func BoundedInt(fv *FlagValues, name string, def int64, lower, upper *int64, help string, opts ...Option) *Holder[int64] {
	return Define(fv, name, BoundedIntCoercer(lower, upper), help, withModule(callerModule(2), opts)...).Default(def)
}

// Float defines a float64 flag with a default value.
func Float(fv *FlagValues, name string, def float64, help string, opts ...Option) *Holder[float64] {
	return Define(fv, name, FloatCoercer(), help, withModule(callerModule(2), opts)...).Default(def)
}

// Duration defines a time.Duration flag with a default value.
func Duration(fv *FlagValues, name string, def time.Duration, help string, opts ...Option) *Holder[time.Duration] {
	return Define(fv, name, DurationCoercer(), help, withModule(callerModule(2), opts)...).Default(def)
}

// Enum defines a string flag restricted to the given choices
// (case-sensitive). The default must be one of the choices.
func Enum(fv *FlagValues, name, def string, choices []string, help string, opts ...Option) *Holder[string] {
	return Define(fv, name, EnumCoercer(choices, true), help, withModule(callerModule(2), opts)...).Default(def)
}

// EnumOptional defines a choice-restricted string flag with no default.
func EnumOptional(fv *FlagValues, name string, choices []string, help string, opts ...Option) *OptionalHolder[string] {
	return Define(fv, name, EnumCoercer(choices, true), help, withModule(callerModule(2), opts)...).Optional()
}

// StringList defines a flag holding a comma-separated list of strings in
// a single argument.
func StringList(fv *FlagValues, name string, def []string, help string, opts ...Option) *Holder[[]string] {
	return Define(fv, name, ListCoercer(), help, withModule(callerModule(2), opts)...).Default(def)
}

// MultiString defines a repeatable string flag: each occurrence appends
// one value.
func MultiString(fv *FlagValues, name string, def []string, help string, opts ...Option) *Holder[[]string] {
	d := Define(fv, name, MultiStringCoercer(), help, withModule(callerModule(2), opts)...)
	d.multi = true
	return d.Default(def)
}

// MultiInt defines a repeatable int64 flag: each occurrence appends one
// value.
func MultiInt(fv *FlagValues, name string, def []int64, help string, opts ...Option) *Holder[[]int64] {
	d := Define(fv, name, MultiIntCoercer(), help, withModule(callerModule(2), opts)...)
	d.multi = true
	return d.Default(def)
}
