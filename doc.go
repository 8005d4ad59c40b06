// Package flagkit is a process-wide, typed command-line flag registry.
//
// Independently-compiled packages declare named, typed configuration values
// ("flags") by registering them into a FlagValues registry. The process
// parses argv once at startup, which coerces and assigns every flag value,
// and any package can thereafter read the resolved value through the typed
// handle it received at definition time.
//
// # Defining flags
//
// Typed factory functions build a flag, register it, and return a handle:
//
//	var (
//	    workers = flagkit.Int(flagkit.CommandLine, "workers", 10,
//	        "Number of concurrent workers.")
//	    gridPath = flagkit.StringRequired(flagkit.CommandLine, "grid",
//	        "Path to the grid file or directory.", flagkit.ShortName("g"))
//	    region = flagkit.StringOptional(flagkit.CommandLine, "region",
//	        "Cloud region override.")
//	)
//
// The handle's type encodes the nullability contract, fixed at definition
// time: a required flag or a flag with a concrete default yields a
// *Holder[T] whose Get never observes an absent value once parsing has
// completed; a flag with no default and no required mark yields an
// *OptionalHolder[T] whose Get reports presence explicitly. The generic
// Define builder exposes the same three-way choice directly via its
// Default, Required, and Optional terminals.
//
// # Parsing
//
// The registry's Parse method consumes argv and returns the positional
// (non-flag) arguments, program name included:
//
//	args, err := flagkit.CommandLine.Parse(os.Args)
//
// Supported token forms: --name=value, --name value, -s=value for a
// single-character short name, --name and --noname for booleans, and a
// bare -- that terminates flag processing. Unrecognized flags fail with an
// *UnrecognizedFlagError carrying spelling suggestions, unless the
// KnownOnly option is given, in which case they pass through into the
// positional output for a later parsing layer to consume.
//
// # Concurrency
//
// Definition, parsing, and programmatic mutation are serialized internally
// by a single mutex but are intended to happen once, early, before
// concurrent readers exist. Reads of already-parsed values are lock-free
// and safe; concurrent mutation after readers have started is the caller's
// responsibility to avoid.
//
// # Test isolation
//
// Save captures every flag's state so tests can mutate the process-wide
// registry freely and revert on exit; the flagtest package wraps this in a
// t.Cleanup-based helper.
package flagkit
