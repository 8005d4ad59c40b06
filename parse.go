package flagkit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/flagkit/internal/suggest"
)

// ParseOption adjusts one Parse invocation.
type ParseOption func(*parseOptions)

type parseOptions struct {
	knownOnly bool
}

// KnownOnly makes Parse tolerate unrecognized flag-shaped tokens, passing
// them through into the positional output unmodified instead of failing.
// This supports layered parsing where a subcomponent owns only some flags.
func KnownOnly() ParseOption {
	return func(o *parseOptions) { o.knownOnly = true }
}

// Parse scans argv[1:] left to right, coercing and assigning every
// recognized flag, and returns the positional (non-flag) arguments with
// argv[0] at index 0, order preserved.
//
// Token forms: --name=value, --name value, -s=value, boolean --name and
// --noname, and a bare -- that ends flag processing. --flagfile=PATH
// expands a file of newline-separated arguments in place, and
// --undefok=name1,name2 suppresses unrecognized-flag errors for the listed
// names.
//
// Type-coercion failures abort at the offending token; validator
// violations discovered at end of parse are aggregated into a single
// *ValidationError. Calling Parse again reassigns only flags mentioned in
// the new argv: omitted flags retain whatever value they held.
func (fv *FlagValues) Parse(argv []string, opts ...ParseOption) ([]string, error) {
	var options parseOptions
	for _, opt := range opts {
		opt(&options)
	}

	if len(argv) == 0 {
		return nil, errors.New("argv must not be empty: argv[0] is the program name")
	}

	fv.mu.Lock()
	defer fv.mu.Unlock()

	args, err := expandFlagfiles(argv[1:], make(map[string]struct{}))
	if err != nil {
		return argv[:1], err
	}
	args, undefok := extractUndefok(args)

	out := []string{argv[0]}
	for i := 0; i < len(args); {
		tok := args[i]
		i++

		if tok == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !isFlagLike(tok) {
			out = append(out, tok)
			continue
		}

		name, value, hasValue := splitFlagToken(tok)
		f, ok := fv.flags[name]
		negated := false
		if !ok && strings.HasPrefix(name, "no") {
			if g, found := fv.flags[strings.TrimPrefix(name, "no")]; found && g.boolean {
				f, ok, negated = g, true, true
			}
		}
		if !ok {
			if undefok[name] || undefok[strings.TrimPrefix(name, "no")] {
				slog.Debug("Ignoring unknown flag listed in --undefok.", "token", tok)
				continue
			}
			if options.knownOnly {
				out = append(out, tok)
				continue
			}
			return out, &UnrecognizedFlagError{Token: tok, Suggestions: fv.suggestionsLocked(name)}
		}

		var raw string
		switch {
		case f.boolean && negated:
			if hasValue {
				return out, &IllegalFlagValueError{
					Name: f.name, Raw: tok,
					Err: errors.New("the --no form of a boolean flag does not take a value"),
				}
			}
			raw = "false"
		case f.boolean && !hasValue:
			raw = "true"
		case hasValue:
			raw = value
		default:
			if i >= len(args) {
				return out, &TypeCoercionError{
					Name: f.name, Raw: "",
					Err: errors.New("flag requires a value"),
				}
			}
			raw = args[i]
			i++
		}

		if err := f.set(raw, false); err != nil {
			return out, err
		}
		slog.Debug("Assigned flag from argv.", "name", f.name, "raw", raw)
	}

	if err := fv.validateAllLocked(); err != nil {
		return out, err
	}
	fv.parsed = true
	return out, nil
}

// validateAllLocked re-checks every registered validator against live
// values and aggregates all violations into one report.
func (fv *FlagValues) validateAllLocked() error {
	var violations []error
	for _, v := range fv.validators {
		if err := v.run(); err != nil {
			violations = append(violations, err)
		}
	}
	return aggregateValidationErrors(violations)
}

// suggestionsLocked proposes close known long names for a misspelled flag.
func (fv *FlagValues) suggestionsLocked(attempt string) []string {
	known := make([]string, 0, len(fv.flags))
	for name := range fv.flags {
		if len(name) > 1 {
			known = append(known, name)
		}
	}
	return suggest.ForName(attempt, known)
}

// isFlagLike reports whether a token should be resolved as a flag. Any
// token starting with - and longer than one rune counts, except negative
// numbers, which are positional.
func isFlagLike(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	rest := strings.TrimLeft(tok, "-")
	if rest == "" {
		return false
	}
	if rest[0] >= '0' && rest[0] <= '9' || rest[0] == '.' {
		return false
	}
	return true
}

// splitFlagToken strips leading dashes and splits on the first =.
func splitFlagToken(tok string) (name, value string, hasValue bool) {
	name = strings.TrimPrefix(tok, "-")
	name = strings.TrimPrefix(name, "-")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		return name[:eq], name[eq+1:], true
	}
	return name, "", false
}

// expandFlagfiles replaces every --flagfile token with the arguments read
// from its file, one per line, recursively. Lines that are empty or start
// with # are skipped. seen guards against flagfile cycles.
func expandFlagfiles(args []string, seen map[string]struct{}) ([]string, error) {
	var out []string
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			out = append(out, args[i:]...)
			break
		}

		var path string
		switch {
		case strings.HasPrefix(tok, "--flagfile="):
			path = strings.TrimPrefix(tok, "--flagfile=")
		case tok == "--flagfile":
			if i+1 >= len(args) {
				return nil, &CantOpenFlagFileError{Path: "", Err: errors.New("--flagfile requires a path")}
			}
			i++
			path = args[i]
		default:
			out = append(out, tok)
			continue
		}

		if _, cyclic := seen[path]; cyclic {
			return nil, &CantOpenFlagFileError{Path: path, Err: errors.New("flagfile includes itself, directly or indirectly")}
		}
		seen[path] = struct{}{}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &CantOpenFlagFileError{Path: path, Err: err}
		}
		var lines []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			lines = append(lines, line)
		}
		expanded, err := expandFlagfiles(lines, seen)
		if err != nil {
			return nil, fmt.Errorf("in flagfile %q: %w", path, err)
		}
		out = append(out, expanded...)
		slog.Debug("Expanded flagfile.", "path", path, "args", len(expanded))
	}
	return out, nil
}

// extractUndefok removes --undefok tokens from args and returns the union
// of the names they list.
func extractUndefok(args []string) ([]string, map[string]bool) {
	undefok := make(map[string]bool)
	var out []string
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			out = append(out, args[i:]...)
			break
		}

		var list string
		switch {
		case strings.HasPrefix(tok, "--undefok="):
			list = strings.TrimPrefix(tok, "--undefok=")
		case tok == "--undefok" && i+1 < len(args):
			i++
			list = args[i]
		default:
			out = append(out, tok)
			continue
		}
		for _, name := range strings.Split(list, ",") {
			if name = strings.TrimSpace(name); name != "" {
				undefok[name] = true
			}
		}
	}
	return out, undefok
}
