package flagkit

import (
	"errors"
	"fmt"
	"strings"
)

// RegisterValidator attaches a constraint to one flag. The checker receives
// the candidate value and returns a descriptive error to reject it. It runs
// against every programmatic mutation (rejecting the mutation, previous
// value retained) and again at end of parse, where violations from all
// validators are aggregated into a single report.
func RegisterValidator(fv *FlagValues, flagName string, checker func(value any) error) error {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	f, ok := fv.flags[flagName]
	if !ok {
		return &UnrecognizedFlagError{Token: "--" + flagName, Suggestions: fv.suggestionsLocked(flagName)}
	}

	check := func(candidate any) error {
		if err := checker(candidate); err != nil {
			return newValidationError(f.name, err.Error())
		}
		return nil
	}
	f.validators = append(f.validators, check)
	fv.validators = append(fv.validators, &registeredValidator{
		names: []string{f.name},
		run:   func() error { return check(f.value) },
	})
	return nil
}

// RegisterMultiFlagsValidator attaches a constraint over several flags.
// The checker receives a name→value map and is re-evaluated whenever any
// watched flag changes, with the candidate value substituted, and again at
// end of parse against live values.
func RegisterMultiFlagsValidator(fv *FlagValues, flagNames []string, checker func(values map[string]any) error) error {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	watched := make([]*Flag, 0, len(flagNames))
	for _, name := range flagNames {
		f, ok := fv.flags[name]
		if !ok {
			return &UnrecognizedFlagError{Token: "--" + name, Suggestions: fv.suggestionsLocked(name)}
		}
		watched = append(watched, f)
	}

	group := fmt.Sprintf("(--%s)", strings.Join(flagNames, ", --"))
	values := func() map[string]any {
		m := make(map[string]any, len(watched))
		for _, f := range watched {
			m[f.name] = f.value
		}
		return m
	}
	report := func(err error) error {
		return &ValidationError{Message: fmt.Sprintf("flags %s: %s", group, err)}
	}

	for _, f := range watched {
		self := f
		self.validators = append(self.validators, func(candidate any) error {
			m := values()
			m[self.name] = candidate
			if err := checker(m); err != nil {
				return report(err)
			}
			return nil
		})
	}
	fv.validators = append(fv.validators, &registeredValidator{
		names: flagNames,
		run: func() error {
			if err := checker(values()); err != nil {
				return report(err)
			}
			return nil
		},
	})
	return nil
}

// MarkFlagAsRequired requires the named flag to hold a value once parsing
// completes; a flag with a concrete default satisfies the requirement.
func MarkFlagAsRequired(fv *FlagValues, flagName string) error {
	return RegisterValidator(fv, flagName, func(value any) error {
		if value == nil {
			return errors.New("must be specified")
		}
		return nil
	})
}

// MarkFlagsAsRequired requires every named flag.
func MarkFlagsAsRequired(fv *FlagValues, flagNames ...string) error {
	for _, name := range flagNames {
		if err := MarkFlagAsRequired(fv, name); err != nil {
			return err
		}
	}
	return nil
}

// MarkFlagsAsMutualExclusive constrains the named flags so that at most
// one of them holds a value — or exactly one, when required is true. The
// participating flags should be defined without defaults, since a default
// counts as a held value.
func MarkFlagsAsMutualExclusive(fv *FlagValues, flagNames []string, required bool) error {
	return RegisterMultiFlagsValidator(fv, flagNames, func(values map[string]any) error {
		count := 0
		for _, v := range values {
			if v != nil {
				count++
			}
		}
		if count > 1 {
			return errors.New("at most one may be specified")
		}
		if required && count == 0 {
			return errors.New("exactly one must be specified")
		}
		return nil
	})
}

// MarkBoolFlagsAsMutualExclusive constrains the named boolean flags so
// that at most one of them is true — or exactly one, when required is
// true.
func MarkBoolFlagsAsMutualExclusive(fv *FlagValues, flagNames []string, required bool) error {
	return RegisterMultiFlagsValidator(fv, flagNames, func(values map[string]any) error {
		count := 0
		for _, v := range values {
			if b, ok := v.(bool); ok && b {
				count++
			}
		}
		if count > 1 {
			return errors.New("at most one may be true")
		}
		if required && count == 0 {
			return errors.New("exactly one must be true")
		}
		return nil
	})
}
