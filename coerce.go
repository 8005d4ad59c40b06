package flagkit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// coercer is the untyped per-flag parse/serialize capability. The registry
// treats it as opaque; only the typed Coercer wrappers and the DEFINE
// builders know the concrete value type behind it.
type coercer interface {
	// ParseRaw coerces raw input text into the target type.
	ParseRaw(raw string) (any, error)
	// SerializeAny renders a value so that re-parsing it reproduces it.
	SerializeAny(v any) string
	// FlagType names the type for help text, e.g. "int".
	FlagType() string
}

// Coercer is the typed parse/serialize strategy supplied to a flag at
// definition time.
type Coercer[T any] struct {
	Parse     func(raw string) (T, error)
	Serialize func(v T) string
	Type      string
}

func (c Coercer[T]) ParseRaw(raw string) (any, error) { return c.Parse(raw) }

func (c Coercer[T]) SerializeAny(v any) string {
	tv, ok := v.(T)
	if !ok {
		return fmt.Sprint(v)
	}
	return c.Serialize(tv)
}

func (c Coercer[T]) FlagType() string { return c.Type }

// StringCoercer accepts any text verbatim.
func StringCoercer() Coercer[string] {
	return Coercer[string]{
		Parse:     func(raw string) (string, error) { return raw, nil },
		Serialize: func(v string) string { return v },
		Type:      "string",
	}
}

// BoolCoercer accepts true/false, t/f, 1/0, yes/no, and y/n,
// case-insensitively.
func BoolCoercer() Coercer[bool] {
	return Coercer[bool]{
		Parse:     parseBoolToken,
		Serialize: strconv.FormatBool,
		Type:      "bool",
	}
}

func parseBoolToken(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", raw)
}

// parseNumber coerces raw text through the cty conversion machinery, which
// accepts decimal, scientific, and hex-free numeric forms uniformly.
func parseNumber(raw string) (cty.Value, error) {
	v, err := convert.Convert(cty.StringVal(strings.TrimSpace(raw)), cty.Number)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}

// IntCoercer parses whole numbers into int64.
func IntCoercer() Coercer[int64] {
	return BoundedIntCoercer(nil, nil)
}

// BoundedIntCoercer parses whole numbers and rejects values outside the
// given inclusive bounds. A nil bound is unconstrained.
func BoundedIntCoercer(lower, upper *int64) Coercer[int64] {
	return Coercer[int64]{
		Parse: func(raw string) (int64, error) {
			v, err := parseNumber(raw)
			if err != nil {
				return 0, err
			}
			var n int64
			if err := gocty.FromCtyValue(v, &n); err != nil {
				return 0, fmt.Errorf("%q is not a whole number in the int64 range", raw)
			}
			if lower != nil && n < *lower {
				return 0, fmt.Errorf("%d is less than the lower bound %d", n, *lower)
			}
			if upper != nil && n > *upper {
				return 0, fmt.Errorf("%d is greater than the upper bound %d", n, *upper)
			}
			return n, nil
		},
		Serialize: func(v int64) string { return strconv.FormatInt(v, 10) },
		Type:      "int",
	}
}

// FloatCoercer parses real numbers into float64.
func FloatCoercer() Coercer[float64] {
	return BoundedFloatCoercer(nil, nil)
}

// BoundedFloatCoercer parses real numbers and rejects values outside the
// given inclusive bounds. A nil bound is unconstrained.
func BoundedFloatCoercer(lower, upper *float64) Coercer[float64] {
	return Coercer[float64]{
		Parse: func(raw string) (float64, error) {
			v, err := parseNumber(raw)
			if err != nil {
				return 0, err
			}
			var f float64
			if err := gocty.FromCtyValue(v, &f); err != nil {
				return 0, fmt.Errorf("%q does not fit in float64", raw)
			}
			if lower != nil && f < *lower {
				return 0, fmt.Errorf("%v is less than the lower bound %v", f, *lower)
			}
			if upper != nil && f > *upper {
				return 0, fmt.Errorf("%v is greater than the upper bound %v", f, *upper)
			}
			return f, nil
		},
		Serialize: func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
		Type:      "float",
	}
}

// DurationCoercer parses Go duration syntax such as "250ms" or "1h30m".
func DurationCoercer() Coercer[time.Duration] {
	return Coercer[time.Duration]{
		Parse: func(raw string) (time.Duration, error) {
			d, err := time.ParseDuration(strings.TrimSpace(raw))
			if err != nil {
				return 0, fmt.Errorf("%q is not a duration", raw)
			}
			return d, nil
		},
		Serialize: time.Duration.String,
		Type:      "duration",
	}
}

// EnumCoercer accepts only the given choices. With caseSensitive false the
// match is folded and the canonical spelling from choices is stored.
func EnumCoercer(choices []string, caseSensitive bool) Coercer[string] {
	return Coercer[string]{
		Parse: func(raw string) (string, error) {
			for _, c := range choices {
				if c == raw || (!caseSensitive && strings.EqualFold(c, raw)) {
					return c, nil
				}
			}
			return "", fmt.Errorf("%q is not one of <%s>", raw, strings.Join(choices, "|"))
		},
		Serialize: func(v string) string { return v },
		Type:      fmt.Sprintf("string enum <%s>", strings.Join(choices, "|")),
	}
}

// ListCoercer splits one argument on commas into a string slice. An empty
// argument yields an empty list.
func ListCoercer() Coercer[[]string] {
	return Coercer[[]string]{
		Parse: func(raw string) ([]string, error) {
			if raw == "" {
				return []string{}, nil
			}
			parts := strings.Split(raw, ",")
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			return parts, nil
		},
		Serialize: func(v []string) string { return strings.Join(v, ",") },
		Type:      "comma-separated list of strings",
	}
}

// MultiStringCoercer parses each occurrence of a repeatable flag into a
// one-element slice; the flag accumulates occurrences.
func MultiStringCoercer() Coercer[[]string] {
	return Coercer[[]string]{
		Parse: func(raw string) ([]string, error) { return []string{raw}, nil },
		Serialize: func(v []string) string {
			return strings.Join(v, ",")
		},
		Type: "repeated string",
	}
}

// MultiIntCoercer parses each occurrence of a repeatable flag into a
// one-element int64 slice; the flag accumulates occurrences.
func MultiIntCoercer() Coercer[[]int64] {
	intc := IntCoercer()
	return Coercer[[]int64]{
		Parse: func(raw string) ([]int64, error) {
			n, err := intc.Parse(raw)
			if err != nil {
				return nil, err
			}
			return []int64{n}, nil
		},
		Serialize: func(v []int64) string {
			parts := make([]string, len(v))
			for i, n := range v {
				parts[i] = strconv.FormatInt(n, 10)
			}
			return strings.Join(parts, ",")
		},
		Type: "repeated int",
	}
}

// appendCoerced merges a freshly parsed occurrence of a repeatable flag into
// the accumulated value. Only slice-typed values accumulate.
func appendCoerced(old, add any) (any, error) {
	switch prev := old.(type) {
	case []string:
		next, ok := add.([]string)
		if !ok {
			return nil, errors.New("repeatable flag produced a non-slice value")
		}
		return append(append([]string(nil), prev...), next...), nil
	case []int64:
		next, ok := add.([]int64)
		if !ok {
			return nil, errors.New("repeatable flag produced a non-slice value")
		}
		return append(append([]int64(nil), prev...), next...), nil
	case nil:
		return add, nil
	}
	return nil, fmt.Errorf("repeatable flag holds unsupported type %T", old)
}

// cloneValue deep-copies slice-typed flag values so snapshots stay
// independent of later mutation. Scalars are returned as-is.
func cloneValue(v any) any {
	switch tv := v.(type) {
	case []string:
		return append([]string(nil), tv...)
	case []int64:
		return append([]int64(nil), tv...)
	}
	return v
}
