package flagkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidators_RejectProgrammaticMutation(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	workers := Int(fv, "workers", 2, "")
	require.NoError(t, RegisterValidator(fv, "workers", func(value any) error {
		if value.(int64)%2 != 0 {
			return errors.New("must be even")
		}
		return nil
	}))

	err := fv.Set("workers", "3")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "must be even")
	require.Equal(t, int64(2), workers.Get())

	require.NoError(t, fv.Set("workers", "4"))
	require.Equal(t, int64(4), workers.Get())
}

func TestValidators_UnknownFlagName(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()

	err := RegisterValidator(fv, "ghost", func(any) error { return nil })

	var unrecognized *UnrecognizedFlagError
	require.ErrorAs(t, err, &unrecognized)
}

func TestValidators_EnforcedAtEndOfParse(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	Int(fv, "workers", 2, "")
	require.NoError(t, RegisterValidator(fv, "workers", func(value any) error {
		if value.(int64) > 100 {
			return errors.New("must be at most 100")
		}
		return nil
	}))

	_, err := fv.Parse([]string{"prog", "--workers=1000"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "--workers")
}

func TestValidators_MultiFlagConstraint(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	Int(fv, "min", 0, "")
	Int(fv, "max", 10, "")
	require.NoError(t, RegisterMultiFlagsValidator(fv, []string{"min", "max"}, func(values map[string]any) error {
		if values["min"].(int64) > values["max"].(int64) {
			return fmt.Errorf("min %d exceeds max %d", values["min"], values["max"])
		}
		return nil
	}))

	// A mutation that would violate the pair constraint is rejected with
	// the candidate substituted, before anything is committed.
	err := fv.Set("min", "99")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	require.NoError(t, fv.Set("max", "100"))
	require.NoError(t, fv.Set("min", "99"))
}

func TestValidators_MutualExclusion(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	StringOptional(fv, "file", "")
	StringOptional(fv, "url", "")
	require.NoError(t, MarkFlagsAsMutualExclusive(fv, []string{"file", "url"}, false))

	_, err := fv.Parse([]string{"prog", "--file=a", "--url=b"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "at most one")

	fv2 := NewFlagValues()
	StringOptional(fv2, "file", "")
	StringOptional(fv2, "url", "")
	require.NoError(t, MarkFlagsAsMutualExclusive(fv2, []string{"file", "url"}, false))
	_, err = fv2.Parse([]string{"prog", "--file=a"})
	require.NoError(t, err)
}

func TestValidators_MutualExclusionRequired(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	StringOptional(fv, "file", "")
	StringOptional(fv, "url", "")
	require.NoError(t, MarkFlagsAsMutualExclusive(fv, []string{"file", "url"}, true))

	_, err := fv.Parse([]string{"prog"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "exactly one")
}

func TestValidators_BoolMutualExclusion(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	Bool(fv, "fast", false, "")
	Bool(fv, "safe", false, "")
	require.NoError(t, MarkBoolFlagsAsMutualExclusive(fv, []string{"fast", "safe"}, false))

	_, err := fv.Parse([]string{"prog", "--fast", "--safe"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "at most one may be true")
}

func TestValidators_ViolationsAggregateAcrossFlags(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	StringRequired(fv, "grid", "")
	Int(fv, "workers", 2, "")
	require.NoError(t, RegisterValidator(fv, "workers", func(value any) error {
		if value.(int64) == 0 {
			return errors.New("must be positive")
		}
		return nil
	}))

	_, err := fv.Parse([]string{"prog", "--workers=0"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "--grid")
	require.Contains(t, vErr.Error(), "--workers")
	// Individual violations stay reachable for programmatic handling.
	require.Len(t, vErr.Unwrap(), 2)
}
