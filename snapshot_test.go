package flagkit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// flagState captures the externally observable state of every flag, for
// whole-registry comparison with go-cmp.
type flagState struct {
	Value        any
	Present      bool
	UsingDefault bool
}

func captureState(fv *FlagValues) map[string]flagState {
	out := make(map[string]flagState)
	for _, f := range fv.Flags() {
		out[f.Name()] = flagState{Value: f.Value(), Present: f.Present(), UsingDefault: f.UsingDefault()}
	}
	return out
}

func TestSnapshot_RestoreRevertsMutations(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	workers := Int(fv, "workers", 10, "")
	tags := MultiString(fv, "tag", []string{"base"}, "")
	before := captureState(fv)

	snap := fv.Save()
	_, err := fv.Parse([]string{"prog", "--workers=99", "--tag=extra"})
	require.NoError(t, err)
	require.Equal(t, int64(99), workers.Get())

	snap.Restore()

	if diff := cmp.Diff(before, captureState(fv)); diff != "" {
		t.Fatalf("state mismatch after restore (-want +got):\n%s", diff)
	}
	// Holders bound before the cycle still reference the correct flags.
	require.Equal(t, int64(10), workers.Get())
	require.Equal(t, []string{"base"}, tags.Get())
	f, ok := fv.Lookup("workers")
	require.True(t, ok)
	require.Same(t, workers.Flag(), f)
}

func TestSnapshot_SliceValuesAreIndependent(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	tags := MultiString(fv, "tag", nil, "")
	_, err := fv.Parse([]string{"prog", "--tag=a"})
	require.NoError(t, err)

	snap := fv.Save()
	_, err = fv.Parse([]string{"prog", "--tag=b"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, tags.Get())

	snap.Restore()
	require.Equal(t, []string{"a"}, tags.Get())
}

func TestSnapshot_RemovesFlagsDefinedAfterSave(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	String(fv, "grid", "", "")

	snap := fv.Save()
	String(fv, "late", "", "", Module("latecomer"))
	require.True(t, fv.Has("late"))

	snap.Restore()

	require.False(t, fv.Has("late"))
	require.True(t, fv.Has("grid"))
	require.Empty(t, fv.FlagsByModule("latecomer"))
}

func TestSnapshot_RevertsValidatorsRegisteredAfterSave(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	Int(fv, "workers", 10, "")

	snap := fv.Save()
	require.NoError(t, RegisterValidator(fv, "workers", func(any) error {
		return errors.New("rejects everything")
	}))
	require.Error(t, fv.Set("workers", "3"))

	snap.Restore()

	require.NoError(t, fv.Set("workers", "3"))
	_, err := fv.Parse([]string{"prog"})
	require.NoError(t, err)
}

func TestSnapshot_RestoreIsRepeatable(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	workers := Int(fv, "workers", 10, "")
	snap := fv.Save()

	for i := 0; i < 3; i++ {
		require.NoError(t, fv.Set("workers", "77"))
		snap.Restore()
		require.Equal(t, int64(10), workers.Get())
		require.False(t, workers.Present())
	}
}
