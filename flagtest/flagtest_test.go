package flagtest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/flagkit"
	"github.com/vk/flagkit/flagtest"
)

func TestSave_RestoresAfterSubtest(t *testing.T) {
	fv := flagkit.NewFlagValues()
	workers := flagkit.Int(fv, "workers", 10, "")

	t.Run("mutates freely", func(t *testing.T) {
		flagtest.Save(t, fv)
		require.NoError(t, fv.Set("workers", "99"))
		require.Equal(t, int64(99), workers.Get())
	})

	require.Equal(t, int64(10), workers.Get())
	require.False(t, workers.Present())
}

func TestSave_RevertsFlagsDefinedInSubtest(t *testing.T) {
	fv := flagkit.NewFlagValues()

	t.Run("defines a scratch flag", func(t *testing.T) {
		flagtest.Save(t, fv)
		flagkit.String(fv, "scratch", "", "")
		require.True(t, fv.Has("scratch"))
	})

	require.False(t, fv.Has("scratch"))
}
