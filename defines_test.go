package flagkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefine_DefaultHolderGuaranteesValue(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	grid := String(fv, "grid", "main.hcl", "")

	// The default satisfies the guarantee even before parsing.
	require.Equal(t, "main.hcl", grid.Get())
	require.False(t, grid.Present())
}

func TestDefine_OptionalHolderReportsAbsence(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	region := StringOptional(fv, "region", "")

	_, ok := region.Get()
	require.False(t, ok)

	_, err := fv.Parse([]string{"prog", "--region=eu-west-1"})
	require.NoError(t, err)

	v, ok := region.Get()
	require.True(t, ok)
	require.Equal(t, "eu-west-1", v)
}

func TestDefine_RequiredHolder(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	grid := StringRequired(fv, "grid", "")

	// Reading a required flag before parsing is a programming error.
	require.Panics(t, func() { grid.Get() })

	// Parsing without the flag fails; with it, the guarantee holds.
	_, err := fv.Parse([]string{"prog"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "grid")

	_, err = fv.Parse([]string{"prog", "--grid=main.hcl"})
	require.NoError(t, err)
	require.Equal(t, "main.hcl", grid.Get())
}

func TestDefine_RequiredMissingAggregated(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	StringRequired(fv, "grid", "")
	IntOptional(fv, "port", "")
	require.NoError(t, MarkFlagAsRequired(fv, "port"))

	_, err := fv.Parse([]string{"prog"})

	// Both violations must appear in a single report.
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Error(), "--grid")
	require.Contains(t, vErr.Error(), "--port")
}

func TestDefine_EnumRejectsBadValueAndBadDefault(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	format := Enum(fv, "log-format", "text", []string{"text", "json"}, "")

	_, err := fv.Parse([]string{"prog", "--log-format=xml"})
	var coercion *TypeCoercionError
	require.ErrorAs(t, err, &coercion)
	require.Equal(t, "text", format.Get())

	require.Panics(t, func() {
		Enum(fv, "other-format", "yaml", []string{"text", "json"}, "")
	})
}

func TestDefine_BoundedInt(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	one, hundred := int64(1), int64(100)
	workers := BoundedInt(fv, "workers", 10, &one, &hundred, "")

	_, err := fv.Parse([]string{"prog", "--workers=0"})
	var coercion *TypeCoercionError
	require.ErrorAs(t, err, &coercion)
	require.Equal(t, int64(10), workers.Get())

	_, err = fv.Parse([]string{"prog", "--workers=100"})
	require.NoError(t, err)
	require.Equal(t, int64(100), workers.Get())
}

func TestDefine_Duration(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	timeout := Duration(fv, "timeout", 30*time.Second, "")

	_, err := fv.Parse([]string{"prog", "--timeout=1h30m"})

	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, timeout.Get())
}

func TestDefine_StringListSplitsCommas(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	regions := StringList(fv, "regions", []string{"eu"}, "")

	_, err := fv.Parse([]string{"prog", "--regions=us, ap ,eu"})

	require.NoError(t, err)
	require.Equal(t, []string{"us", "ap", "eu"}, regions.Get())
}

func TestDefine_MultiStringAccumulates(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	tags := MultiString(fv, "tag", nil, "")

	_, err := fv.Parse([]string{"prog", "--tag=a", "--tag=b", "--tag=c"})

	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, tags.Get())
}

func TestDefine_MultiIntAccumulates(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	ports := MultiInt(fv, "port", []int64{80}, "")

	_, err := fv.Parse([]string{"prog", "--port=8080", "--port=8443"})

	require.NoError(t, err)
	// The first occurrence replaces the default; later ones append.
	require.Equal(t, []int64{8080, 8443}, ports.Get())
}

func TestDefine_ModuleAttributionDefaultsToCaller(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	String(fv, "grid", "", "")

	flags := fv.FlagsByModule("github.com/vk/flagkit")
	require.Len(t, flags, 1)
	require.Equal(t, "grid", flags[0].Name())
}

func TestDefine_GenericBuilder(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	level := Define(fv, "level", EnumCoercer([]string{"low", "high"}, false), "").Optional()

	_, err := fv.Parse([]string{"prog", "--level=HIGH"})

	require.NoError(t, err)
	v, ok := level.Get()
	require.True(t, ok)
	require.Equal(t, "high", v)
}

func TestDefine_BadShortNamePanics(t *testing.T) {
	t.Parallel()

	fv := NewFlagValues()
	require.Panics(t, func() {
		String(fv, "grid", "", "", ShortName("gr"))
	})
}
