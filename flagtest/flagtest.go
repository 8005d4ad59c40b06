// Package flagtest isolates tests from process-wide flag state. A test
// that mutates flags calls Save first; the captured state is restored on
// cleanup even if the test body fails.
package flagtest

import (
	"testing"

	"github.com/vk/flagkit"
)

// Save snapshots the registry and registers a cleanup that restores it
// when the test (or subtest) finishes.
func Save(t testing.TB, fv *flagkit.FlagValues) {
	t.Helper()
	snap := fv.Save()
	t.Cleanup(snap.Restore)
}
