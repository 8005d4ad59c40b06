package flagkit

import (
	"log/slog"
	"maps"
	"slices"
)

// Snapshot captures the full state of a FlagValues instance: every flag's
// value, presence, and validator list, plus the registry's own membership
// maps. Restoring writes the captured state back into the original Flag
// objects, so object identity is stable and holders bound before the
// snapshot remain valid afterwards.
//
// Flags defined after the snapshot are removed from the registry on
// restore, which also reverts any validators registered after the save
// point.
type Snapshot struct {
	fv      *FlagValues
	entries []snapshotEntry

	flags            map[string]*Flag
	flagsByModule    map[string][]*Flag
	keyFlagsByModule map[string][]*Flag
	validators       []*registeredValidator
	parsed           bool
}

type snapshotEntry struct {
	flag         *Flag
	value        any
	present      bool
	usingDefault bool
	validators   []func(candidate any) error
}

// Save captures the registry's current state. The snapshot is independent
// of later mutation and may be restored any number of times.
func (fv *FlagValues) Save() *Snapshot {
	fv.mu.Lock()
	defer fv.mu.Unlock()

	s := &Snapshot{
		fv:               fv,
		flags:            maps.Clone(fv.flags),
		flagsByModule:    cloneFlagLists(fv.flagsByModule),
		keyFlagsByModule: cloneFlagLists(fv.keyFlagsByModule),
		validators:       slices.Clone(fv.validators),
		parsed:           fv.parsed,
	}
	for _, f := range fv.uniqueFlagsLocked() {
		s.entries = append(s.entries, snapshotEntry{
			flag:         f,
			value:        cloneValue(f.value),
			present:      f.present,
			usingDefault: f.usingDefault,
			validators:   slices.Clone(f.validators),
		})
	}
	slog.Debug("Saved flag state snapshot.", "flags", len(s.entries))
	return s
}

// Restore writes the captured state back into the registry and its Flag
// objects.
func (s *Snapshot) Restore() {
	fv := s.fv
	fv.mu.Lock()
	defer fv.mu.Unlock()

	fv.flags = maps.Clone(s.flags)
	fv.flagsByModule = cloneFlagLists(s.flagsByModule)
	fv.keyFlagsByModule = cloneFlagLists(s.keyFlagsByModule)
	fv.validators = slices.Clone(s.validators)
	fv.parsed = s.parsed

	for _, e := range s.entries {
		e.flag.value = cloneValue(e.value)
		e.flag.present = e.present
		e.flag.usingDefault = e.usingDefault
		e.flag.validators = slices.Clone(e.validators)
	}
	slog.Debug("Restored flag state snapshot.", "flags", len(s.entries))
}

func cloneFlagLists(src map[string][]*Flag) map[string][]*Flag {
	out := make(map[string][]*Flag, len(src))
	for module, list := range src {
		out[module] = append([]*Flag(nil), list...)
	}
	return out
}
