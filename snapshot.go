// snapshot.go: Capture and restore parameter values
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"time"

	"github.com/agilira/go-timecache"
)

type snapshotEntry struct {
	param Param
	value string
}

// Snapshot holds the raw values of a set of parameters at one point in time.
type Snapshot struct {
	taken   time.Time
	entries []snapshotEntry
	index   map[string]int
}

// TakeSnapshot records the current value of every parameter of set whose
// type intersects mask. Reading the values does not count as use.
func TakeSnapshot(set *RegistrySet, mask ParamType) *Snapshot {
	s := &Snapshot{
		taken: timecache.CachedTime(),
		index: make(map[string]int),
	}
	for _, p := range set.List(mask) {
		key := nameKey(p.Name())
		if _, dup := s.index[key]; dup {
			// shadowed by an earlier layer
			continue
		}
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, snapshotEntry{param: p, value: p.RawValue()})
	}
	return s
}

// Taken returns when the snapshot was made.
func (s *Snapshot) Taken() time.Time { return s.taken }

// Len returns the number of recorded parameters.
func (s *Snapshot) Len() int { return len(s.entries) }

// Names returns the recorded parameter names in capture order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.param.Name()
	}
	return out
}

// Value returns the recorded raw value of name.
func (s *Snapshot) Value(name string) (string, bool) {
	i, ok := s.index[nameKey(name)]
	if !ok {
		return "", false
	}
	return s.entries[i].value, true
}

// Rewind writes the recorded values back with SourceBySnapshotRewind.
// Parameters are looked up by name in set, so a snapshot can be applied to
// a different set declaring the same names; names missing from set are
// skipped. It returns the parameters that rejected their recorded value.
func (s *Snapshot) Rewind(set *RegistrySet) []Param {
	var faulted []Param
	for _, e := range s.entries {
		p := set.Find(e.param.Name(), e.param.Type())
		if p == nil {
			continue
		}
		if p.RawValue() == e.value {
			continue
		}
		p.SetValueString(e.value, SourceBySnapshotRewind, nil)
		if p.HasFaulted() {
			faulted = append(faulted, p)
		}
	}
	return faulted
}
