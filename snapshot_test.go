// snapshot_test.go: Tests for parameter snapshots
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshot_TakeAndRewind(t *testing.T) {
	reg := NewOwningRegistry("global")
	width := NewIntParam(reg, "page_width", 80, "")
	langs := NewStringSetParam(reg, "languages", []string{"eng"}, "")
	set := NewRegistrySet(reg)

	snap := TakeSnapshot(set, AnyParamType)
	if snap.Len() != 2 || snap.Taken().IsZero() {
		t.Fatalf("Unexpected snapshot len=%d taken=%v", snap.Len(), snap.Taken())
	}
	if v, ok := snap.Value("PAGE-WIDTH"); !ok || v != "80" {
		t.Errorf("Value() = %q, %v", v, ok)
	}
	if _, ok := snap.Value("missing"); ok {
		t.Error("Expected missing name")
	}
	if width.AccessCounts().Reading != 0 {
		t.Error("Taking a snapshot must not count reads")
	}

	width.Set(132)
	langs.Set([]string{"deu", "fra"})
	writesBefore := width.AccessCounts().Writing

	if faulted := snap.Rewind(set); len(faulted) != 0 {
		t.Errorf("Unexpected faults %v", faulted)
	}
	if width.Peek() != 80 || width.SetMode() != SourceBySnapshotRewind {
		t.Errorf("Unexpected width %d (%s)", width.Peek(), width.SetMode())
	}
	if diff := cmp.Diff([]string{"eng"}, langs.Peek()); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}

	snap.Rewind(set)
	if got := width.AccessCounts().Writing; got != writesBefore+1 {
		t.Errorf("Rewinding unchanged values must not write, writes %d", got)
	}
}

func TestSnapshot_ShadowingAndOtherSet(t *testing.T) {
	local := NewOwningRegistry("local")
	global := NewOwningRegistry("global")
	NewIntParam(local, "threshold", 1, "")
	NewIntParam(global, "threshold", 2, "")
	NewIntParam(global, "limit", 3, "")

	snap := TakeSnapshot(NewRegistrySet(local, global), IntParamType)
	if diff := cmp.Diff([]string{"threshold", "limit"}, snap.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if v, _ := snap.Value("threshold"); v != "1" {
		t.Errorf("Expected the shadowing value, got %q", v)
	}

	other := NewOwningRegistry("other")
	twin := NewIntParam(other, "threshold", 9, "")
	snap.Rewind(NewRegistrySet(other))
	if twin.Peek() != 1 {
		t.Errorf("Expected snapshot applied by name, got %d", twin.Peek())
	}
}

func TestSnapshot_LockedParamIgnoresRewind(t *testing.T) {
	reg := NewOwningRegistry("global")
	p := NewIntParam(reg, "frozen", 1, "")
	set := NewRegistrySet(reg)
	snap := TakeSnapshot(set, AnyParamType)

	p.Set(2)
	p.Lock(true)
	snap.Rewind(set)
	if p.Peek() != 2 {
		t.Errorf("Locked parameter was rewound to %d", p.Peek())
	}
}
