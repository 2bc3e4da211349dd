// registry_test.go: Tests for registries and typed lookups
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func paramNames(ps []Param) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	slices.SortFunc(out, CompareNames)
	return out
}

func TestRegistry_DeclareAndFind(t *testing.T) {
	reg := NewOwningRegistry("global")
	width := NewIntParam(reg, "page_width", 80, "")
	NewStringParam(reg, "language", "eng", "")
	NewIntSetParam(reg, "page_list", nil, "")

	if reg.Len() != 3 {
		t.Fatalf("Expected 3 parameters, got %d", reg.Len())
	}
	if width.Owner() != reg {
		t.Error("Expected declaring registry as owner")
	}
	if got := reg.Find("PAGE-WIDTH", IntParamType); !sameParam(got, width) {
		t.Error("Expected to find page_width")
	}
	if got := reg.Find("page_width", StringParamType); got != nil {
		t.Error("Type mask should exclude the integer parameter")
	}
	if got := reg.Find("missing", AnyParamType); got != nil {
		t.Error("Expected nil for unknown name")
	}

	if diff := cmp.Diff([]string{"page_list", "page_width"}, paramNames(reg.List(IntParamType))); diff != "" {
		t.Errorf("List(Int) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"page_list"}, paramNames(reg.List(VectorParamType))); diff != "" {
		t.Errorf("List(Vector) mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_DeclareCollisionPanics(t *testing.T) {
	reg := NewOwningRegistry("global")
	NewIntParam(reg, "page_width", 80, "")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic on duplicate declaration")
		}
		err, ok := r.(error)
		if !ok || GetErrorCode(err) != ErrCodeNameCollision {
			t.Errorf("Expected name collision error, got %v", r)
		}
	}()
	NewDoubleParam(reg, "PAGE-WIDTH", 1, "")
}

func TestRegistry_AddNil(t *testing.T) {
	reg := NewRegistry("refs")
	if err := reg.Add(nil); GetErrorCode(err) != ErrCodeInvalidConfig {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewOwningRegistry("global")
	a := NewIntParam(reg, "alpha", 1, "")
	b := NewIntParam(reg, "beta", 2, "")
	stranger := NewIntParam(nil, "alpha", 1, "")

	if reg.Remove(stranger) {
		t.Error("Removing a different parameter with the same name must fail")
	}
	if !reg.Remove(a) {
		t.Error("Expected alpha to be removed")
	}
	if reg.Remove(a) {
		t.Error("Second removal should report absence")
	}
	if !reg.RemoveByName("BETA") {
		t.Error("Expected beta to be removed by name")
	}
	if reg.Len() != 0 || reg.Find("beta", AnyParamType) != nil {
		t.Error("Expected empty registry")
	}
	if b.Owner() != reg {
		t.Error("Remove should not change ownership")
	}

	if err := reg.Add(a); err != nil {
		t.Errorf("Expected re-adding alpha to succeed: %v", err)
	}
}

func TestRegistry_CloseReleasesOwnedParams(t *testing.T) {
	owning := NewOwningRegistry("owner")
	p := NewIntParam(owning, "x", 1, "")

	refs := NewRegistry("refs")
	if err := refs.Add(p); err != nil {
		t.Fatal(err)
	}
	refs.Close()
	if p.Owner() != owning {
		t.Error("Closing a referencing registry must not release parameters")
	}

	owning.Close()
	if p.Owner() != nil {
		t.Error("Expected owning registry to release its parameter")
	}
	if owning.Len() != 0 {
		t.Error("Expected closed registry to be empty")
	}
	if !owning.Owns() || refs.Owns() {
		t.Error("Unexpected ownership modes")
	}
}

func TestRegistry_Title(t *testing.T) {
	reg := NewRegistry("first")
	reg.ChangeTitle("second")
	if reg.Title() != "second" {
		t.Errorf("Expected renamed title, got %q", reg.Title())
	}
	var nilReg *Registry
	if nilReg.Title() != "" {
		t.Error("Expected empty title for nil registry")
	}
}

func TestFindTypedParams(t *testing.T) {
	reg := NewOwningRegistry("global")
	i := NewIntParam(reg, "i", 1, "")
	b := NewBoolParam(reg, "b", true, "")
	d := NewDoubleParam(reg, "d", 1, "")
	s := NewStringParam(reg, "s", "", "")
	is := NewIntSetParam(reg, "is", nil, "")
	bs := NewBoolSetParam(reg, "bs", nil, "")
	ds := NewDoubleSetParam(reg, "ds", nil, "")
	ss := NewStringSetParam(reg, "ss", nil, "")

	if FindIntParam(reg, "I") != i || FindBoolParam(reg, "B") != b ||
		FindDoubleParam(reg, "D") != d || FindStringParam(reg, "S") != s {
		t.Error("Scalar typed finders failed")
	}
	if FindIntSetParam(reg, "IS") != is || FindBoolSetParam(reg, "BS") != bs ||
		FindDoubleSetParam(reg, "DS") != ds || FindStringSetParam(reg, "SS") != ss {
		t.Error("Vector typed finders failed")
	}
	if FindIntParam(reg, "is") != nil {
		t.Error("FindIntParam must not return an integer list")
	}
	if FindStringParam(reg, "i") != nil {
		t.Error("FindStringParam must not return an integer")
	}
}

func TestSetChangeListener_ReturnsPrevious(t *testing.T) {
	reg := NewOwningRegistry("global")
	first := ChangeListenerFunc(func(ChangeEvent) {})
	if prev := reg.SetChangeListener(first); prev != nil {
		t.Error("Expected no previous listener")
	}
	if prev := reg.SetChangeListener(nil); prev == nil {
		t.Error("Expected the first listener back")
	}
}
