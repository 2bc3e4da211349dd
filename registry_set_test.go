// registry_set_test.go: Tests for layered registry lookups
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistrySet_Shadowing(t *testing.T) {
	local := NewOwningRegistry("local")
	global := NewOwningRegistry("global")
	near := NewIntParam(local, "threshold", 1, "")
	far := NewIntParam(global, "threshold", 2, "")
	onlyGlobal := NewIntParam(global, "limit", 3, "")

	set := NewRegistrySet(local, global)
	if got := set.Find("THRESHOLD", AnyParamType); !sameParam(got, near) {
		t.Error("Expected the earlier layer to shadow the later one")
	}
	if got := set.Find("limit", AnyParamType); !sameParam(got, onlyGlobal) {
		t.Error("Expected lookup to fall through to the later layer")
	}

	reversed := NewRegistrySet(global, local)
	if got := reversed.Find("threshold", AnyParamType); !sameParam(got, far) {
		t.Error("Expected order of layers to decide shadowing")
	}
	if FindIntParam(reversed, "threshold") != far {
		t.Error("Typed finder should follow layer order")
	}
}

func TestRegistrySet_TypeMaskSkipsLayer(t *testing.T) {
	local := NewOwningRegistry("local")
	global := NewOwningRegistry("global")
	NewStringParam(local, "threshold", "x", "")
	want := NewIntParam(global, "threshold", 2, "")

	set := NewRegistrySet(local, global)
	if got := set.Find("threshold", IntParamType); !sameParam(got, want) {
		t.Error("Expected type mask to skip the string in the first layer")
	}
}

func TestRegistrySet_AddAndList(t *testing.T) {
	a := NewOwningRegistry("a")
	b := NewOwningRegistry("b")
	NewIntParam(a, "one", 1, "")
	NewIntParam(b, "two", 2, "")

	set := NewRegistrySet(a, nil).Add(a).Add(b)
	if set.Len() != 2 {
		t.Errorf("Expected duplicates and nil skipped, got %d layers", set.Len())
	}
	if diff := cmp.Diff([]string{"one", "two"}, paramNames(set.List(AnyParamType))); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	other := NewRegistrySet(NewOwningRegistry("c"), b)
	set.AddSet(other).AddSet(nil)
	if set.Len() != 3 {
		t.Errorf("Expected 3 layers after AddSet, got %d", set.Len())
	}
	regs := set.Registries()
	regs[0] = nil
	if set.Registries()[0] != a {
		t.Error("Registries must return a copy")
	}

	var nilSet *RegistrySet
	if nilSet.Len() != 0 || nilSet.Find("one", AnyParamType) != nil || nilSet.List(AnyParamType) != nil {
		t.Error("Expected nil set to behave as empty")
	}
}

func TestRegistrySet_FlattenedCopy(t *testing.T) {
	a := NewOwningRegistry("a")
	b := NewOwningRegistry("b")
	one := NewIntParam(a, "one", 1, "")
	NewStringParam(b, "two", "2", "")

	flat, err := NewRegistrySet(a, b).FlattenedCopy(AnyParamType)
	if err != nil {
		t.Fatalf("FlattenedCopy() error = %v", err)
	}
	if flat.Owns() {
		t.Error("Flattened copy must not own parameters")
	}
	if flat.Title() != "a + b" {
		t.Errorf("Unexpected title %q", flat.Title())
	}
	if flat.Len() != 2 || !sameParam(flat.Find("one", IntParamType), one) {
		t.Error("Expected flattened copy to reference the same parameters")
	}
	flat.Close()
	if one.Owner() != a {
		t.Error("Closing the copy must not release parameters")
	}

	ints, err := NewRegistrySet(a, b).FlattenedCopy(IntParamType)
	if err != nil || ints.Len() != 1 {
		t.Errorf("Expected mask to filter, got %v, %v", ints, err)
	}

	NewIntParam(b, "ONE", 9, "")
	if _, err := NewRegistrySet(a, b).FlattenedCopy(AnyParamType); GetErrorCode(err) != ErrCodeNameCollision {
		t.Errorf("Expected collision across layers, got %v", err)
	}
}
