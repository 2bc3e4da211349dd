// accounting_test.go: Tests for access counters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"math"
	"testing"
)

func TestSafeInc_Saturates(t *testing.T) {
	v := uint32(math.MaxUint32 - 1)
	safeInc(&v)
	safeInc(&v)
	safeInc(&v)
	if v != math.MaxUint32 {
		t.Errorf("Expected saturation at MaxUint32, got %d", v)
	}
}

func TestSafeAdd_Saturates(t *testing.T) {
	if got := safeAdd(math.MaxUint64-5, 10); got != math.MaxUint64 {
		t.Errorf("Expected saturation, got %d", got)
	}
	if got := safeAdd(2, 3); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
}

func TestAccessCounts_Fold(t *testing.T) {
	c := AccessCounts{Reading: 3, Writing: 2, Changing: 1, Faulting: 4, PrevSumReading: 10}
	c.fold()

	want := AccessCounts{PrevSumReading: 13, PrevSumWriting: 2, PrevSumChanging: 1, PrevSumFaulting: 4}
	if c != want {
		t.Errorf("fold() = %+v, want %+v", c, want)
	}

	c.Reading = 1
	if got := c.TotalReading(); got != 14 {
		t.Errorf("TotalReading() = %d, want 14", got)
	}
	if got := c.TotalWriting(); got != 2 {
		t.Errorf("TotalWriting() = %d, want 2", got)
	}
}

func TestResetAccessCounts_KeepsHistory(t *testing.T) {
	reg := NewOwningRegistry("test")
	p := NewIntParam(reg, "hits", 0, "")

	p.Set(1)
	_ = p.Value()
	p.ResetAccessCounts()
	_ = p.Value()

	c := p.AccessCounts()
	if c.Reading != 1 || c.Writing != 0 {
		t.Errorf("Expected fresh period with 1 read, got %+v", c)
	}
	if c.PrevSumReading != 1 || c.PrevSumWriting != 1 || c.PrevSumChanging != 1 {
		t.Errorf("Expected history of the first period, got %+v", c)
	}
}
