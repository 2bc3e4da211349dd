// param_vector_test.go: Tests for list parameters and the tokenizer
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeVector(t *testing.T) {
	a := DefaultVectorAssistant()
	tests := []struct {
		input string
		want  []string
	}{
		{"1,2,3", []string{"1", "2", "3"}},
		{"[1, 2, 3]", []string{"1", "2", "3"}},
		{"1,2,,3", []string{"1", "2", "3"}},
		{"[ 1 ; 2 ; 3 ]", []string{"1", "2", "3"}},
		{"a|b:c\td", []string{"a", "b", "c", "d"}},
		{"  ", []string{}},
		{"[]", []string{}},
	}
	for _, tt := range tests {
		got := TokenizeVector(a, tt.input)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("TokenizeVector(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestTokenizeVector_NoDisplayFraming(t *testing.T) {
	a := DefaultVectorAssistant()
	a.CopeWithDisplayPrefixes = false
	got := TokenizeVector(a, "[1,2]")
	want := []string{"[1", "2]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestIntSetParam_Parse(t *testing.T) {
	tests := []struct {
		input string
		want  []int32
	}{
		{"[1, 2, 3]", []int32{1, 2, 3}},
		{"1,2,,3", []int32{1, 2, 3}},
		{"7", []int32{7}},
		{"", []int32{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			reg := NewOwningRegistry("test")
			p := NewIntSetParam(reg, "ids", []int32{9}, "")
			p.SetValueString(tt.input, SourceAssign, nil)
			if p.HasFaulted() {
				t.Fatalf("Unexpected fault for %q", tt.input)
			}
			if diff := cmp.Diff(tt.want, p.Peek()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntSetParam_BadItemKeepsPreviousValue(t *testing.T) {
	rec := recordLogs(t)
	reg := NewOwningRegistry("test")
	p := NewIntSetParam(reg, "ids", []int32{4, 5}, "")

	p.SetValueString("1, 2, x", SourceAssign, nil)

	if !p.HasFaulted() {
		t.Fatal("Expected fault for a bad element")
	}
	if diff := cmp.Diff([]int32{4, 5}, p.Peek()); diff != "" {
		t.Errorf("Value changed on fault (-want +got):\n%s", diff)
	}
	if !rec.contains("item #2") {
		t.Errorf("Expected diagnostic naming item #2, got:\n%s", rec.all())
	}
	if !rec.contains("to set of integers") {
		t.Errorf("Expected vector type name in diagnostic, got:\n%s", rec.all())
	}
}

func TestVectorKinds_ParseAndFormat(t *testing.T) {
	recordLogs(t)
	reg := NewOwningRegistry("test")
	b := NewBoolSetParam(reg, "switches", nil, "")
	d := NewDoubleSetParam(reg, "weights", nil, "")
	s := NewStringSetParam(reg, "langs", nil, "")

	b.SetValueString("yes;0;+", SourceAssign, nil)
	d.SetValueString("[0.5, 1e2]", SourceAssign, nil)
	s.SetValueString("eng, deu , fra", SourceAssign, nil)

	if diff := cmp.Diff([]bool{true, false, true}, b.Peek()); diff != "" {
		t.Errorf("bool set mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.5, 100}, d.Peek()); diff != "" {
		t.Errorf("double set mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"eng", "deu", "fra"}, s.Peek()); diff != "" {
		t.Errorf("string set mismatch (-want +got):\n%s", diff)
	}

	if got := s.RawValue(); got != "eng,deu,fra" {
		t.Errorf("RawValue() = %q", got)
	}
	if got := s.FormattedValue(); got != "[eng, deu, fra]" {
		t.Errorf("FormattedValue() = %q", got)
	}
	if got := d.TypeName(); got != "set of floating point values" {
		t.Errorf("TypeName() = %q", got)
	}
	if got := b.SerializationTypeName(); got != "bool[]" {
		t.Errorf("SerializationTypeName() = %q", got)
	}
	if got := s.FormattedDefault(); got != "[]" {
		t.Errorf("FormattedDefault() = %q", got)
	}

	d.SetValueString("1, 2, 1e999", SourceAssign, nil)
	if !d.HasFaulted() {
		t.Error("Expected overflowing element to fault")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	reg := NewOwningRegistry("test")
	src := NewIntSetParam(reg, "src", []int32{-1, 0, 2147483647}, "")
	dst := NewIntSetParam(reg, "dst", nil, "")

	dst.SetValueString(src.RawValue(), SourceAssign, nil)
	if diff := cmp.Diff(src.Peek(), dst.Peek()); diff != "" {
		t.Errorf("data form round trip mismatch (-want +got):\n%s", diff)
	}

	dst.SetValueString(src.FormattedValue(), SourceAssign, nil)
	if diff := cmp.Diff(src.Peek(), dst.Peek()); diff != "" {
		t.Errorf("display form round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClipSnippet(t *testing.T) {
	short := "1, 2, x"
	if got := clipSnippet(short); got != short {
		t.Errorf("clipSnippet(%q) = %q", short, got)
	}
	long := "0123456789012345678901234567890123456789ABCDEF"
	if got := clipSnippet(long); got != "0123456789012345678901 ...(continued)..." {
		t.Errorf("clipSnippet(long) = %q", got)
	}

	// a two-byte character straddling the cut is kept whole or dropped whole
	accented := strings.Repeat("a", 21) + "é" + strings.Repeat("b", 30)
	got := clipSnippet(accented)
	if !utf8.ValidString(got) {
		t.Errorf("clipSnippet produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("a", 21) + " ...(continued)..."; got != want {
		t.Errorf("clipSnippet(accented) = %q, want %q", got, want)
	}
}
