// env_config_test.go: Tests for environment variable parameter sources
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"testing"
)

func TestEnvKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"MYAPP", "page-width", "MYAPP_PAGE_WIDTH"},
		{"myapp_", "debug_all", "MYAPP_DEBUG_ALL"},
		{"", "Page-Width", "PAGE_WIDTH"},
	}
	for _, tt := range tests {
		if got := EnvKey(tt.prefix, tt.name); got != tt.want {
			t.Errorf("EnvKey(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestApplyEnvironment(t *testing.T) {
	recordLogs(t)
	reg := NewOwningRegistry("global")
	width := NewIntParam(reg, "page-width", 80, "")
	langs := NewStringSetParam(reg, "languages", nil, "")
	ratio := NewDoubleParam(reg, "ratio", 0.5, "")
	untouched := NewBoolParam(reg, "quiet", false, "")

	t.Setenv("TESS_PAGE_WIDTH", "132")
	t.Setenv("TESS_LANGUAGES", "eng;deu")
	t.Setenv("TESS_RATIO", "lots")

	applied, faulted := ApplyEnvironment("TESS", NewRegistrySet(reg), SourcePreset)
	if applied != 2 {
		t.Errorf("Expected 2 applied variables, got %d", applied)
	}
	if len(faulted) != 1 || !sameParam(faulted[0], ratio) {
		t.Errorf("Expected ratio to fault, got %v", faulted)
	}
	if width.Peek() != 132 || width.SetMode() != SourcePreset {
		t.Errorf("Unexpected width %d (%s)", width.Peek(), width.SetMode())
	}
	if got := langs.RawValue(); got != "eng,deu" {
		t.Errorf("Unexpected languages %q", got)
	}
	if untouched.IsSet() {
		t.Error("Parameter without variable must stay unset")
	}
}

func TestApplyEnvironment_SkipsShadowedParams(t *testing.T) {
	local := NewOwningRegistry("local")
	global := NewOwningRegistry("global")
	front := NewIntParam(local, "threshold", 1, "")
	hidden := NewIntParam(global, "threshold", 2, "")

	t.Setenv("TESS_THRESHOLD", "5")

	applied, _ := ApplyEnvironment("TESS", NewRegistrySet(local, global), SourcePreset)
	if applied != 1 {
		t.Errorf("Expected 1 applied variable, got %d", applied)
	}
	if front.Peek() != 5 {
		t.Errorf("Expected the visible parameter to take 5, got %d", front.Peek())
	}
	if hidden.Peek() != 2 || hidden.AccessCounts().Writing != 0 {
		t.Errorf("Shadowed parameter was written: %d", hidden.Peek())
	}
}

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("PARAMS_TEST_SET", "value")
	t.Setenv("PARAMS_TEST_EMPTY", "")
	if got := GetEnvWithDefault("PARAMS_TEST_SET", "fallback"); got != "value" {
		t.Errorf("Expected value, got %q", got)
	}
	if got := GetEnvWithDefault("PARAMS_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for empty variable, got %q", got)
	}
}
