// config_binder_test.go: Tests for parameters mirrored into variables
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigBinder_ApplyDefaults(t *testing.T) {
	reg := NewOwningRegistry("db")
	var (
		host    string
		port    int
		tls     bool
		timeout float64
		tags    []string
	)
	err := NewConfigBinder(reg).
		BindString(&host, "db-host", "database host", "localhost").
		BindInt(&port, "db-port", "database port", 5432).
		BindBool(&tls, "db-tls", "use TLS", true).
		BindFloat64(&timeout, "db-timeout", "seconds", 2.5).
		BindStringSlice(&tags, "db-tags", "tags", "a", "b").
		Apply()
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if host != "localhost" || port != 5432 || !tls || timeout != 2.5 {
		t.Errorf("Unexpected values host=%q port=%d tls=%v timeout=%v", host, port, tls, timeout)
	}
	if diff := cmp.Diff([]string{"a", "b"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != 5 {
		t.Errorf("Expected 5 declared parameters, got %d", reg.Len())
	}
}

func TestConfigBinder_TracksChanges(t *testing.T) {
	reg := NewOwningRegistry("db")
	var (
		host string
		port int
		tags []string
	)
	cb := NewConfigBinder(reg).
		BindString(&host, "db-host", "").
		BindInt(&port, "db-port", "", 1).
		BindStringSlice(&tags, "db-tags", "")
	if err := cb.Apply(); err != nil {
		t.Fatal(err)
	}

	set := NewRegistrySet(reg)
	SetParam("DB_HOST", "example.org", set, SourceConfigFile, nil)
	SetParam("db-port", 6543, set, SourceConfigFile, nil)
	SetParam("db-tags", "x;y", set, SourceConfigFile, nil)

	if host != "example.org" || port != 6543 {
		t.Errorf("Expected variables to follow writes, got host=%q port=%d", host, port)
	}
	if diff := cmp.Diff([]string{"x", "y"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	recordLogs(t)
	SetParam("db-port", "oops", set, SourceConfigFile, nil)
	if port != 6543 {
		t.Errorf("Rejected write changed the variable to %d", port)
	}

	if len(cb.Params()) != 3 {
		t.Errorf("Expected 3 params, got %d", len(cb.Params()))
	}
	for _, p := range cb.Params() {
		if p.Owner() != reg {
			t.Errorf("%s: expected binder registry as owner", p.Name())
		}
	}
}

func TestConfigBinder_Collision(t *testing.T) {
	reg := NewOwningRegistry("db")
	NewIntParam(reg, "db-port", 1, "")

	var port, other int
	err := NewConfigBinder(reg).
		BindInt(&port, "DB_PORT", "").
		BindInt(&other, "other", "", 3).
		Apply()
	if GetErrorCode(err) != ErrCodeInvalidConfig {
		t.Errorf("Expected invalid config error, got %v", err)
	}
	if other != 0 {
		t.Error("No variable should be touched after a binding error")
	}
	if reg.Len() != 1 {
		t.Errorf("Expected bindings after the error to be skipped, got %d params", reg.Len())
	}
}

func TestConfigBinder_ClipsWideDefaults(t *testing.T) {
	reg := NewOwningRegistry("db")
	var n int
	if err := NewConfigBinder(reg).BindInt(&n, "big", "", math.MaxInt32+10).Apply(); err != nil {
		t.Fatal(err)
	}
	if n != math.MaxInt32 {
		t.Errorf("Expected clipped default, got %d", n)
	}
}
