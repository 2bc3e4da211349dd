// env_config.go: Environment variables as a parameter source
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"os"
	"strings"
)

// EnvKey returns the environment variable consulted for parameter name:
// the prefix and the name joined by '_', upper-cased, with '-' mapped to '_'.
//
//	EnvKey("MYAPP", "page-width") == "MYAPP_PAGE_WIDTH"
func EnvKey(prefix, name string) string {
	key := nameKey(name)
	if prefix == "" {
		return key
	}
	return nameKey(strings.TrimRight(prefix, "_-")) + "_" + key
}

// ApplyEnvironment writes every parameter of set whose environment
// variable is defined, using src as source type. Parameters shadowed by an
// earlier layer are skipped. It returns the number of
// variables applied and the parameters that rejected their value.
func ApplyEnvironment(prefix string, set *RegistrySet, src SourceType) (int, []Param) {
	applied := 0
	var faulted []Param
	for _, p := range set.List(AnyParamType) {
		if !sameParam(set.Find(p.Name(), AnyParamType), p) {
			continue
		}
		value, ok := os.LookupEnv(EnvKey(prefix, p.Name()))
		if !ok {
			continue
		}
		p.SetValueString(value, src, nil)
		if p.HasFaulted() {
			faulted = append(faulted, p)
			continue
		}
		applied++
	}
	return applied, faulted
}

// GetEnvWithDefault returns environment variable value or default if not set
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
