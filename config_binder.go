// config_binder.go - Parameters mirrored into Go variables
//
// A ConfigBinder declares parameters and keeps plain Go variables in step
// with them, for code that prefers reading a field over calling Value():
//
//	var (
//	    host string
//	    port int
//	)
//	err := params.NewConfigBinder(reg).
//	    BindString(&host, "db-host", "database host", "localhost").
//	    BindInt(&port, "db-port", "database port", 5432).
//	    Apply()
//
// Committed changes are copied into the variable as they happen. Reads of
// the variable are not counted as parameter use.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"math"
	"slices"

	"github.com/agilira/go-errors"
)

// ConfigBinder declares parameters bound to Go variables. Errors are
// accumulated and reported by Apply.
type ConfigBinder struct {
	reg    *Registry
	params []Param
	sync   []func()
	err    error
}

// NewConfigBinder creates a binder declaring its parameters in reg.
func NewConfigBinder(reg *Registry) *ConfigBinder {
	return &ConfigBinder{reg: reg}
}

// declare adds p to the registry, turning a collision into the binder error.
func (cb *ConfigBinder) declare(p Param) bool {
	if err := cb.reg.Add(p); err != nil {
		cb.err = errors.Wrap(err, ErrCodeInvalidConfig, "failed to bind parameter").
			WithContext("param", p.Name())
		return false
	}
	p.core().owner = cb.reg
	cb.params = append(cb.params, p)
	return true
}

// BindString binds a string parameter to target.
func (cb *ConfigBinder) BindString(target *string, name, info string, defaultValue ...string) *ConfigBinder {
	if cb.err != nil {
		return cb // Fast path: skip if already in error state
	}
	def := ""
	if len(defaultValue) > 0 {
		def = defaultValue[0]
	}
	p := NewStringParam(nil, name, def, info)
	if !cb.declare(p) {
		return cb
	}
	p.SetOnModify(func(_ *StringParam, _ string, v *string, _ string, _ SourceType, _ Param) { *target = *v })
	cb.sync = append(cb.sync, func() { *target = p.Peek() })
	return cb
}

// BindInt binds an integer parameter to target. Parameters hold 32-bit
// values, so defaults outside that range are clipped.
func (cb *ConfigBinder) BindInt(target *int, name, info string, defaultValue ...int) *ConfigBinder {
	if cb.err != nil {
		return cb
	}
	var def int32
	if len(defaultValue) > 0 {
		def = int32(max(math.MinInt32, min(math.MaxInt32, defaultValue[0])))
	}
	p := NewIntParam(nil, name, def, info)
	if !cb.declare(p) {
		return cb
	}
	p.SetOnModify(func(_ *IntParam, _ int32, v *int32, _ int32, _ SourceType, _ Param) { *target = int(*v) })
	cb.sync = append(cb.sync, func() { *target = int(p.Peek()) })
	return cb
}

// BindBool binds a boolean parameter to target.
func (cb *ConfigBinder) BindBool(target *bool, name, info string, defaultValue ...bool) *ConfigBinder {
	if cb.err != nil {
		return cb
	}
	def := false
	if len(defaultValue) > 0 {
		def = defaultValue[0]
	}
	p := NewBoolParam(nil, name, def, info)
	if !cb.declare(p) {
		return cb
	}
	p.SetOnModify(func(_ *BoolParam, _ bool, v *bool, _ bool, _ SourceType, _ Param) { *target = *v })
	cb.sync = append(cb.sync, func() { *target = p.Peek() })
	return cb
}

// BindFloat64 binds a floating point parameter to target.
func (cb *ConfigBinder) BindFloat64(target *float64, name, info string, defaultValue ...float64) *ConfigBinder {
	if cb.err != nil {
		return cb
	}
	def := 0.0
	if len(defaultValue) > 0 {
		def = defaultValue[0]
	}
	p := NewDoubleParam(nil, name, def, info)
	if !cb.declare(p) {
		return cb
	}
	p.SetOnModify(func(_ *DoubleParam, _ float64, v *float64, _ float64, _ SourceType, _ Param) { *target = *v })
	cb.sync = append(cb.sync, func() { *target = p.Peek() })
	return cb
}

// BindStringSlice binds a string list parameter to target. The variable
// receives a copy of the list.
func (cb *ConfigBinder) BindStringSlice(target *[]string, name, info string, defaultValue ...string) *ConfigBinder {
	if cb.err != nil {
		return cb
	}
	p := NewStringSetParam(nil, name, slices.Clone(defaultValue), info)
	if !cb.declare(p) {
		return cb
	}
	p.SetOnModify(func(_ *StringSetParam, _ []string, v *[]string, _ []string, _ SourceType, _ Param) {
		*target = slices.Clone(*v)
	})
	cb.sync = append(cb.sync, func() { *target = p.Peek() })
	return cb
}

// Params returns the parameters declared so far.
func (cb *ConfigBinder) Params() []Param {
	return slices.Clone(cb.params)
}

// Apply copies the current parameter values into the bound variables.
// It returns the first binding error, in which case no variable is touched.
func (cb *ConfigBinder) Apply() error {
	if cb.err != nil {
		return cb.err
	}
	for _, sync := range cb.sync {
		sync()
	}
	return nil
}
