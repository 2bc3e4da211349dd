// param.go: Parameter contract and shared parameter state
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"strings"
	"time"
)

// Param is the capability every typed parameter provides.
//
// Reads through ValueString(PurposeDataForUse) count as application use;
// every other purpose is diagnostic and leaves the counters alone.
// Write failures never return errors: they raise the fault flag, which
// stays up until the next write attempt begins.
type Param interface {
	Name() string
	Info() string
	Type() ParamType

	IsInit() bool
	IsDebug() bool
	IsSet() bool
	IsSetToNonDefault() bool
	IsLocked() bool
	Lock(locked bool)

	HasFaulted() bool
	Fault()
	ResetFault()

	SetMode() SourceType
	SetBy() Param
	LastWrite() time.Time
	Owner() *Registry

	AccessCounts() AccessCounts
	ResetAccessCounts()

	ValueString(purpose Purpose) string
	FormattedValue() string
	RawValue() string
	FormattedDefault() string
	RawDefault() string
	TypeName() string
	SerializationTypeName() string

	SetValueString(value string, src SourceType, setter Param)
	ResetToDefault(source *RegistrySet, src SourceType)

	core() *paramBase
}

// paramBase carries the identity, flags, provenance and counters shared
// by all typed parameters.
type paramBase struct {
	name    string
	info    string
	ptype   ParamType
	init    bool
	debug   bool
	locked  bool
	set     bool
	nonDef  bool
	faulted bool
	setMode SourceType
	setBy   Param
	lastSet time.Time
	owner   *Registry
	counts  AccessCounts

	// self is the enclosing typed parameter, used by generic options.
	self Param
}

func newParamBase(name, info string, ptype ParamType, init bool) paramBase {
	lower := strings.ToLower(name)
	return paramBase{
		name:    name,
		info:    info,
		ptype:   ptype,
		init:    init,
		debug:   strings.Contains(lower, "debug") || strings.Contains(lower, "display"),
		setMode: SourceDefault,
	}
}

func (b *paramBase) core() *paramBase { return b }

// Name returns the declared parameter name.
func (b *paramBase) Name() string { return b.name }

// Info returns the parameter description.
func (b *paramBase) Info() string { return b.info }

// Type returns the declared value kind.
func (b *paramBase) Type() ParamType { return b.ptype }

// IsInit reports whether the parameter must be set before first use.
func (b *paramBase) IsInit() bool { return b.init }

// IsDebug reports whether the name marks a debug or display parameter.
func (b *paramBase) IsDebug() bool { return b.debug }

// IsSet reports whether anything other than a reset has written the parameter.
func (b *paramBase) IsSet() bool { return b.set }

// IsSetToNonDefault reports whether the current value differs from the default.
func (b *paramBase) IsSetToNonDefault() bool { return b.nonDef }

// IsLocked reports whether writes are currently refused.
func (b *paramBase) IsLocked() bool { return b.locked }

// Lock refuses (true) or accepts (false) further writes other than resets.
func (b *paramBase) Lock(locked bool) { b.locked = locked }

// HasFaulted reports whether the last write attempt failed.
func (b *paramBase) HasFaulted() bool { return b.faulted }

// Fault flags the current write attempt as failed and counts it.
// Hooks call this to veto a write.
func (b *paramBase) Fault() {
	safeInc(&b.counts.Faulting)
	b.faulted = true
}

// ResetFault clears the fault flag.
func (b *paramBase) ResetFault() { b.faulted = false }

// SetMode returns the source of the last accepted write.
func (b *paramBase) SetMode() SourceType { return b.setMode }

// SetBy returns the parameter that performed the last accepted write, if any.
func (b *paramBase) SetBy() Param { return b.setBy }

// LastWrite returns the time of the last committed value change.
func (b *paramBase) LastWrite() time.Time { return b.lastSet }

// Owner returns the registry the parameter was declared in.
func (b *paramBase) Owner() *Registry { return b.owner }

// AccessCounts returns a copy of the usage counters.
func (b *paramBase) AccessCounts() AccessCounts { return b.counts }

// ResetAccessCounts folds the current period into the cumulative counters.
func (b *paramBase) ResetAccessCounts() { b.counts.fold() }

// canUpdate applies write precedence. Resets always pass so the
// ladder can be re-based; locked parameters only accept resets.
func (b *paramBase) canUpdate(src SourceType) bool {
	if src == SourceReset {
		return true
	}
	if b.locked {
		return false
	}
	return src >= b.setMode
}

// finishWrite records provenance after a non-faulted write attempt.
func (b *paramBase) finishWrite(src SourceType, setter Param, nonDefault bool) {
	b.setMode = src
	b.setBy = setter
	b.set = src > SourceReset
	b.nonDef = nonDefault
}

// sameParam compares parameter identities without relying on interface equality
// of non-comparable dynamic types.
func sameParam(a, b Param) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.core() == b.core()
}

// declare registers p with its owner registry, if any.
func declare(owner *Registry, p Param) Param {
	if owner != nil {
		owner.MustAdd(p)
		p.core().owner = owner
	}
	return p
}
