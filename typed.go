// typed.go: Generic typed parameter with pluggable hooks
//
// Every concrete parameter kind is a Typed[T, A] where T is the stored value
// and A the assistant configuration consumed by its parse and format hooks.
// The write path is identical for all kinds:
//
//	reset fault -> precedence check -> validate -> modify -> commit
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"reflect"

	"github.com/agilira/go-timecache"
)

// ModifyFunc runs when a write would change the value. It may adjust *value
// or call p.Fault() to veto the write.
type ModifyFunc[T, A any] func(p *Typed[T, A], old T, value *T, def T, src SourceType, setter Param)

// ValidateFunc runs on every write attempt that passes precedence. It may
// adjust *value or call p.Fault() to veto the write.
type ValidateFunc[T, A any] func(p *Typed[T, A], old T, value *T, def T, src SourceType)

// ParseFunc converts input into *value, advancing *pos past the consumed
// text. It signals unusable input by calling p.Fault().
type ParseFunc[T, A any] func(p *Typed[T, A], value *T, input string, pos *int, src SourceType)

// FormatFunc renders value or def for the requested purpose.
type FormatFunc[T, A any] func(p *Typed[T, A], value, def T, purpose Purpose) string

// Hooks groups the four behaviour slots of a typed parameter.
type Hooks[T, A any] struct {
	OnModify   ModifyFunc[T, A]
	OnValidate ValidateFunc[T, A]
	OnParse    ParseFunc[T, A]
	OnFormat   FormatFunc[T, A]
}

// Option configures a parameter at declaration time.
type Option func(b *paramBase)

// WithInit marks the parameter as one that must be set before first use.
func WithInit() Option {
	return func(b *paramBase) { b.init = true }
}

// WithLocked declares the parameter locked: only resets can write it.
func WithLocked() Option {
	return func(b *paramBase) { b.locked = true }
}

// WithOnModify installs a modify hook at declaration time.
func WithOnModify[T, A any](f ModifyFunc[T, A]) Option {
	return func(b *paramBase) {
		if p, ok := b.self.(*Typed[T, A]); ok {
			p.SetOnModify(f)
		}
	}
}

// WithOnValidate installs a validate hook at declaration time.
func WithOnValidate[T, A any](f ValidateFunc[T, A]) Option {
	return func(b *paramBase) {
		if p, ok := b.self.(*Typed[T, A]); ok {
			p.SetOnValidate(f)
		}
	}
}

// WithOnParse installs a parse hook at declaration time.
func WithOnParse[T, A any](f ParseFunc[T, A]) Option {
	return func(b *paramBase) {
		if p, ok := b.self.(*Typed[T, A]); ok {
			p.SetOnParse(f)
		}
	}
}

// WithOnFormat installs a format hook at declaration time.
func WithOnFormat[T, A any](f FormatFunc[T, A]) Option {
	return func(b *paramBase) {
		if p, ok := b.self.(*Typed[T, A]); ok {
			p.SetOnFormat(f)
		}
	}
}

// WithAssistant replaces the default assistant of any parameter whose
// assistant type is A.
func WithAssistant[A any](a A) Option {
	return func(b *paramBase) {
		if p, ok := b.self.(interface{ setAssistant(a A) }); ok {
			p.setAssistant(a)
		}
	}
}

// Typed is a parameter holding a value of type T, tokenized and formatted
// according to an assistant of type A.
type Typed[T any, A any] struct {
	paramBase

	value     T
	def       T
	assistant A

	equal func(a, b T) bool
	clone func(v T) T

	defaults Hooks[T, A]
	hooks    Hooks[T, A]
}

// Kind bundles what a value type needs to become a parameter: its type tag,
// equality, copying, and default hooks.
type Kind[T, A any] struct {
	Type ParamType
	// Equal compares values. Nil means reflect.DeepEqual.
	Equal func(a, b T) bool
	// Clone copies values that share memory (slices, maps). Nil means plain assignment.
	Clone    func(v T) T
	Defaults Hooks[T, A]
}

// NewTyped declares a parameter of an arbitrary kind in owner.
// Missing default hooks fall back to no-ops, and a missing parser faults
// every string write.
func NewTyped[T, A any](owner *Registry, name string, value T, info string, assistant A, kind Kind[T, A], opts ...Option) *Typed[T, A] {
	p := &Typed[T, A]{
		paramBase: newParamBase(name, info, kind.Type, false),
		assistant: assistant,
		equal:     kind.Equal,
		clone:     kind.Clone,
		defaults:  kind.Defaults,
	}
	if p.equal == nil {
		p.equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	if p.defaults.OnModify == nil {
		p.defaults.OnModify = func(*Typed[T, A], T, *T, T, SourceType, Param) {}
	}
	if p.defaults.OnValidate == nil {
		p.defaults.OnValidate = func(*Typed[T, A], T, *T, T, SourceType) {}
	}
	if p.defaults.OnParse == nil {
		p.defaults.OnParse = func(p *Typed[T, A], _ *T, input string, _ *int, _ SourceType) {
			logger().Error("parameter has no string parser", "app", ApplicationName(), "param", p.name, "input", input)
			p.Fault()
		}
	}
	if p.defaults.OnFormat == nil {
		p.defaults.OnFormat = func(p *Typed[T, A], _, _ T, purpose Purpose) string {
			if purpose == PurposeTypeInfo || purpose == PurposeTypeInfoSerialization {
				return "custom"
			}
			return ""
		}
	}
	p.hooks = p.defaults
	p.value = p.copyOf(value)
	p.def = p.copyOf(value)
	p.self = p
	for _, opt := range opts {
		opt(&p.paramBase)
	}
	declare(owner, p)
	return p
}

func (p *Typed[T, A]) copyOf(v T) T {
	if p.clone == nil {
		return v
	}
	return p.clone(v)
}

// Value returns the current value and counts a read.
func (p *Typed[T, A]) Value() T {
	safeInc(&p.counts.Reading)
	return p.copyOf(p.value)
}

// Peek returns the current value without counting a read.
func (p *Typed[T, A]) Peek() T {
	return p.copyOf(p.value)
}

// Default returns the declared default value.
func (p *Typed[T, A]) Default() T {
	return p.copyOf(p.def)
}

// Assistant exposes the parse and format configuration for adjustment.
func (p *Typed[T, A]) Assistant() *A {
	return &p.assistant
}

func (p *Typed[T, A]) setAssistant(a A) { p.assistant = a }

// Set writes v with the application's default source type.
func (p *Typed[T, A]) Set(v T) {
	p.SetValue(v, DefaultSourceType(), nil)
}

// SetValue runs the full write path for v.
//
// A write from a source ranked below the current SetMode is ignored
// without touching any counter. Otherwise the attempt is counted, the
// validate hook runs, and when the value would change the modify hook
// runs too. A fault raised by either hook aborts the write.
func (p *Typed[T, A]) SetValue(v T, src SourceType, setter Param) {
	p.ResetFault()

	if !p.canUpdate(src) {
		logger().Debug("ignoring parameter write due to precedence",
			"param", p.name, "current", p.setMode.String(), "attempt", src.String(), "locked", p.locked)
		return
	}

	safeInc(&p.counts.Writing)

	v = p.copyOf(v)
	p.hooks.OnValidate(p, p.value, &v, p.def, src)
	if p.faulted {
		return
	}

	if !p.equal(v, p.value) {
		p.hooks.OnModify(p, p.value, &v, p.def, src, setter)
		if p.faulted {
			return
		}
		if !p.equal(v, p.value) {
			p.commit(v, src, setter)
		}
	}

	p.finishWrite(src, setter, !p.equal(p.value, p.def))
}

func (p *Typed[T, A]) commit(v T, src SourceType, setter Param) {
	var listener ChangeListener
	if p.owner != nil {
		listener = p.owner.listener
	}

	var old string
	if listener != nil {
		old = p.hooks.OnFormat(p, p.value, p.def, PurposeRawInspect)
	}

	safeInc(&p.counts.Changing)
	p.value = v
	p.lastSet = timecache.CachedTime()

	if listener != nil {
		listener.ParamChanged(ChangeEvent{
			Param:    p,
			OldValue: old,
			NewValue: p.hooks.OnFormat(p, p.value, p.def, PurposeRawInspect),
			Source:   src,
			Setter:   setter,
			Time:     p.lastSet,
		})
	}
}

// SetValueString parses input and writes the result.
// A parse fault counts as a write attempt and leaves the value untouched.
func (p *Typed[T, A]) SetValueString(input string, src SourceType, setter Param) {
	p.ResetFault()

	if !p.canUpdate(src) {
		logger().Debug("ignoring parameter write due to precedence",
			"param", p.name, "current", p.setMode.String(), "attempt", src.String(), "locked", p.locked)
		return
	}

	v := p.copyOf(p.value)
	pos := 0
	p.hooks.OnParse(p, &v, input, &pos, src)
	if p.faulted {
		safeInc(&p.counts.Writing)
		return
	}

	p.SetValue(v, src, setter)
}

// ValueString renders the parameter for purpose. Only PurposeDataForUse
// counts as a read.
func (p *Typed[T, A]) ValueString(purpose Purpose) string {
	if purpose == PurposeDataForUse {
		safeInc(&p.counts.Reading)
	}
	return p.hooks.OnFormat(p, p.value, p.def, purpose)
}

// FormattedValue renders the current value for display.
func (p *Typed[T, A]) FormattedValue() string { return p.ValueString(PurposeDisplay) }

// RawValue renders the current value in parseable form.
func (p *Typed[T, A]) RawValue() string { return p.ValueString(PurposeRawInspect) }

// FormattedDefault renders the default value for display.
func (p *Typed[T, A]) FormattedDefault() string { return p.ValueString(PurposeDisplayDefault) }

// RawDefault renders the default value in parseable form.
func (p *Typed[T, A]) RawDefault() string { return p.ValueString(PurposeRawDefault) }

// TypeName returns the human-readable type name, e.g. "integer".
func (p *Typed[T, A]) TypeName() string { return p.ValueString(PurposeTypeInfo) }

// SerializationTypeName returns the stable type name, e.g. "int32".
func (p *Typed[T, A]) SerializationTypeName() string {
	return p.ValueString(PurposeTypeInfoSerialization)
}

// ResetToDefault restores the parameter as a reset-sourced write.
//
// When source holds another parameter with the same name and kind, its
// current value wins over the declared default and it is recorded as the
// setter. src only labels the request in diagnostics.
func (p *Typed[T, A]) ResetToDefault(source *RegistrySet, src SourceType) {
	if source != nil {
		if other, ok := source.findOther(p.name, p.ptype, p).(*Typed[T, A]); ok {
			logger().Debug("resetting parameter from layered source",
				"param", p.name, "requested_by", src.String(), "source", other.owner.Title())
			p.SetValue(other.Value(), SourceReset, other)
			return
		}
	}
	p.SetValue(p.copyOf(p.def), SourceReset, nil)
}

// SetOnModify installs f and returns the previous hook. Nil restores the default.
func (p *Typed[T, A]) SetOnModify(f ModifyFunc[T, A]) ModifyFunc[T, A] {
	prev := p.hooks.OnModify
	if f == nil {
		f = p.defaults.OnModify
	}
	p.hooks.OnModify = f
	return prev
}

// ClearOnModify restores the default modify hook.
func (p *Typed[T, A]) ClearOnModify() { p.hooks.OnModify = p.defaults.OnModify }

// SetOnValidate installs f and returns the previous hook. Nil restores the default.
func (p *Typed[T, A]) SetOnValidate(f ValidateFunc[T, A]) ValidateFunc[T, A] {
	prev := p.hooks.OnValidate
	if f == nil {
		f = p.defaults.OnValidate
	}
	p.hooks.OnValidate = f
	return prev
}

// ClearOnValidate restores the default validate hook.
func (p *Typed[T, A]) ClearOnValidate() { p.hooks.OnValidate = p.defaults.OnValidate }

// SetOnParse installs f and returns the previous hook. Nil restores the default.
func (p *Typed[T, A]) SetOnParse(f ParseFunc[T, A]) ParseFunc[T, A] {
	prev := p.hooks.OnParse
	if f == nil {
		f = p.defaults.OnParse
	}
	p.hooks.OnParse = f
	return prev
}

// ClearOnParse restores the default parse hook.
func (p *Typed[T, A]) ClearOnParse() { p.hooks.OnParse = p.defaults.OnParse }

// SetOnFormat installs f and returns the previous hook. Nil restores the default.
func (p *Typed[T, A]) SetOnFormat(f FormatFunc[T, A]) FormatFunc[T, A] {
	prev := p.hooks.OnFormat
	if f == nil {
		f = p.defaults.OnFormat
	}
	p.hooks.OnFormat = f
	return prev
}

// ClearOnFormat restores the default format hook.
func (p *Typed[T, A]) ClearOnFormat() { p.hooks.OnFormat = p.defaults.OnFormat }

// DefaultHooks returns the built-in hooks of this parameter kind, for
// wrappers that want to extend rather than replace them.
func (p *Typed[T, A]) DefaultHooks() Hooks[T, A] { return p.defaults }
