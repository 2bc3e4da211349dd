// param_custom.go: Opaque user-defined parameters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

// NewCustomParam declares a parameter over an arbitrary value type. The
// engine knows nothing about T: parsing, formatting and equality come from
// hooks and assistant. Values are compared with reflect.DeepEqual.
//
//	type Window struct{ W, H int }
//	win := params.NewCustomParam(reg, "window", Window{800, 600}, "window size",
//	    struct{}{}, params.TextHooks[Window, struct{}](parseWindow, formatWindow, "window"))
func NewCustomParam[T, A any](owner *Registry, name string, value T, info string, assistant A, hooks Hooks[T, A], opts ...Option) *Typed[T, A] {
	return NewTyped(owner, name, value, info, assistant, Kind[T, A]{
		Type:     CustomParamType,
		Defaults: hooks,
	}, opts...)
}

// TextHooks builds parse and format hooks from a pair of text conversion
// functions. A parse error faults the write and is logged with the
// standard diagnostic.
func TextHooks[T, A any](parse func(s string) (T, error), format func(v T) string, typeName string) Hooks[T, A] {
	return Hooks[T, A]{
		OnParse: func(p *Typed[T, A], value *T, input string, pos *int, _ SourceType) {
			v, err := parse(input)
			if err != nil {
				p.Fault()
				reportParseError(p, input, err.Error())
				return
			}
			*value = v
			*pos = len(input)
		},
		OnFormat: func(_ *Typed[T, A], value, def T, purpose Purpose) string {
			switch purpose {
			case PurposeRawDefault, PurposeDisplayDefault:
				return format(def)
			case PurposeTypeInfo, PurposeTypeInfoSerialization:
				return typeName
			default:
				return format(value)
			}
		},
	}
}
