// param_vector.go: Vector valued parameters and the list tokenizer
//
// Vector values are written as delimited lists. The tokenizer accepts both
// the data form ("1,2,3") and, when the assistant allows it, the display
// form ("[1, 2, 3]"). Elements are trimmed and empty elements are dropped,
// so "1,2,,3" and "[ 1 ; 2 ; 3 ]" both yield three items.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// IntSetParam holds a list of 32-bit signed integers.
type IntSetParam = Typed[[]int32, VectorAssistant]

// BoolSetParam holds a list of booleans.
type BoolSetParam = Typed[[]bool, VectorAssistant]

// DoubleSetParam holds a list of floating point numbers.
type DoubleSetParam = Typed[[]float64, VectorAssistant]

// StringSetParam holds a list of strings.
type StringSetParam = Typed[[]string, VectorAssistant]

// elementCodec converts single vector elements.
type elementCodec[E comparable] struct {
	parse    func(s string) (E, *parseError)
	format   func(v E) string
	typeName string
	serName  string
}

var (
	intElements = elementCodec[int32]{
		parse: func(s string) (int32, *parseError) {
			v, _, perr := parseInt32(s, 10)
			return v, perr
		},
		format:   func(v int32) string { return strconv.FormatInt(int64(v), 10) },
		typeName: "set of integers",
		serName:  "int32[]",
	}
	boolElements = elementCodec[bool]{
		parse: func(s string) (bool, *parseError) {
			v, _, perr := parseBool(s)
			return v, perr
		},
		format:   formatBool,
		typeName: "set of booleans",
		serName:  "bool[]",
	}
	doubleElements = elementCodec[float64]{
		parse: func(s string) (float64, *parseError) {
			v, _, perr := parseFloat64(s)
			return v, perr
		},
		format:   formatFloat,
		typeName: "set of floating point values",
		serName:  "double[]",
	}
	stringElements = elementCodec[string]{
		parse:    func(s string) (string, *parseError) { return s, nil },
		format:   func(v string) string { return v },
		typeName: "set of strings",
		serName:  "string[]",
	}
)

func vectorKind[E comparable](ptype ParamType, codec elementCodec[E]) Kind[[]E, VectorAssistant] {
	return Kind[[]E, VectorAssistant]{
		Type:  ptype,
		Equal: func(a, b []E) bool { return slices.Equal(a, b) },
		Clone: func(v []E) []E { return slices.Clone(v) },
		Defaults: Hooks[[]E, VectorAssistant]{
			OnParse: func(p *Typed[[]E, VectorAssistant], value *[]E, input string, pos *int, _ SourceType) {
				parseVector(p, codec, value, input, pos)
			},
			OnFormat: func(p *Typed[[]E, VectorAssistant], value, def []E, purpose Purpose) string {
				return formatVector(p.assistant, codec, value, def, purpose)
			},
		},
	}
}

var (
	intSetKind    = vectorKind(IntSetParamType, intElements)
	boolSetKind   = vectorKind(BoolSetParamType, boolElements)
	doubleSetKind = vectorKind(DoubleSetParamType, doubleElements)
	stringSetKind = vectorKind(StringSetParamType, stringElements)
)

// NewIntSetParam declares an integer list parameter in owner.
func NewIntSetParam(owner *Registry, name string, value []int32, info string, opts ...Option) *IntSetParam {
	return NewTyped(owner, name, value, info, DefaultVectorAssistant(), intSetKind, opts...)
}

// NewBoolSetParam declares a boolean list parameter in owner.
func NewBoolSetParam(owner *Registry, name string, value []bool, info string, opts ...Option) *BoolSetParam {
	return NewTyped(owner, name, value, info, DefaultVectorAssistant(), boolSetKind, opts...)
}

// NewDoubleSetParam declares a floating point list parameter in owner.
func NewDoubleSetParam(owner *Registry, name string, value []float64, info string, opts ...Option) *DoubleSetParam {
	return NewTyped(owner, name, value, info, DefaultVectorAssistant(), doubleSetKind, opts...)
}

// NewStringSetParam declares a string list parameter in owner.
func NewStringSetParam(owner *Registry, name string, value []string, info string, opts ...Option) *StringSetParam {
	return NewTyped(owner, name, value, info, DefaultVectorAssistant(), stringSetKind, opts...)
}

// vectorToken is one element of a tokenized list with its offset in the input.
type vectorToken struct {
	text   string
	offset int
}

// TokenizeVector splits input into list elements the way vector parameters do.
func TokenizeVector(a VectorAssistant, input string) []string {
	tokens := tokenizeVector(a, input)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.text
	}
	return out
}

func tokenizeVector(a VectorAssistant, input string) []vectorToken {
	start, end := 0, len(input)
	trimRight := func() {
		for a.TrimWhitespace && end > start && isSpace(input[end-1]) {
			end--
		}
	}
	if a.TrimWhitespace {
		start = skipSpace(input, 0)
	}

	display := false
	switch {
	case a.CopeWithDisplayPrefixes && a.DisplayPrefix != "" && strings.HasPrefix(input[start:], a.DisplayPrefix):
		start += len(a.DisplayPrefix)
		display = true
	case a.DataPrefix != "" && strings.HasPrefix(input[start:], a.DataPrefix):
		start += len(a.DataPrefix)
	}
	trimRight()

	postfix := a.DataPostfix
	if display {
		postfix = a.DisplayPostfix
	}
	if postfix != "" && strings.HasSuffix(input[start:end], postfix) {
		end -= len(postfix)
		trimRight()
	}

	var tokens []vectorToken
	emit := func(from, to int) {
		if a.TrimWhitespace {
			from = skipSpace(input[:to], from)
			for to > from && isSpace(input[to-1]) {
				to--
			}
		}
		if to > from {
			tokens = append(tokens, vectorToken{text: input[from:to], offset: from})
		}
	}
	elem := start
	for i := start; i < end; i++ {
		if strings.IndexByte(a.ParseSeparators, input[i]) >= 0 {
			emit(elem, i)
			elem = i + 1
		}
	}
	emit(elem, end)
	return tokens
}

// clipSnippet shortens the remainder of a list for diagnostics, cutting
// on a character boundary.
func clipSnippet(s string) string {
	if len(s) <= 40 {
		return s
	}
	cut := 22
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + " ...(continued)..."
}

func parseVector[E comparable](p *Typed[[]E, VectorAssistant], codec elementCodec[E], value *[]E, input string, pos *int) {
	tokens := tokenizeVector(p.assistant, input)
	out := make([]E, 0, len(tokens))
	for _, tok := range tokens {
		v, perr := codec.parse(tok.text)
		if perr != nil {
			*pos = tok.offset
			p.Fault()
			reportParseError(p, input, perr.itemMessage(len(out), clipSnippet(input[tok.offset:])))
			return
		}
		out = append(out, v)
	}
	*pos = len(input)
	*value = out
}

func joinElements[E comparable](codec elementCodec[E], values []E, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = codec.format(v)
	}
	return strings.Join(parts, sep)
}

func formatVector[E comparable](a VectorAssistant, codec elementCodec[E], value, def []E, purpose Purpose) string {
	switch purpose {
	case PurposeDisplay:
		return a.DisplayPrefix + joinElements(codec, value, a.DisplaySeparator) + a.DisplayPostfix
	case PurposeDisplayDefault:
		return a.DisplayPrefix + joinElements(codec, def, a.DisplaySeparator) + a.DisplayPostfix
	case PurposeRawDefault:
		return a.DataPrefix + joinElements(codec, def, a.DataSeparator) + a.DataPostfix
	case PurposeTypeInfo:
		return codec.typeName
	case PurposeTypeInfoSerialization:
		return codec.serName
	default:
		return a.DataPrefix + joinElements(codec, value, a.DataSeparator) + a.DataPostfix
	}
}
