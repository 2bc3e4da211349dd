// param_scalar.go: Integer, boolean, floating point and string parameters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IntParam holds a 32-bit signed integer.
type IntParam = Typed[int32, ValueAssistant]

// BoolParam holds a boolean.
type BoolParam = Typed[bool, ValueAssistant]

// DoubleParam holds a 64-bit floating point number.
type DoubleParam = Typed[float64, ValueAssistant]

// StringParam holds free-form text.
type StringParam = Typed[string, StringAssistant]

var (
	intKind = Kind[int32, ValueAssistant]{
		Type:     IntParamType,
		Equal:    func(a, b int32) bool { return a == b },
		Defaults: Hooks[int32, ValueAssistant]{OnParse: parseIntValue, OnFormat: formatIntValue},
	}
	boolKind = Kind[bool, ValueAssistant]{
		Type:     BoolParamType,
		Equal:    func(a, b bool) bool { return a == b },
		Defaults: Hooks[bool, ValueAssistant]{OnParse: parseBoolValue, OnFormat: formatBoolValue},
	}
	doubleKind = Kind[float64, ValueAssistant]{
		Type:     DoubleParamType,
		Equal:    func(a, b float64) bool { return a == b || (math.IsNaN(a) && math.IsNaN(b)) },
		Defaults: Hooks[float64, ValueAssistant]{OnParse: parseDoubleValue, OnFormat: formatDoubleValue},
	}
	stringKind = Kind[string, StringAssistant]{
		Type:     StringParamType,
		Equal:    func(a, b string) bool { return a == b },
		Defaults: Hooks[string, StringAssistant]{OnParse: parseStringValue, OnFormat: formatStringValue},
	}
)

// NewIntParam declares an integer parameter in owner.
func NewIntParam(owner *Registry, name string, value int32, info string, opts ...Option) *IntParam {
	return NewTyped(owner, name, value, info, DefaultValueAssistant(), intKind, opts...)
}

// NewBoolParam declares a boolean parameter in owner.
func NewBoolParam(owner *Registry, name string, value bool, info string, opts ...Option) *BoolParam {
	return NewTyped(owner, name, value, info, DefaultValueAssistant(), boolKind, opts...)
}

// NewDoubleParam declares a floating point parameter in owner.
func NewDoubleParam(owner *Registry, name string, value float64, info string, opts ...Option) *DoubleParam {
	return NewTyped(owner, name, value, info, DefaultValueAssistant(), doubleKind, opts...)
}

// NewStringParam declares a string parameter in owner.
func NewStringParam(owner *Registry, name string, value string, info string, opts ...Option) *StringParam {
	return NewTyped(owner, name, value, info, DefaultStringAssistant(), stringKind, opts...)
}

// parseErrorKind classifies why a value string was rejected.
type parseErrorKind int

const (
	parseNothing parseErrorKind = iota
	parseTail
	parseRange
)

// parseError describes a rejected value string so the scalar and the
// vector parsers can word their diagnostics differently.
type parseError struct {
	kind     parseErrorKind
	tail     string // unparsed remainder, for parseTail
	overflow string // what overflowed and the accepted range, for parseRange
	hint     string // optional extra advice appended to the message
}

// message renders the diagnostic for a scalar value.
func (e *parseError) message() string {
	var msg string
	switch e.kind {
	case parseRange:
		msg = "the parser stopped and reported " + e.overflow
	case parseTail:
		msg = fmt.Sprintf("the parser stopped early: the tail end (\"%s\") of the value string remains", e.tail)
	default:
		msg = "the parser was unable to parse anything at all"
	}
	if e.hint != "" {
		msg += "; " + e.hint
	}
	return msg
}

// itemMessage renders the diagnostic for element index of a vector value;
// snippet is the clipped remainder of the input starting at that element.
func (e *parseError) itemMessage(index int, snippet string) string {
	var msg string
	switch e.kind {
	case parseRange:
		msg = fmt.Sprintf("the parser stopped at item #%d (\"%s\") and reported %s", index, snippet, e.overflow)
	case parseTail:
		msg = fmt.Sprintf("the parser stopped early at item #%d (\"%s\"): the tail end (\"%s\") of the element value string remains", index, snippet, e.tail)
	default:
		msg = fmt.Sprintf("the parser was unable to parse anything at all at item #%d (\"%s\")", index, snippet)
	}
	if e.hint != "" {
		msg += "; " + e.hint
	}
	return msg
}

var (
	intOverflow = fmt.Sprintf("an integer value overflow (ERANGE); we accept decimal values between %d and %d", math.MinInt32, math.MaxInt32)

	boolOverflow = fmt.Sprintf("an integer value overflow (ERANGE); while we expect a boolean value (ideally 1/0/-1), we accept decimal values between %d and %d where any non-zero value equals TRUE", math.MinInt32, math.MaxInt32)

	doubleOverflow = fmt.Sprintf("a floating point value overflow (ERANGE); we accept finite floating point values between %g and %g", -math.MaxFloat64, math.MaxFloat64)
)

// reportParseError logs the standard diagnostic for a rejected value.
func reportParseError(p Param, input, why string) {
	logger().Error(fmt.Sprintf("ERROR: error parsing %s parameter '%s' value (\"%s\") to %s; %s. The parameter value will not be adjusted: the preset value (%s) will be used instead.",
		ApplicationName(), p.Name(), input, p.TypeName(), why, p.FormattedValue()),
		"param", p.Name())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// scanInteger locates the longest integer literal at the start of s after
// leading whitespace. Base 0 accepts 0x hex and leading-zero octal.
// It returns the literal and the index just past it; an empty literal
// means nothing numeric was found.
func scanInteger(s string, base int) (string, int) {
	start := skipSpace(s, 0)
	i := start
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsStart := i
	if base == 0 && i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		j := i + 2
		for j < len(s) && strings.IndexByte("0123456789abcdefABCDEF", s[j]) >= 0 {
			j++
		}
		if j > i+2 {
			return s[start:j], j
		}
		// "0x" without hex digits: only the zero is a number
		return s[start : i+1], i + 1
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return "", 0
	}
	return s[start:i], i
}

// parseInt32 converts s following strtol semantics restricted to int32,
// with a whitespace-only tail.
func parseInt32(s string, base int) (int32, int, *parseError) {
	lit, end := scanInteger(s, base)
	if lit == "" {
		return 0, 0, &parseError{kind: parseNothing}
	}
	n, err := strconv.ParseInt(lit, base, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, end, &parseError{kind: parseRange, overflow: intOverflow}
		}
		return 0, 0, &parseError{kind: parseNothing}
	}
	tail := skipSpace(s, end)
	if tail < len(s) {
		return 0, tail, &parseError{kind: parseTail, tail: s[tail:]}
	}
	return int32(n), tail, nil
}

func parseIntValue(p *IntParam, value *int32, input string, pos *int, _ SourceType) {
	v, end, perr := parseInt32(input, 10)
	*pos = end
	if perr != nil {
		p.Fault()
		reportParseError(p, input, perr.message())
		return
	}
	*value = v
}

func formatIntValue(_ *IntParam, value, def int32, purpose Purpose) string {
	switch purpose {
	case PurposeRawDefault, PurposeDisplayDefault:
		return strconv.FormatInt(int64(def), 10)
	case PurposeTypeInfo:
		return "integer"
	case PurposeTypeInfoSerialization:
		return "int32"
	default:
		return strconv.FormatInt(int64(value), 10)
	}
}

// parseBool accepts a number (any non-zero is true), a single word starting
// with t/y/j (true) or f/n (false), or one of the lone symbols + x (true)
// and - . (false). Comparison is case-insensitive.
func parseBool(s string) (bool, int, *parseError) {
	if lit, _ := scanInteger(s, 0); lit != "" {
		n, end, perr := parseInt32(s, 0)
		if perr != nil {
			if perr.kind == parseRange {
				perr.overflow = boolOverflow
			}
			return false, end, perr
		}
		return n != 0, end, nil
	}

	start := skipSpace(s, 0)
	if start == len(s) {
		return false, 0, &parseError{kind: parseNothing}
	}
	rest := s[start:]
	c := rest[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	var value, good bool
	switch c {
	case 't', 'y', 'j':
		value, good = true, isSingleWord(rest)
	case 'f', 'n':
		value, good = false, isSingleWord(rest)
	case 'x', '+':
		value, good = true, isOptionalWhitespace(rest[1:])
	case '-', '.':
		value, good = false, isOptionalWhitespace(rest[1:])
	default:
		return false, 0, &parseError{kind: parseNothing, hint: boolHint}
	}
	if !good {
		return false, start, &parseError{kind: parseTail, tail: rest, hint: boolHint}
	}
	return value, len(s), nil
}

const boolHint = "we accept a single boolean word ([T]rue/[F]alse/[Y]es/[J]a/[N]o) or boolean symbol (+/-/./x)"

func isSingleWord(s string) bool {
	i := 0
	for i < len(s) && isWordChar(s[i]) {
		i++
	}
	return i > 0 && isOptionalWhitespace(s[i:])
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func isOptionalWhitespace(s string) bool {
	return skipSpace(s, 0) == len(s)
}

func parseBoolValue(p *BoolParam, value *bool, input string, pos *int, _ SourceType) {
	v, end, perr := parseBool(input)
	*pos = end
	if perr != nil {
		p.Fault()
		reportParseError(p, input, perr.message())
		return
	}
	*value = v
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func formatBoolValue(_ *BoolParam, value, def bool, purpose Purpose) string {
	switch purpose {
	case PurposeRawDefault, PurposeDisplayDefault:
		return formatBool(def)
	case PurposeTypeInfo:
		return "boolean"
	case PurposeTypeInfoSerialization:
		return "bool"
	default:
		return formatBool(value)
	}
}

// parseFloat64 converts s in the C locale with a whitespace-only tail.
// Non-finite results are rejected as out of range.
func parseFloat64(s string) (float64, int, *parseError) {
	start := skipSpace(s, 0)
	end := start
	for end < len(s) && !isSpace(s[end]) {
		end++
	}

	n := start + floatPrefixLen(s[start:end])
	var (
		value float64
		err   error
	)
	if n > start {
		value, err = strconv.ParseFloat(s[start:n], 64)
	}
	if n == start {
		return 0, 0, &parseError{kind: parseNothing}
	}
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, n, &parseError{kind: parseRange, overflow: doubleOverflow}
	}
	tail := skipSpace(s, n)
	if tail < len(s) {
		return 0, tail, &parseError{kind: parseTail, tail: s[tail:]}
	}
	return value, tail, nil
}

// floatPrefixLen returns the length of the longest prefix of s written
// in floating point syntax: an optional sign followed by inf, infinity,
// nan, a decimal number with optional exponent, or a hex mantissa with a
// binary exponent. It scans s once.
func floatPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	rest := strings.ToLower(s[i:min(len(s), i+len("infinity"))])
	switch {
	case strings.HasPrefix(rest, "infinity"):
		return i + len("infinity")
	case strings.HasPrefix(rest, "inf"), strings.HasPrefix(rest, "nan"):
		return i + 3
	}

	if n := hexFloatLen(s[i:]); n > 0 {
		return i + n
	}

	digits := 0
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	return j + exponentLen(s[j:], 'e')
}

// hexFloatLen matches 0x<hex>[.<hex>]p[sign]<digits>, the only hex form
// strconv accepts; anything shorter reads as the decimal zero.
func hexFloatLen(s string) int {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return 0
	}
	j, digits := 2, 0
	for j < len(s) && isHexDigit(s[j]) {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isHexDigit(s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	exp := exponentLen(s[j:], 'p')
	if exp == 0 {
		return 0
	}
	return j + exp
}

// exponentLen matches marker[sign]<digits> case-insensitively.
func exponentLen(s string, marker byte) int {
	if len(s) == 0 || (s[0]|0x20) != marker {
		return 0
	}
	j := 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	k := j
	for k < len(s) && isDigit(s[k]) {
		k++
	}
	if k == j {
		return 0
	}
	return k
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

func parseDoubleValue(p *DoubleParam, value *float64, input string, pos *int, _ SourceType) {
	v, end, perr := parseFloat64(input)
	*pos = end
	if perr != nil {
		p.Fault()
		reportParseError(p, input, perr.message())
		return
	}
	*value = v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatDoubleValue(_ *DoubleParam, value, def float64, purpose Purpose) string {
	switch purpose {
	case PurposeRawDefault, PurposeDisplayDefault:
		return formatFloat(def)
	case PurposeTypeInfo:
		return "floating point"
	case PurposeTypeInfoSerialization:
		return "double"
	default:
		return formatFloat(value)
	}
}

func parseStringValue(p *StringParam, value *string, input string, pos *int, _ SourceType) {
	*pos = len(input)
	if p.assistant.TrimWhitespace {
		input = strings.TrimSpace(input)
	}
	*value = input
}

func formatStringValue(p *StringParam, value, def string, purpose Purpose) string {
	a := p.assistant
	switch purpose {
	case PurposeDisplay:
		return a.DisplayPrefix + value + a.DisplayPostfix
	case PurposeDisplayDefault:
		return a.DisplayPrefix + def + a.DisplayPostfix
	case PurposeRawDefault:
		return a.DataPrefix + def + a.DataPostfix
	case PurposeTypeInfo, PurposeTypeInfoSerialization:
		return "string"
	default:
		return a.DataPrefix + value + a.DataPostfix
	}
}
