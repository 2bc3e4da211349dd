// utilities.go: Name based access to parameters
//
// The functions here work on names rather than typed handles, for callers
// that receive parameter settings as text or loosely typed values: config
// files, command lines, scripting bridges.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FindParam looks name up in set, first layer first.
func FindParam(name string, set *RegistrySet, mask ParamType) Param {
	return set.Find(name, mask)
}

// FindParamIn looks name up in a single registry.
func FindParamIn(name string, r *Registry, mask ParamType) Param {
	if r == nil {
		return nil
	}
	return r.Find(name, mask)
}

// Assign writes the text value to p using the application's default source type.
func Assign(p Param, value string) bool {
	p.SetValueString(value, DefaultSourceType(), nil)
	return !p.HasFaulted()
}

// SetParam writes value to the parameter called name.
//
// value may be an int, int32, int64, bool, float64, float32 or string.
// A parameter of the matching type is preferred; otherwise any parameter
// with that name receives a converted value: numbers become booleans by
// comparing against zero, single values become one-element lists and
// anything can be written as text. SetParam reports whether a value was
// written without faulting.
func SetParam(name string, value any, set *RegistrySet, src SourceType, setter Param) bool {
	switch v := value.(type) {
	case int32:
		return setIntParam(name, v, set, src, setter)
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return setDoubleParam(name, float64(v), set, src, setter)
		}
		return setIntParam(name, int32(v), set, src, setter)
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return setDoubleParam(name, float64(v), set, src, setter)
		}
		return setIntParam(name, int32(v), set, src, setter)
	case bool:
		return setBoolParam(name, v, set, src, setter)
	case float64:
		return setDoubleParam(name, v, set, src, setter)
	case float32:
		return setDoubleParam(name, float64(v), set, src, setter)
	case string:
		return setStringParam(name, v, set, src, setter)
	default:
		logger().Error("unsupported parameter value type", "param", name, "type", fmt.Sprintf("%T", value))
		return false
	}
}

// SetParamInRegistry is SetParam on a single registry.
func SetParamInRegistry(name string, value any, r *Registry, src SourceType, setter Param) bool {
	return SetParam(name, value, NewRegistrySet(r), src, setter)
}

func written(p Param) bool { return !p.HasFaulted() }

func setIntParam(name string, v int32, set *RegistrySet, src SourceType, setter Param) bool {
	if p := FindIntParam(set, name); p != nil {
		p.SetValue(v, src, setter)
		return written(p)
	}
	switch p := set.Find(name, AnyParamType).(type) {
	case nil:
		return false
	case *BoolParam:
		p.SetValue(v != 0, src, setter)
		return written(p)
	case *DoubleParam:
		p.SetValue(float64(v), src, setter)
		return written(p)
	case *IntSetParam:
		p.SetValue([]int32{v}, src, setter)
		return written(p)
	case *BoolSetParam:
		p.SetValue([]bool{v != 0}, src, setter)
		return written(p)
	case *DoubleSetParam:
		p.SetValue([]float64{float64(v)}, src, setter)
		return written(p)
	case *StringSetParam:
		p.SetValue([]string{strconv.FormatInt(int64(v), 10)}, src, setter)
		return written(p)
	default:
		p.SetValueString(strconv.FormatInt(int64(v), 10), src, setter)
		return written(p)
	}
}

func setBoolParam(name string, v bool, set *RegistrySet, src SourceType, setter Param) bool {
	if p := FindBoolParam(set, name); p != nil {
		p.SetValue(v, src, setter)
		return written(p)
	}
	var n int32
	if v {
		n = 1
	}
	switch p := set.Find(name, AnyParamType).(type) {
	case nil:
		return false
	case *IntParam:
		p.SetValue(n, src, setter)
		return written(p)
	case *DoubleParam:
		p.SetValue(float64(n), src, setter)
		return written(p)
	case *IntSetParam:
		p.SetValue([]int32{n}, src, setter)
		return written(p)
	case *BoolSetParam:
		p.SetValue([]bool{v}, src, setter)
		return written(p)
	case *DoubleSetParam:
		p.SetValue([]float64{float64(n)}, src, setter)
		return written(p)
	case *StringSetParam:
		p.SetValue([]string{formatBool(v)}, src, setter)
		return written(p)
	default:
		p.SetValueString(formatBool(v), src, setter)
		return written(p)
	}
}

// roundInt32 rounds half away from zero and reports whether the result fits.
func roundInt32(v float64) (int32, bool) {
	r := math.Round(v)
	if math.IsNaN(r) || r < math.MinInt32 || r > math.MaxInt32 {
		return 0, false
	}
	return int32(r), true
}

func setDoubleParam(name string, v float64, set *RegistrySet, src SourceType, setter Param) bool {
	if p := FindDoubleParam(set, name); p != nil {
		p.SetValue(v, src, setter)
		return written(p)
	}
	switch p := set.Find(name, AnyParamType).(type) {
	case nil:
		return false
	case *BoolParam:
		p.SetValue(v != 0, src, setter)
		return written(p)
	case *IntParam:
		n, ok := roundInt32(v)
		if !ok {
			return false
		}
		p.SetValue(n, src, setter)
		return written(p)
	case *IntSetParam:
		n, ok := roundInt32(v)
		if !ok {
			return false
		}
		p.SetValue([]int32{n}, src, setter)
		return written(p)
	case *BoolSetParam:
		p.SetValue([]bool{v != 0}, src, setter)
		return written(p)
	case *DoubleSetParam:
		p.SetValue([]float64{v}, src, setter)
		return written(p)
	case *StringSetParam:
		p.SetValue([]string{formatFloat(v)}, src, setter)
		return written(p)
	default:
		p.SetValueString(formatFloat(v), src, setter)
		return written(p)
	}
}

func setStringParam(name string, v string, set *RegistrySet, src SourceType, setter Param) bool {
	if sp := FindStringParam(set, name); sp != nil {
		sp.SetValue(v, src, setter)
		return written(sp)
	}
	p := set.Find(name, AnyParamType)
	if p == nil {
		return false
	}
	p.SetValueString(v, src, setter)
	return written(p)
}

// ReadParamsFile reads "name value" lines from path and applies them to set.
//
// Blank lines and lines starting with '#' are skipped. The name ends at the
// first whitespace and the rest of the line, trimmed, is the value. When
// surplus is not nil, lines naming no known parameter are kept there as
// string parameters instead of counting as failures.
//
// It reports whether any line failed. A file that cannot be opened is
// logged and reported as a failure.
func ReadParamsFile(path string, set *RegistrySet, surplus *SurplusRegistry, src SourceType, setter Param) bool {
	cf, err := OpenConfigFile(path)
	if err != nil || !cf.IsOpen() {
		logger().Error(fmt.Sprintf("read_params_file: Can't open/read file %s", path))
		return true
	}
	defer func() { _ = cf.Close() }()
	return readParams(cf, path, set, surplus, src, setter)
}

// ReadParams is ReadParamsFile on an open stream.
func ReadParams(r io.Reader, set *RegistrySet, surplus *SurplusRegistry, src SourceType, setter Param) bool {
	return readParams(NewConfigReader(r), "", set, surplus, src, setter)
}

// splitParamLine separates a trimmed line into name and value.
func splitParamLine(line string) (name, value string) {
	i := strings.IndexFunc(line, func(r rune) bool { return r < 0x80 && isSpace(byte(r)) })
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i:], " \t\n\r\v\f")
}

func readParams(cf *ConfigFile, origin string, set *RegistrySet, surplus *SurplusRegistry, src SourceType, setter Param) bool {
	anyErr := false
	lineNo := 0
	for {
		line, ok := cf.ReadLine()
		if !ok {
			break
		}
		lineNo++

		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		name, value := splitParamLine(line)

		if surplus != nil && set.Find(name, AnyParamType) == nil {
			if captureSurplus(surplus, name, value, origin, lineNo, src, setter) {
				continue
			}
		}

		if !SetParam(name, value, set, src, setter) {
			anyErr = true
			logger().Error(fmt.Sprintf("Failure while processing parameter line #%d: %s  %s", lineNo, name, value),
				"line", lineNo, "param", name)
		}
	}
	return anyErr
}

// captureSurplus records an unknown setting in surplus, updating an earlier
// capture of the same name.
func captureSurplus(surplus *SurplusRegistry, name, value, origin string, lineNo int, src SourceType, setter Param) bool {
	p := surplus.Find(name, AnyParamType)
	if p == nil {
		info := fmt.Sprintf("unknown parameter from line #%d", lineNo)
		if origin != "" {
			info = fmt.Sprintf("unknown parameter from %s line #%d", origin, lineNo)
		}
		p = surplus.AddString(name, "", info)
		logger().Debug("captured surplus parameter", "param", name, "line", lineNo)
	}
	p.SetValueString(value, src, setter)
	return !p.HasFaulted()
}

// ResetToDefaults resets every parameter of set, letting each one adopt the
// value of a same-named parameter in another layer when there is one.
func ResetToDefaults(set *RegistrySet, src SourceType) {
	for _, p := range set.List(AnyParamType) {
		p.ResetToDefault(set, src)
	}
}
