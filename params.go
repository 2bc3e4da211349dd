// params.go: Typed runtime parameter registry
//
// Philosophy:
// - Parameters are named, typed, and carry their own provenance
// - Faults are flagged on the parameter, never raised across the registry
// - Lookups are case-insensitive and treat '-' and '_' as equal
// - Every read, write, change and fault is counted for usage reports
//
// Example Usage:
//   reg := params.NewRegistry("global")
//   width := params.NewIntParam(reg, "page-width", 80, "page width in columns")
//   params.SetParam("PAGE_WIDTH", "132", params.NewRegistrySet(reg), params.SourceConfigFile, nil)
//   fmt.Println(width.Value()) // 132
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/agilira/go-errors"
	"github.com/agilira/params/internal/logging"
)

// Error codes for params operations
const (
	ErrCodeNameCollision     = "PARAMS_NAME_COLLISION"
	ErrCodeNotFound          = "PARAMS_NOT_FOUND"
	ErrCodeInvalidValue      = "PARAMS_INVALID_VALUE"
	ErrCodeInvalidConfig     = "PARAMS_INVALID_CONFIG"
	ErrCodeInvalidExpression = "PARAMS_INVALID_EXPRESSION"
	ErrCodeIOError           = "PARAMS_IO_ERROR"
	ErrCodeAuditError        = "PARAMS_AUDIT_ERROR"
	ErrCodeFlagError         = "PARAMS_FLAG_ERROR"
)

// ParamType is a bit mask describing the value kind of a parameter.
// Lookups match when the mask and the declared type intersect.
type ParamType uint32

const (
	IntParamType    ParamType = 0x01
	BoolParamType   ParamType = 0x02
	DoubleParamType ParamType = 0x04
	StringParamType ParamType = 0x08
	CustomParamType ParamType = 0x10
	VectorParamType ParamType = 0x20

	IntSetParamType    = IntParamType | VectorParamType
	BoolSetParamType   = BoolParamType | VectorParamType
	DoubleSetParamType = DoubleParamType | VectorParamType
	StringSetParamType = StringParamType | VectorParamType

	AnyParamType ParamType = 0x3F
)

// Matches reports whether t shares at least one bit with mask.
func (t ParamType) Matches(mask ParamType) bool {
	return t&mask != 0
}

// String returns the short tag used in reports, e.g. "[Integer]".
func (t ParamType) String() string {
	switch t {
	case IntParamType:
		return "[Integer]"
	case BoolParamType:
		return "[Boolean]"
	case DoubleParamType:
		return "[Float]"
	case StringParamType:
		return "[String]"
	case IntSetParamType:
		return "[IntSet]"
	case BoolSetParamType:
		return "[BoolSet]"
	case DoubleSetParamType:
		return "[FloatSet]"
	case StringSetParamType:
		return "[StrSet]"
	case CustomParamType:
		return "[Custom]"
	case AnyParamType:
		return "[ANY]"
	default:
		return "[???]"
	}
}

// SourceType records why, or by whom, a parameter was last written.
// The order of the constants is the write precedence: a write from a
// lower source than the one recorded on the parameter is ignored.
type SourceType int

const (
	SourceDefault SourceType = iota
	SourceReset
	SourcePreset
	SourceConfigFile
	SourceAssign
	SourceByParam
	SourceByApplication
	SourceByCoreRun
	SourceBySnapshotRewind
)

func (s SourceType) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceReset:
		return "reset"
	case SourcePreset:
		return "preset"
	case SourceConfigFile:
		return "config-file"
	case SourceAssign:
		return "assign"
	case SourceByParam:
		return "by-param"
	case SourceByApplication:
		return "by-application"
	case SourceByCoreRun:
		return "by-core-run"
	case SourceBySnapshotRewind:
		return "by-snapshot-rewind"
	default:
		return "unknown"
	}
}

// ParseSourceType maps the names produced by SourceType.String back to values.
func ParseSourceType(name string) (SourceType, bool) {
	for s := SourceDefault; s <= SourceBySnapshotRewind; s++ {
		if strings.EqualFold(name, s.String()) {
			return s, true
		}
	}
	return SourceDefault, false
}

// Purpose selects what ValueString renders.
type Purpose int

const (
	// PurposeDataForUse renders the current value in parseable form and counts a read.
	PurposeDataForUse Purpose = iota
	// PurposeRawInspect renders the current value in parseable form without counting.
	PurposeRawInspect
	// PurposeDisplay renders the current value for humans.
	PurposeDisplay
	// PurposeRawDefault renders the default value in parseable form.
	PurposeRawDefault
	// PurposeDisplayDefault renders the default value for humans.
	PurposeDisplayDefault
	// PurposeTypeInfo renders the human-readable type name.
	PurposeTypeInfo
	// PurposeTypeInfoSerialization renders the stable type name used in machine formats.
	PurposeTypeInfoSerialization
)

const anonymousApplicationName = "[?anonymous.app?]"

var (
	globalsMu         sync.RWMutex
	applicationName   = anonymousApplicationName
	defaultSourceType = SourceAssign
	libraryLogger     *slog.Logger
)

// SetApplicationName sets the name used to prefix diagnostics.
// An empty name restores the anonymous placeholder.
func SetApplicationName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = anonymousApplicationName
	}
	globalsMu.Lock()
	applicationName = name
	globalsMu.Unlock()
}

// ApplicationName returns the name used to prefix diagnostics.
func ApplicationName() string {
	globalsMu.RLock()
	defer globalsMu.RUnlock()
	return applicationName
}

// SetDefaultSourceType sets the source type used by Assign.
func SetDefaultSourceType(src SourceType) {
	globalsMu.Lock()
	defaultSourceType = src
	globalsMu.Unlock()
}

// DefaultSourceType returns the source type used by Assign.
func DefaultSourceType() SourceType {
	globalsMu.RLock()
	defer globalsMu.RUnlock()
	return defaultSourceType
}

// SetLogger replaces the logger used for parameter diagnostics.
// A nil logger restores the default component logger.
func SetLogger(l *slog.Logger) {
	globalsMu.Lock()
	libraryLogger = l
	globalsMu.Unlock()
}

func logger() *slog.Logger {
	globalsMu.RLock()
	l := libraryLogger
	globalsMu.RUnlock()
	if l != nil {
		return l
	}
	return logging.New("params")
}

// GetErrorCode extracts the error code from a params error
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}

	if coder, ok := err.(errors.ErrorCoder); ok {
		return string(coder.ErrorCode())
	}

	errStr := err.Error()

	// go-errors format: [CODE]: Message
	if len(errStr) > 3 && errStr[0] == '[' {
		for idx := 1; idx < len(errStr); idx++ {
			if errStr[idx] == ']' {
				return errStr[1:idx]
			}
		}
	}

	for idx := 0; idx < len(errStr); idx++ {
		if errStr[idx] == ':' {
			return errStr[:idx]
		}
	}

	return errStr
}
