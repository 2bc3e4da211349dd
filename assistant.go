// assistant.go: Parse and format configuration for parameter values
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

// ValueAssistant describes how a scalar value is framed when formatted.
type ValueAssistant struct {
	DataPrefix     string
	DataPostfix    string
	DisplayPrefix  string
	DisplayPostfix string
	// TrimWhitespace strips surrounding whitespace from string input.
	// Numeric and boolean parsers always skip it.
	TrimWhitespace bool
}

// DefaultValueAssistant frames nothing and trims input.
func DefaultValueAssistant() ValueAssistant {
	return ValueAssistant{TrimWhitespace: true}
}

// StringAssistant describes how string values are framed when formatted.
// Data output stays bare so it parses back verbatim; display output is quoted.
type StringAssistant struct {
	ValueAssistant
}

// DefaultStringAssistant quotes string values in display output.
func DefaultStringAssistant() StringAssistant {
	return StringAssistant{ValueAssistant{
		DisplayPrefix:  `"`,
		DisplayPostfix: `"`,
	}}
}

// VectorAssistant describes how vector values are tokenized and joined.
type VectorAssistant struct {
	// ParseSeparators lists the characters that split elements; any one of them separates.
	ParseSeparators string

	DataPrefix    string
	DataPostfix   string
	DataSeparator string

	DisplayPrefix    string
	DisplayPostfix   string
	DisplaySeparator string

	// CopeWithDisplayPrefixes lets the parser strip display framing such as "[...]".
	CopeWithDisplayPrefixes bool
	TrimWhitespace          bool
}

// DefaultVectorAssistant returns the comma separated, bracket displayed setup.
func DefaultVectorAssistant() VectorAssistant {
	return VectorAssistant{
		ParseSeparators:         "\t\r\n,;:|",
		DataSeparator:           ",",
		DisplayPrefix:           "[",
		DisplayPostfix:          "]",
		DisplaySeparator:        ", ",
		CopeWithDisplayPrefixes: true,
		TrimWhitespace:          true,
	}
}
