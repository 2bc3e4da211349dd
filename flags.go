// flags.go: Command-line flags as a parameter source
//
// Every parameter becomes a long flag named after it in lower case with
// '_' written as '-', so "page_width" is set by --page-width=132. Boolean
// parameters become boolean flags; all other kinds take their value as
// text and go through the parameter's own parser.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"fmt"
	"strings"

	flashflags "github.com/agilira/flash-flags"
	"github.com/agilira/go-errors"
)

// FlagName returns the command-line flag used for parameter name.
func FlagName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// flagBinding ties one flag to the parameter it feeds.
type flagBinding struct {
	param  Param
	isBool bool
}

// FlagBinding is the set of flags registered for a registry set.
type FlagBinding struct {
	fs    *flashflags.FlagSet
	flags map[string]*flagBinding
	order []string
}

// BindFlags registers a flag on fs for every parameter of set whose type
// intersects mask. Parameters shadowed by an earlier layer are skipped.
// The current values become the flag defaults.
func BindFlags(fs *flashflags.FlagSet, set *RegistrySet, mask ParamType) *FlagBinding {
	b := &FlagBinding{fs: fs, flags: make(map[string]*flagBinding)}
	for _, p := range set.List(mask) {
		if !sameParam(set.Find(p.Name(), mask), p) {
			continue
		}
		name := FlagName(p.Name())
		if _, dup := b.flags[name]; dup {
			continue
		}
		fb := &flagBinding{param: p}
		usage := p.Info()
		if usage == "" {
			usage = p.TypeName() + " parameter"
		}
		if bp, ok := p.(*BoolParam); ok {
			fb.isBool = true
			fs.Bool(name, bp.Peek(), usage)
		} else {
			fs.String(name, p.RawValue(), usage)
		}
		b.flags[name] = fb
		b.order = append(b.order, name)
	}
	return b
}

// FlagSet returns the underlying flag set.
func (b *FlagBinding) FlagSet() *flashflags.FlagSet { return b.fs }

// Len returns the number of bound flags.
func (b *FlagBinding) Len() int { return len(b.order) }

// Apply writes every flag given on the command line to its parameter,
// using src as source type, even when the value equals the current one.
// It returns the number of parameters written and those that rejected
// their value.
func (b *FlagBinding) Apply(src SourceType) (int, []Param) {
	applied := 0
	var faulted []Param
	for _, name := range b.order {
		if !b.fs.Changed(name) {
			continue
		}
		fb := b.flags[name]
		value := b.fs.GetString(name)
		if fb.isBool {
			value = formatBool(b.fs.GetBool(name))
		}
		fb.param.SetValueString(value, src, nil)
		if fb.param.HasFaulted() {
			faulted = append(faulted, fb.param)
			continue
		}
		applied++
	}
	return applied, faulted
}

// ParseCommandLine binds every parameter of set to a new flag set, parses
// args and applies the flags given with SourceByApplication.
func ParseCommandLine(appName string, args []string, set *RegistrySet) (*FlagBinding, error) {
	fs := flashflags.New(appName)
	b := BindFlags(fs, set, AnyParamType)

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			fs.PrintHelp()
			return b, errors.New(ErrCodeFlagError, "help requested")
		}
	}

	if err := fs.Parse(args); err != nil {
		return b, errors.Wrap(err, ErrCodeFlagError, "failed to parse command-line flags")
	}

	if _, faulted := b.Apply(SourceByApplication); len(faulted) > 0 {
		names := make([]string, len(faulted))
		for i, p := range faulted {
			names[i] = p.Name()
		}
		return b, errors.New(ErrCodeInvalidValue,
			fmt.Sprintf("invalid command-line value for %s", strings.Join(names, ", "))).
			WithContext("params", names)
	}
	return b, nil
}
