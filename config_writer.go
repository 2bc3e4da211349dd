// config_writer.go: Parameter file writer
//
// WriteParamsFile produces the same line format ReadParamsFile consumes,
// so a registry can be saved and restored:
//
//	# page layout
//	page_width	132
//
// The file is replaced atomically: the new content goes to a temporary
// file in the same directory which is then renamed over the target.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agilira/go-errors"
)

// WriteOptions controls WriteParamsFile.
type WriteOptions struct {
	// Mask selects the parameter types to write. Zero means all.
	Mask ParamType
	// WithInfo precedes every entry with its description as a comment.
	WithInfo bool
	// NonDefaultOnly skips parameters holding their default value.
	NonDefaultOnly bool
	// Header is written as leading comment lines.
	Header string
}

// WriteParams writes the parameters of set to w in parameter file format,
// ordered by name.
func WriteParams(w io.Writer, set *RegistrySet, opts WriteOptions) error {
	mask := opts.Mask
	if mask == 0 {
		mask = AnyParamType
	}

	var buf bytes.Buffer
	if opts.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(opts.Header, "\n"), "\n") {
			buf.WriteString("# " + line + "\n")
		}
		buf.WriteString("\n")
	}

	items := collectReportItems(set)
	slices.SortStableFunc(items, func(a, b reportItem) int {
		return CompareNames(a.p.Name(), b.p.Name())
	})
	for _, it := range items {
		p := it.p
		if !p.Type().Matches(mask) {
			continue
		}
		if opts.NonDefaultOnly && p.RawValue() == p.RawDefault() {
			continue
		}
		value := p.RawValue()
		if strings.ContainsAny(value, "\r\n") {
			logger().Warn("skipping parameter with multi-line value", "param", p.Name())
			continue
		}
		if opts.WithInfo && p.Info() != "" {
			buf.WriteString("# " + strings.ReplaceAll(p.Info(), "\n", " ") + "\n")
		}
		buf.WriteString(p.Name())
		buf.WriteByte('\t')
		buf.WriteString(value)
		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to write parameters")
	}
	return nil
}

// WriteParamsFile writes the parameters of set to path, replacing any
// existing file atomically.
func WriteParamsFile(path string, set *RegistrySet, opts WriteOptions) error {
	var buf bytes.Buffer
	if err := WriteParams(&buf, set, opts); err != nil {
		return err
	}
	return atomicWrite(path, buf.Bytes())
}

// atomicWrite stores data in a temporary file next to path and renames it
// into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to create temp file").WithContext("path", path)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(err, ErrCodeIOError, "failed to write temp file").WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, ErrCodeIOError, "failed to close temp file").WithContext("path", path)
	}
	if err := os.Rename(tempPath, path); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger().Warn(fmt.Sprintf("Failed to cleanup temp file %s", tempPath), "error", removeErr)
		}
		return errors.Wrap(err, ErrCodeIOError, "failed to rename temp file").WithContext("path", path)
	}
	return nil
}
