// config_file.go: Line source for parameter files
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/agilira/go-errors"
)

// ConfigFile reads a parameter file line by line. The paths "stdin", "-",
// "1" and "/dev/stdin" (any case) read standard input.
type ConfigFile struct {
	path   string
	file   *os.File
	reader *bufio.Reader
	stdin  bool
}

// IsStdinPath reports whether path names standard input.
func IsStdinPath(path string) bool {
	switch strings.ToLower(path) {
	case "/dev/stdin", "stdin", "-", "1":
		return true
	}
	return false
}

// OpenConfigFile opens path for reading. An empty path yields a closed
// ConfigFile and no error.
func OpenConfigFile(path string) (*ConfigFile, error) {
	cf := &ConfigFile{path: path}
	if path == "" {
		return cf, nil
	}
	if IsStdinPath(path) {
		cf.stdin = true
		cf.reader = bufio.NewReader(os.Stdin)
		return cf, nil
	}
	// #nosec G304 -- reading user supplied parameter files is the purpose
	f, err := os.Open(path)
	if err != nil {
		logger().Error("Cannot open file", "path", path, "error", err)
		return cf, errors.Wrap(err, ErrCodeIOError, "cannot open parameter file").
			WithContext("path", path)
	}
	cf.file = f
	cf.reader = bufio.NewReader(f)
	return cf, nil
}

// NewConfigReader wraps an already open stream.
func NewConfigReader(r io.Reader) *ConfigFile {
	return &ConfigFile{reader: bufio.NewReader(r)}
}

// Path returns the path given to OpenConfigFile.
func (c *ConfigFile) Path() string { return c.path }

// IsOpen reports whether lines can be read.
func (c *ConfigFile) IsOpen() bool { return c != nil && c.reader != nil }

// ReadLine returns the next line without its line terminator. The second
// result is false at end of input or on a read error.
func (c *ConfigFile) ReadLine() (string, bool) {
	if !c.IsOpen() {
		return "", false
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			logger().Error("Failed to read parameter file", "path", c.path, "error", err)
			return "", false
		}
		if line == "" {
			return "", false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}

// Close releases the file. Standard input is left open.
func (c *ConfigFile) Close() error {
	if c == nil {
		return nil
	}
	c.reader = nil
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	if err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to close parameter file").
			WithContext("path", c.path)
	}
	return nil
}
