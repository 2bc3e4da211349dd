// report_file.go: Sink for parameter reports
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/agilira/go-errors"
)

// reported remembers which report paths were already produced by this
// process: the first open truncates, later opens append.
var (
	reportedMu sync.Mutex
	reported   = make(map[string]bool)
)

// ReportFile is an output destination for reports. The paths "stdout",
// "-", "1" and "/dev/stdout" select standard output; "stderr", "+", "2"
// and "/dev/stderr" select standard error.
type ReportFile struct {
	path    string
	file    *os.File
	console bool
}

// OpenReportFile opens path for writing. An empty path yields a closed
// ReportFile and no error.
func OpenReportFile(path string) (*ReportFile, error) {
	rf := &ReportFile{path: path}
	switch strings.ToLower(path) {
	case "":
		return rf, nil
	case "/dev/stdout", "stdout", "-", "1":
		rf.file, rf.console = os.Stdout, true
		return rf, nil
	case "/dev/stderr", "stderr", "+", "2":
		rf.file, rf.console = os.Stderr, true
		return rf, nil
	}

	key := strings.ToLower(filepath.Clean(path))
	reportedMu.Lock()
	defer reportedMu.Unlock()

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !reported[key] {
		flags |= os.O_TRUNC
	}
	// #nosec G304 -- report destination chosen by the user
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		logger().Error("Cannot produce parameter usage report file", "path", path, "error", err)
		return rf, errors.Wrap(err, ErrCodeIOError, "cannot open report file").
			WithContext("path", path)
	}
	reported[key] = true
	rf.file = f
	return rf, nil
}

// Path returns the path given to OpenReportFile.
func (r *ReportFile) Path() string { return r.path }

// IsOpen reports whether the file accepts writes.
func (r *ReportFile) IsOpen() bool { return r != nil && r.file != nil }

// IsConsole reports whether the destination is standard output or error.
func (r *ReportFile) IsConsole() bool { return r != nil && r.console }

// Write implements io.Writer.
func (r *ReportFile) Write(b []byte) (int, error) {
	if !r.IsOpen() {
		return 0, errors.New(ErrCodeIOError, "report file is not open").WithContext("path", r.path)
	}
	return r.file.Write(b)
}

// Close closes the file. Console destinations are synced instead.
func (r *ReportFile) Close() error {
	if !r.IsOpen() {
		return nil
	}
	f := r.file
	r.file = nil
	if r.console {
		_ = f.Sync()
		return nil
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to close report file").WithContext("path", r.path)
	}
	return nil
}
