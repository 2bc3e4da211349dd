// report_writer.go: Destinations for parameter reports
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
	"strings"

	"github.com/agilira/go-errors"
	yaml "go.yaml.in/yaml/v3"
)

// ReportWriter receives the output of PrintParams and ReportUsageStatistics.
//
// Writers never return errors from individual calls. Writers that can fail
// remember the first error and expose it through an Err() error method,
// which the report functions check once they are done.
type ReportWriter interface {
	// WriteParamInfo writes name, raw value and description of p.
	WriteParamInfo(p Param)
	// WriteParamValue writes name and raw value of p.
	WriteParamValue(p Param)
	// WriteReportHeaderLine writes a report title block.
	WriteReportHeaderLine(message string)
	// WriteReportInfoLine writes one report body line.
	WriteReportInfoLine(message string)
	// WriteInfoLine writes free text between report sections.
	WriteInfoLine(message string)
}

// UsageEntryWriter is implemented by writers that want the structured form
// of usage report lines instead of the formatted text.
type UsageEntryWriter interface {
	WriteUsageEntry(e UsageEntry)
}

// UsageEntry is one line of a usage statistics report.
type UsageEntry struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Section  string `yaml:"section,omitempty" json:"section,omitempty"`
	Type     string `yaml:"type" json:"type"`
	Value    string `yaml:"value" json:"value"`
	Writes   uint64 `yaml:"writes" json:"writes"`
	Reads    uint64 `yaml:"reads" json:"reads"`
	Unused   bool   `yaml:"unused,omitempty" json:"unused,omitempty"`
}

var (
	writeGlyphs = [...]string{".", "w", "W"}
	readGlyphs  = [...]string{".", "r", "R"}
)

func accessGlyph(glyphs [3]string, count uint64) string {
	return glyphs[min(count, 2)]
}

// Line renders the entry in the fixed-width text layout.
func (e UsageEntry) Line() string {
	return fmt.Sprintf("* %s %-8s%-10s %s%s %-9s = %s\n",
		padDots(e.Name, 60), e.Category, e.Section,
		accessGlyph(writeGlyphs, e.Writes), accessGlyph(readGlyphs, e.Reads),
		e.Type, e.Value)
}

// padDots left-aligns s in a field of width filled with dots.
func padDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(".", width-len(s))
}

// StreamReportWriter writes plain text to an io.Writer.
type StreamReportWriter struct {
	w   io.Writer
	err error
}

// NewStreamReportWriter creates a text writer on w.
func NewStreamReportWriter(w io.Writer) *StreamReportWriter {
	return &StreamReportWriter{w: w}
}

func (s *StreamReportWriter) write(text string) {
	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		s.err = errors.Wrap(err, ErrCodeIOError, "failed to write params report line")
		logger().Error("Failed to write params-report line", "error", err)
	}
}

func (s *StreamReportWriter) WriteParamInfo(p Param) {
	s.write(fmt.Sprintf("%s\t%s\t%s\n", p.Name(), p.RawValue(), p.Info()))
}

func (s *StreamReportWriter) WriteParamValue(p Param) {
	s.write(fmt.Sprintf("%s\t%s\n", p.Name(), p.RawValue()))
}

func (s *StreamReportWriter) WriteReportHeaderLine(message string) { s.write(message) }
func (s *StreamReportWriter) WriteReportInfoLine(message string)   { s.write(message) }
func (s *StreamReportWriter) WriteInfoLine(message string)         { s.write(message) }

// Err returns the first write error.
func (s *StreamReportWriter) Err() error { return s.err }

// DuoReportWriter writes to a file and mirrors every line to the debug log.
// The mirror is skipped when the file is the console, so lines do not show
// up twice.
type DuoReportWriter struct {
	StreamReportWriter
	mirror bool
}

// NewDuoReportWriter creates a mirrored text writer on w.
func NewDuoReportWriter(w io.Writer) *DuoReportWriter {
	mirror := w != nil && w != io.Writer(os.Stdout) && w != io.Writer(os.Stderr)
	if rf, ok := w.(*ReportFile); ok {
		mirror = rf.IsOpen() && !rf.IsConsole()
	}
	return &DuoReportWriter{StreamReportWriter: StreamReportWriter{w: w}, mirror: mirror}
}

func (d *DuoReportWriter) write(text string) {
	if d.mirror {
		logger().Debug(strings.TrimRight(text, "\n"))
	}
	d.StreamReportWriter.write(text)
}

func (d *DuoReportWriter) WriteParamInfo(p Param) {
	d.write(fmt.Sprintf("%s\t%s\t%s\n", p.Name(), p.RawValue(), p.Info()))
}

func (d *DuoReportWriter) WriteParamValue(p Param) {
	d.write(fmt.Sprintf("%s\t%s\n", p.Name(), p.RawValue()))
}

func (d *DuoReportWriter) WriteReportHeaderLine(message string) { d.write(message) }
func (d *DuoReportWriter) WriteReportInfoLine(message string)   { d.write(message) }
func (d *DuoReportWriter) WriteInfoLine(message string)         { d.write(message) }

// BufferReportWriter collects report text in memory.
type BufferReportWriter struct {
	StreamReportWriter
	buf bytes.Buffer
}

// NewBufferReportWriter creates an empty in-memory writer.
func NewBufferReportWriter() *BufferReportWriter {
	b := &BufferReportWriter{}
	b.w = &b.buf
	return b
}

// String returns everything written so far.
func (b *BufferReportWriter) String() string { return b.buf.String() }

// Reset discards the collected text.
func (b *BufferReportWriter) Reset() { b.buf.Reset() }

// yamlParam is the YAML form of a PrintParams line.
type yamlParam struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
	Info  string `yaml:"info,omitempty"`
}

type yamlReport struct {
	Application string       `yaml:"application"`
	Title       string       `yaml:"title,omitempty"`
	Notes       []string     `yaml:"notes,omitempty"`
	Params      []yamlParam  `yaml:"params,omitempty"`
	Used        []UsageEntry `yaml:"used,omitempty"`
	Unused      []UsageEntry `yaml:"unused,omitempty"`
}

// YAMLReportWriter builds a machine-readable report document and emits it
// on Close.
type YAMLReportWriter struct {
	w      io.Writer
	doc    yamlReport
	err    error
	closed bool
}

// NewYAMLReportWriter creates a YAML writer on w.
func NewYAMLReportWriter(w io.Writer) *YAMLReportWriter {
	return &YAMLReportWriter{w: w, doc: yamlReport{Application: ApplicationName()}}
}

func (y *YAMLReportWriter) WriteParamInfo(p Param) {
	y.doc.Params = append(y.doc.Params, yamlParam{
		Name:  p.Name(),
		Type:  p.SerializationTypeName(),
		Value: p.RawValue(),
		Info:  p.Info(),
	})
}

func (y *YAMLReportWriter) WriteParamValue(p Param) {
	y.doc.Params = append(y.doc.Params, yamlParam{
		Name:  p.Name(),
		Type:  p.SerializationTypeName(),
		Value: p.RawValue(),
	})
}

// WriteReportHeaderLine keeps the first non-blank, non-rule line as title.
func (y *YAMLReportWriter) WriteReportHeaderLine(message string) {
	if y.doc.Title != "" {
		return
	}
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && strings.Trim(line, "-") != "" {
			y.doc.Title = line
			return
		}
	}
}

func (y *YAMLReportWriter) WriteReportInfoLine(message string) { y.note(message) }
func (y *YAMLReportWriter) WriteInfoLine(message string)       { y.note(message) }

func (y *YAMLReportWriter) note(message string) {
	if m := strings.TrimSpace(message); m != "" {
		y.doc.Notes = append(y.doc.Notes, m)
	}
}

func (y *YAMLReportWriter) WriteUsageEntry(e UsageEntry) {
	if e.Unused {
		y.doc.Unused = append(y.doc.Unused, e)
		return
	}
	y.doc.Used = append(y.doc.Used, e)
}

// Err returns the error of the last Close.
func (y *YAMLReportWriter) Err() error { return y.err }

// Close marshals the document to the underlying writer. Further calls are no-ops.
func (y *YAMLReportWriter) Close() error {
	if y.closed {
		return y.err
	}
	y.closed = true
	data, err := yaml.Marshal(&y.doc)
	if err != nil {
		y.err = errors.Wrap(err, ErrCodeIOError, "failed to encode params report")
		return y.err
	}
	if _, err := y.w.Write(data); err != nil {
		y.err = errors.Wrap(err, ErrCodeIOError, "failed to write params report")
	}
	return y.err
}
