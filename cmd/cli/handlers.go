// Command handlers for the params CLI
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/params"
	yaml "go.yaml.in/yaml/v3"
)

// handleList prints every parameter of a file, sorted by name.
func (m *Manager) handleList(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if err := requireArgs("list", filePath); err != nil {
		return err
	}

	loaded, err := m.loadParams(filePath)
	if err != nil {
		return err
	}
	defer loaded.Close()

	w := params.NewStreamReportWriter(m.out)
	return params.PrintParams(w, loaded.set, ctx.GetFlagBool("info"))
}

// handleGet prints the raw value of one parameter.
func (m *Manager) handleGet(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	name := ctx.GetArg(1)
	if err := requireArgs("get", filePath, name); err != nil {
		return err
	}

	loaded, err := m.loadParams(filePath)
	if err != nil {
		return err
	}
	defer loaded.Close()

	p := params.FindParam(name, loaded.set, params.AnyParamType)
	if p == nil {
		return errors.New(params.ErrCodeNotFound, fmt.Sprintf("parameter '%s' not found", name)).
			WithContext("file", filePath)
	}
	_, err = fmt.Fprintln(m.out, p.ValueString(params.PurposeDataForUse))
	return err
}

// handleSet changes one parameter, adding it when the file does not
// declare it yet, and rewrites the file.
func (m *Manager) handleSet(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	name := ctx.GetArg(1)
	value := ctx.GetArg(2)
	if err := requireArgs("set", filePath, name); err != nil {
		return err
	}

	src, ok := params.ParseSourceType(ctx.GetFlagString("source"))
	if !ok {
		return errors.New(params.ErrCodeInvalidValue,
			fmt.Sprintf("unknown source type '%s'", ctx.GetFlagString("source")))
	}

	loaded, err := m.loadParamsOrEmpty(filePath)
	if err != nil {
		return err
	}
	defer loaded.Close()

	if m.auditLogger != nil {
		m.auditLogger.Attach(loaded.surplus.Registry)
		defer func() { _ = m.auditLogger.Flush() }()
	}

	p := loaded.surplus.Find(name, params.AnyParamType)
	if p == nil {
		p = loaded.surplus.AddString(name, "", "added by params set")
	}
	if src != params.SourceReset && src < p.SetMode() {
		return errors.New(params.ErrCodeInvalidValue,
			fmt.Sprintf("source '%s' ranks below '%s' which set '%s'", src, p.SetMode(), name))
	}
	if !params.SetParam(name, value, loaded.set, src, nil) {
		return errors.New(params.ErrCodeInvalidValue, fmt.Sprintf("cannot set '%s' to '%s'", name, value))
	}

	opts := params.WriteOptions{WithInfo: ctx.GetFlagBool("info")}
	if err := params.WriteParamsFile(filePath, loaded.set, opts); err != nil {
		return err
	}

	_, err = fmt.Fprintf(m.out, "Set %s = %s in %s\n", name, value, filePath)
	return err
}

// handleReport prints the usage statistics of a loaded file. Loading reads
// no parameter, so unread ones are listed unless --used-only is given.
func (m *Manager) handleReport(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if err := requireArgs("report", filePath); err != nil {
		return err
	}

	loaded, err := m.loadParams(filePath)
	if err != nil {
		return err
	}
	defer loaded.Close()

	opts := params.ReportOptions{
		Section:      ctx.GetFlagString("section"),
		ReportUnused: !ctx.GetFlagBool("used-only"),
	}

	if ctx.GetFlagBool("yaml") {
		w := params.NewYAMLReportWriter(m.out)
		if err := params.ReportUsageStatistics(w, loaded.set, opts); err != nil {
			return err
		}
		return w.Close()
	}
	return params.ReportUsageStatistics(params.NewStreamReportWriter(m.out), loaded.set, opts)
}

// handleCheck loads a file and reports faults and warnings. It fails when
// a line could not be applied or a parameter faulted.
func (m *Manager) handleCheck(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if err := requireArgs("check", filePath); err != nil {
		return err
	}

	loaded, err := m.loadParams(filePath)
	if err != nil {
		return err
	}
	defer loaded.Close()

	result := params.ValidateSet(loaded.set)
	for _, e := range result.Errors {
		_, _ = fmt.Fprintf(m.out, "error: %s\n", e)
	}
	for _, w := range result.Warnings {
		_, _ = fmt.Fprintf(m.out, "warning: %s\n", w)
	}
	_, _ = fmt.Fprintf(m.out, "%s: %d parameter(s), %s\n", filePath, loaded.surplus.Len(), result)

	if loaded.failed || !result.Valid {
		return errors.New(params.ErrCodeInvalidConfig, fmt.Sprintf("%s has invalid entries", filePath))
	}
	return nil
}

// handleAuditStats summarises an audit journal.
func (m *Manager) handleAuditStats(ctx *orpheus.Context) error {
	path := ctx.GetArg(0)
	if path == "" {
		path = params.DefaultAuditPath()
	}

	stats, err := params.ReadAuditStats(path)
	if err != nil {
		return err
	}

	if ctx.GetFlagBool("yaml") {
		data, err := yaml.Marshal(stats)
		if err != nil {
			return errors.Wrap(err, params.ErrCodeIOError, "failed to encode audit statistics")
		}
		_, err = m.out.Write(data)
		return err
	}

	_, _ = fmt.Fprintf(m.out, "Audit journal: %s\n", path)
	_, _ = fmt.Fprintf(m.out, "Schema version: %d\n", stats.SchemaVersion)
	_, _ = fmt.Fprintf(m.out, "Size: %d bytes\n", stats.DatabaseSize)
	_, _ = fmt.Fprintf(m.out, "Events: %d in %d session(s)\n", stats.TotalEvents, stats.Sessions)
	if stats.OldestEvent != nil && stats.NewestEvent != nil {
		_, _ = fmt.Fprintf(m.out, "Range: %s .. %s\n",
			stats.OldestEvent.Format("2006-01-02 15:04:05"), stats.NewestEvent.Format("2006-01-02 15:04:05"))
	}
	m.printCounts("By level", stats.EventsByLevel)
	m.printCounts("By source", stats.EventsBySource)
	m.printCounts("By parameter", stats.EventsByParam)
	return nil
}

func (m *Manager) printCounts(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, params.CompareNames)
	_, _ = fmt.Fprintf(m.out, "%s:\n", title)
	for _, k := range keys {
		_, _ = fmt.Fprintf(m.out, "  %-40s %d\n", k, counts[k])
	}
}

// handleInfo displays tool information.
func (m *Manager) handleInfo(ctx *orpheus.Context) error {
	_, _ = fmt.Fprintf(m.out, "params: runtime parameter file tool\n")
	_, _ = fmt.Fprintf(m.out, "Version: %s\n", Version)

	if ctx.GetFlagBool("verbose") {
		_, _ = fmt.Fprintf(m.out, "Go version: %s\n", runtime.Version())
		_, _ = fmt.Fprintf(m.out, "Application name: %s\n", params.ApplicationName())
		_, _ = fmt.Fprintf(m.out, "Default source: %s\n", params.DefaultSourceType())
		_, _ = fmt.Fprintf(m.out, "Audit journal: %v\n", m.auditLogger != nil)
		if m.auditLogger != nil {
			_, _ = fmt.Fprintf(m.out, "Audit session: %s\n", m.auditLogger.SessionID())
		}
	}
	return nil
}

var completionWords = "list get set report check audit info completion"

// handleCompletion generates shell completion scripts.
func (m *Manager) handleCompletion(ctx *orpheus.Context) error {
	shell := ctx.GetArg(0)

	var b strings.Builder
	switch shell {
	case "bash":
		b.WriteString("# Bash completion for params\n")
		b.WriteString("# Add to ~/.bashrc: source <(params completion bash)\n")
		b.WriteString("_params_completion() {\n")
		fmt.Fprintf(&b, "  COMPREPLY=($(compgen -W '%s' -- \"${COMP_WORDS[COMP_CWORD]}\"))\n", completionWords)
		b.WriteString("}\n")
		b.WriteString("complete -F _params_completion params\n")
	case "zsh":
		b.WriteString("#compdef params\n")
		b.WriteString("# Add to ~/.zshrc: source <(params completion zsh)\n")
		b.WriteString("_params() {\n")
		fmt.Fprintf(&b, "  _arguments '1: :(%s)'\n", completionWords)
		b.WriteString("}\n")
	case "fish":
		b.WriteString("# Fish completion for params\n")
		fmt.Fprintf(&b, "complete -c params -f -a '%s'\n", completionWords)
	default:
		return errors.New(params.ErrCodeInvalidConfig, fmt.Sprintf("unsupported shell: %s", shell))
	}

	_, err := fmt.Fprint(m.out, b.String())
	return err
}
