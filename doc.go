// Package params provides typed runtime parameters for Go applications:
// named tunables that can be declared, looked up by name, assigned from
// several sources and reported on, with per-type hooks for validation,
// parsing and formatting.
//
// # Declaring Parameters
//
// Every parameter belongs to exactly one owning registry. Registries are
// grouped into an ordered RegistrySet; lookups walk the layers in order and
// the first match wins, so an application layer can shadow a library layer.
//
//	global := params.NewOwningRegistry("global")
//	width := params.NewIntParam(global, "page_width", 80, "Output page width",
//		params.WithInit())
//	debugOut := params.NewBoolParam(global, "debug_output", false, "Dump internals")
//
//	set := params.NewRegistrySet(local, global)
//
// Names are compared ignoring case, with '-' and '_' treated alike:
// "Page-Width" and "page_width" are the same parameter.
//
// # Assigning Values
//
// Every write carries a SourceType. A write from a source ranked below the
// one that last set the parameter is ignored, so a command-line value is
// not overridden by a configuration file read later. SourceReset always
// passes and re-bases the ladder.
//
//	width.SetValue(132, params.SourceByApplication, nil)
//	params.SetParam("page_width", 100, set, params.SourceConfigFile, nil) // ignored
//
// Text input goes through the parameter's parse hook. A value that does not
// parse faults the parameter: the old value is kept, the fault is counted
// and a diagnostic is logged. Faults are state on the parameter, never
// returned errors; check HasFaulted after the write.
//
// Parameter files use one "name value" pair per line, '#' starts a comment:
//
//	failed := params.ReadParamsFile("app.params", set, surplus, params.SourceConfigFile, nil)
//
// Names that no layer declares are captured in the SurplusRegistry when one
// is given. ApplyEnvironment and ParseCommandLine offer the same for
// environment variables and flash-flags command lines.
//
// # Hooks
//
// Each typed parameter carries four replaceable hooks:
//   - OnValidate may adjust the incoming value or fault the write
//   - OnModify runs only when the value changes
//   - OnParse turns text into a value
//   - OnFormat renders the value for data, display or type information
//
// ExprValidator builds an OnValidate hook from an expr-lang rule:
//
//	check, _ := params.ExprValidator[int32, params.ValueAssistant]("value >= 40 && value <= 400")
//	width.SetOnValidate(check)
//
// # Usage Reporting
//
// Reads through Value count as use; inspection for display does not.
// ReportUsageStatistics lists which parameters have been read, either for
// a named section of the run or as lump sums since start-up:
//
//	w := params.NewStreamReportWriter(os.Stdout)
//	params.ReportUsageStatistics(w, set, params.ReportOptions{ReportUnused: true})
//
// YAMLReportWriter emits the same entries as a machine readable document.
//
// # Change Audit
//
// An AuditLogger attached to registries journals every committed change
// with its source and setter to SQLite or JSONL:
//
//	audit, err := params.NewAuditLogger(params.DefaultAuditConfig())
//	if err != nil {
//		return err
//	}
//	defer audit.Close()
//	audit.Attach(global, local)
//
// # Concurrency
//
// The engine starts no goroutines and registries are not synchronised.
// Declare and assign parameters from one goroutine, or guard them with
// your own lock. The audit logger and report files are safe for concurrent
// use.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package params
