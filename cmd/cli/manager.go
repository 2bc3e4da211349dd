// Package cli provides the command-line interface for parameter files.
//
// The params tool loads a parameter file ("name value" lines) into a
// surplus registry and lists, edits, reports on or checks it. Commands:
//
//	params list <file> [--info]
//	params get <file> <name>
//	params set <file> <name> <value> [--source=assign] [--info]
//	params report <file> [--yaml] [--used-only] [--section=name]
//	params check <file>
//	params audit stats <journal> [--yaml]
//	params info [--verbose]
//	params completion <shell>
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"io"
	"os"

	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/params"
)

// Version of the params tool.
const Version = "1.0.0"

// Manager routes params commands.
type Manager struct {
	app         *orpheus.App
	out         io.Writer
	auditLogger *params.AuditLogger // Optional audit integration
}

// NewManager creates a manager writing to stdout.
func NewManager() *Manager {
	app := orpheus.New("params").
		SetDescription("Inspect, edit and report on runtime parameter files").
		SetVersion(Version)

	manager := &Manager{
		app: app,
		out: os.Stdout,
	}

	manager.setupParamCommands()
	manager.setupUtilityCommands()

	return manager
}

// WithAudit journals the changes made by set commands to auditLogger.
func (m *Manager) WithAudit(auditLogger *params.AuditLogger) *Manager {
	m.auditLogger = auditLogger
	return m
}

// WithOutput redirects command output to w.
func (m *Manager) WithOutput(w io.Writer) *Manager {
	if w != nil {
		m.out = w
	}
	return m
}

// Run executes the command given by args.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

func (m *Manager) setupParamCommands() {
	listCmd := orpheus.NewCommand("list", "List the parameters of a file").
		AddBoolFlag("info", "i", false, "Include parameter descriptions").
		SetHandler(m.handleList)
	m.app.AddCommand(listCmd)

	getCmd := orpheus.NewCommand("get", "Print the value of one parameter").
		SetHandler(m.handleGet)
	m.app.AddCommand(getCmd)

	// set <file> <name> <value> [--source=assign]
	setCmd := orpheus.NewCommand("set", "Set a parameter and rewrite the file atomically").
		AddFlag("source", "s", "assign", "Source type recorded for the change").
		AddBoolFlag("info", "i", false, "Write descriptions as comments").
		SetHandler(m.handleSet)
	m.app.AddCommand(setCmd)

	reportCmd := orpheus.NewCommand("report", "Parameter usage report").
		AddBoolFlag("yaml", "y", false, "Emit the report as YAML").
		AddBoolFlag("used-only", "u", false, "Omit the parameters that were never read; a freshly loaded file has none read").
		AddFlag("section", "", "", "Report a named section instead of lump sums").
		SetHandler(m.handleReport)
	m.app.AddCommand(reportCmd)

	checkCmd := orpheus.NewCommand("check", "Check that a parameter file loads cleanly").
		SetHandler(m.handleCheck)
	m.app.AddCommand(checkCmd)
}

func (m *Manager) setupUtilityCommands() {
	auditCmd := orpheus.NewCommand("audit", "Change audit journal")
	statsCmd := auditCmd.Subcommand("stats", "Summarise an audit journal", m.handleAuditStats)
	statsCmd.AddBoolFlag("yaml", "y", false, "Emit statistics as YAML")
	m.app.AddCommand(auditCmd)

	infoCmd := orpheus.NewCommand("info", "Tool information").
		AddBoolFlag("verbose", "v", false, "Show environment details").
		SetHandler(m.handleInfo)
	m.app.AddCommand(infoCmd)

	completionCmd := orpheus.NewCommand("completion", "Generate shell completion scripts").
		SetHandler(m.handleCompletion)
	m.app.AddCommand(completionCmd)
}
