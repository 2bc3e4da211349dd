// main.go: params command-line tool
//
// Environment:
//
//	PARAMS_LOG_LEVEL   debug, info, warn or error (default warn)
//	PARAMS_LOG_FORMAT  text or json (default text)
//	PARAMS_AUDIT       journal changes made by "set" to this file (.db or .jsonl)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/agilira/params"
	"github.com/agilira/params/cmd/cli"
	"github.com/agilira/params/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logging.Init(
		logging.ParseLevel(params.GetEnvWithDefault("PARAMS_LOG_LEVEL", "warn")),
		params.GetEnvWithDefault("PARAMS_LOG_FORMAT", "text"),
		os.Stderr,
	)
	params.SetApplicationName("params")
	params.SetLogger(logging.New("params"))

	manager := cli.NewManager()

	if path := params.GetEnvWithDefault("PARAMS_AUDIT", ""); path != "" {
		cfg := params.DefaultAuditConfig()
		cfg.OutputFile = path
		auditLogger, err := params.NewAuditLogger(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "params: %v\n", err)
			return 1
		}
		defer func() {
			if err := auditLogger.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "params: %v\n", err)
			}
		}()
		manager.WithAudit(auditLogger)
	}

	if err := manager.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "params: %v\n", err)
		if code := params.GetErrorCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "params: error code %s\n", code)
		}
		return 1
	}
	return 0
}
