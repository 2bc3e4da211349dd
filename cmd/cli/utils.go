// Utility functions for the params CLI
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/agilira/go-errors"
	"github.com/agilira/params"
)

// loadedParams is a parameter file read into a surplus registry.
type loadedParams struct {
	surplus *params.SurplusRegistry
	set     *params.RegistrySet
	failed  bool
}

// Close detaches the loaded parameters.
func (l *loadedParams) Close() {
	l.surplus.Close()
}

// loadParams reads filePath. Every entry becomes a string parameter of the
// surplus registry, tagged SourceConfigFile.
func (m *Manager) loadParams(filePath string) (*loadedParams, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(params.ErrCodeNotFound,
				fmt.Sprintf("parameter file does not exist: %s", filePath))
		}
		return nil, errors.Wrap(err, params.ErrCodeIOError, "failed to stat parameter file").
			WithContext("file", filePath)
	}
	if info.IsDir() {
		return nil, errors.New(params.ErrCodeIOError, fmt.Sprintf("%s is a directory", filePath))
	}
	return m.readInto(filePath), nil
}

// loadParamsOrEmpty is loadParams treating a missing file as empty.
func (m *Manager) loadParamsOrEmpty(filePath string) (*loadedParams, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		surplus := params.NewSurplusRegistry()
		surplus.ChangeTitle(filePath)
		return &loadedParams{surplus: surplus, set: params.NewRegistrySet(surplus.Registry)}, nil
	}
	return m.loadParams(filePath)
}

func (m *Manager) readInto(filePath string) *loadedParams {
	surplus := params.NewSurplusRegistry()
	surplus.ChangeTitle(filePath)
	failed := params.ReadParamsFile(filePath, params.NewRegistrySet(), surplus, params.SourceConfigFile, nil)
	return &loadedParams{
		surplus: surplus,
		set:     params.NewRegistrySet(surplus.Registry),
		failed:  failed,
	}
}

// requireArgs fails when one of the positional arguments of command is empty.
func requireArgs(command string, args ...string) error {
	for _, a := range args {
		if strings.TrimSpace(a) == "" {
			return errors.New(params.ErrCodeInvalidConfig,
				fmt.Sprintf("%s: missing argument, see 'params %s --help'", command, command))
		}
	}
	return nil
}
