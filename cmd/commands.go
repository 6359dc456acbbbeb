// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package cmd contains the pegboot command line interface.
package cmd

import (
	"io"

	"github.com/spf13/cobra"

	internallogging "github.com/pegboot/pegboot/internal/logging"
	"github.com/pegboot/pegboot/logging"
	"github.com/pegboot/pegboot/util"
)

// Exit codes returned by commands.
const (
	exitOK          = 0
	exitNoMatch     = 1
	exitConfigError = 2
)

type rootParams struct {
	logLevel  *util.EnumFlag
	logFormat *util.EnumFlag
}

var configuredRootParams = rootParams{
	logLevel:  util.NewEnumFlag("info", []string{"debug", "info", "warn", "error"}),
	logFormat: util.NewEnumFlag(internallogging.FormatText, []string{internallogging.FormatText, internallogging.FormatJSON, internallogging.FormatJSONPretty}),
}

// RootCommand is the base CLI command that all subcommands are added to.
var RootCommand = &cobra.Command{
	Use:   "pegboot",
	Short: "Parsing expression grammar interpreter",
	Long: `Run parsing expression grammars against input.

Grammars are rule-tree documents in JSON or YAML. Without a grammar, the
bootstrap grammar of the grammar notation is used.`,
	SilenceUsage: true,
}

func init() {
	RootCommand.PersistentFlags().Var(configuredRootParams.logLevel, "log-level", "set log level")
	RootCommand.PersistentFlags().Var(configuredRootParams.logFormat, "log-format", "set log format")
}

// newLogger returns the logger configured by the persistent log flags,
// writing to w.
func (p *rootParams) newLogger(w io.Writer) (logging.Logger, error) {
	logger, err := internallogging.NewLogger(p.logLevel.String(), p.logFormat.String())
	if err != nil {
		return nil, err
	}
	logger.SetOutput(w)
	return logger, nil
}
