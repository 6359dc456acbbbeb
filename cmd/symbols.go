// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/cmd/formats"
	"github.com/pegboot/pegboot/cmd/internal/env"
	"github.com/pegboot/pegboot/loader"
	"github.com/pegboot/pegboot/logging"
	"github.com/pegboot/pegboot/presentation"
	"github.com/pegboot/pegboot/util"
)

type symbolsParams struct {
	grammar     string
	start       string
	format      *util.EnumFlag
	prettyLimit int
}

func newSymbolsParams() symbolsParams {
	return symbolsParams{
		format:      formats.Flag(formats.Pretty, formats.JSON, formats.YAML),
		prettyLimit: 80,
	}
}

var configuredSymbolsParams = newSymbolsParams()

var symbolsCommand = &cobra.Command{
	Use:   "symbols",
	Short: "Print the symbol table of a grammar",
	Long: `Print the symbols of a grammar in code order with their rules.

Symbols that are referenced but have no rule are reported as undefined.
Reachability is computed from the start symbol, which defaults to the
document's start symbol. Without --grammar the bootstrap grammar is printed.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return env.CmdFlags.CheckEnvironmentVariables(cmd)
	},
	Run: func(*cobra.Command, []string) {
		logger, err := configuredRootParams.newLogger(os.Stderr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(exitConfigError)
		}
		os.Exit(symbols(&configuredSymbolsParams, logger, os.Stdout, os.Stderr))
	},
}

func init() {
	addGrammarFlag(symbolsCommand.Flags(), &configuredSymbolsParams.grammar)
	addStartFlag(symbolsCommand.Flags(), &configuredSymbolsParams.start)
	addOutputFormat(symbolsCommand.Flags(), configuredSymbolsParams.format)
	symbolsCommand.Flags().IntVar(&configuredSymbolsParams.prettyLimit, "pretty-limit", 80, "set limit after which pretty output gets truncated (0 = no limit)")

	RootCommand.AddCommand(symbolsCommand)
}

func symbols(params *symbolsParams, logger logging.Logger, stdout, stderr io.Writer) int {
	fl := loader.NewFileLoader().WithLogger(logger)

	g, name, err := loadGrammar(fl, params.grammar)
	if err != nil {
		printError(stderr, err)
		return exitConfigError
	}
	if params.start != "" {
		name = params.start
	}

	var start *ast.Symbol
	if name != "" {
		var ok bool
		if start, ok = g.Lookup(name); !ok {
			printError(stderr, fmt.Errorf("start symbol %q is not defined", name))
			return exitConfigError
		}
	}

	syms := presentation.Symbols(g, start)
	switch params.format.String() {
	case formats.JSON:
		err = presentation.PrintJSON(stdout, syms)
	case formats.YAML:
		err = presentation.PrintYAML(stdout, syms)
	default:
		presentation.PrintPrettySymbols(stdout, syms, params.prettyLimit)
	}
	if err != nil {
		printError(stderr, err)
		return exitConfigError
	}
	return exitOK
}
