// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/bootstrap"
	"github.com/pegboot/pegboot/cmd/formats"
	"github.com/pegboot/pegboot/cmd/internal/env"
	"github.com/pegboot/pegboot/loader"
	"github.com/pegboot/pegboot/logging"
	"github.com/pegboot/pegboot/metrics"
	"github.com/pegboot/pegboot/presentation"
	"github.com/pegboot/pegboot/topdown"
	"github.com/pegboot/pegboot/util"
)

type parseParams struct {
	grammar  string
	start    string
	format   *util.EnumFlag
	pattern  string
	metrics  bool
	full     bool
	maxSteps uint64
	maxDepth int
}

func newParseParams() parseParams {
	return parseParams{
		format:  formats.Flag(formats.Pretty, formats.JSON, formats.YAML),
		pattern: "*",
	}
}

var configuredParseParams = newParseParams()

var parseCommand = &cobra.Command{
	Use:   "parse <path> [<path> [...]]",
	Short: "Parse files with a grammar",
	Long: `Parse files with a grammar and print the parse trees.

Directories are walked recursively; only files whose base name matches
--pattern are parsed. The exit code is 0 if every input matched, 1 if any
input did not match, and 2 if the grammar or an input could not be loaded.

Flags may also be set through environment variables, e.g. PEGBOOT_PARSE_START.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input file specified")
		}
		return env.CmdFlags.CheckEnvironmentVariables(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := configuredRootParams.newLogger(os.Stderr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(exitConfigError)
		}
		os.Exit(parse(cmd.Context(), args, &configuredParseParams, logger, os.Stdout, os.Stderr))
	},
}

func init() {
	addGrammarFlag(parseCommand.Flags(), &configuredParseParams.grammar)
	addStartFlag(parseCommand.Flags(), &configuredParseParams.start)
	addOutputFormat(parseCommand.Flags(), configuredParseParams.format)
	addPatternFlag(parseCommand.Flags(), &configuredParseParams.pattern)
	addMetricsFlag(parseCommand.Flags(), &configuredParseParams.metrics)
	addFullFlag(parseCommand.Flags(), &configuredParseParams.full)
	addLimitFlags(parseCommand.Flags(), &configuredParseParams.maxSteps, &configuredParseParams.maxDepth)

	RootCommand.AddCommand(parseCommand)
}

func parse(ctx context.Context, args []string, params *parseParams, logger logging.Logger, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}

	m := metrics.NoOp()
	if params.metrics {
		m = metrics.New()
	}
	fl := loader.NewFileLoader().
		WithMetrics(m).
		WithLogger(logger).
		WithPattern(params.pattern)

	g, start, err := loadGrammar(fl, params.grammar)
	if err != nil {
		printError(stderr, err)
		return exitConfigError
	}
	if params.start != "" {
		start = params.start
	}
	if start == "" {
		printError(stderr, fmt.Errorf("%v: no start symbol: set --start or the document's start field", params.grammar))
		return exitConfigError
	}

	inputs, err := fl.Inputs(args...)
	if err != nil {
		printError(stderr, err)
		return exitConfigError
	}
	if len(inputs) == 0 {
		logger.Warn("No input files matched pattern %q.", params.pattern)
	}

	q := topdown.NewQuery(g).
		WithStart(start).
		WithMetrics(m).
		WithMaxSteps(params.maxSteps).
		WithMaxDepth(params.maxDepth)

	code := exitOK
	output := presentation.Output{Results: make([]presentation.Result, 0, len(inputs))}
	for _, in := range inputs {
		r, err := q.Run(ctx, in.Text)
		if err != nil {
			printError(stderr, fmt.Errorf("%v: %w", in.Path, err))
			code = exitConfigError
			continue
		}

		out := presentation.NewResult(in.Path, len(in.Text), r, g, params.full)
		if !out.Success && code == exitOK {
			code = exitNoMatch
		}
		logger.WithFields(map[string]any{"path": in.Path}).Debug("Parsed with success=%v pos=%d.", r.Success, r.Pos)

		output.Results = append(output.Results, out)
	}

	if params.metrics {
		output.Metrics = m.All()
	}

	switch params.format.String() {
	case formats.JSON:
		err = presentation.PrintJSON(stdout, output)
	case formats.YAML:
		err = presentation.PrintYAML(stdout, output)
	default:
		err = presentation.PrintPretty(stdout, output, g)
	}
	if err != nil {
		printError(stderr, err)
		return exitConfigError
	}

	return code
}

// loadGrammar returns the grammar at path, or the bootstrap grammar if path
// is empty, along with its default start symbol. The start symbol is empty
// if the document does not name one.
func loadGrammar(fl *loader.FileLoader, path string) (*ast.Grammar, string, error) {
	if path == "" {
		return bootstrap.Grammar(), bootstrap.DefaultStart, nil
	}

	f, err := fl.Grammar(path)
	if err != nil {
		return nil, "", err
	}
	return f.Grammar, f.Start, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "error:", err)
}
