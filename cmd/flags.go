// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/spf13/pflag"

	"github.com/pegboot/pegboot/util"
)

func addGrammarFlag(fs *pflag.FlagSet, grammar *string) {
	fs.StringVarP(grammar, "grammar", "g", "", "set path of the rule-tree document (JSON or YAML); defaults to the bootstrap grammar")
}

func addStartFlag(fs *pflag.FlagSet, start *string) {
	fs.StringVarP(start, "start", "s", "", "set the start symbol; defaults to the document's start symbol")
}

func addOutputFormat(fs *pflag.FlagSet, outputFormat *util.EnumFlag) {
	fs.VarP(outputFormat, "format", "f", "set output format")
}

func addPatternFlag(fs *pflag.FlagSet, pattern *string) {
	fs.StringVarP(pattern, "pattern", "p", "*", "set glob that file base names must match when walking directories")
}

func addMetricsFlag(fs *pflag.FlagSet, metrics *bool) {
	fs.BoolVarP(metrics, "metrics", "", false, "report parse performance metrics")
}

func addFullFlag(fs *pflag.FlagSet, full *bool) {
	fs.BoolVarP(full, "full", "", false, "require the whole input to be consumed for a match")
}

func addLimitFlags(fs *pflag.FlagSet, maxSteps *uint64, maxDepth *int) {
	fs.Uint64VarP(maxSteps, "max-steps", "", 0, "set the maximum number of expressions evaluated per input (0 = unlimited)")
	fs.IntVarP(maxDepth, "max-depth", "", 0, "set the maximum nesting of symbol matches (0 = unlimited)")
}
