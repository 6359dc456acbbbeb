// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package presentation prints parse results, symbol tables and metrics in
// json, yaml and tabular formats.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"sigs.k8s.io/yaml"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/topdown"
)

// Result is the outcome of parsing one input. Success reports whether the
// input matched, taking a full-match requirement into account; Partial is
// set when a prefix matched but the whole input was required.
type Result struct {
	Path    string        `json:"path"`
	Success bool          `json:"success"`
	Pos     int           `json:"pos"`
	Length  int           `json:"length"`
	Tree    *topdown.Node `json:"tree,omitempty"`
	Partial bool          `json:"-"`

	raw topdown.Tree
}

// NewResult returns the Result for input path given the raw parse result.
func NewResult(path string, length int, r topdown.Result, g *ast.Grammar, full bool) Result {
	out := Result{
		Path:    path,
		Success: r.Success && (!full || r.Pos == length),
		Pos:     r.Pos,
		Length:  length,
	}
	if r.Success {
		out.Tree = topdown.Render(r.Tree, g)
		out.raw = r.Tree
		out.Partial = !out.Success
	}
	return out
}

// Output holds the results of a parse command, and optionally its metrics.
type Output struct {
	Results []Result       `json:"results"`
	Metrics map[string]any `json:"metrics,omitempty"`
}

// document returns the value serialized for o. Without metrics only the
// result list is written.
func (o Output) document() any {
	if o.Metrics == nil {
		return o.Results
	}
	return o
}

// Symbol describes one grammar symbol for the symbols table.
type Symbol struct {
	Code      int    `json:"code"`
	Name      string `json:"name"`
	Defined   bool   `json:"defined"`
	Reachable bool   `json:"reachable"`
	Rule      string `json:"rule,omitempty"`
}

// Symbols returns the symbol descriptions of g in code order. Reachability
// is computed from start; with a nil start no symbol is reachable.
func Symbols(g *ast.Grammar, start *ast.Symbol) []Symbol {
	reachable := make(map[int]bool)
	if start != nil {
		for _, s := range g.Reachable(start) {
			reachable[s.Code] = true
		}
	}

	syms := g.Symbols()
	out := make([]Symbol, 0, len(syms))
	for _, s := range syms {
		sym := Symbol{Code: s.Code, Name: s.Name, Reachable: reachable[s.Code]}
		if r := g.Rule(s.Code); r != nil {
			sym.Defined = true
			sym.Rule = r.RHS.String()
		}
		out = append(out, sym)
	}
	return out
}

// PrintJSON prints indented json output.
func PrintJSON(writer io.Writer, x any) error {
	if o, ok := x.(Output); ok {
		x = o.document()
	}
	buf, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, string(buf))
	return err
}

// PrintYAML prints yaml output.
func PrintYAML(writer io.Writer, x any) error {
	if o, ok := x.(Output); ok {
		x = o.document()
	}
	buf, err := yaml.Marshal(x)
	if err != nil {
		return err
	}
	_, err = writer.Write(buf)
	return err
}

// PrintPretty prints each result with its parse tree, followed by the
// metrics table.
func PrintPretty(writer io.Writer, output Output, g *ast.Grammar) error {
	for _, r := range output.Results {
		var err error
		switch {
		case r.Success:
			_, err = fmt.Fprintf(writer, "%v: ok (pos %d/%d)\n", r.Path, r.Pos, r.Length)
			if err == nil {
				err = topdown.PrettyTree(writer, r.raw, g)
			}
		case r.Partial:
			_, err = fmt.Fprintf(writer, "%v: incomplete match (pos %d/%d)\n", r.Path, r.Pos, r.Length)
		default:
			_, err = fmt.Fprintf(writer, "%v: no match (pos %d)\n", r.Path, r.Pos)
		}
		if err != nil {
			return err
		}
	}

	PrintPrettyMetrics(writer, output.Metrics, 0)
	return nil
}

// PrintPrettyMetrics prints metrics in a tabular format
func PrintPrettyMetrics(writer io.Writer, metrics map[string]any, prettyLimit int) {
	tableMetrics := generateTableMetrics(writer)
	populateTableMetrics(metrics, tableMetrics, prettyLimit)
	if tableMetrics.NumLines() > 0 {
		fmt.Fprintln(writer)
		tableMetrics.Render()
	}
}

// PrintPrettySymbols prints the symbols of a grammar in a tabular format.
func PrintPrettySymbols(writer io.Writer, symbols []Symbol, prettyLimit int) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader([]string{"Code", "Name", "Defined", "Reachable", "Rule"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	table.SetAutoWrapText(false)
	for _, s := range symbols {
		table.Append([]string{
			strconv.Itoa(s.Code),
			s.Name,
			strconv.FormatBool(s.Defined),
			strconv.FormatBool(s.Reachable),
			checkStrLimit(s.Rule, prettyLimit),
		})
	}
	if table.NumLines() > 0 {
		table.Render()
	}
}

// checkStrLimit truncates input to limit code points.
func checkStrLimit(input string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(input) <= limit {
		return input
	}
	return string([]rune(input)[:limit]) + "..."
}

func generateTableMetrics(writer io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetHeader([]string{"Name", "Value"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	return table
}

func populateTableMetrics(data map[string]any, table *tablewriter.Table, prettyLimit int) {
	lines := [][]string{}
	for varName, varValueInterface := range data {
		val, ok := varValueInterface.(map[string]any)
		if !ok {
			varValue := checkStrLimit(fmt.Sprintf("%v", varValueInterface), prettyLimit)
			lines = append(lines, []string{varName, varValue})
			continue
		}
		for k, v := range val {
			newVarName := fmt.Sprintf("%v_%v", varName, k)
			value := checkStrLimit(fmt.Sprintf("%v", v), prettyLimit)
			lines = append(lines, []string{newVarName, value})
		}
	}
	sortMetricRows(lines)
	table.AppendBulk(lines)
}

func sortMetricRows(data [][]string) {
	sort.Slice(data, func(i, j int) bool {
		return data[i][0] < data[j][0]
	})
}
