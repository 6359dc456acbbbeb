// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package presentation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/topdown"
)

func abGrammar(t *testing.T) *ast.Grammar {
	t.Helper()
	g, err := ast.CompileRules([]*ast.RawRule{
		ast.NewRawRule("AB", ast.RawSeq(ast.RawTerminal("a"), ast.RawTerminal("b"))),
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewResult(t *testing.T) {
	g := abGrammar(t)

	tests := []struct {
		note  string
		input string
		full  bool
		exp   Result
	}{
		{
			note:  "match",
			input: "ab",
			exp:   Result{Path: "x", Success: true, Pos: 2, Length: 2},
		},
		{
			note:  "prefix match",
			input: "abc",
			exp:   Result{Path: "x", Success: true, Pos: 2, Length: 3},
		},
		{
			note:  "prefix match with full",
			input: "abc",
			full:  true,
			exp:   Result{Path: "x", Success: false, Pos: 2, Length: 3, Partial: true},
		},
		{
			note:  "no match",
			input: "b",
			exp:   Result{Path: "x", Success: false, Pos: 0, Length: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			r, err := topdown.ParseString(tc.input, g, "AB")
			if err != nil {
				t.Fatal(err)
			}
			act := NewResult("x", len([]rune(tc.input)), r, g, tc.full)
			if r.Success != (act.Tree != nil) {
				t.Errorf("expected tree only on a match, got %v", act.Tree)
			}
			act.Tree, act.raw = nil, nil
			if diff := cmp.Diff(tc.exp, act, cmp.AllowUnexported(Result{})); diff != "" {
				t.Errorf("unexpected result (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestPrintJSON(t *testing.T) {
	g := abGrammar(t)
	r, err := topdown.ParseString("ab", g, "AB")
	if err != nil {
		t.Fatal(err)
	}
	res := NewResult("x", 2, r, g, false)

	var buf bytes.Buffer
	if err := PrintJSON(&buf, Output{Results: []Result{res}}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "[") {
		t.Errorf("expected result list without metrics, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := PrintJSON(&buf, Output{Results: []Result{res}, Metrics: map[string]any{"counter_x": 1}}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"metrics"`) {
		t.Errorf("expected report object with metrics, got:\n%s", buf.String())
	}
}

func TestPrintPretty(t *testing.T) {
	g := abGrammar(t)
	r, err := topdown.ParseString("ab", g, "AB")
	if err != nil {
		t.Fatal(err)
	}
	miss, err := topdown.ParseString("b", g, "AB")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	out := Output{Results: []Result{
		NewResult("x", 2, r, g, false),
		NewResult("y", 1, miss, g, false),
	}}
	if err := PrintPretty(&buf, out, g); err != nil {
		t.Fatal(err)
	}
	exp := "x: ok (pos 2/2)\nAB\n 'a'\n 'b'\ny: no match (pos 0)\n"
	if diff := cmp.Diff(exp, buf.String()); diff != "" {
		t.Errorf("unexpected output (-want, +got):\n%s", diff)
	}
}

func TestPopulateTableMetrics(t *testing.T) {
	var buf bytes.Buffer
	table := generateTableMetrics(&buf)
	populateTableMetrics(map[string]any{
		"timer_b_ns":  int64(7),
		"counter_a":   uint64(3),
		"histogram_c": map[string]any{"count": int64(1)},
	}, table, 0)

	if table.NumLines() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.NumLines())
	}
	table.Render()

	out := buf.String()
	a, b, c := strings.Index(out, "counter_a"), strings.Index(out, "timer_b_ns"), strings.Index(out, "histogram_c_count")
	if a < 0 || b < 0 || c < 0 || !(a < c && c < b) {
		t.Errorf("expected sorted metric rows, got:\n%s", out)
	}
}

func TestCheckStrLimit(t *testing.T) {
	if act := checkStrLimit("abcdef", 3); act != "abc..." {
		t.Errorf("expected truncated string, got %q", act)
	}
	if act := checkStrLimit("abcdef", 0); act != "abcdef" {
		t.Errorf("expected untouched string, got %q", act)
	}
	if act := checkStrLimit("'ü' 'ö' 'ä'", 2); act != "'ü..." {
		t.Errorf("expected truncation on a code point boundary, got %q", act)
	}
	if act := checkStrLimit("'ü'", 3); act != "'ü'" {
		t.Errorf("expected string within the limit to be kept, got %q", act)
	}
}

func TestSymbols(t *testing.T) {
	g, err := ast.CompileRules([]*ast.RawRule{
		ast.NewRawRule("S", ast.RawSymbol("A")),
		ast.NewRawRule("A", ast.RawSeq(ast.RawTerminal("a"), ast.RawSymbol("Hole"))),
		ast.NewRawRule("Unused", ast.RawTerminal("u")),
	})
	if err != nil {
		t.Fatal(err)
	}
	s, _ := g.Lookup("S")

	exp := []Symbol{
		{Code: 0, Name: "S", Defined: true, Reachable: true, Rule: "A"},
		{Code: 1, Name: "A", Defined: true, Reachable: true, Rule: "'a' Hole"},
		{Code: 2, Name: "Hole", Reachable: true},
		{Code: 3, Name: "Unused", Defined: true, Rule: "'u'"},
	}
	if diff := cmp.Diff(exp, Symbols(g, s)); diff != "" {
		t.Errorf("unexpected symbols (-want, +got):\n%s", diff)
	}

	for _, sym := range Symbols(g, nil) {
		if sym.Reachable {
			t.Errorf("expected no reachable symbols without a start, got %v", sym.Name)
		}
	}
}
