// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/google/go-cmp/cmp"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/metrics"
)

// sumGrammar assigns codes Digit=0, Digits=1, Sum=2, List=3, Find=4, Prefix=5.
func sumGrammar(t *testing.T) *ast.Grammar {
	t.Helper()
	g, err := ast.CompileRules([]*ast.RawRule{
		ast.NewRawRule("Digit", ast.RawRange("0", "9")),
		ast.NewRawRule("Digits", ast.RawPlus(ast.RawSymbol("Digit"))),
		ast.NewRawRule("Sum", ast.RawSeq(ast.RawSymbol("Digits"), ast.RawTerminal("+"), ast.RawSymbol("Digits"))),
		ast.NewRawRule("List", ast.RawStar(ast.RawSymbol("Digit"))),
		ast.NewRawRule("Find", ast.RawGap(ast.RawTerminal("x"))),
		ast.NewRawRule("Prefix", ast.RawChoice(ast.RawTerminal("a"), ast.RawSeq(ast.RawTerminal("a"), ast.RawTerminal("b")))),
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func digit(c rune) Tree {
	return &NonTerminalNode{Category: 0, Children: []Tree{term(c)}}
}

func TestParseFrom(t *testing.T) {
	t.Parallel()

	g := sumGrammar(t)

	tests := []struct {
		note  string
		start string
		input string
		exp   Result
	}{
		{
			note:  "sum",
			start: "Sum",
			input: "12+34",
			exp: success(5, &NonTerminalNode{Category: 2, Children: []Tree{
				&NonTerminalNode{Category: 1, Children: []Tree{digit('1'), digit('2')}},
				term('+'),
				&NonTerminalNode{Category: 1, Children: []Tree{digit('3'), digit('4')}},
			}}),
		},
		{
			note:  "sum prefix",
			start: "Sum",
			input: "1+2+3",
			exp: success(3, &NonTerminalNode{Category: 2, Children: []Tree{
				&NonTerminalNode{Category: 1, Children: []Tree{digit('1')}},
				term('+'),
				&NonTerminalNode{Category: 1, Children: []Tree{digit('2')}},
			}}),
		},
		{
			note:  "sum missing operand",
			start: "Sum",
			input: "12+",
			exp:   failure(0),
		},
		{
			note:  "digits on empty input",
			start: "Digits",
			input: "",
			exp:   failure(0),
		},
		{
			note:  "list on empty input",
			start: "List",
			input: "",
			exp:   success(0, &NonTerminalNode{Category: 3}),
		},
		{
			note:  "single child is wrapped",
			start: "Digit",
			input: "7",
			exp:   success(1, digit('7')),
		},
		{
			note:  "lazy gap",
			start: "Find",
			input: "aaax",
			exp:   success(4, &NonTerminalNode{Category: 4, Children: []Tree{term('x')}}),
		},
		{
			note:  "lazy gap without target",
			start: "Find",
			input: "aaa",
			exp:   failure(0),
		},
		{
			note:  "ordered choice keeps first match",
			start: "Prefix",
			input: "ab",
			exp:   success(1, &NonTerminalNode{Category: 5, Children: []Tree{term('a')}}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			t.Parallel()

			act, err := ParseString(tc.input, g, tc.start)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.exp, act, equateEmpty); diff != "" {
				t.Errorf("unexpected result (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestParseStringCountsCodePoints(t *testing.T) {
	t.Parallel()

	g := ast.MustCompileRules([]*ast.RawRule{
		ast.NewRawRule("Word", ast.RawPlus(ast.RawTerminalSet("üöä"))),
	})

	r, err := ParseString("üöäx", g, "Word")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Success || r.Pos != 3 {
		t.Fatalf("expected success at pos 3, got %v at %d", r.Success, r.Pos)
	}
	if act := Text(r.Tree); act != "üöä" {
		t.Errorf("expected text %q, got %q", "üöä", act)
	}
}

func TestParseFromUnknownStart(t *testing.T) {
	t.Parallel()

	g := sumGrammar(t)

	tests := []struct {
		start string
		exp   string
	}{
		{start: "Summ", exp: `start symbol "Summ" is not defined (did you mean Sum?)`},
		{start: "digits", exp: `start symbol "digits" is not defined (did you mean Digits?)`},
		{start: "Whatever", exp: `start symbol "Whatever" is not defined`},
		{start: "", exp: "start symbol not set"},
	}

	for _, tc := range tests {
		t.Run(tc.start, func(t *testing.T) {
			t.Parallel()

			_, err := ParseString("1", g, tc.start)
			if !IsError(err) {
				t.Fatalf("expected topdown error, got %v", err)
			}
			e := err.(*Error)
			if e.Code != UnknownSymbolErr {
				t.Errorf("expected %v, got %v", UnknownSymbolErr, e.Code)
			}
			if e.Message != tc.exp {
				t.Errorf("expected message %q, got %q", tc.exp, e.Message)
			}
		})
	}
}

func TestParseFromUndefinedRule(t *testing.T) {
	t.Parallel()

	g := ast.MustCompileRules([]*ast.RawRule{
		ast.NewRawRule("S", ast.RawChoice(ast.RawTerminal("a"), ast.RawSymbol("Missing"))),
	})

	// The undefined symbol is never reached.
	r, err := ParseString("a", g, "S")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Success {
		t.Fatal("expected success")
	}

	_, err = ParseString("b", g, "S")
	if !IsError(err) || err.(*Error).Code != UndefinedRuleErr {
		t.Fatalf("expected %v, got %v", UndefinedRuleErr, err)
	}
	if !strings.Contains(err.Error(), "Missing") {
		t.Errorf("expected error to name the symbol, got %v", err)
	}

	_, err = ParseString("", g, "Missing")
	if !IsError(err) || err.(*Error).Code != UndefinedRuleErr {
		t.Fatalf("expected %v for undefined start, got %v", UndefinedRuleErr, err)
	}
}

func TestParseFromSymbolOfOtherGrammar(t *testing.T) {
	t.Parallel()

	g := sumGrammar(t)
	foreign := &ast.Symbol{Name: "Foreign", Code: 99}

	_, err := NewQuery(g).RunExpression(context.Background(), foreign, nil, 0)
	if !IsError(err) || err.(*Error).Code != UndefinedRuleErr {
		t.Fatalf("expected %v, got %v", UndefinedRuleErr, err)
	}
}

func TestMemoization(t *testing.T) {
	t.Parallel()

	g := ast.MustCompileRules([]*ast.RawRule{
		ast.NewRawRule("S", ast.RawChoice(
			ast.RawSeq(ast.RawSymbol("A"), ast.RawTerminal("b")),
			ast.RawSeq(ast.RawSymbol("A"), ast.RawTerminal("c")),
		)),
		ast.NewRawRule("A", ast.RawPlus(ast.RawTerminal("a"))),
	})

	m := metrics.New()
	r, err := NewQuery(g).WithStart("S").WithMetrics(m).Run(context.Background(), []rune("aaac"))
	if err != nil {
		t.Fatal(err)
	}
	if !r.Success || r.Pos != 4 {
		t.Fatalf("expected success at pos 4, got %v at %d", r.Success, r.Pos)
	}

	exp := map[string]uint64{
		metrics.ParseSymbolEval:  2, // S and A, each once
		metrics.ParseMemoHit:     1, // A in the second alternative
		metrics.ParseMemoStore:   2,
		metrics.ParseInputLength: 4,
	}
	for name, n := range exp {
		if act := m.Counter(name).Uint64(); act != n {
			t.Errorf("expected %v to be %d, got %d", name, n, act)
		}
	}

	// Both alternatives see the same memoized subtree.
	sym, _ := g.Lookup("A")
	children := r.Tree.(*NonTerminalNode).Children
	if first := children[0].(*NonTerminalNode); first.Category != sym.Code || len(first.Children) != 3 {
		t.Fatalf("unexpected first child %v", first)
	}
}

func TestMemoizationIsPerRun(t *testing.T) {
	t.Parallel()

	g := sumGrammar(t)
	q := NewQuery(g).WithStart("Sum")

	for range 2 {
		m := metrics.New()
		r, err := q.WithMetrics(m).Run(context.Background(), []rune("1+2"))
		if err != nil {
			t.Fatal(err)
		}
		if !r.Success {
			t.Fatal("expected success")
		}
		if act := m.Counter(metrics.ParseMemoHit).Uint64(); act != 0 {
			t.Fatalf("expected no memo hits in a fresh run, got %d", act)
		}
	}
}

func TestMemoizationBoundsWork(t *testing.T) {
	t.Parallel()

	// Each level tries X twice at the same position, so without memoization
	// the work would double with every level.
	var rules []*ast.RawRule
	const depth = 20
	for i := range depth {
		next := ast.RawTerminal("a")
		if i < depth-1 {
			next = ast.RawSymbol(levelName(i + 1))
		}
		rules = append(rules, ast.NewRawRule(levelName(i), ast.RawChoice(
			ast.RawSeq(next, ast.RawTerminal("x")),
			ast.RawSeq(next, ast.RawTerminal("y")),
		)))
	}
	g := ast.MustCompileRules(rules)

	m := metrics.New()
	input := []rune("a" + strings.Repeat("y", depth))
	r, err := NewQuery(g).WithStart(levelName(0)).WithMetrics(m).Run(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Success || r.Pos != len(input) {
		t.Fatalf("expected full match, got %v at %d", r.Success, r.Pos)
	}
	if act := m.Counter(metrics.ParseSymbolEval).Uint64(); act != depth {
		t.Errorf("expected %d symbol evaluations, got %d", depth, act)
	}
}

func levelName(i int) string {
	return "L" + string(rune('a'+i))
}

func leftRecursiveGrammar() *ast.Grammar {
	return ast.MustCompileRules([]*ast.RawRule{
		ast.NewRawRule("E", ast.RawChoice(
			ast.RawSeq(ast.RawSymbol("E"), ast.RawTerminal("a")),
			ast.RawTerminal("a"),
		)),
	})
}

func TestStepLimit(t *testing.T) {
	t.Parallel()

	_, err := NewQuery(leftRecursiveGrammar()).WithStart("E").WithMaxSteps(100).Run(context.Background(), []rune("aaa"))
	if !IsError(err) || err.(*Error).Code != StepLimitErr {
		t.Fatalf("expected %v, got %v", StepLimitErr, err)
	}

	r, err := NewQuery(sumGrammar(t)).WithStart("Sum").WithMaxSteps(100).Run(context.Background(), []rune("1+1"))
	if err != nil {
		t.Fatalf("expected limit to allow small parse, got %v", err)
	}
	if !r.Success {
		t.Fatal("expected success")
	}
}

func TestDepthLimit(t *testing.T) {
	t.Parallel()

	_, err := NewQuery(leftRecursiveGrammar()).WithStart("E").WithMaxDepth(64).Run(context.Background(), []rune("aaa"))
	if !IsError(err) || err.(*Error).Code != DepthLimitErr {
		t.Fatalf("expected %v, got %v", DepthLimitErr, err)
	}

	// Sum nests three symbols deep.
	_, err = NewQuery(sumGrammar(t)).WithStart("Sum").WithMaxDepth(3).Run(context.Background(), []rune("1+1"))
	if err != nil {
		t.Fatalf("expected depth 3 to suffice, got %v", err)
	}
	_, err = NewQuery(sumGrammar(t)).WithStart("Sum").WithMaxDepth(2).Run(context.Background(), []rune("1+1"))
	if !IsError(err) || err.(*Error).Code != DepthLimitErr {
		t.Fatalf("expected %v, got %v", DepthLimitErr, err)
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	c := NewCancel()
	c.Cancel()
	c.Cancel()
	if !c.Cancelled() {
		t.Fatal("expected cancelled")
	}

	_, err := NewQuery(sumGrammar(t)).WithStart("Sum").WithCancel(c).Run(context.Background(), []rune("1+1"))
	if !IsCancel(err) {
		t.Fatalf("expected cancel error, got %v", err)
	}
}

func TestCancelContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewQuery(sumGrammar(t)).WithStart("Sum").Run(ctx, []rune("1+1"))
	if !IsCancel(err) {
		t.Fatalf("expected cancel error, got %v", err)
	}
}

func TestJoinCancel(t *testing.T) {
	t.Parallel()

	a, b := NewCancel(), NewCancel()
	if joinCancel(nil, a) != a {
		t.Fatal("expected single cancel to be returned as is")
	}

	j := joinCancel(a, b)
	if j.Cancelled() {
		t.Fatal("expected not cancelled")
	}
	b.Cancel()
	if !j.Cancelled() {
		t.Fatal("expected cancelled once any member is")
	}
	if a.Cancelled() {
		t.Fatal("expected other members to be left alone")
	}
}

func TestConcurrentRuns(t *testing.T) {
	defer leaktest.Check(t)()

	g := sumGrammar(t)
	q := NewQuery(g).WithStart("Sum")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exp, err := q.Run(ctx, []rune("123+456"))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]Result, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = q.Run(ctx, []rune("123+456"))
		}()
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("run %d: %v", i, errs[i])
		}
		if diff := cmp.Diff(exp, results[i], equateEmpty); diff != "" {
			t.Errorf("run %d: unexpected result (-want, +got):\n%s", i, diff)
		}
	}
}

func TestConcurrentRunMetrics(t *testing.T) {
	defer leaktest.Check(t)()

	m := metrics.New()
	q := NewQuery(sumGrammar(t)).WithStart("Sum").WithMetrics(m)

	const runs = 16
	var wg sync.WaitGroup
	for range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := q.Run(context.Background(), []rune("123+456")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	hist, ok := m.All()["histogram_"+metrics.ParseRunDuration].(map[string]any)
	if !ok {
		t.Fatalf("expected run duration histogram, got %v", m.All())
	}
	if hist["count"] != int64(runs) {
		t.Fatalf("expected %d samples, got %v", runs, hist["count"])
	}
	if lo := hist["min"].(int64); lo <= 0 {
		t.Errorf("expected every run to record its own duration, got min %d", lo)
	}
	if hi, total := hist["max"].(int64), m.Timer(metrics.ParseEval).Int64(); hi > total {
		t.Errorf("expected eval timer %d to cover the longest run %d", total, hi)
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	err := stepLimitErr(10)
	if exp := "parse_step_limit_error: exceeded limit of 10 evaluation steps"; err.Error() != exp {
		t.Errorf("expected %q, got %q", exp, err.Error())
	}
	if IsCancel(err) {
		t.Error("expected step limit error not to be a cancel error")
	}
}

func TestRunMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	q := NewQuery(sumGrammar(t)).WithStart("Sum").WithMetrics(m)
	for range 3 {
		if _, err := q.Run(context.Background(), []rune("1+2")); err != nil {
			t.Fatal(err)
		}
	}

	hist, ok := m.All()["histogram_"+metrics.ParseRunDuration].(map[string]any)
	if !ok {
		t.Fatalf("expected run duration histogram, got %v", m.All())
	}
	if hist["count"] != int64(3) {
		t.Errorf("expected 3 samples, got %v", hist["count"])
	}
	if act := m.Counter(metrics.ParseInputLength).Uint64(); act != 9 {
		t.Errorf("expected input length counter 9, got %d", act)
	}
	if act := m.Counter(metrics.ParseSteps).Uint64(); act == 0 {
		t.Error("expected steps to be counted")
	}
}
