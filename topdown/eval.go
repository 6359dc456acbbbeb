// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import (
	"github.com/pegboot/pegboot/ast"
)

// eval holds the state of one top-level parse. It is created per run and
// never shared, so none of its fields need synchronization.
type eval struct {
	grammar  *ast.Grammar
	input    []rune
	memo     *memoTable
	cancel   Cancel
	maxSteps uint64
	maxDepth int

	depth       int
	steps       uint64
	symbolEvals uint64
	memoHits    uint64
	memoStores  uint64
}

func newEval(g *ast.Grammar, input []rune) *eval {
	return &eval{
		grammar: g,
		input:   input,
		memo:    newMemoTable(g.Len(), len(input)),
	}
}

// eval matches x at pos. Errors are reserved for conditions that stop the
// run entirely; an ordinary mismatch is a Result with Success unset.
func (e *eval) eval(x ast.Expression, pos int) (Result, error) {
	e.steps++
	if e.maxSteps > 0 && e.steps > e.maxSteps {
		return Result{}, stepLimitErr(e.maxSteps)
	}
	if e.cancel != nil && e.cancel.Cancelled() {
		return Result{}, cancelErr()
	}

	switch x := x.(type) {
	case *ast.Symbol:
		return e.evalSymbol(x, pos)
	case ast.Terminal:
		return e.evalChar(pos, func(r rune) bool { return r == rune(x) }), nil
	case ast.TerminalSet:
		return e.evalChar(pos, x.Contains), nil
	case ast.TerminalRange:
		return e.evalChar(pos, x.Contains), nil
	case ast.Empty:
		return success(pos, newSequence(nil)), nil
	case ast.Sequence:
		return e.evalSequence(x, pos)
	case ast.Choice:
		return e.evalChoice(x, pos)
	case ast.Star:
		return e.evalRepeat(x.Expr, pos, nil)
	case ast.Plus:
		first, err := e.eval(x.Expr, pos)
		if err != nil || !first.Success {
			return first, err
		}
		if first.Pos == pos {
			return success(pos, newSequence(appendChild(nil, first.Tree))), nil
		}
		return e.evalRepeat(x.Expr, first.Pos, appendChild(nil, first.Tree))
	case ast.Optional:
		r, err := e.eval(x.Expr, pos)
		if err != nil || r.Success {
			return r, err
		}
		return success(pos, newSequence(nil)), nil
	case ast.LazyGap:
		return e.evalGap(x.Expr, pos)
	}

	return Result{}, unknownExpressionErr(x)
}

func (e *eval) evalChar(pos int, match func(rune) bool) Result {
	if pos < len(e.input) && match(e.input[pos]) {
		return success(pos+1, TerminalNode{Char: e.input[pos]})
	}
	return failure(pos)
}

func (e *eval) evalSequence(items ast.Sequence, pos int) (Result, error) {
	var children []Tree
	cur := pos
	for _, item := range items {
		r, err := e.eval(item, cur)
		if err != nil {
			return Result{}, err
		}
		if !r.Success {
			return failure(pos), nil
		}
		children = appendChild(children, r.Tree)
		cur = r.Pos
	}
	return success(cur, newSequence(children)), nil
}

func (e *eval) evalChoice(items ast.Choice, pos int) (Result, error) {
	for _, item := range items {
		r, err := e.eval(item, pos)
		if err != nil {
			return Result{}, err
		}
		if r.Success {
			return r, nil
		}
	}
	return failure(pos), nil
}

// evalRepeat matches item greedily from pos, adding to children. An
// iteration that succeeds without consuming input contributes its children
// once and ends the loop.
func (e *eval) evalRepeat(item ast.Expression, pos int, children []Tree) (Result, error) {
	cur := pos
	for {
		r, err := e.eval(item, cur)
		if err != nil {
			return Result{}, err
		}
		if !r.Success {
			break
		}
		children = appendChild(children, r.Tree)
		if r.Pos == cur {
			break
		}
		cur = r.Pos
	}
	return success(cur, newSequence(children)), nil
}

func (e *eval) evalGap(item ast.Expression, pos int) (Result, error) {
	for p := pos; p <= len(e.input); p++ {
		r, err := e.eval(item, p)
		if err != nil {
			return Result{}, err
		}
		if r.Success {
			return r, nil
		}
	}
	return failure(pos), nil
}

func (e *eval) evalSymbol(sym *ast.Symbol, pos int) (Result, error) {
	if !e.memo.inBounds(sym.Code) {
		return Result{}, undefinedRuleErr(sym)
	}
	if end, t, ok := e.memo.get(pos, sym.Code); ok {
		e.memoHits++
		return success(end, t), nil
	}

	rule := e.grammar.Rule(sym.Code)
	if rule == nil {
		return Result{}, undefinedRuleErr(sym)
	}

	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return Result{}, depthLimitErr(e.maxDepth)
	}
	e.depth++
	e.symbolEvals++
	r, err := e.eval(rule.RHS, pos)
	e.depth--
	if err != nil || !r.Success {
		return r, err
	}

	node := &NonTerminalNode{Category: sym.Code}
	node.Children = appendChild(node.Children, r.Tree)
	e.memo.put(pos, sym.Code, r.Pos, node)
	e.memoStores++
	return success(r.Pos, node), nil
}
