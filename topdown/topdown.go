// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package topdown matches input against a compiled grammar.
//
// The engine is a packrat parser: a recursive-descent matcher over the
// expressions of an ast.Grammar that memoizes every successful symbol match
// by (position, symbol code). Each cell of the memoization table is computed
// at most once per run, which bounds the work of a run by the number of
// symbols times the input length times the size of the rules.
//
// Only successes are memoized. A symbol that fails at a position is retried
// if it is reached again at that position, and rules that are directly or
// indirectly left-recursive do not terminate unless the query bounds the run
// with WithMaxSteps, WithMaxDepth, or a Cancel.
//
// A failed match is not an error. Results always carry the position the
// failing expression was attempted at, not the furthest position examined.
package topdown

import (
	"context"

	"github.com/pegboot/pegboot/ast"
)

// ParseFrom matches input against g starting with the symbol named start at
// position 0.
func ParseFrom(input []rune, g *ast.Grammar, start string) (Result, error) {
	return NewQuery(g).WithStart(start).Run(context.Background(), input)
}

// ParseString is like ParseFrom but accepts a string. The string is decoded
// into code points first, so Result.Pos counts code points, not bytes.
func ParseString(s string, g *ast.Grammar, start string) (Result, error) {
	return ParseFrom([]rune(s), g, start)
}
