// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

// GenericVisitor provides a utility to walk over expressions using a
// closure. If the closure returns true, the visitor will not walk over the
// expressions under x.
type GenericVisitor struct {
	f func(x Expression) bool
}

// NewGenericVisitor returns a new GenericVisitor that will invoke the function
// f on expressions.
func NewGenericVisitor(f func(x Expression) bool) *GenericVisitor {
	return &GenericVisitor{f}
}

// Walk iterates the expression tree by calling the function f on the
// GenericVisitor before recursing. Symbol references are not followed into
// the rules they name.
func (vis *GenericVisitor) Walk(x Expression) {
	if vis.f(x) {
		return
	}
	switch x := x.(type) {
	case Sequence:
		for _, item := range x {
			vis.Walk(item)
		}
	case Choice:
		for _, item := range x {
			vis.Walk(item)
		}
	case Star:
		vis.Walk(x.Expr)
	case Plus:
		vis.Walk(x.Expr)
	case Optional:
		vis.Walk(x.Expr)
	case LazyGap:
		vis.Walk(x.Expr)
	}
}

// WalkSymbols calls f for every symbol reference under x.
func WalkSymbols(x Expression, f func(*Symbol)) {
	NewGenericVisitor(func(x Expression) bool {
		if sym, ok := x.(*Symbol); ok {
			f(sym)
		}
		return false
	}).Walk(x)
}

// References returns, for each defined rule, the codes of the symbols its
// body references, deduplicated and in order of first occurrence.
func (g *Grammar) References() map[int][]int {
	refs := make(map[int][]int, len(g.rules))
	for code, r := range g.rules {
		if r == nil {
			continue
		}
		seen := map[int]struct{}{}
		var codes []int
		WalkSymbols(r.RHS, func(sym *Symbol) {
			if _, ok := seen[sym.Code]; ok {
				return
			}
			seen[sym.Code] = struct{}{}
			codes = append(codes, sym.Code)
		})
		refs[code] = codes
	}
	return refs
}

// Reachable returns the symbols that can be reached from start by following
// rule references, start included, in code order.
func (g *Grammar) Reachable(start *Symbol) []*Symbol {
	refs := g.References()
	seen := make([]bool, len(g.symbols))
	stack := []int{start.Code}
	seen[start.Code] = true
	for len(stack) > 0 {
		code := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range refs[code] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	var result []*Symbol
	for code, ok := range seen {
		if ok {
			result = append(result, g.symbols[code])
		}
	}
	return result
}
