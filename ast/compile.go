// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"unicode/utf8"
)

// CompileRules interns the symbols of rules and converts each rule body into
// an Expression. Symbols receive codes in order of first mention, so rules may
// reference rules that are declared later (or never: see
// Grammar.Undefined). All configuration errors found in rules are returned
// together as Errors.
func CompileRules(rules []*RawRule) (*Grammar, error) {
	c := newRuleCompiler()
	for i, r := range rules {
		c.compileRule(i, r)
	}
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return c.grammar, nil
}

// MustCompileRules is like CompileRules but panics on error. It is intended
// for grammars held in static tables.
func MustCompileRules(rules []*RawRule) *Grammar {
	g, err := CompileRules(rules)
	if err != nil {
		panic(err)
	}
	return g
}

type ruleCompiler struct {
	grammar *Grammar
	errs    Errors
	rule    string
}

func newRuleCompiler() *ruleCompiler {
	return &ruleCompiler{grammar: NewGrammar()}
}

func (c *ruleCompiler) err(code ErrCode, f string, a ...any) {
	c.errs = append(c.errs, NewError(code, c.rule, f, a...))
}

func (c *ruleCompiler) compileRule(i int, r *RawRule) {
	c.rule = ""
	if r == nil {
		c.err(ConfigErr, "rule %d is nil", i)
		return
	}
	if r.LHS.Name == "" {
		c.err(ConfigErr, "rule %d has no name", i)
		return
	}
	c.rule = r.LHS.Name

	lhs := c.grammar.intern(r.LHS.Name)
	if c.grammar.rules[lhs.Code] != nil {
		c.err(DuplicateRuleErr, "symbol %v is already defined", lhs.Name)
		return
	}
	if r.RHS == nil {
		c.err(ConfigErr, "missing right-hand side")
		return
	}

	rhs := c.compileExpr(r.RHS)
	if rhs == nil {
		return
	}
	c.grammar.rules[lhs.Code] = &Rule{LHS: lhs, RHS: rhs}
}

// compileExpr returns nil after recording an error if x is malformed.
func (c *ruleCompiler) compileExpr(x *RawExpr) Expression {
	if x == nil {
		c.err(ConfigErr, "nil expression")
		return nil
	}

	switch x.Type {
	case RawSymbolType:
		if x.Name == "" {
			c.err(ConfigErr, "symbol reference has no name")
			return nil
		}
		return c.grammar.intern(x.Name)

	case RawTerminalType:
		ch, ok := singleRune(x.Value)
		if !ok {
			c.err(ConfigErr, "terminal %q must be exactly one character", x.Value)
			return nil
		}
		return Terminal(ch)

	case RawTerminalSetType:
		if !utf8.ValidString(x.Value) {
			c.err(ConfigErr, "terminal set %q is not valid UTF-8", x.Value)
			return nil
		}
		return TerminalSet([]rune(x.Value))

	case RawTerminalRangeType:
		if len(x.Range) != 2 {
			c.err(ConfigErr, "terminal range must have two bounds, got %d", len(x.Range))
			return nil
		}
		from, ok1 := singleRune(x.Range[0])
		to, ok2 := singleRune(x.Range[1])
		if !ok1 || !ok2 {
			c.err(ConfigErr, "terminal range bounds %q must be exactly one character each", x.Range)
			return nil
		}
		return TerminalRange{From: from, To: to}

	case RawEmptyType:
		return Empty{}

	case RawSequenceType:
		items, ok := c.compileChildren(x.Children)
		if !ok {
			return nil
		}
		return Sequence(items)

	case RawChoiceType:
		items, ok := c.compileChildren(x.Children)
		if !ok {
			return nil
		}
		return Choice(items)

	case RawStarType, RawPlusType, RawOptionalType, RawLazyGapType:
		if len(x.Children) != 1 {
			c.err(ConfigErr, "%v must have exactly one child, got %d", x.Type, len(x.Children))
			return nil
		}
		child := c.compileExpr(x.Children[0])
		if child == nil {
			return nil
		}
		switch x.Type {
		case RawStarType:
			return Star{Expr: child}
		case RawPlusType:
			return Plus{Expr: child}
		case RawOptionalType:
			return Optional{Expr: child}
		default:
			return LazyGap{Expr: child}
		}
	}

	c.err(ConfigErr, "unknown expression type %q in %v", x.Type, x)
	return nil
}

func (c *ruleCompiler) compileChildren(children []*RawExpr) ([]Expression, bool) {
	items := make([]Expression, 0, len(children))
	ok := true
	for _, child := range children {
		item := c.compileExpr(child)
		if item == nil {
			ok = false
			continue
		}
		items = append(items, item)
	}
	return items, ok
}

func singleRune(s string) (rune, bool) {
	ch, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || (ch == utf8.RuneError && size == 1) {
		return 0, false
	}
	return ch, true
}
