// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import "slices"

// Expression is the right-hand side of a grammar rule. The set of
// implementations is closed: *Symbol, Terminal, TerminalSet, TerminalRange,
// Empty, Sequence, Choice, Star, Plus, Optional and LazyGap. Expressions are
// immutable once compiled.
type Expression interface {
	expression()
	String() string
}

// Symbol is a named grammar symbol. The Code is assigned when the name is
// first mentioned and indexes the grammar's rule table. As an Expression a
// Symbol references the rule defined for it.
type Symbol struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

// Terminal matches exactly one code point.
type Terminal rune

// TerminalSet matches one code point contained in the set.
type TerminalSet []rune

// TerminalRange matches one code point c with From <= c <= To. A range with
// From > To matches nothing.
type TerminalRange struct {
	From rune
	To   rune
}

// Empty matches the empty string.
type Empty struct{}

// Sequence matches its items one after another.
type Sequence []Expression

// Choice is an ordered choice: the first item that matches wins.
type Choice []Expression

// Star matches Expr zero or more times, greedily.
type Star struct {
	Expr Expression
}

// Plus matches Expr one or more times, greedily.
type Plus struct {
	Expr Expression
}

// Optional matches Expr zero or one time.
type Optional struct {
	Expr Expression
}

// LazyGap skips input one code point at a time until Expr matches.
type LazyGap struct {
	Expr Expression
}

func (*Symbol) expression() {}
func (Terminal) expression() {}
func (TerminalSet) expression() {}
func (TerminalRange) expression() {}
func (Empty) expression() {}
func (Sequence) expression() {}
func (Choice) expression() {}
func (Star) expression() {}
func (Plus) expression() {}
func (Optional) expression() {}
func (LazyGap) expression() {}

// Contains returns true if c is a member of the set.
func (s TerminalSet) Contains(c rune) bool {
	return slices.Contains(s, c)
}

// Contains returns true if From <= c <= To.
func (r TerminalRange) Contains(c rune) bool {
	return r.From <= c && c <= r.To
}

// Equal returns true if sym refers to the same symbol as other.
func (sym *Symbol) Equal(other *Symbol) bool {
	if sym == nil || other == nil {
		return sym == other
	}
	return sym.Code == other.Code && sym.Name == other.Name
}
