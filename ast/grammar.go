// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"iter"
	"slices"
)

// Rule binds a symbol to the expression it derives.
type Rule struct {
	LHS *Symbol
	RHS Expression
}

func (r *Rule) String() string {
	return r.LHS.Name + " -> " + r.RHS.String() + ";"
}

// Grammar is a compiled set of rules. Symbols live in an append-only arena and
// are referred to by their code everywhere else, so a Grammar can be shared by
// any number of concurrent parses once it has been compiled.
type Grammar struct {
	symbols []*Symbol
	codes   map[string]int
	rules   []*Rule
}

// NewGrammar returns an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		codes: map[string]int{},
	}
}

// intern returns the symbol for name, allocating the next code if the name
// has not been seen before.
func (g *Grammar) intern(name string) *Symbol {
	if code, ok := g.codes[name]; ok {
		return g.symbols[code]
	}
	sym := &Symbol{Name: name, Code: len(g.symbols)}
	g.symbols = append(g.symbols, sym)
	g.codes[name] = sym.Code
	g.rules = append(g.rules, nil)
	return sym
}

// Lookup returns the symbol for name without interning it.
func (g *Grammar) Lookup(name string) (*Symbol, bool) {
	code, ok := g.codes[name]
	if !ok {
		return nil, false
	}
	return g.symbols[code], true
}

// Len returns the number of symbols in the grammar. Codes are in [0, Len()).
func (g *Grammar) Len() int {
	return len(g.symbols)
}

// Symbol returns the symbol with the given code or nil.
func (g *Grammar) Symbol(code int) *Symbol {
	if code < 0 || code >= len(g.symbols) {
		return nil
	}
	return g.symbols[code]
}

// Symbols returns the symbols in code order.
func (g *Grammar) Symbols() []*Symbol {
	return slices.Clone(g.symbols)
}

// Rule returns the rule defined for code. The result is nil if the symbol was
// referenced but never defined.
func (g *Grammar) Rule(code int) *Rule {
	if code < 0 || code >= len(g.rules) {
		return nil
	}
	return g.rules[code]
}

// Rules returns the defined rules in code order.
func (g *Grammar) Rules() []*Rule {
	rules := make([]*Rule, 0, len(g.rules))
	for _, r := range g.rules {
		if r != nil {
			rules = append(rules, r)
		}
	}
	return rules
}

// Undefined returns the symbols that are referenced by some rule but have no
// rule of their own.
func (g *Grammar) Undefined() []*Symbol {
	var missing []*Symbol
	for code, r := range g.rules {
		if r == nil {
			missing = append(missing, g.symbols[code])
		}
	}
	return missing
}

// Names yields the symbol names in code order.
func (g *Grammar) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, sym := range g.symbols {
			if !yield(sym.Name) {
				return
			}
		}
	}
}

func (g *Grammar) String() string {
	buf := make([]byte, 0, 64*len(g.rules))
	for _, r := range g.rules {
		if r == nil {
			continue
		}
		buf = append(buf, r.String()...)
		buf = append(buf, '\n')
	}
	return string(buf)
}
