// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package bootstrap contains the grammar of the grammar notation itself:
// just enough of a PEG grammar language to describe richer grammars.
package bootstrap

import (
	"sync"

	"github.com/pegboot/pegboot/ast"
)

// DefaultStart is the symbol a whole grammar document is parsed with.
const DefaultStart = "Grammar"

var (
	grammar     *ast.Grammar
	grammarOnce sync.Once
)

// Grammar returns the compiled bootstrap grammar. It is compiled on first use
// and shared afterwards.
func Grammar() *ast.Grammar {
	grammarOnce.Do(func() {
		grammar = ast.MustCompileRules(Rules())
	})
	return grammar
}

// Rules returns a fresh copy of the bootstrap rule tree.
func Rules() []*ast.RawRule {
	var (
		sym   = ast.RawSymbol
		term  = ast.RawTerminal
		terms = ast.RawTerminalSet
		rng   = ast.RawRange
		seq   = ast.RawSeq
		alt   = ast.RawChoice
		star  = ast.RawStar
		opt   = ast.RawOptional
		rule  = ast.NewRawRule
	)

	return []*ast.RawRule{
		rule("Grammar", star(sym("Rule"))),
		rule("Rule", seq(
			sym("OptWS"), sym("Symbol"), sym("OptWS"),
			term("-"), term(">"),
			sym("OptWS"), sym("Expr"), sym("OptWS"),
			term(";"),
			sym("OptWS"),
		)),
		rule("Expr", seq(
			sym("SeqElementExpr"),
			star(seq(sym("OptWS"), sym("SeqElementExpr"))),
		)),
		rule("SeqElementExpr", seq(
			sym("AltElementExpr"),
			star(seq(sym("OptWS"), sym("AltOperator"), sym("OptWS"), sym("AltElementExpr"))),
		)),
		rule("AltElementExpr", seq(
			sym("OperandExpr"),
			opt(seq(sym("OptWS"), sym("Operator"))),
		)),
		rule("OperandExpr", alt(sym("ParenExpr"), sym("SimpleExpr"))),
		rule("ParenExpr", seq(
			term("("), sym("OptWS"), sym("Expr"), sym("OptWS"), term(")"),
		)),
		rule("SimpleExpr", alt(
			sym("GapExpr"), sym("Range"), sym("Terminal"), sym("Symbol"), sym("CharSet"),
		)),
		rule("GapExpr", seq(sym("GapOperator"), sym("OptWS"), sym("Expr"))),
		rule("Terminal", seq(
			term("'"),
			alt(
				sym("HexChar"),
				sym("EscapedChar"),
				rng("a", "z"),
				rng("A", "Z"),
				rng("0", "9"),
				terms("-_()[]^!?.;<>/#+*"),
			),
			term("'"),
		)),
		rule("Symbol", seq(
			alt(rng("a", "z"), rng("A", "Z")),
			star(alt(rng("a", "z"), rng("A", "Z"), rng("0", "9"))),
		)),
		rule("CharSet", seq(
			term("["),
			star(alt(
				sym("HexChar"),
				sym("EscapedChar"),
				rng("a", "z"),
				rng("A", "Z"),
				rng("0", "9"),
				terms(` -_()^!?,."';<>/#+*`),
			)),
			term("]"),
		)),
		rule("EscapedChar", seq(term(`\`), terms(`\nt'[]`))),
		rule("Hex", alt(rng("a", "f"), rng("A", "F"), rng("0", "9"))),
		rule("HexChar", seq(
			term(`\`), term("x"),
			sym("Hex"), sym("Hex"),
			opt(seq(sym("Hex"), sym("Hex"))),
		)),
		rule("Range", seq(
			sym("Terminal"), sym("OptWS"),
			term("."), term("."),
			sym("OptWS"), sym("Terminal"),
		)),
		rule("OptWS", star(terms(" \n\t"))),
		rule("Operator", terms("?*+")),
		rule("GapOperator", term("#")),
		rule("AltOperator", term("/")),
	}
}
