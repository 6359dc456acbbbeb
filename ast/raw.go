// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strings"
)

// RawType identifies the kind of a raw expression node.
type RawType string

// Raw expression node types.
const (
	RawSymbolType        RawType = "symbol"
	RawTerminalType      RawType = "terminal"
	RawTerminalSetType   RawType = "terminalSet"
	RawTerminalRangeType RawType = "terminalRange"
	RawEmptyType         RawType = "empty"
	RawSequenceType      RawType = "sequence"
	RawChoiceType        RawType = "choice"
	RawStarType          RawType = "star"
	RawPlusType          RawType = "plus"
	RawOptionalType      RawType = "optional"
	RawLazyGapType       RawType = "lazyGap"
)

// RawRule is a grammar rule as supplied by the producer of a grammar, before
// symbol names have been interned.
type RawRule struct {
	LHS RawName  `json:"lhs"`
	RHS *RawExpr `json:"rhs"`
}

// RawName names the symbol a RawRule defines.
type RawName struct {
	Name string `json:"name"`
}

// RawExpr is an untyped expression node. Which fields are meaningful depends
// on Type:
//
//	symbol         Name
//	terminal       Value (exactly one character)
//	terminalSet    Value (the member characters)
//	terminalRange  Range (two one-character bounds)
//	sequence       Children
//	choice         Children
//	star, plus, optional, lazyGap
//	               Children (exactly one)
//	empty          nothing
type RawExpr struct {
	Type     RawType    `json:"type"`
	Name     string     `json:"name,omitempty"`
	Value    string     `json:"value,omitempty"`
	Range    []string   `json:"range,omitempty"`
	Children []*RawExpr `json:"children,omitempty"`
}

// NewRawRule returns a raw rule defining name.
func NewRawRule(name string, rhs *RawExpr) *RawRule {
	return &RawRule{LHS: RawName{Name: name}, RHS: rhs}
}

// RawSymbol returns a reference to the rule called name.
func RawSymbol(name string) *RawExpr {
	return &RawExpr{Type: RawSymbolType, Name: name}
}

// RawTerminal returns a node matching the single character c.
func RawTerminal(c string) *RawExpr {
	return &RawExpr{Type: RawTerminalType, Value: c}
}

// RawTerminalSet returns a node matching any one of the characters in chars.
func RawTerminalSet(chars string) *RawExpr {
	return &RawExpr{Type: RawTerminalSetType, Value: chars}
}

// RawRange returns a node matching one character between from and to.
func RawRange(from, to string) *RawExpr {
	return &RawExpr{Type: RawTerminalRangeType, Range: []string{from, to}}
}

// RawEmpty returns a node matching the empty string.
func RawEmpty() *RawExpr {
	return &RawExpr{Type: RawEmptyType}
}

// RawSeq returns a sequence node.
func RawSeq(children ...*RawExpr) *RawExpr {
	return &RawExpr{Type: RawSequenceType, Children: children}
}

// RawChoice returns an ordered choice node.
func RawChoice(children ...*RawExpr) *RawExpr {
	return &RawExpr{Type: RawChoiceType, Children: children}
}

// RawStar returns a zero-or-more node.
func RawStar(child *RawExpr) *RawExpr {
	return &RawExpr{Type: RawStarType, Children: []*RawExpr{child}}
}

// RawPlus returns a one-or-more node.
func RawPlus(child *RawExpr) *RawExpr {
	return &RawExpr{Type: RawPlusType, Children: []*RawExpr{child}}
}

// RawOptional returns a zero-or-one node.
func RawOptional(child *RawExpr) *RawExpr {
	return &RawExpr{Type: RawOptionalType, Children: []*RawExpr{child}}
}

// RawGap returns a lazy gap node.
func RawGap(child *RawExpr) *RawExpr {
	return &RawExpr{Type: RawLazyGapType, Children: []*RawExpr{child}}
}

func (x *RawExpr) String() string {
	if x == nil {
		return "<nil>"
	}
	switch x.Type {
	case RawSymbolType:
		return fmt.Sprintf("%v(%q)", x.Type, x.Name)
	case RawTerminalType, RawTerminalSetType:
		return fmt.Sprintf("%v(%q)", x.Type, x.Value)
	case RawTerminalRangeType:
		return fmt.Sprintf("%v(%q)", x.Type, x.Range)
	}
	children := make([]string, len(x.Children))
	for i, c := range x.Children {
		children[i] = c.String()
	}
	return fmt.Sprintf("%v(%v)", x.Type, strings.Join(children, ", "))
}
