// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pegboot/pegboot/ast"
)

// SequenceCategory is the category of bare sequence nodes. Such nodes carry
// no symbol and are flattened into their parent whenever they are combined
// with other results.
const SequenceCategory = -1

// Tree is a parse tree node: either a TerminalNode or a *NonTerminalNode.
// Trees are never modified after they are produced and may be shared between
// results of the same run.
type Tree interface {
	tree()
	String() string
}

// TerminalNode is a single matched code point.
type TerminalNode struct {
	Char rune
}

// NonTerminalNode groups the children matched by a rule. Category is the code
// of the rule's symbol, or SequenceCategory.
type NonTerminalNode struct {
	Category int
	Children []Tree
}

func (TerminalNode) tree() {}
func (*NonTerminalNode) tree() {}

// IsSequence returns true if n is a bare sequence node.
func (n *NonTerminalNode) IsSequence() bool {
	return n.Category == SequenceCategory
}

func newSequence(children []Tree) *NonTerminalNode {
	return &NonTerminalNode{Category: SequenceCategory, Children: children}
}

// appendChild appends t to children, inlining the children of a bare
// sequence.
func appendChild(children []Tree, t Tree) []Tree {
	if n, ok := t.(*NonTerminalNode); ok && n.IsSequence() {
		return append(children, n.Children...)
	}
	return append(children, t)
}

func (t TerminalNode) String() string {
	return ast.Terminal(t.Char).String()
}

func (n *NonTerminalNode) String() string {
	children := make([]string, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.String()
	}
	if n.IsSequence() {
		return "seq(" + strings.Join(children, ", ") + ")"
	}
	return fmt.Sprintf("%d(%s)", n.Category, strings.Join(children, ", "))
}

// MarshalJSON encodes the node as {"type":"terminal","char":"x"}.
func (t TerminalNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": "terminal",
		"char": string(t.Char),
	})
}

// MarshalJSON encodes the node as {"type":"nonterminal","category":n,"children":[...]}.
func (n *NonTerminalNode) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []Tree{}
	}
	return json.Marshal(map[string]any{
		"type":     "nonterminal",
		"category": n.Category,
		"children": children,
	})
}

// Result is the outcome of matching an expression. On success Pos is the
// position after the match. On failure Pos is the position the attempt was
// made at and Tree is an empty sequence.
type Result struct {
	Success bool `json:"success"`
	Pos     int  `json:"pos"`
	Tree    Tree `json:"tree"`
}

func success(pos int, t Tree) Result {
	return Result{Success: true, Pos: pos, Tree: t}
}

func failure(pos int) Result {
	return Result{Pos: pos, Tree: newSequence(nil)}
}

// Text returns the code points matched under t, in input order.
func Text(t Tree) string {
	var sb strings.Builder
	writeText(&sb, t)
	return sb.String()
}

func writeText(sb *strings.Builder, t Tree) {
	switch t := t.(type) {
	case TerminalNode:
		sb.WriteRune(t.Char)
	case *NonTerminalNode:
		for _, c := range t.Children {
			writeText(sb, c)
		}
	}
}

// Node is a self-describing rendering of a parse tree, suitable for JSON or
// YAML output.
type Node struct {
	Type     string  `json:"type"`
	Symbol   string  `json:"symbol,omitempty"`
	Char     string  `json:"char,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Render converts t into a Node, naming categories with the symbols of g.
func Render(t Tree, g *ast.Grammar) *Node {
	switch t := t.(type) {
	case TerminalNode:
		return &Node{Type: "terminal", Char: string(t.Char)}
	case *NonTerminalNode:
		n := &Node{Type: "nonterminal", Symbol: categoryName(t.Category, g)}
		for _, c := range t.Children {
			n.Children = append(n.Children, Render(c, g))
		}
		return n
	}
	return nil
}

// PrettyTree writes an indented rendering of t to w, one node per line.
func PrettyTree(w io.Writer, t Tree, g *ast.Grammar) error {
	return prettyTree(w, t, g, 0)
}

func prettyTree(w io.Writer, t Tree, g *ast.Grammar, depth int) error {
	indent := strings.Repeat(" ", depth)
	switch t := t.(type) {
	case TerminalNode:
		_, err := fmt.Fprintln(w, indent+t.String())
		return err
	case *NonTerminalNode:
		name := categoryName(t.Category, g)
		if name == "" {
			name = "seq"
		}
		if _, err := fmt.Fprintln(w, indent+name); err != nil {
			return err
		}
		for _, c := range t.Children {
			if err := prettyTree(w, c, g, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func categoryName(category int, g *ast.Grammar) string {
	if category == SequenceCategory {
		return ""
	}
	if g != nil {
		if sym := g.Symbol(category); sym != nil {
			return sym.Name
		}
	}
	return fmt.Sprint(category)
}
