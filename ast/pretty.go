// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strings"
	"unicode"
)

// The String methods render expressions in the notation accepted by the
// bootstrap grammar, e.g. "Digits '+' Digits", "'0'..'9'", "# ';'".

func (sym *Symbol) String() string {
	return sym.Name
}

func (t Terminal) String() string {
	return "'" + escapeChar(rune(t), '\'') + "'"
}

func (s TerminalSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, c := range s {
		switch c {
		case '[', ']':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		default:
			sb.WriteString(escapeChar(c, 0))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (r TerminalRange) String() string {
	return Terminal(r.From).String() + ".." + Terminal(r.To).String()
}

func (Empty) String() string {
	return "()"
}

func (s Sequence) String() string {
	return join(s, " ")
}

func (c Choice) String() string {
	return join(c, " / ")
}

func (s Star) String() string {
	return operand(s.Expr) + "*"
}

func (p Plus) String() string {
	return operand(p.Expr) + "+"
}

func (o Optional) String() string {
	return operand(o.Expr) + "?"
}

func (g LazyGap) String() string {
	return "#" + operand(g.Expr)
}

func join(items []Expression, sep string) string {
	if len(items) == 0 {
		return "()"
	}
	strs := make([]string, len(items))
	for i, x := range items {
		strs[i] = operand(x)
	}
	return strings.Join(strs, sep)
}

// operand parenthesizes compound expressions used inside another expression.
func operand(x Expression) string {
	switch x := x.(type) {
	case Sequence:
		if len(x) > 1 {
			return "(" + x.String() + ")"
		}
	case Choice:
		if len(x) > 1 {
			return "(" + x.String() + ")"
		}
	case LazyGap:
		return "(" + x.String() + ")"
	}
	return x.String()
}

func escapeChar(c rune, quote rune) string {
	switch {
	case c == '\\':
		return `\\`
	case c == '\n':
		return `\n`
	case c == '\t':
		return `\t`
	case quote != 0 && c == quote:
		return `\` + string(c)
	case c <= 0xff && !unicode.IsPrint(c):
		return fmt.Sprintf(`\x%02X`, c)
	case c <= 0xffff && !unicode.IsPrint(c):
		return fmt.Sprintf(`\x%04X`, c)
	}
	return string(c)
}
