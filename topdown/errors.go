// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/internal/levenshtein"
)

// Error is the error type returned by Query.Run and ParseFrom when parsing
// cannot produce a result. A failed match is not an error: it is reported
// through Result.Success.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (

	// InternalErr represents an unknown parse error.
	InternalErr string = "parse_internal_error"

	// CancelErr indicates the run was cancelled through its Cancel.
	CancelErr string = "parse_cancel_error"

	// StepLimitErr indicates the run evaluated more expressions than the
	// query allows.
	StepLimitErr string = "parse_step_limit_error"

	// DepthLimitErr indicates the run nested more symbol matches than the
	// query allows.
	DepthLimitErr string = "parse_depth_limit_error"

	// UnknownSymbolErr indicates the start symbol is not part of the grammar.
	UnknownSymbolErr string = "parse_unknown_symbol_error"

	// UndefinedRuleErr indicates the parser reached a symbol that is
	// referenced by the grammar but has no rule. This is a grammar
	// configuration error, not a failed match.
	UndefinedRuleErr string = "parse_undefined_rule_error"
)

// IsError returns true if the err is an Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// IsCancel returns true if err was caused by cancellation.
func IsCancel(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CancelErr
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Code, e.Message)
}

func cancelErr() error {
	return &Error{
		Code:    CancelErr,
		Message: "caller cancelled query execution",
	}
}

func stepLimitErr(limit uint64) error {
	return &Error{
		Code:    StepLimitErr,
		Message: fmt.Sprintf("exceeded limit of %d evaluation steps", limit),
	}
}

func depthLimitErr(limit int) error {
	return &Error{
		Code:    DepthLimitErr,
		Message: fmt.Sprintf("exceeded limit of %d nested symbol matches", limit),
	}
}

func undefinedRuleErr(sym *ast.Symbol) error {
	return &Error{
		Code:    UndefinedRuleErr,
		Message: fmt.Sprintf("symbol %v (code %d) has no rule", sym.Name, sym.Code),
	}
}

func unknownSymbolErr(name string, g *ast.Grammar) error {
	msg := fmt.Sprintf("start symbol %q is not defined", name)
	if name == "" {
		msg = "start symbol not set"
	} else if suggestions := levenshtein.Suggest(name, g.Names()); len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %v?)", strings.Join(suggestions, " or "))
	}
	return &Error{
		Code:    UnknownSymbolErr,
		Message: msg,
	}
}

func unknownExpressionErr(x ast.Expression) error {
	return &Error{
		Code:    InternalErr,
		Message: fmt.Sprintf("unhandled expression %T", x),
	}
}
