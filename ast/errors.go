// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"errors"
	"fmt"
	"strings"
)

// Errors represents a series of errors encountered while compiling a
// grammar.
type Errors []*Error

func (e Errors) Error() string {

	if len(e) == 0 {
		return "no error(s)"
	}

	if len(e) == 1 {
		return fmt.Sprintf("1 error occurred: %v", e[0].Error())
	}

	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}

	return fmt.Sprintf("%d errors occurred:\n%s", len(e), strings.Join(s, "\n"))
}

// ErrCode defines the types of errors returned during compilation.
type ErrCode int

const (
	// ConfigErr indicates the raw rule tree is malformed: an unknown node
	// type or a literal of the wrong shape.
	ConfigErr ErrCode = iota

	// DuplicateRuleErr indicates a symbol is defined by more than one rule.
	DuplicateRuleErr
)

func (c ErrCode) String() string {
	switch c {
	case ConfigErr:
		return "config_error"
	case DuplicateRuleErr:
		return "duplicate_rule_error"
	}
	return "unknown_error"
}

// IsError returns true if err is, or wraps, an AST error with code.
func IsError(code ErrCode, err error) bool {
	var errs Errors
	if errors.As(err, &errs) {
		for _, e := range errs {
			if e.Code == code {
				return true
			}
		}
		return false
	}
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Error represents a single error caught during compilation. Rule names the
// rule being compiled when the error was found, if any.
type Error struct {
	Code    ErrCode `json:"code"`
	Rule    string  `json:"rule,omitempty"`
	Message string  `json:"message"`
}

func (e *Error) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%v: %v", e.Code, e.Message)
	}
	return fmt.Sprintf("%v: rule %v: %v", e.Code, e.Rule, e.Message)
}

// NewError returns a new Error object.
func NewError(code ErrCode, rule string, f string, a ...any) *Error {
	return &Error{
		Code:    code,
		Rule:    rule,
		Message: fmt.Sprintf(f, a...),
	}
}
