// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import (
	"context"
	"time"

	"github.com/pegboot/pegboot/ast"
	"github.com/pegboot/pegboot/metrics"
)

// Query provides a configurable interface for running a grammar against
// input. A Query may be run any number of times, including concurrently;
// every run allocates its own memoization table.
type Query struct {
	grammar  *ast.Grammar
	start    string
	metrics  metrics.Metrics
	cancel   Cancel
	maxSteps uint64
	maxDepth int
}

// NewQuery returns a new Query object that parses with g.
func NewQuery(g *ast.Grammar) *Query {
	return &Query{
		grammar: g,
	}
}

// WithStart sets the name of the symbol parsing begins with.
func (q *Query) WithStart(name string) *Query {
	q.start = name
	return q
}

// WithMetrics sets the metrics collection to add parse timers and counters
// to. If not set, runs are not instrumented. Each run measures its own
// duration, so concurrent runs may share m.
func (q *Query) WithMetrics(m metrics.Metrics) *Query {
	q.metrics = m
	return q
}

// WithCancel sets the cancellation object to use for runs. If set, the
// Cancel is checked before every expression is evaluated.
func (q *Query) WithCancel(c Cancel) *Query {
	q.cancel = c
	return q
}

// WithMaxSteps bounds the number of expressions a single run may evaluate.
// Zero means no bound.
func (q *Query) WithMaxSteps(n uint64) *Query {
	q.maxSteps = n
	return q
}

// WithMaxDepth bounds the number of symbol matches that may be nested inside
// each other. Zero means no bound.
func (q *Query) WithMaxDepth(n int) *Query {
	q.maxDepth = n
	return q
}

// Run parses input from position 0 starting with the query's start symbol.
// A failed match is reported through Result.Success; errors are returned
// only for unknown start symbols, undefined rules, cancellation, and
// exceeded limits.
func (q *Query) Run(ctx context.Context, input []rune) (Result, error) {
	sym, ok := q.grammar.Lookup(q.start)
	if !ok {
		return Result{}, unknownSymbolErr(q.start, q.grammar)
	}
	return q.RunExpression(ctx, sym, input, 0)
}

// RunExpression matches x against input at pos. The position must be in
// [0, len(input)].
func (q *Query) RunExpression(ctx context.Context, x ast.Expression, input []rune, pos int) (Result, error) {
	if pos < 0 || pos > len(input) {
		return Result{}, &Error{
			Code:    InternalErr,
			Message: "start position out of range",
		}
	}

	if ctx != nil && ctx.Err() != nil {
		return Result{}, cancelErr()
	}

	var instr *Instrumentation
	if q.metrics != nil {
		instr = NewInstrumentation(q.metrics)
		instr.counterAdd(metrics.ParseInputLength, uint64(len(input)))
	}

	e := newEval(q.grammar, input)
	e.cancel = q.cancel
	e.maxSteps = q.maxSteps
	e.maxDepth = q.maxDepth

	if ctx != nil && ctx.Done() != nil {
		c := NewCancel()
		done := make(chan struct{})
		defer close(done)
		go waitForDone(ctx, c, done)
		e.cancel = joinCancel(q.cancel, c)
	}

	start := time.Now()
	r, err := e.eval(x, pos)
	elapsed := time.Since(start).Nanoseconds()
	instr.timerAdd(metrics.ParseEval, elapsed)
	instr.histogramUpdate(metrics.ParseRunDuration, elapsed)
	instr.flush(e)

	if err != nil {
		return Result{}, err
	}
	return r, nil
}

func waitForDone(ctx context.Context, c Cancel, done chan struct{}) {
	select {
	case <-ctx.Done():
		c.Cancel()
	case <-done:
	}
}
