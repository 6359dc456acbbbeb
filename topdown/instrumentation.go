// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import "github.com/pegboot/pegboot/metrics"

// Instrumentation records parse performance diagnostics into a Metrics
// object. It is disabled (nil) unless the query is given metrics. All methods
// are safe to call on a nil *Instrumentation.
type Instrumentation struct {
	m metrics.Metrics
}

// NewInstrumentation returns a new Instrumentation object. Performance
// diagnostics recorded on this Instrumentation object will be stored in m.
func NewInstrumentation(m metrics.Metrics) *Instrumentation {
	return &Instrumentation{m: m}
}

func (instr *Instrumentation) timerAdd(name string, ns int64) {
	if instr == nil {
		return
	}
	instr.m.Timer(name).Add(ns)
}

func (instr *Instrumentation) histogramUpdate(name string, v int64) {
	if instr == nil {
		return
	}
	instr.m.Histogram(name).Update(v)
}

func (instr *Instrumentation) counterAdd(name string, n uint64) {
	if instr == nil || n == 0 {
		return
	}
	instr.m.Counter(name).Add(n)
}

// flush records the counters of a finished run.
func (instr *Instrumentation) flush(e *eval) {
	if instr == nil {
		return
	}
	instr.counterAdd(metrics.ParseSymbolEval, e.symbolEvals)
	instr.counterAdd(metrics.ParseMemoHit, e.memoHits)
	instr.counterAdd(metrics.ParseMemoStore, e.memoStores)
	instr.counterAdd(metrics.ParseSteps, e.steps)
}
