// Copyright 2017 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

import (
	"sync/atomic"
)

// Cancel defines the interface for cancelling parse runs. Cancel operations
// are thread-safe and idempotent.
type Cancel interface {
	Cancel()
	Cancelled() bool
}

type cancel struct {
	flag atomic.Bool
}

// NewCancel returns a new Cancel object.
func NewCancel() Cancel {
	return &cancel{}
}

func (c *cancel) Cancel() {
	c.flag.Store(true)
}

func (c *cancel) Cancelled() bool {
	return c.flag.Load()
}

// joinCancel returns a Cancel that reports cancellation once any of cs does.
// Nil entries are ignored.
func joinCancel(cs ...Cancel) Cancel {
	var j joinedCancel
	for _, c := range cs {
		if c != nil {
			j = append(j, c)
		}
	}
	if len(j) == 1 {
		return j[0]
	}
	return j
}

type joinedCancel []Cancel

func (j joinedCancel) Cancel() {
	for _, c := range j {
		c.Cancel()
	}
}

func (j joinedCancel) Cancelled() bool {
	for _, c := range j {
		if c.Cancelled() {
			return true
		}
	}
	return false
}
