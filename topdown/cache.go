// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package topdown

// memoTable caches successful symbol matches of a single run, keyed by
// (position, symbol code). Cells are laid out symbol-major in one slice of
// numSymbols*(inputLength+1) entries. Failures are never stored: an unset
// cell only means the symbol has not matched at that position yet.
type memoTable struct {
	cols    int
	symbols int
	cells   []memoCell
}

type memoCell struct {
	end  int // -1 while unset
	tree Tree
}

func newMemoTable(symbols, inputLength int) *memoTable {
	cols := inputLength + 1
	cells := make([]memoCell, symbols*cols)
	for i := range cells {
		cells[i].end = -1
	}
	return &memoTable{
		cols:    cols,
		symbols: symbols,
		cells:   cells,
	}
}

// inBounds returns true if code is a symbol the table was sized for.
func (t *memoTable) inBounds(code int) bool {
	return code >= 0 && code < t.symbols
}

func (t *memoTable) get(pos, code int) (int, Tree, bool) {
	cell := &t.cells[code*t.cols+pos]
	if cell.end < 0 {
		return 0, nil, false
	}
	return cell.end, cell.tree, true
}

func (t *memoTable) put(pos, code, end int, tree Tree) {
	t.cells[code*t.cols+pos] = memoCell{end: end, tree: tree}
}
