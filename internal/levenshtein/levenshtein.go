// Copyright 2025 The OPA Authors
// SPDX-License-Identifier: Apache-2.0

// Package levenshtein suggests known names for misspelled ones.
package levenshtein

import (
	"iter"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ClosestStrings returns the candidates whose edit distance to a is smallest,
// considering only distances up to maxDistance. The result is sorted and
// empty if no candidate is close enough.
func ClosestStrings(maxDistance int, a string, candidates iter.Seq[string]) []string {
	var closest []string
	for c := range candidates {
		d := levenshtein.ComputeDistance(a, c)
		switch {
		case d > maxDistance:
			continue
		case d < maxDistance || len(closest) == 0:
			closest = []string{c}
			maxDistance = d
		default:
			closest = append(closest, c)
		}
	}
	slices.Sort(closest)
	return slices.Compact(closest)
}

// Suggest returns the candidates a is most likely a misspelling of. Names are
// compared case-insensitively first; a case-only mismatch is always
// suggested. Otherwise the allowed distance grows with the length of a, one
// edit per three characters, with a minimum of one.
func Suggest(a string, candidates iter.Seq[string]) []string {
	var folded []string
	for c := range candidates {
		if c != a && strings.EqualFold(c, a) {
			folded = append(folded, c)
		}
	}
	if len(folded) > 0 {
		slices.Sort(folded)
		return folded
	}
	return ClosestStrings(max(1, len(a)/3), a, candidates)
}
