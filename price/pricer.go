// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package price implements the pricing strategies (C5) that choose which
// variable enters (ENTER mode) or leaves (LEAVE mode) the basis from the
// current vector of reduced costs / infeasibilities. All strategies share
// the Pricer interface so the driver (package simplex) can swap one in for
// another without caring which is active, per spec.md §9's "strategy
// object" redesign note.
package price

import "github.com/simplexgo/spx/sparsevec"

// PivotInfo is the state a Pricer needs to maintain its internal weights
// after a pivot, generalizing spec.md §4.3's left4/entered4/addedVecs
// hooks into one call.
type PivotInfo struct {
	// LeaveVar, EnterVar are the variable indices that left and entered
	// the basis.
	LeaveVar, EnterVar int
	// PivotMagnitude is |update| at the pivot position — the ratio used
	// by Devex's gamma update.
	PivotMagnitude float64
	// ReferenceNorm is the squared norm of the entering column's FTRAN
	// direction, ‖B^-1 A_enter‖² + 1 — the steepest-edge weight the
	// entering variable would carry once basic.
	ReferenceNorm float64
	// PivotRow holds, for the nonbasic candidates touched by this pivot,
	// the pivot row coefficients alpha_{r,j} (keyed by variable index),
	// used by steepest-edge/Devex to refresh neighboring weights.
	PivotRow *sparsevec.Vector
}

// Pricer selects the variable of maximal violation from a test vector and
// maintains whatever internal weights its strategy needs across pivots.
type Pricer interface {
	// Select scans the given candidate indices of test and returns the
	// index of maximal violation under the strategy's score, or
	// found=false if every candidate is within tol of feasibility/
	// optimality (i.e. the phase is done). Ties break toward the smaller
	// index.
	Select(test *sparsevec.Vector, candidates []int, tol float64) (idx int, found bool)

	// Pivoted updates the pricer's internal state after a pivot.
	Pivoted(info PivotInfo)

	// Reset reinitializes any per-variable weights to their startup
	// values, e.g. after a refactor invalidates accumulated state.
	Reset(total int)

	// Name identifies the strategy, matching spec.md §6's pricer option
	// values (DANTZIG, DEVEX, STEEP, ...).
	Name() string
}

// violation returns the magnitude by which v fails the feasibility/
// optimality test at tolerance tol: v must be more negative than -tol to
// be a violation (the shared sign convention every strategy's test vector
// follows: a candidate is improving iff its test value is negative).
func violation(v, tol float64) (mag float64, ok bool) {
	if v < -tol {
		return -v, true
	}
	return 0, false
}

// bestOf scans candidates, scoring each via score, and returns the index
// with the largest score (ties broken toward the smaller index). found is
// false if no candidate scored above zero.
func bestOf(candidates []int, score func(j int) float64) (idx int, found bool) {
	best := -1
	var bestScore float64
	for _, j := range candidates {
		s := score(j)
		if s <= 0 {
			continue
		}
		if !found || s > bestScore || (s == bestScore && j < best) {
			best, bestScore, found = j, s, true
		}
	}
	return best, found
}
