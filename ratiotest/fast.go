// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import "github.com/simplexgo/spx/lp"

// Fast is a stability-first relaxation of Harris: rather than Harris's
// loosest-limit-then-most-stable passes, Fast first scans every candidate
// for the largest pivot magnitude |Update|, then scans again accepting
// only candidates whose pivot clears a threshold derived from that
// maximum (a tenth of it, or MinStab if larger), and takes the smallest
// step among them. A candidate whose own step is essentially zero (a
// degenerate tie at the current vertex) is not accepted as the binding
// pivot; instead a Shift moving its bound out by Epsilon is recorded in
// the Result rather than the candidate becoming Idx. Fast does not change
// any bound itself. This is BoundFlippingRT's fallback tester (SPxFastRT in
// the original), reconstructed here from spec.md §4.4's description of the
// two-pass/one-pass stability tradeoff since the original's source for it
// was not part of the retrieved implementation.
type Fast struct{}

// NewFast returns a Fast ratio tester.
func NewFast() *Fast { return &Fast{} }

func (Fast) Select(in Input) Result {
	var moststable float64
	for _, j := range in.Candidates {
		if m := abs(in.Update(j)); m > moststable {
			moststable = m
		}
	}
	if moststable == 0 {
		return Result{Found: false}
	}
	stab := in.MinStab
	if relaxed := moststable * 0.1; relaxed > stab {
		stab = relaxed
	}

	best := -1
	var bestStep, bestPivot float64
	var shifts []Shift
	for _, j := range in.Candidates {
		x := in.Update(j)
		if x == 0 || abs(x) < in.Epsilon || abs(x) < stab {
			continue
		}
		bound := boundInDirection(in, j, x > 0)
		if lp.IsInfinite(bound) {
			continue
		}
		step := (bound - in.Value(j)) / x
		if step < in.Epsilon {
			// Degenerate: j is already sitting at its bound. Shift that
			// bound out of the way instead of accepting a zero step.
			shifts = append(shifts, Shift{Idx: j, Upper: x > 0 == (in.Max > 0), NewBound: bound + sign(x)*in.Epsilon})
			continue
		}
		if best < 0 || step < bestStep || (step == bestStep && abs(x) > abs(bestPivot)) {
			best, bestStep, bestPivot = j, step, x
		}
	}
	if best < 0 {
		return Result{Found: false, Shifts: shifts}
	}
	return Result{Found: true, Idx: best, Step: bestStep, Pivot: bestPivot, Shifts: shifts}
}

func (Fast) Name() string { return "FAST" }
