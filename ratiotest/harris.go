// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import "github.com/simplexgo/spx/lp"

// Harris is the two-pass ratio test: a first pass computes the loosest
// step every candidate would permit if bounds were relaxed by Delta, then
// a second pass, restricted to candidates whose exact step falls within
// that relaxed limit, picks the one with the largest pivot magnitude
// (Textbook's tie-break minimized one degenerate pivot at a time; Harris
// instead maximizes stability among everything that's "basically tied"),
// per spec.md §4.4.2.
type Harris struct{}

// NewHarris returns a Harris ratio tester.
func NewHarris() *Harris { return &Harris{} }

func (Harris) Select(in Input) Result {
	relaxed := in.Delta
	for pass := 0; pass <= 2; pass++ {
		limit, any := harrisFirstPass(in, relaxed)
		if !any {
			return Result{Found: false}
		}

		best := -1
		var bestStep, bestPivot float64
		for _, j := range in.Candidates {
			x := in.Update(j)
			if x == 0 || abs(x) < in.Epsilon {
				continue
			}
			bound := boundInDirection(in, j, x > 0)
			if lp.IsInfinite(bound) {
				continue
			}
			step := (bound - in.Value(j)) / x
			if step < 0 {
				step = 0
			}
			if step > limit {
				continue
			}
			if best < 0 || abs(x) > abs(bestPivot) || (abs(x) == abs(bestPivot) && j < best) {
				best, bestStep, bestPivot = j, step, x
			}
		}
		if best < 0 {
			return Result{Found: false}
		}
		if abs(bestPivot) >= in.MinStab || pass == 2 {
			if bestStep < 0 {
				bestStep = 0
			}
			return Result{Found: true, Idx: best, Step: bestStep, Pivot: bestPivot}
		}
		// The most stable candidate within the relaxed limit is still
		// too small a pivot; widen the relaxation and retry.
		relaxed *= 10
	}
	return Result{Found: false}
}

// harrisFirstPass computes the loosest feasible step length across every
// candidate once each bound is relaxed outward by delta, the limit the
// second pass filters candidates against.
func harrisFirstPass(in Input, delta float64) (limit float64, any bool) {
	limit = -1
	for _, j := range in.Candidates {
		x := in.Update(j)
		if x == 0 || abs(x) < in.Epsilon {
			continue
		}
		bound := boundInDirection(in, j, x > 0)
		if lp.IsInfinite(bound) {
			continue
		}
		step := (bound - in.Value(j) + sign(x)*delta) / x
		if step < 0 {
			step = 0
		}
		if !any || step < limit {
			limit, any = step, true
		}
	}
	return limit, any
}

func (Harris) Name() string { return "HARRIS" }

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
