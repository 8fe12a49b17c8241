// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import "github.com/simplexgo/spx/lp"

// Textbook is the single-pass minimum-ratio test: scan every candidate,
// compute the exact step each one's bound permits, and take the smallest,
// breaking ties toward the smaller index. It is the baseline every other
// strategy relaxes or two-passes to gain stability, per spec.md §4.4.1.
type Textbook struct{}

// NewTextbook returns a Textbook ratio tester.
func NewTextbook() *Textbook { return &Textbook{} }

func (Textbook) Select(in Input) Result {
	best := -1
	bestStep := 0.0
	bestPivot := 0.0
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
		if best < 0 || step < bestStep || (step == bestStep && j < best) {
			best, bestStep, bestPivot = j, step, x
		}
	}
	if best < 0 {
		return Result{Found: false}
	}
	return Result{Found: true, Idx: best, Step: bestStep, Pivot: bestPivot}
}

func (Textbook) Name() string { return "TEXTBOOK" }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
