// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ratiotest implements the ratio-test strategies (C6) that, given
// a pricer's chosen direction, determine how far the simplex driver may
// step before some other variable hits a bound — and which variable that
// is. Strategies range from the Textbook single-pass minimum ratio through
// Harris's two-pass tolerance relaxation to Fast's degenerate-shift
// avoidance and BoundFlipping's long-step bound flips, per spec.md §4.4.
package ratiotest

import "github.com/simplexgo/spx/basis"

// Input bundles everything a ratio test needs to scan a set of candidates.
// Value, Lower and Upper are read through closures rather than a concrete
// vector type so the same Input shape serves both ENTER (primal, over the
// basic variables' slots) and LEAVE (dual, over nonbasic variables)
// callers.
type Input struct {
	// Update gives the signed rate of change dx_j/dt (or its dual
	// analogue) for each candidate, keyed the same way as Candidates.
	Update func(j int) float64
	// Value is the candidate's current value.
	Value func(j int) float64
	// Lower, Upper are the candidate's working bounds; lp.IsInfinite
	// reports an absent bound.
	Lower, Upper func(j int) float64
	// Candidates lists the indices (variables or basis slots, as the
	// caller keys them) eligible this call.
	Candidates []int
	// Max is the signed direction of travel: positive means the step
	// increases every candidate whose Update is positive and decreases
	// every candidate whose Update is negative, moving it toward its
	// upper bound; negative reverses both senses.
	Max float64
	// Epsilon is the zero tolerance below which an Update entry is
	// ignored as numerical noise.
	Epsilon float64
	// Delta is the Harris-style feasibility tolerance: a candidate may
	// be stepped Delta past its bound before it is treated as binding.
	Delta float64
	// MinStab is the minimum acceptable |Update| at the chosen pivot;
	// candidates below it are skipped in favor of a more stable one
	// when the scan has room to do so.
	MinStab float64
}

// Flip records a bound flip applied by BoundFlipping before the binding
// pivot was reached: variable Idx moved directly from one finite bound to
// the other without becoming basic.
type Flip struct {
	Idx       int
	OldStatus basis.Status
	NewStatus basis.Status
	Range     float64 // Upper(Idx) - Lower(Idx), the width of the range flipped across
}

// Shift records a bound relaxation Fast proposes for a degenerate
// candidate instead of accepting a zero step: Idx's bound (the upper one
// if Upper is set) would move to NewBound so that the step computed
// against it is no longer binding. The tester itself changes no bound.
type Shift struct {
	Idx      int
	Upper    bool
	NewBound float64
}

// Result is what a ratio test found.
type Result struct {
	// Found is false if no candidate bounds the step (the direction is
	// unbounded).
	Found bool
	// Idx is the binding candidate: the one whose bound the step length
	// reaches.
	Idx int
	// Step is the step length t >= 0.
	Step float64
	// Pivot is Update(Idx), the pivot magnitude the caller should check
	// against its own stability floor before committing.
	Pivot float64
	// Flips lists bound flips BoundFlipping applied before Idx was
	// reached. Empty for every other strategy.
	Flips []Flip
	// Shifts lists bound relaxations Fast proposed while scanning,
	// including when Fast runs as BoundFlipping's fallback. Empty for
	// Textbook and Harris.
	Shifts []Shift
}

// Tester selects the binding variable and step length for a direction.
type Tester interface {
	Select(in Input) Result
	Name() string
}

// boundInDirection returns the bound an increasing (forward=true) or
// decreasing candidate moves toward, given the overall travel sign max.
func boundInDirection(in Input, j int, forward bool) float64 {
	if forward == (in.Max > 0) {
		return in.Upper(j)
	}
	return in.Lower(j)
}
