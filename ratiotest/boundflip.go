// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import (
	"sort"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/lp"
)

// Stability and long-step tuning constants, carried over by name from the
// ratio tester they were tuned for.
const (
	minStab       = 1e-5  // MINSTAB
	lowStab       = 1e-10 // LOWSTAB
	maxRelaxCount = 2     // MAX_RELAX_COUNT
	longstepFreq  = 500   // LONGSTEP_FREQ
	minLongstep   = 1e-6  // MIN_LONGSTEP
)

// breakpoint is one candidate's distance-to-bound along the current
// direction, in the units of Input's step length.
type breakpoint struct {
	idx     int
	step    float64
	upd     float64 // Update(idx)
	canFlip bool
	rng     float64 // Upper(idx) - Lower(idx), only meaningful if canFlip
}

// BoundFlipping is the long-step ratio test: instead of stopping at the
// first breakpoint, it walks breakpoints in increasing order and, for
// every boxed (both bounds finite) nonbasic variable it passes, flips that
// variable straight from one bound to the other rather than letting it
// become the binding pivot — taking a single long step across several
// variables' whole range instead of many short pivots. It falls back to a
// plain single-pass tester once FlipPotential decays, since the gains
// shrink as fewer boxed candidates remain to flip through. Grounded on
// spxboundflippingrt.cpp's collectBreakpointsMax/Min, flipAndUpdate and
// selectEnter.
type BoundFlipping struct {
	fallback Tester

	// FlipPotential estimates how much long-step capacity remains: it
	// decays toward the fraction of breakpoints actually flipped and is
	// periodically reset so a run of short steps doesn't permanently
	// disable long-stepping.
	FlipPotential float64
	calls         int
}

// NewBoundFlipping returns a BoundFlipping tester that falls back to
// fallback once its long-step potential has decayed. Fast is the
// conventional fallback.
func NewBoundFlipping(fallback Tester) *BoundFlipping {
	return &BoundFlipping{fallback: fallback, FlipPotential: 1}
}

func (p *BoundFlipping) Select(in Input) Result {
	p.calls++
	if p.calls%longstepFreq == 0 {
		p.FlipPotential = 1
	}
	if p.FlipPotential < 0.01 {
		return p.fallback.Select(in)
	}

	delta := in.Delta
	for relax := 0; relax <= maxRelaxCount; relax++ {
		bps := collectBreakpoints(in)
		if len(bps) == 0 {
			return Result{Found: false}
		}
		sort.Slice(bps, func(a, b int) bool { return bps[a].step < bps[b].step })

		usedBp, ok := p.sweep(in, bps)
		if !ok {
			// Every candidate flipped clean through; the direction is
			// unbounded.
			return Result{Found: false}
		}

		// The long step's total gain over a plain short step is the spread
		// between the first and the binding breakpoint; if that spread is
		// negligible while the first breakpoint itself is not, the flips
		// bought nothing worth their bookkeeping -- fall back to the
		// single smallest breakpoint with no flips at all, per
		// spxboundflippingrt.cpp's own short-circuit.
		sFirst, sLast := bps[0].step, bps[usedBp].step
		if abs(sLast-sFirst) < minLongstep && abs(sFirst) > in.Epsilon {
			return Result{Found: true, Idx: bps[0].idx, Step: bps[0].step, Pivot: bps[0].upd}
		}

		binding := stabilityScan(bps, usedBp, delta)
		if binding < 0 {
			delta *= 10
			continue
		}

		res := Result{
			Found: true,
			Idx:   bps[binding].idx,
			Step:  bps[binding].step,
			Pivot: bps[binding].upd,
			Flips: applyFlips(bps[:binding]),
		}
		p.FlipPotential *= (float64(binding) + 0.95) / float64(len(bps)+1)
		return res
	}
	return Result{Found: false}
}

// collectBreakpoints gathers, for every candidate with a non-negligible
// update and a finite bound ahead of it, the step at which it reaches that
// bound (spxboundflippingrt.cpp's collectBreakpointsMax/Min).
func collectBreakpoints(in Input) []breakpoint {
	var bps []breakpoint
	for _, j := range in.Candidates {
		x := in.Update(j)
		if x == 0 || abs(x) < in.Epsilon {
			continue
		}
		forward := x > 0
		bound := boundInDirection(in, j, forward)
		if lp.IsInfinite(bound) {
			continue
		}
		step := (bound - in.Value(j)) / x
		if step < 0 {
			step = 0
		}
		lower, upper := in.Lower(j), in.Upper(j)
		boxed := !lp.IsInfinite(lower) && !lp.IsInfinite(upper)
		bps = append(bps, breakpoint{idx: j, step: step, upd: x, canFlip: boxed, rng: upper - lower})
	}
	return bps
}

// sweep consumes breakpoints in increasing step order, flipping each boxed
// candidate's bound and deducting its contribution from the improvement
// slope, until either a non-flippable candidate is reached (it becomes the
// binding pivot) or the slope has been driven down to Epsilon (the current
// breakpoint becomes binding instead). It returns the number of
// breakpoints flipped and false if the whole set flipped clean through
// (unbounded).
func (p *BoundFlipping) sweep(in Input, bps []breakpoint) (usedBp int, ok bool) {
	slope := in.Max
	if slope < 0 {
		slope = -slope
	}
	for i, bp := range bps {
		if !bp.canFlip {
			return i, true
		}
		gain := abs(bp.upd) * bp.rng
		if slope-gain <= in.Epsilon {
			return i, true
		}
		slope -= gain
	}
	return len(bps), false
}

// stabilityScan walks backward from usedBp down to 0 looking for the most
// stable pivot among breakpoints within delta of bps[usedBp]'s step, since
// several candidates reaching their bound at almost the same step is
// common and a larger pivot magnitude is numerically safer to bind on
// (spxboundflippingrt.cpp's stability scan walks `usedBp` down toward 0
// the same way). A candidate found earlier in the scan than usedBp is
// pulled out of the flip set and becomes the binding pivot instead,
// leaving only the candidates ahead of it (still all flippable, since they
// precede it in the sweep) to flip. Returns -1 if the most stable
// candidate in range is still below lowStab, signaling the caller to
// relax delta and retry.
func stabilityScan(bps []breakpoint, usedBp int, delta float64) (binding int) {
	if usedBp >= len(bps) {
		usedBp = len(bps) - 1
	}
	limit := bps[usedBp].step - delta
	best := usedBp
	bestPivot := abs(bps[usedBp].upd)
	for i := usedBp; i >= 0 && bps[i].step >= limit; i-- {
		if m := abs(bps[i].upd); m > bestPivot {
			best, bestPivot = i, m
		}
	}
	if bestPivot < lowStab {
		return -1
	}
	return best
}

// applyFlips turns the leading, fully-consumed breakpoints into Flip
// records: each boxed candidate jumps straight from the bound it started
// on to the opposite bound, since BoundFlipping skips the intermediate
// basic state a short step would have put it through.
func applyFlips(flipped []breakpoint) []Flip {
	flips := make([]Flip, 0, len(flipped))
	for _, bp := range flipped {
		var oldStatus, newStatus basis.Status
		if bp.upd > 0 {
			oldStatus, newStatus = basis.POnLower, basis.POnUpper
		} else {
			oldStatus, newStatus = basis.POnUpper, basis.POnLower
		}
		flips = append(flips, Flip{Idx: bp.idx, OldStatus: oldStatus, NewStatus: newStatus, Range: bp.rng})
	}
	return flips
}

func (p *BoundFlipping) Name() string { return "BOUNDFLIPPING" }
