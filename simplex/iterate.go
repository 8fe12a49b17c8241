// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/factor"
	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/price"
	"github.com/simplexgo/spx/ratiotest"
	"github.com/simplexgo/spx/sparsevec"
	"github.com/simplexgo/spx/spxlog"
)

// Solve runs the iteration state machine to termination, per spec.md
// §4.5: Price, FTRAN, ratio test, Update, repeat, with the refactor
// policy, shifting and cycling countermeasures interleaved between
// iterations. It returns the terminating Status; Value and
// ObjectiveValue report the point reached.
//
// A natural slack-variable start is rarely primal-feasible, so Solve
// shifts infeasible basic bounds before the first iteration and runs the
// configured algorithm against that relaxed problem. If the shifted solution is
// declared Optimal but violations reappear once the true bounds are
// restored, Solve switches algorithm (ENTER<->LEAVE) and retries, per
// spec.md §4.5's unshift contract ("restart ... or switch algorithm").
// If the violation still hasn't cleared once that retry budget is
// spent, the problem is reported Infeasible.
func (s *Solver) Solve() Status {
	s.start = time.Now()
	s.status = Unknown
	s.st = loaded

	if err := s.refactor(); err != nil {
		s.status = SingularBasis
		return s.status
	}
	s.st = factorized
	s.repairFeasibility()
	s.objAtLastImprove = s.ObjectiveValue()

	// maxSwitches bounds how many times Solve toggles ENTER<->LEAVE
	// chasing a shift that keeps turning out to be load-bearing. Once
	// exhausted, a persistent true-bound violation is reported as
	// Infeasible rather than left unresolved -- a deliberate
	// simplification of SoPlex's much more elaborate phase machinery.
	const maxSwitches = 2
	for switches := 0; ; switches++ {
		s.runToTermination()
		if s.status != Optimal {
			break
		}
		s.unshiftAll()
		if !s.hasTrueBoundViolation() {
			break
		}
		if switches >= maxSwitches {
			s.status = Infeasible
			break
		}
		if s.opts.Algorithm == Enter {
			// LEAVE mode prices off the very infeasibility ENTER just
			// hid: leave the true (unshifted) bounds in place so
			// leaveIteration sees it and pivots it away directly,
			// instead of re-shifting it out of sight again.
			s.opts.Algorithm = Leave
		} else {
			// Switching back to ENTER does need a feasible start.
			s.opts.Algorithm = Enter
			s.repairFeasibility()
		}
		s.status = Unknown
	}

	s.unshiftAll()
	if (s.status == Optimal || s.status == Unknown) && s.hasTrueBoundViolation() {
		s.status = Infeasible
	}
	s.st = terminated
	s.opts.Log.Log(spxlog.Info, "terminated", "status", s.status.String(), "iter", s.iter,
		"obj", s.ObjectiveValue())
	return s.status
}

// runToTermination executes iterations under the current algorithm until
// a terminating condition sets s.status.
func (s *Solver) runToTermination() {
	for {
		if s.opts.IterLimit > 0 && s.iter >= s.opts.IterLimit {
			s.status = AbortIter
			return
		}
		if s.opts.TimeLimit > 0 && time.Since(s.start) > s.opts.TimeLimit {
			s.status = AbortTime
			return
		}
		if s.opts.HasObjValLimit && s.objValueExceeded() {
			s.status = AbortValue
			return
		}

		var done bool
		var err error
		s.st = pricing
		if s.opts.Algorithm == Enter {
			done, err = s.enterIteration()
		} else {
			done, err = s.leaveIteration()
		}
		if err != nil {
			s.status = SingularBasis
			return
		}
		if done {
			return
		}

		s.repairFeasibility()
		s.checkCycling()
	}
}

// hasTrueBoundViolation reports whether any basic variable currently
// violates its real (unshifted) bound by more than FeasTol.
func (s *Solver) hasTrueBoundViolation() bool {
	for k := 0; k < s.m; k++ {
		j := s.desc.VarAt(k)
		v := s.val[j]
		if v < s.lower[j]-s.opts.FeasTol || v > s.upper[j]+s.opts.FeasTol {
			return true
		}
	}
	return false
}

// objValueExceeded reports whether the current objective has moved past
// ObjValLimit in the direction of optimization (resolved per DESIGN.md's
// open-question log: abort only once the limit is actually crossed, not
// merely approached).
func (s *Solver) objValueExceeded() bool {
	var internal float64
	for j := 0; j < s.n; j++ {
		internal += s.obj[j] * s.val[j]
	}
	limit := s.opts.ObjValLimit
	if s.prob.Sense == lp.Maximize {
		limit = -limit
	}
	return internal <= limit
}

// enterIteration runs one ENTER-mode (primal) pivot: price over nonbasic
// reduced costs, FTRAN the chosen column, ratio-test over the basic
// variables it would displace, and commit.
func (s *Solver) enterIteration() (done bool, err error) {
	y, err := s.dualPrices()
	if err != nil {
		return false, err
	}

	candidates := make([]int, 0, s.total)
	s.testVec.Clear()
	for j := 0; j < s.total; j++ {
		st := s.desc.Status(j)
		if st == basis.Basic || st == basis.PFixed {
			continue
		}
		d := s.reducedCost(j, y)
		var test float64
		switch st {
		case basis.POnLower:
			test = d
		case basis.POnUpper:
			test = -d
		default: // PFree
			test = -math.Abs(d)
		}
		s.testVec.SetValue(j, test)
		candidates = append(candidates, j)
	}

	enterVar, found := s.opts.Pricer.Select(s.testVec, candidates, s.opts.OptTol)
	if !found {
		s.status = Optimal
		return true, nil
	}

	s.st = ratioTesting
	dir := s.enterDirection(enterVar, y)
	alpha, err := s.ftranColumn(enterVar)
	if err != nil {
		return false, err
	}

	slots := make([]int, s.m)
	for k := range slots {
		slots[k] = k
	}
	in := ratiotest.Input{
		Update:     func(k int) float64 { return -dir * alpha.AtVec(k) },
		Value:      func(k int) float64 { return s.val[s.desc.VarAt(k)] },
		Lower:      func(k int) float64 { return s.lower[s.desc.VarAt(k)] },
		Upper:      func(k int) float64 { return s.upper[s.desc.VarAt(k)] },
		Candidates: slots,
		Max:        1,
		Epsilon:    s.opts.EpsilonZero,
		Delta:      s.opts.FeasTol,
		MinStab:    s.opts.FactorEpsilon,
	}
	result := s.opts.RatioTester.Select(in)
	if !result.Found {
		s.status = Unbounded
		s.buildPrimalRay(enterVar, dir, alpha)
		return true, nil
	}
	// Flips from a ratio test over basic slots have no meaning here: a
	// flip only makes sense for a nonbasic candidate, and this scan's
	// candidates are basis slots. BoundFlipping's flips are applied by
	// leaveIteration's dual ratio test instead, matching where the
	// original algorithm actually performs them (ROW representation).

	s.st = updating
	return s.applyPivot(enterVar, result.Idx, dir, result.Step, alpha)
}

// leaveIteration runs one LEAVE-mode (dual) pivot: pick the most
// infeasible basic variable first, BTRAN its row, and ratio-test over
// nonbasic candidates' reduced costs to find the entering variable that
// preserves dual feasibility, per spec.md §4.5's "row selection first."
func (s *Solver) leaveIteration() (done bool, err error) {
	s.infeasVec.Clear()
	candidates := make([]int, 0, s.m)
	for k := 0; k < s.m; k++ {
		j := s.desc.VarAt(k)
		v := s.val[j]
		var test float64
		switch {
		case v < s.lower[j]-s.opts.FeasTol:
			test = v - s.lower[j]
		case v > s.upper[j]+s.opts.FeasTol:
			test = s.upper[j] - v
		default:
			continue
		}
		s.infeasVec.SetValue(k, test)
		candidates = append(candidates, k)
	}

	leaveSlot, found := s.opts.Pricer.Select(s.infeasVec, candidates, s.opts.FeasTol)
	if !found {
		s.status = Optimal
		return true, nil
	}

	s.st = ratioTesting
	leaveVar := s.desc.VarAt(leaveSlot)
	belowLower := s.val[leaveVar] < s.lower[leaveVar]

	rho, err := s.btranUnit(leaveSlot)
	if err != nil {
		return false, err
	}
	y, err := s.dualPrices()
	if err != nil {
		return false, err
	}

	var dualCandidates []int
	for j := 0; j < s.total; j++ {
		st := s.desc.Status(j)
		if st == basis.Basic || st == basis.PFixed {
			continue
		}
		dualCandidates = append(dualCandidates, j)
	}

	// dualDir orients the row direction so "Max>0" consistently means
	// "the leaving variable is moving back toward feasibility": if it
	// sits below its lower bound it must increase, so the basic value's
	// rate of change (-rho·A_j per unit entering step) must be positive.
	dualDir := 1.0
	if !belowLower {
		dualDir = -1.0
	}
	in := ratiotest.Input{
		Update: func(j int) float64 {
			rowIdx, val := s.columnOf(j)
			var a float64
			for t, r := range rowIdx {
				a += rho.AtVec(r) * val[t]
			}
			return dualDir * a
		},
		Value: func(j int) float64 { return s.reducedCost(j, y) },
		Lower: func(j int) float64 {
			if s.desc.Status(j) == basis.POnUpper {
				return math.Inf(-1)
			}
			return 0
		},
		Upper: func(j int) float64 {
			if s.desc.Status(j) == basis.POnLower || s.desc.Status(j) == basis.PFree {
				return math.Inf(1)
			}
			return 0
		},
		Candidates: dualCandidates,
		Max:        1,
		Epsilon:    s.opts.EpsilonZero,
		Delta:      s.opts.FeasTol,
		MinStab:    s.opts.FactorEpsilon,
	}
	result := s.opts.RatioTester.Select(in)
	if !result.Found {
		s.status = Infeasible
		s.buildFarkas(leaveSlot, rho)
		return true, nil
	}
	s.applyDualFlips(result.Flips)

	enterVar := result.Idx
	dir := s.enterDirection(enterVar, y)
	alpha, err := s.ftranColumn(enterVar)
	if err != nil {
		return false, err
	}
	// leaveVar is restored to whichever bound it was actually violating,
	// not merely "the next bound in its direction of travel" -- that is
	// what distinguishes this from a primal ratio test's own target-bound
	// rule.
	x := -dir * alpha.AtVec(leaveSlot)
	bound := s.lower[leaveVar]
	if !belowLower {
		bound = s.upper[leaveVar]
	}
	t := (bound - s.val[leaveVar]) / x
	if t < 0 {
		t = 0
	}

	s.st = updating
	return s.applyPivot(enterVar, leaveSlot, dir, t, alpha)
}

// applyPivot mutates val/descriptor/pricer/factorization for the pivot
// that moves enterVar into basis slot leaveSlot by step t in direction
// dir, sharing the bookkeeping both ENTER and LEAVE mode converge on once
// they've each independently chosen (enterVar, leaveSlot).
func (s *Solver) applyPivot(enterVar, leaveSlot int, dir, t float64, alpha *mat.VecDense) (bool, error) {
	leaveVar := s.desc.VarAt(leaveSlot)

	for k := 0; k < s.m; k++ {
		j := s.desc.VarAt(k)
		s.val[j] -= dir * t * alpha.AtVec(k)
	}
	s.val[enterVar] += dir * t

	// atBound is the value the pivot update just drove leaveVar to -- the
	// bound it actually hit -- captured before it's snapped exactly onto
	// one of the two bounds to absorb any FTRAN rounding drift.
	atBound := s.val[leaveVar]
	leaveStatus := basis.POnLower
	s.val[leaveVar] = s.lower[leaveVar]
	if s.lower[leaveVar] == s.upper[leaveVar] {
		leaveStatus = basis.PFixed
	} else if math.Abs(atBound-s.upper[leaveVar]) < math.Abs(atBound-s.lower[leaveVar]) {
		leaveStatus = basis.POnUpper
		s.val[leaveVar] = s.upper[leaveVar]
	}

	row, err := s.pivotRow(leaveSlot)
	if err != nil {
		return false, err
	}

	s.desc.Pivot(leaveSlot, leaveVar, enterVar, leaveStatus)

	s.opts.Pricer.Pivoted(price.PivotInfo{
		LeaveVar:       leaveVar,
		EnterVar:       enterVar,
		PivotMagnitude: alpha.AtVec(leaveSlot),
		ReferenceNorm:  vecNormSquared(alpha) + 1,
		PivotRow:       row,
	})

	ok, err := s.fact.Update(leaveSlot, alpha)
	if err != nil {
		return false, err
	}
	if !ok || s.fact.State() == factor.Stale {
		if err := s.refactor(); err != nil {
			return false, err
		}
	}

	s.iter++
	obj := s.ObjectiveValue()
	if s.improved(obj) {
		s.lastImproveIter = s.iter
		s.objAtLastImprove = obj
	}
	s.opts.Log.Log(spxlog.Debug, "pivot", "iter", s.iter, "algorithm", s.opts.Algorithm.String(),
		"enter", enterVar, "leave", leaveVar, "obj", obj)
	return false, nil
}

// pivotRow computes the pivot row's coefficients over every nonbasic
// candidate, the input the pricer's Devex/steepest-edge weight updates
// need.
func (s *Solver) pivotRow(leaveSlot int) (*sparsevec.Vector, error) {
	rho, err := s.btranUnit(leaveSlot)
	if err != nil {
		return nil, err
	}
	row := sparsevec.NewVector(s.total)
	for j := 0; j < s.total; j++ {
		if s.desc.Status(j) == basis.Basic {
			continue
		}
		rowIdx, val := s.columnOf(j)
		var a float64
		for t, r := range rowIdx {
			a += rho.AtVec(r) * val[t]
		}
		if a != 0 {
			row.SetValue(j, a)
		}
	}
	return row, nil
}

// applyDualFlips commits BoundFlipping's bound flips over nonbasic
// candidates found while scanning for the entering variable, then
// recomputes every basic value from scratch: a long-step flip changes
// several nonbasic values at once, and re-deriving x_B = B^-1(-N*x_N)
// directly is simpler than threading an incremental RHS update through
// two independent ratio-test code paths (see DESIGN.md).
func (s *Solver) applyDualFlips(flips []ratiotest.Flip) {
	if len(flips) == 0 {
		return
	}
	for _, f := range flips {
		s.desc.SetNonbasic(f.Idx, f.NewStatus)
		if f.NewStatus == basis.POnUpper {
			s.val[f.Idx] = s.upper[f.Idx]
		} else {
			s.val[f.Idx] = s.lower[f.Idx]
		}
	}
	s.recomputeBasicValues()
}

func (s *Solver) improved(obj float64) bool {
	return obj < s.objAtLastImprove-s.opts.OptTol
}

// buildPrimalRay records an unbounded direction: increasing enterVar by
// any t>=0 stays feasible, with x_B moving at rate -dir*alpha.
func (s *Solver) buildPrimalRay(enterVar int, dir float64, alpha *mat.VecDense) {
	s.PrimalRay = make([]float64, s.total)
	s.PrimalRay[enterVar] = dir
	for k := 0; k < s.m; k++ {
		s.PrimalRay[s.desc.VarAt(k)] = -dir * alpha.AtVec(k)
	}
}

// buildFarkas records a dual ray certifying infeasibility: y = rho solves
// B^T*y = e_leaveSlot, and since no entering variable preserves dual
// feasibility, y itself (extended by zero over other rows) is an
// infeasibility certificate per Farkas' lemma.
func (s *Solver) buildFarkas(leaveSlot int, rho *mat.VecDense) {
	s.Farkas = make([]float64, s.m)
	for i := 0; i < s.m; i++ {
		s.Farkas[i] = rho.AtVec(i)
	}
}

func vecNormSquared(v *mat.VecDense) float64 {
	var sum float64
	n, _ := v.Dims()
	for i := 0; i < n; i++ {
		x := v.AtVec(i)
		sum += x * x
	}
	return sum
}
