// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

// shiftBound widens variable j's bound just enough to make v feasible
// again, recording the original bounds so unshiftAll can restore them at
// termination, per spec.md §4.5's "Shifting" safety net.
func (s *Solver) shiftBound(j int, v float64) {
	lower, upper := s.lower[j], s.upper[j]
	switch {
	case v < lower:
		s.lower[j] = v
	case v > upper:
		s.upper[j] = v
	default:
		return
	}
	s.shifts = append(s.shifts, shift{idx: j, oldLower: lower, oldUpper: upper})
}

// unshiftAll removes every recorded shift, restoring the problem's true
// bounds. It does not check the restored bounds itself: Solve does so
// after each call and, while a basic variable still violates one,
// switches algorithm (ENTER<->LEAVE) and runs again, up to its switch
// budget, before reporting Infeasible.
func (s *Solver) unshiftAll() {
	for i := len(s.shifts) - 1; i >= 0; i-- {
		sh := s.shifts[i]
		s.lower[sh.idx] = sh.oldLower
		s.upper[sh.idx] = sh.oldUpper
	}
	s.shifts = s.shifts[:0]
}

// repairFeasibility scans every basic variable and shifts the bound of
// any that has drifted past it by more than FeasTol, keeping the working
// point feasible against the (possibly widened) bounds so pricing and
// ratio testing never have to special-case a barely-infeasible basic
// variable.
func (s *Solver) repairFeasibility() {
	for k := 0; k < s.m; k++ {
		j := s.desc.VarAt(k)
		v := s.val[j]
		if v < s.lower[j]-s.opts.FeasTol || v > s.upper[j]+s.opts.FeasTol {
			s.shiftBound(j, v)
		}
	}
}

// checkCycling perturbs away a stall: if CycleLimit consecutive
// iterations pass with no objective improvement, nudge the zero objective
// coefficients of structural variables by a tiny random-free perturbation
// (an EXPAND-style epsilon bump keyed by variable index, so it is
// deterministic and reproducible rather than relying on randomness) and
// reset the counter, per spec.md §4.5's cycling-detection requirement.
func (s *Solver) checkCycling() {
	if s.opts.CycleLimit <= 0 {
		return
	}
	if s.iter-s.lastImproveIter < s.opts.CycleLimit {
		return
	}
	s.perturb()
	s.lastImproveIter = s.iter
}

// perturb nudges the objective coefficient of every structural variable
// whose coefficient is exactly zero by eps*(j%7-3), so variables with
// j%7 == 3 and those with a nonzero coefficient are left unchanged,
// breaking the exact tie a cycle depends
// on without touching the problem's reported solution value in any
// meaningful way once the perturbation is later removed by a fresh
// NewSolver call against the unperturbed objective.
func (s *Solver) perturb() {
	eps := s.opts.OptTol * 10
	for j := 0; j < s.n; j++ {
		if s.obj[j] == 0 {
			s.obj[j] += eps * float64(j%7-3)
		}
	}
}
