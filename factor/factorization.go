// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package factor implements the refactorable sparse basis factorization
// the pivot engine consults every iteration: a dense LU refactorization
// (via gonum's mat.LU, as used by gonum's own parametric simplex) plus an
// eta-chain incremental update adapted from gonum's optimize/convex/lp.Swap
// type, which is itself exactly an eta-file update mechanism.
package factor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// UpdateMethod selects how the factorization absorbs a column replacement
// without a full refactor.
type UpdateMethod int

const (
	// Eta appends a triangular eta factor per update.
	Eta UpdateMethod = iota
	// ForestTomlin keeps the same eta-chain math as Eta but is tuned with
	// a looser update budget, modeling Forest-Tomlin's better-conditioned
	// permuted-insertion updates without reproducing its full permuted-U
	// bookkeeping: its chain may grow to twice maxUpdate before a refactor.
	ForestTomlin
)

// String returns the settings-file name of u: "ETA" or "FOREST_TOMLIN".
func (u UpdateMethod) String() string {
	if u == ForestTomlin {
		return "FOREST_TOMLIN"
	}
	return "ETA"
}

// State names where a Factorization sits relative to its last full
// refactorization.
type State int

const (
	// Fresh means the factorization was just rebuilt from scratch.
	Fresh State = iota
	// Updated means one or more eta updates have been layered on since
	// the last refactor and the chain is still within its limits.
	Updated
	// Stale means the last update was refused (pivot too small), or was
	// applied but brought the eta chain to its length or condition limit;
	// the driver must refactor.
	Stale
)

// ErrSingular is returned by Refactor when the supplied basis matrix has
// rank below its dimension at the working tolerance.
var ErrSingular = errors.New("factor: basis matrix is singular")

// Factorization represents L*U = B*P for the current basis column
// selection B, plus any eta updates layered on since the last refactor.
type Factorization struct {
	dim    int
	method UpdateMethod

	lu  mat.LU
	eta *etaChain

	state       State
	updateCount int
	maxUpdate   int

	factorEpsilon float64 // minimum |pivot| accepted by Update
	condTol       float64 // eta-chain condition bound that forces a refactor

	stability float64
	singular  bool
}

// New allocates a Factorization for an m-dimensional basis. maxUpdate
// bounds the eta chain length (spec.md's updateCount <= maxUpdate
// invariant); factorEpsilon and condTol are the pivot-magnitude and
// condition-growth thresholds of spec.md §4.2.
func New(dim int, method UpdateMethod, maxUpdate int, factorEpsilon, condTol float64) *Factorization {
	return &Factorization{
		dim:           dim,
		method:        method,
		eta:           newEtaChain(dim),
		maxUpdate:     maxUpdate,
		factorEpsilon: factorEpsilon,
		condTol:       condTol,
	}
}

// Dim returns m, the basis dimension.
func (f *Factorization) Dim() int { return f.dim }

// State returns the factorization's current position in the
// Fresh/Updated/Stale state machine.
func (f *Factorization) State() State { return f.state }

// UpdateCount returns the number of eta updates since the last refactor.
func (f *Factorization) UpdateCount() int { return f.updateCount }

// Singular reports whether the last Refactor found the basis singular.
func (f *Factorization) Singular() bool { return f.singular }

// Stability returns an estimate of factorization quality derived from the
// LU condition number; lower is better conditioned.
func (f *Factorization) Stability() float64 { return f.stability }

// Refactor rebuilds L*U from scratch against basisCols (an m×m dense
// matrix whose columns are the current basis, in slot order) and clears
// the eta chain. Returns ErrSingular (not a panic) if the basis has rank
// below m at the LU's working tolerance, so the driver can restart with a
// different basis per spec.md §4.2's failure contract.
func (f *Factorization) Refactor(basisCols *mat.Dense) error {
	f.lu.Factorize(basisCols)
	f.eta.Reset()
	f.updateCount = 0
	f.state = Fresh
	f.stability = f.lu.Cond()
	if f.lu.Cond() > mat.ConditionTolerance {
		f.singular = true
		return ErrSingular
	}
	f.singular = false
	return nil
}

// FTRAN solves B*x = rhs (the forward transform), applying the base LU
// factorization first and then the eta chain accumulated since the last
// refactor, mirroring the computePrimal helper of gonum's parametric
// simplex.
func (f *Factorization) FTRAN(dst *mat.VecDense, rhs *mat.VecDense) error {
	if err := f.lu.SolveVec(dst, false, rhs); err != nil {
		return err
	}
	return f.eta.SolveVec(dst, false, dst)
}

// BTRAN solves B^T*y = rhs (the transpose/dual transform), applying the
// eta chain first (in reverse) and then the base LU factorization,
// mirroring the computeDual helper of gonum's parametric simplex.
func (f *Factorization) BTRAN(dst *mat.VecDense, rhs *mat.VecDense) error {
	if err := f.eta.SolveVec(dst, true, rhs); err != nil {
		return err
	}
	return f.lu.SolveVec(dst, true, dst)
}

// Update replaces the column at basis slot leaveSlot with the entering
// column without a full refactor. It takes direction, the FTRAN of the
// entering column against the *pre-update* factorization (which the
// caller already computed during the ratio test), so the eta vector can
// be derived without resolving.
//
// If the pivot magnitude direction[leaveSlot] is below factorEpsilon,
// Update appends nothing, transitions the factorization to Stale and
// returns false. If the update is appended but the eta chain's length or
// condition bound then reaches its configured limit, Update returns true
// and also transitions to Stale. In both cases the caller must call
// Refactor before the next update.
func (f *Factorization) Update(leaveSlot int, direction *mat.VecDense) (ok bool, err error) {
	pivot := direction.AtVec(leaveSlot)
	if pivot == 0 || (pivot < 0 && -pivot < f.factorEpsilon) || (pivot > 0 && pivot < f.factorEpsilon) {
		f.state = Stale
		return false, nil
	}

	y := make([]float64, f.dim)
	for i := 0; i < f.dim; i++ {
		y[i] = direction.AtVec(i)
	}
	f.eta.Append(y, leaveSlot)
	f.updateCount++

	limit := f.maxUpdate
	if f.method == ForestTomlin {
		limit = f.maxUpdate * 2
	}
	if f.updateCount >= limit || f.eta.Cond() > f.condTol {
		f.state = Stale
		return true, nil
	}
	f.state = Updated
	return true, nil
}
