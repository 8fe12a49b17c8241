// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simplex implements the pivot engine's driver (C7): the state
// machine that orchestrates pricing, FTRAN, ratio testing and
// factorization updates into a complete Solve() call, plus the numerical
// safety net spec.md §4.5 requires (bound shifting, cycling detection,
// refactor policy).
package simplex

import (
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/factor"
	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/price"
	"github.com/simplexgo/spx/ratiotest"
	"github.com/simplexgo/spx/sparsevec"
	"github.com/simplexgo/spx/spxlog"
	"github.com/simplexgo/spx/start"
)

// ErrShape is returned when a Problem's dimensions don't match the
// Solver's preallocated buffers (should not happen through NewSolver).
var ErrShape = errors.New("simplex: dimension mismatch")

// Options are the numerical and algorithmic knobs a Solver consults every
// iteration. The settings package (C8) is responsible for the full
// persisted option surface and maps user-facing option names onto this
// narrower struct.
type Options struct {
	Algorithm    Algorithm
	Pricer       price.Pricer
	RatioTester  ratiotest.Tester
	FactorMethod factor.UpdateMethod

	// Starter builds the initial basis descriptor. Nil falls back to the
	// all-slack start (equivalent to start.NewOff()).
	Starter start.Starter

	// Log receives iteration-boundary diagnostics (refactor, pivot,
	// termination). The zero Config discards everything.
	Log spxlog.Config

	MaxUpdate int

	FeasTol, OptTol                     float64
	EpsilonZero, FactorEpsilon, CondTol float64

	TimeLimit time.Duration
	IterLimit int

	HasObjValLimit bool
	ObjValLimit    float64

	// CycleLimit is the number of consecutive iterations without
	// objective improvement that triggers cycling countermeasures.
	CycleLimit int
}

// DefaultOptions returns a plain baseline configuration: ENTER with the
// Dantzig/Textbook pair everything else strengthens, Eta updates with a
// 50-update budget, no iteration or time limit, and tolerances clustered
// around double precision's practical noise floor. SoPlex's own shipped
// defaults are what settings.Default describes.
func DefaultOptions() Options {
	return Options{
		Algorithm:     Enter,
		Pricer:        price.NewDantzig(),
		RatioTester:   ratiotest.NewTextbook(),
		FactorMethod:  factor.Eta,
		MaxUpdate:     50,
		FeasTol:       1e-9,
		OptTol:        1e-9,
		EpsilonZero:   1e-12,
		FactorEpsilon: 1e-9,
		CondTol:       1e12,
		TimeLimit:     0,
		IterLimit:     0,
		CycleLimit:    1000,
	}
}

// shift records a temporarily widened bound, restored by unshift.
type shift struct {
	idx      int
	oldLower float64
	oldUpper float64
}

// Solver owns one LP's complete pivot state: the problem, basis
// descriptor, factorization, working values, and the pricer/ratio-tester
// strategy pair driving iterations. A Solver solves one problem at a
// time; construct a new one to solve another.
type Solver struct {
	prob *lp.Problem
	opts Options

	n, m, total int

	lower, upper []float64
	obj          []float64
	val          []float64

	desc *basis.Descriptor
	fact *factor.Factorization

	shifts []shift

	iter             int
	lastImproveIter  int
	objAtLastImprove float64
	start            time.Time

	testVec   *sparsevec.Vector
	infeasVec *sparsevec.Vector

	status Status
	st     state

	PrimalRay []float64
	Farkas    []float64
}

// NewSolver builds a Solver for prob. Variables are indexed 0..n-1 for
// structural columns and n..n+m-1 for the logical (slack) variable of
// each row, per spec.md §3's m+n variable model: row i's logical variable
// satisfies (A*x)_i - s_i = 0 with the row's own bounds, so a slack basis
// (logical variables all basic) is always a valid, trivially invertible
// starting basis.
func NewSolver(prob *lp.Problem, opts Options) *Solver {
	n, m := prob.NumCols(), prob.NumRows()
	total := n + m

	s := &Solver{
		prob:  prob,
		opts:  opts,
		n:     n,
		m:     m,
		total: total,

		lower: make([]float64, total),
		upper: make([]float64, total),
		obj:   make([]float64, total),
		val:   make([]float64, total),

		desc: basis.NewDescriptor(m, total),
		fact: factor.New(m, opts.FactorMethod, opts.MaxUpdate, opts.FactorEpsilon, opts.CondTol),

		testVec:   sparsevec.NewVector(total),
		infeasVec: sparsevec.NewVector(m),
	}

	sign := 1.0
	if prob.Sense == lp.Maximize {
		sign = -1.0
	}
	for j := 0; j < n; j++ {
		s.lower[j], s.upper[j] = prob.ColLower[j], prob.ColUpper[j]
		s.obj[j] = sign * prob.Obj[j]
	}
	for i := 0; i < m; i++ {
		s.lower[n+i], s.upper[n+i] = prob.RowLower[i], prob.RowUpper[i]
	}

	s.opts.Pricer.Reset(total)

	starter := opts.Starter
	if starter == nil {
		starter = start.NewOff()
	}
	s.desc = starter.Start(prob)
	for j := 0; j < total; j++ {
		if s.desc.Status(j) != basis.Basic {
			s.val[j] = s.startingValue(j)
		}
	}

	return s
}

func (s *Solver) startingValue(j int) float64 {
	switch s.desc.Status(j) {
	case basis.POnLower, basis.PFixed:
		return s.lower[j]
	case basis.POnUpper:
		return s.upper[j]
	default:
		return 0
	}
}

// columnOf returns variable j's coefficients in the extended m-row system
// [A | -I]: structural variables use the problem's own sparse column;
// logical (slack) variable n+i is the single entry -1 at row i.
func (s *Solver) columnOf(j int) ([]int, []float64) {
	if j < s.n {
		return s.prob.Column(j)
	}
	i := j - s.n
	return []int{i}, []float64{-1}
}

// basisMatrix assembles the dense m*m matrix of the current basic
// columns, in slot order, for Factorization.Refactor.
func (s *Solver) basisMatrix() *mat.Dense {
	dense := mat.NewDense(s.m, s.m, nil)
	for k := 0; k < s.m; k++ {
		rowIdx, val := s.columnOf(s.desc.VarAt(k))
		for t, r := range rowIdx {
			dense.Set(r, k, val[t])
		}
	}
	return dense
}

// refactor rebuilds the factorization from the current descriptor and
// returns the error on failure, which its callers report as SingularBasis.
// The pricer is told about every refactor except Solve's initial one.
func (s *Solver) refactor() error {
	if err := s.fact.Refactor(s.basisMatrix()); err != nil {
		s.opts.Log.Log(spxlog.Error, "refactor failed", "iter", s.iter, "err", err)
		return err
	}
	if notifiable, ok := s.opts.Pricer.(price.RefactorNotifiable); ok && s.st != loaded {
		notifiable.NotifyRefactor()
	}
	s.opts.Log.Log(spxlog.Debug, "refactor", "iter", s.iter)
	return s.recomputeBasicValues()
}

// recomputeBasicValues solves B*x_B = -N*x_N from scratch, replacing any
// accumulated incremental drift with an exact value derived from the
// current factorization -- the residual-repair half of spec.md §4.5's
// refactor policy.
func (s *Solver) recomputeBasicValues() error {
	rhs := mat.NewVecDense(s.m, nil)
	for j := 0; j < s.total; j++ {
		if s.desc.Status(j) == basis.Basic {
			continue
		}
		v := s.val[j]
		if v == 0 {
			continue
		}
		rowIdx, val := s.columnOf(j)
		for t, r := range rowIdx {
			rhs.SetVec(r, rhs.AtVec(r)-val[t]*v)
		}
	}
	xB := mat.NewVecDense(s.m, nil)
	if err := s.fact.FTRAN(xB, rhs); err != nil {
		return err
	}
	for k := 0; k < s.m; k++ {
		s.val[s.desc.VarAt(k)] = xB.AtVec(k)
	}
	return nil
}

// dualPrices solves B^T*y = c_B, the simplex multipliers every reduced
// cost is measured against.
func (s *Solver) dualPrices() (*mat.VecDense, error) {
	cB := mat.NewVecDense(s.m, nil)
	for k := 0; k < s.m; k++ {
		cB.SetVec(k, s.obj[s.desc.VarAt(k)])
	}
	y := mat.NewVecDense(s.m, nil)
	if err := s.fact.BTRAN(y, cB); err != nil {
		return nil, err
	}
	return y, nil
}

func (s *Solver) reducedCost(j int, y *mat.VecDense) float64 {
	rowIdx, val := s.columnOf(j)
	d := s.obj[j]
	for t, r := range rowIdx {
		d -= y.AtVec(r) * val[t]
	}
	return d
}

// ftranColumn solves B*alpha = column(j).
func (s *Solver) ftranColumn(j int) (*mat.VecDense, error) {
	rhs := mat.NewVecDense(s.m, nil)
	rowIdx, val := s.columnOf(j)
	for t, r := range rowIdx {
		rhs.SetVec(r, val[t])
	}
	alpha := mat.NewVecDense(s.m, nil)
	if err := s.fact.FTRAN(alpha, rhs); err != nil {
		return nil, err
	}
	return alpha, nil
}

// btranUnit solves B^T*rho = e_slot, the pivot row generator LEAVE mode
// needs to price every nonbasic candidate against the chosen leaving row.
func (s *Solver) btranUnit(slot int) (*mat.VecDense, error) {
	e := mat.NewVecDense(s.m, nil)
	e.SetVec(slot, 1)
	rho := mat.NewVecDense(s.m, nil)
	if err := s.fact.BTRAN(rho, e); err != nil {
		return nil, err
	}
	return rho, nil
}

// enterDirection reports which way a nonbasic candidate would move if it
// entered the basis: +1 toward its upper bound (away from POnLower or a
// free variable with a negative reduced cost), -1 toward its lower bound.
func (s *Solver) enterDirection(j int, y *mat.VecDense) float64 {
	switch s.desc.Status(j) {
	case basis.POnUpper:
		return -1
	case basis.POnLower:
		return 1
	default:
		if s.reducedCost(j, y) < 0 {
			return 1
		}
		return -1
	}
}

// Status returns the terminating condition of the last Solve call, or
// Unknown before Solve has run.
func (s *Solver) Status() Status { return s.status }

// Iterations returns the number of pivots performed by the last Solve
// call.
func (s *Solver) Iterations() int { return s.iter }

// Descriptor returns the Solver's current basis descriptor, valid
// mid-solve for inspection and final at termination. Callers (such as
// mpsio.WriteBasis) must treat it as read-only: mutating it outside a
// Solve call desynchronizes the descriptor from the factorization.
func (s *Solver) Descriptor() *basis.Descriptor { return s.desc }

// Value returns the current value assigned to variable j (valid mid-solve
// for inspection, and exact at termination for any status that reports a
// primal point).
func (s *Solver) Value(j int) float64 { return s.val[j] }

// ObjectiveValue returns the objective at the current point, in the
// problem's own sense (the internal minimize-only sign flip is undone).
func (s *Solver) ObjectiveValue() float64 {
	var obj float64
	for j := 0; j < s.n; j++ {
		obj += s.prob.Obj[j] * s.val[j]
	}
	return obj
}

// DualValues returns the simplex multipliers y solving B^T*y = c_B
// against the current basis, in the problem's own optimization sense.
// Valid once the factorization is current (after Solve returns Optimal);
// callers reporting duals mid-solve or after a non-Optimal termination
// get whatever the last factored basis implies, same as Value does for
// the primal point.
func (s *Solver) DualValues() ([]float64, error) {
	y, err := s.dualPrices()
	if err != nil {
		return nil, err
	}
	out := make([]float64, s.m)
	sign := 1.0
	if s.prob.Sense == lp.Maximize {
		sign = -1.0
	}
	for i := 0; i < s.m; i++ {
		out[i] = sign * y.AtVec(i)
	}
	return out, nil
}
