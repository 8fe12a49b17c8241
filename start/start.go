// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package start builds the initial basis descriptor a Solver runs its
// first iteration against (C12). OFF falls back to the trivial all-slack
// basis every other starter also uses to cover rows a greedy pass leaves
// empty; WEIGHT, SUM and VECTOR are crash-basis heuristics that seed a
// better starting point by admitting structural columns into the basis
// before the pivot engine ever runs, per spec.md §6's four-way starter
// option.
package start

import (
	"math"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/lp"
)

// Method names a starter strategy, matching spec.md §6's starter option.
type Method int

const (
	Off Method = iota
	Weight
	Sum
	Vector
)

func (m Method) String() string {
	switch m {
	case Weight:
		return "WEIGHT"
	case Sum:
		return "SUM"
	case Vector:
		return "VECTOR"
	default:
		return "OFF"
	}
}

// Starter builds the initial basis descriptor for prob: m structural or
// logical variables basic (one per row), every other variable nonbasic at
// whichever finite bound it starts closest to.
type Starter interface {
	Start(prob *lp.Problem) *basis.Descriptor
}

// offStarter is the trivial all-slack start: row i's logical variable is
// basic, every structural variable nonbasic at its nearest bound.
type offStarter struct{}

// NewOff returns the all-slack Starter.
func NewOff() Starter { return offStarter{} }

func (offStarter) Start(prob *lp.Problem) *basis.Descriptor {
	n, m := prob.NumCols(), prob.NumRows()
	d := basis.NewDescriptor(m, n+m)
	seedNonbasic(d, prob)
	for i := 0; i < m; i++ {
		d.SetBasic(i, n+i)
	}
	return d
}

// weightStarter greedily admits structural columns into the basis, one
// per row, highest weight first.
type weightStarter struct{ weight func(prob *lp.Problem, j int) float64 }

// NewWeight returns a Starter that orders candidate columns by a cheap
// weight combining sparsity (fewer nonzeros score higher) and bound
// tightness (a narrower column range scores higher), then greedily admits
// the best-weighted column into its strongest uncovered row.
func NewWeight() Starter {
	return weightStarter{weight: columnWeight}
}

func columnWeight(prob *lp.Problem, j int) float64 {
	rowIdx, _ := prob.Column(j)
	if len(rowIdx) == 0 {
		return 0
	}
	tightness := 1.0
	lo, hi := prob.ColLower[j], prob.ColUpper[j]
	if !lp.IsInfinite(lo) && !lp.IsInfinite(hi) && hi > lo {
		tightness = 1 / (hi - lo)
	}
	return tightness / float64(len(rowIdx))
}

func (s weightStarter) Start(prob *lp.Problem) *basis.Descriptor {
	return greedyStart(prob, func(j int, covered []bool) float64 {
		return s.weight(prob, j)
	})
}

// sumStarter admits, at each step, the remaining column maximizing the
// sum of |entries| over rows not yet covered -- a dynamic weight, unlike
// WEIGHT's static per-column score.
type sumStarter struct{}

// NewSum returns a Starter using the dynamic row-coverage-sum heuristic.
func NewSum() Starter { return sumStarter{} }

func (sumStarter) Start(prob *lp.Problem) *basis.Descriptor {
	return greedyStart(prob, func(j int, covered []bool) float64 {
		rowIdx, val := prob.Column(j)
		var sum float64
		for t, r := range rowIdx {
			if !covered[r] {
				sum += math.Abs(val[t])
			}
		}
		return sum
	})
}

// vectorStarter admits columns in order of a caller-supplied approximate
// solution's magnitude, using the same greedy per-row admission as
// WEIGHT/SUM -- the vector picks *which* columns look promising, the
// greedy pass still decides which row each one covers.
type vectorStarter struct{ approx []float64 }

// NewVector returns a Starter that seeds the basis from approx, an
// approximate solution vector over the structural variables (length n).
func NewVector(approx []float64) Starter {
	return vectorStarter{approx: approx}
}

func (s vectorStarter) Start(prob *lp.Problem) *basis.Descriptor {
	return greedyStart(prob, func(j int, covered []bool) float64 {
		if j >= len(s.approx) {
			return 0
		}
		return math.Abs(s.approx[j])
	})
}

// greedyStart runs the shared crash-basis loop: repeatedly pick the
// highest-weighted not-yet-placed structural column, admit it into the
// uncovered row where its entry is largest, and repeat. Any row left
// uncovered once every structural column has been considered falls back
// to its own logical (slack) variable, guaranteeing a complete basis.
func greedyStart(prob *lp.Problem, weight func(j int, covered []bool) float64) *basis.Descriptor {
	n, m := prob.NumCols(), prob.NumRows()
	d := basis.NewDescriptor(m, n+m)
	seedNonbasic(d, prob)

	covered := make([]bool, m)
	placed := make([]bool, n)
	remaining := m

	for remaining > 0 {
		best, bestScore := -1, 0.0
		for j := 0; j < n; j++ {
			if placed[j] {
				continue
			}
			if w := weight(j, covered); w > bestScore {
				best, bestScore = j, w
			}
		}
		if best < 0 {
			break
		}
		placed[best] = true

		row, bestAbs := -1, 0.0
		rowIdx, val := prob.Column(best)
		for t, r := range rowIdx {
			if covered[r] {
				continue
			}
			if a := math.Abs(val[t]); a > bestAbs {
				row, bestAbs = r, a
			}
		}
		if row < 0 {
			continue
		}
		d.SetBasic(row, best)
		covered[row] = true
		remaining--
	}

	for i := 0; i < m; i++ {
		if covered[i] {
			// This row's logical variable was displaced by a structural
			// column; it still needs an explicit nonbasic status (the
			// descriptor's zero value is an uninitialized PFree, not a
			// real starting point).
			d.SetNonbasic(n+i, NearestBoundStatus(prob.RowLower[i], prob.RowUpper[i]))
		} else {
			d.SetBasic(i, n+i)
		}
	}
	return d
}

// seedNonbasic assigns every structural variable its nonbasic status and
// leaves logical variables at the descriptor's PFree default; SetBasic
// (called afterward for whichever variable occupies each row) overwrites
// that for the m variables actually admitted into the basis.
func seedNonbasic(d *basis.Descriptor, prob *lp.Problem) {
	for j := 0; j < prob.NumCols(); j++ {
		d.SetNonbasic(j, NearestBoundStatus(prob.ColLower[j], prob.ColUpper[j]))
	}
}

// NearestBoundStatus picks the nonbasic status closest to the origin for
// a variable with the given bounds, the convention every starter falls
// back to for a column it doesn't admit into the basis.
func NearestBoundStatus(lower, upper float64) basis.Status {
	switch {
	case lower == upper:
		return basis.PFixed
	case lp.IsInfinite(lower) && lp.IsInfinite(upper):
		return basis.PFree
	case lp.IsInfinite(upper):
		return basis.POnLower
	case lp.IsInfinite(lower):
		return basis.POnUpper
	case -lower <= upper:
		return basis.POnLower
	default:
		return basis.POnUpper
	}
}
