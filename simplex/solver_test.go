// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/simplex"
)

func bound1x1(t *testing.T, obj float64, colLower, colUpper, rowLower, rowUpper float64, sense lp.Sense) *lp.Problem {
	t.Helper()
	prob, err := lp.NewFromTriplets(1, 1, []int{0}, []int{0}, []float64{1},
		[]float64{obj}, []float64{colLower}, []float64{colUpper},
		[]float64{rowLower}, []float64{rowUpper}, sense)
	require.NoError(t, err)
	return prob
}

// A starting slack basis that happens to already be feasible (the row
// bound contains zero) should reach Optimal in a single ENTER pivot with
// no shifting involved.
func TestSolveAlreadyFeasibleStart(t *testing.T) {
	prob := bound1x1(t, -1, 0, 10, 0, 5, lp.Minimize)

	s := simplex.NewSolver(prob, simplex.DefaultOptions())
	status := s.Solve()

	assert.Equal(t, simplex.Optimal, status)
	assert.InDelta(t, 5, s.Value(0), 1e-9)
	assert.InDelta(t, -5, s.ObjectiveValue(), 1e-9)
}

// A starting slack basis generally is NOT feasible against the row's own
// bounds when they exclude zero: here x0 must sit in [2,5] but the slack
// basis starts at 0. Solve must shift to get ENTER started, discover on
// unshift that the shift was load-bearing, switch to LEAVE, and pivot the
// true infeasibility away to reach the real optimum.
func TestSolveRepairsInfeasibleStartViaAlgorithmSwitch(t *testing.T) {
	prob := bound1x1(t, 1, 0, 10, 2, 5, lp.Minimize)

	s := simplex.NewSolver(prob, simplex.DefaultOptions())
	status := s.Solve()

	require.Equal(t, simplex.Optimal, status)
	assert.InDelta(t, 2, s.Value(0), 1e-9)
	assert.InDelta(t, 2, s.ObjectiveValue(), 1e-9)
}

// A direction with no finite bound in its own row or column is Unbounded,
// and Solve must report a primal ray witnessing it.
func TestSolveReportsUnbounded(t *testing.T) {
	prob := bound1x1(t, -1, 0, lp.Infinity, 0, lp.Infinity, lp.Minimize)

	s := simplex.NewSolver(prob, simplex.DefaultOptions())
	status := s.Solve()

	require.Equal(t, simplex.Unbounded, status)
	require.Len(t, s.PrimalRay, 2)
	assert.Greater(t, s.PrimalRay[0], 0.0)
}

// A column fixed at 0 can never satisfy a row forced to 5, and a fixed
// variable offers the dual ratio test no freedom to restore feasibility:
// Solve must report Infeasible with a Farkas certificate.
func TestSolveReportsInfeasible(t *testing.T) {
	prob := bound1x1(t, 1, 0, 0, 5, 5, lp.Minimize)

	s := simplex.NewSolver(prob, simplex.DefaultOptions())
	status := s.Solve()

	require.Equal(t, simplex.Infeasible, status)
	require.Len(t, s.Farkas, 1)
}

func TestDefaultOptionsProduceAStableSolver(t *testing.T) {
	opts := simplex.DefaultOptions()
	assert.Equal(t, simplex.Enter, opts.Algorithm)
	assert.Equal(t, "DANTZIG", opts.Pricer.Name())
	assert.Equal(t, "TEXTBOOK", opts.RatioTester.Name())
}
