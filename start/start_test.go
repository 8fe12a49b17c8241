// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package start_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/start"
)

// twoRowProblem has one column that dominates row 0 and another that
// dominates row 1, so a crash starter has an unambiguous best admission.
func twoRowProblem(t *testing.T) *lp.Problem {
	t.Helper()
	prob, err := lp.NewFromTriplets(2, 2,
		[]int{0, 0, 1, 1}, []int{0, 1, 0, 1}, []float64{10, 1, 1, 10},
		[]float64{1, 1}, []float64{0, 0}, []float64{5, 5},
		[]float64{0, 0}, []float64{20, 20}, lp.Minimize)
	require.NoError(t, err)
	return prob
}

func TestOffStartsAllSlackBasic(t *testing.T) {
	prob := twoRowProblem(t)
	d := start.NewOff().Start(prob)
	require.NoError(t, d.Validate())
	assert.Equal(t, basis.Basic, d.Status(2))
	assert.Equal(t, basis.Basic, d.Status(3))
	assert.Equal(t, basis.POnLower, d.Status(0))
	assert.Equal(t, basis.POnLower, d.Status(1))
}

func TestWeightAdmitsStructuralColumnsAndStaysValid(t *testing.T) {
	prob := twoRowProblem(t)
	d := start.NewWeight().Start(prob)
	require.NoError(t, d.Validate())
	assert.Equal(t, 2, d.NumBasic())
}

func TestSumAdmitsEachColumnToItsStrongestRow(t *testing.T) {
	prob := twoRowProblem(t)
	d := start.NewSum().Start(prob)
	require.NoError(t, d.Validate())
	// column 0 dominates row 0, column 1 dominates row 1: SUM's greedy
	// pass should admit each into its own strongest row.
	assert.Equal(t, 0, d.SlotOf(0))
	assert.Equal(t, 1, d.SlotOf(1))
}

func TestVectorPrefersColumnsWithLargerApproximateValue(t *testing.T) {
	prob := twoRowProblem(t)
	d := start.NewVector([]float64{0, 8}).Start(prob)
	require.NoError(t, d.Validate())
	assert.Equal(t, basis.Basic, d.Status(1))
}

func TestNearestBoundStatusPicksCloserBound(t *testing.T) {
	assert.Equal(t, basis.POnLower, start.NearestBoundStatus(0, 100))
	assert.Equal(t, basis.POnUpper, start.NearestBoundStatus(-100, 0))
	assert.Equal(t, basis.PFixed, start.NearestBoundStatus(3, 3))
	assert.Equal(t, basis.PFree, start.NearestBoundStatus(-lp.Infinity, lp.Infinity))
}
