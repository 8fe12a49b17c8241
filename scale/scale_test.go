// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scale_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/scale"
)

func badlyScaledProblem(t *testing.T) *lp.Problem {
	t.Helper()
	// row0: 1000*x0 + 2*x1 <= 4000; row1: 0.001*x0 + 3*x1 <= 9
	prob, err := lp.NewFromTriplets(2, 2,
		[]int{0, 0, 1, 1}, []int{0, 1, 0, 1}, []float64{1000, 2, 0.001, 3},
		[]float64{1, 1}, []float64{0, 0}, []float64{lp.Infinity, lp.Infinity},
		[]float64{0, 0}, []float64{4000, 9}, lp.Minimize)
	require.NoError(t, err)
	return prob
}

func TestOffScalerReturnsIdentityFactors(t *testing.T) {
	prob := badlyScaledProblem(t)
	scaled, s, err := scale.Scale(prob, scale.Off)
	require.NoError(t, err)
	assert.Same(t, prob, scaled)
	assert.Equal(t, []float64{1, 1}, s.RowScale)
	assert.Equal(t, []float64{1, 1}, s.ColScale)
}

func TestUniEquiMakesLargestRowEntryOne(t *testing.T) {
	prob := badlyScaledProblem(t)
	scaled, _, err := scale.Scale(prob, scale.UniEqui)
	require.NoError(t, err)

	for i := 0; i < scaled.NumRows(); i++ {
		_, val := scaled.Row(i)
		var max float64
		for _, v := range val {
			if a := math.Abs(v); a > max {
				max = a
			}
		}
		assert.InDelta(t, 1, max, 1e-9)
	}
}

func TestGeo8RoundsScaleFactorsToPowersOfTwo(t *testing.T) {
	prob := badlyScaledProblem(t)
	_, s, err := scale.Scale(prob, scale.Geo8)
	require.NoError(t, err)

	for _, f := range append(append([]float64{}, s.RowScale...), s.ColScale...) {
		assert.NotZero(t, f)
		frac, _ := math.Frexp(f)
		assert.Equal(t, 0.5, frac, "scale factor %v is not a power of two", f)
	}
}

func TestUnscaleXRoundTripsColumnScale(t *testing.T) {
	s := &scale.Scaler{ColScale: []float64{2, 0.5}}
	got := s.UnscaleX([]float64{3, 10})
	assert.Equal(t, []float64{6, 5}, got)
}
