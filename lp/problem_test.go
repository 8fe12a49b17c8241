package lp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/simplexgo/spx/lp"
)

func TestFromDenseRoundTripsColumnsAndRows(t *testing.T) {
	A := mat.NewDense(2, 3, []float64{
		1, 0, 2,
		0, 3, 4,
	})
	p, err := lp.FromDense(A, []float64{1, 1, 1},
		[]float64{0, 0, 0}, []float64{lp.Infinity, lp.Infinity, lp.Infinity},
		[]float64{0, 0}, []float64{10, 10}, lp.Minimize)
	require.NoError(t, err)

	rowIdx, val := p.Column(2)
	assert.Equal(t, []int{0, 1}, rowIdx)
	assert.Equal(t, []float64{2, 4}, val)

	colIdx, val := p.Row(1)
	assert.Equal(t, []int{1, 2}, colIdx)
	assert.Equal(t, []float64{3, 4}, val)
}

func TestBoundCrossingRejected(t *testing.T) {
	_, err := lp.NewFromTriplets(1, 1, nil, nil, nil,
		[]float64{0}, []float64{5}, []float64{1}, []float64{0}, []float64{0}, lp.Minimize)
	assert.ErrorIs(t, err, lp.ErrBoundCrossing)
}

func TestIsInfinite(t *testing.T) {
	assert.True(t, lp.IsInfinite(lp.Infinity))
	assert.True(t, lp.IsInfinite(-lp.Infinity))
	assert.False(t, lp.IsInfinite(1e10))
}
