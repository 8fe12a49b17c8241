package factor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/simplexgo/spx/factor"
)

func identity(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}

func TestRefactorFreshIdentity(t *testing.T) {
	f := factor.New(2, factor.Eta, 10, 1e-9, 1e8)
	require.NoError(t, f.Refactor(identity(2)))
	assert.Equal(t, factor.Fresh, f.State())
	assert.False(t, f.Singular())
}

func TestRefactorSingular(t *testing.T) {
	f := factor.New(2, factor.Eta, 10, 1e-9, 1e8)
	singular := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	err := f.Refactor(singular)
	assert.ErrorIs(t, err, factor.ErrSingular)
	assert.True(t, f.Singular())
}

func TestFTRANOnIdentity(t *testing.T) {
	f := factor.New(3, factor.Eta, 10, 1e-9, 1e8)
	require.NoError(t, f.Refactor(identity(3)))

	rhs := mat.NewVecDense(3, []float64{1, 2, 3})
	dst := mat.NewVecDense(3, nil)
	require.NoError(t, f.FTRAN(dst, rhs))
	assert.Equal(t, []float64{1, 2, 3}, dst.RawVector().Data)
}

func TestUpdateThenFTRANMatchesRefactor(t *testing.T) {
	// B0 = I, replace column 0 with (2, 0) -> B1 = diag(2,1).
	f := factor.New(2, factor.Eta, 10, 1e-9, 1e8)
	require.NoError(t, f.Refactor(identity(2)))

	direction := mat.NewVecDense(2, []float64{2, 0})
	ok, err := f.Update(0, direction)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, factor.Updated, f.State())
	assert.Equal(t, 1, f.UpdateCount())

	rhs := mat.NewVecDense(2, []float64{4, 3})
	dst := mat.NewVecDense(2, nil)
	require.NoError(t, f.FTRAN(dst, rhs))
	assert.InDeltaSlice(t, []float64{2, 3}, dst.RawVector().Data, 1e-9)
}

func TestUpdateRejectsTinyPivot(t *testing.T) {
	f := factor.New(2, factor.Eta, 10, 1e-6, 1e8)
	require.NoError(t, f.Refactor(identity(2)))

	direction := mat.NewVecDense(2, []float64{1e-9, 1})
	ok, err := f.Update(0, direction)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, factor.Stale, f.State())
}

func TestUpdateCountTriggersStale(t *testing.T) {
	f := factor.New(2, factor.Eta, 2, 1e-9, 1e8)
	require.NoError(t, f.Refactor(identity(2)))

	for i := 0; i < 2; i++ {
		direction := mat.NewVecDense(2, []float64{1, 0})
		ok, err := f.Update(0, direction)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, factor.Stale, f.State())
}
