package basis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/basis"
)

func TestDescriptorInitialAllNonbasic(t *testing.T) {
	d := basis.NewDescriptor(2, 5)
	assert.Equal(t, 0, d.NumBasic())
	for i := 0; i < 5; i++ {
		assert.Equal(t, basis.PFree, d.Status(i))
		assert.Equal(t, -1, d.SlotOf(i))
	}
}

func TestSetBasicAndValidate(t *testing.T) {
	d := basis.NewDescriptor(2, 5)
	d.SetBasic(0, 1)
	d.SetBasic(1, 3)
	require.NoError(t, d.Validate())
	assert.Equal(t, 2, d.NumBasic())
	assert.Equal(t, 0, d.SlotOf(1))
	assert.Equal(t, 3, d.VarAt(1))
}

func TestValidateFailsWhenUnderfull(t *testing.T) {
	d := basis.NewDescriptor(2, 5)
	d.SetBasic(0, 1)
	assert.Error(t, d.Validate())
}

func TestPivotSwapsMembership(t *testing.T) {
	d := basis.NewDescriptor(1, 3)
	d.SetBasic(0, 0)
	d.Pivot(0, 0, 2, basis.POnLower)

	assert.Equal(t, basis.POnLower, d.Status(0))
	assert.Equal(t, -1, d.SlotOf(0))
	assert.Equal(t, basis.Basic, d.Status(2))
	assert.Equal(t, 0, d.SlotOf(2))
	require.NoError(t, d.Validate())
}
