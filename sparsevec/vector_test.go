package sparsevec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexgo/spx/sparsevec"
)

func TestSetValueAndDelta(t *testing.T) {
	v := sparsevec.NewVector(5)
	v.SetValue(2, 3.5)
	v.SetValue(4, -1)

	assert.Equal(t, 2, v.Size())
	assert.Equal(t, 3.5, v.Value(2))
	assert.Equal(t, -1.0, v.Value(4))
	assert.Equal(t, 0.0, v.Value(0))
}

func TestClearIdxRemovesFromDelta(t *testing.T) {
	v := sparsevec.NewVector(3)
	v.SetValue(0, 1)
	v.SetValue(1, 2)
	v.ClearIdx(0)

	assert.Equal(t, 1, v.Size())
	assert.Equal(t, 0.0, v.Value(0))
	assert.Equal(t, 2.0, v.Value(1))

	// clearing an index not in the delta is a no-op
	v.ClearIdx(2)
	assert.Equal(t, 1, v.Size())
}

func TestDeltaIsSupersetAfterSetup(t *testing.T) {
	v := sparsevec.NewVector(4)
	v.SetValue(0, 1)
	v.SetValue(1, 0) // structural zero: stays in the delta until Setup
	assert.Equal(t, 2, v.Size())

	v.Setup()
	assert.Equal(t, 1, v.Size())
	assert.Contains(t, v.Indices(), 0)
}

func TestMultAdd(t *testing.T) {
	a := sparsevec.NewVector(3)
	a.SetValue(0, 1)
	a.SetValue(2, 4)

	b := sparsevec.NewVector(3)
	b.SetValue(0, 10)
	b.SetValue(1, 10)

	b.MultAdd(2, a)
	assert.Equal(t, 12.0, b.Value(0))
	assert.Equal(t, 10.0, b.Value(1))
	assert.Equal(t, 8.0, b.Value(2))
	assert.ElementsMatch(t, []int{0, 1, 2}, b.Indices())
}

func TestDot(t *testing.T) {
	a := sparsevec.NewVector(4)
	a.SetValue(0, 2)
	a.SetValue(3, 5)

	b := sparsevec.NewVector(4)
	b.SetValue(0, 3)
	b.SetValue(1, 7)
	b.SetValue(3, -1)

	assert.Equal(t, 2*3+5*-1, int(a.Dot(b)))
}

func TestCopyFromDoesNotAlias(t *testing.T) {
	a := sparsevec.NewVector(2)
	a.SetValue(0, 9)

	b := sparsevec.NewVector(2)
	b.CopyFrom(a)
	b.SetValue(1, 1)

	assert.Equal(t, 1, a.Size())
	assert.Equal(t, 2, b.Size())
}
