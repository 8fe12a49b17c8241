package price_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexgo/spx/price"
	"github.com/simplexgo/spx/sparsevec"
)

func testVector() *sparsevec.Vector {
	v := sparsevec.NewVector(4)
	v.SetValue(0, -5)
	v.SetValue(1, -1)
	v.SetValue(2, 3)
	v.SetValue(3, -5) // tie with 0, smaller index should win
	return v
}

func TestDantzigPicksMostViolatedTieBreaksSmallIndex(t *testing.T) {
	p := price.NewDantzig()
	idx, found := p.Select(testVector(), []int{0, 1, 2, 3}, 1e-9)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestDantzigNoneViolatedReturnsNotFound(t *testing.T) {
	p := price.NewDantzig()
	v := sparsevec.NewVector(2)
	v.SetValue(0, 1)
	v.SetValue(1, 2)
	_, found := p.Select(v, []int{0, 1}, 1e-9)
	assert.False(t, found)
}

func TestDevexWeightsAffectSelection(t *testing.T) {
	p := price.NewDevex()
	p.Reset(4)
	v := sparsevec.NewVector(4)
	v.SetValue(0, -2)
	v.SetValue(1, -3)

	// Give index 1 a much larger weight so index 0 wins despite a smaller
	// raw violation.
	p.Pivoted(price.PivotInfo{LeaveVar: 1, EnterVar: 2, PivotMagnitude: 1, ReferenceNorm: 100})
	idx, found := p.Select(v, []int{0, 1}, 1e-9)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestPartialFallsBackToFullSetWhenWindowEmpty(t *testing.T) {
	p := price.NewPartial(price.NewDantzig(), 1)
	p.Reset(4)
	v := testVector()
	// Window starts at index 2 (value 3, not a violation); fallback
	// should still find index 0.
	p.Reset(4)
	idx, found := p.Select(v, []int{2, 0, 1, 3}, 1e-9)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestHybridSwitchesAfterRefactor(t *testing.T) {
	h := price.NewHybrid()
	h.Reset(4)
	var pricer price.Pricer = h
	notifiable, ok := pricer.(price.RefactorNotifiable)
	assert.True(t, ok)

	v := sparsevec.NewVector(4)
	v.SetValue(0, -2)
	v.SetValue(1, -3)
	h.Pivoted(price.PivotInfo{LeaveVar: 1, EnterVar: 2, PivotMagnitude: 1, ReferenceNorm: 100})

	// Before the refactor steepest edge is active; its weights are all
	// still 1, so the larger violation wins.
	idx, found := h.Select(v, []int{0, 1}, 1e-9)
	assert.True(t, found)
	assert.Equal(t, 1, idx)

	// After it Devex is active, and the pivot raised index 1's Devex
	// weight, so index 0 wins.
	notifiable.NotifyRefactor()
	idx, found = h.Select(v, []int{0, 1}, 1e-9)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "HYBRID", h.Name())
}
