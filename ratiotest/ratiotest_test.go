// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/ratiotest"
)

// boxedCase builds a three-candidate Input: two boxed variables with a
// small range each, and one free-below (lower = -inf) variable with the
// farthest bound, all moving in the increasing (Max>0) direction.
func boxedCase() ratiotest.Input {
	value := map[int]float64{0: 0, 1: 0, 2: 0}
	lower := map[int]float64{0: 0, 1: 0, 2: -lp.Infinity}
	upper := map[int]float64{0: 1, 1: 2, 2: 10}
	update := map[int]float64{0: 1, 1: 1, 2: 1}

	return ratiotest.Input{
		Update:     func(j int) float64 { return update[j] },
		Value:      func(j int) float64 { return value[j] },
		Lower:      func(j int) float64 { return lower[j] },
		Upper:      func(j int) float64 { return upper[j] },
		Candidates: []int{0, 1, 2},
		Max:        1,
		Epsilon:    1e-9,
		Delta:      1e-7,
		MinStab:    1e-5,
	}
}

func TestTextbookPicksNearestBound(t *testing.T) {
	r := ratiotest.NewTextbook().Select(boxedCase())
	assert.True(t, r.Found)
	assert.Equal(t, 0, r.Idx)
	assert.InDelta(t, 1.0, r.Step, 1e-9)
}

func TestTextbookUnboundedWhenNoFiniteBound(t *testing.T) {
	in := ratiotest.Input{
		Update:     func(int) float64 { return 1 },
		Value:      func(int) float64 { return 0 },
		Lower:      func(int) float64 { return -lp.Infinity },
		Upper:      func(int) float64 { return lp.Infinity },
		Candidates: []int{0},
		Max:        1,
		Epsilon:    1e-9,
	}
	r := ratiotest.NewTextbook().Select(in)
	assert.False(t, r.Found)
}

func TestHarrisPrefersMoreStablePivotWithinDelta(t *testing.T) {
	value := map[int]float64{0: 0, 1: 0}
	lower := map[int]float64{0: -lp.Infinity, 1: -lp.Infinity}
	upper := map[int]float64{0: 1e-4, 1: 1.00000001}
	update := map[int]float64{0: 1e-4, 1: 1}

	in := ratiotest.Input{
		Update:     func(j int) float64 { return update[j] },
		Value:      func(j int) float64 { return value[j] },
		Lower:      func(j int) float64 { return lower[j] },
		Upper:      func(j int) float64 { return upper[j] },
		Candidates: []int{0, 1},
		Max:        1,
		Epsilon:    1e-9,
		Delta:      1e-4,
		MinStab:    1e-5,
	}
	r := ratiotest.NewHarris().Select(in)
	assert.True(t, r.Found)
	assert.Equal(t, 1, r.Idx)
}

func TestFastReturnsNotFoundWhenEveryUpdateIsZero(t *testing.T) {
	in := ratiotest.Input{
		Update:     func(int) float64 { return 0 },
		Value:      func(int) float64 { return 0 },
		Lower:      func(int) float64 { return 0 },
		Upper:      func(int) float64 { return 1 },
		Candidates: []int{0, 1},
		Max:        1,
		Epsilon:    1e-9,
		MinStab:    1e-5,
	}
	r := ratiotest.NewFast().Select(in)
	assert.False(t, r.Found)
}

func TestBoundFlippingFlipsBoxedCandidatesBeforeBinding(t *testing.T) {
	p := ratiotest.NewBoundFlipping(ratiotest.NewFast())
	in := boxedCase()
	in.Max = 100 // ample slope so both boxed candidates flip through

	r := p.Select(in)
	assert.True(t, r.Found)
	assert.Equal(t, 2, r.Idx) // the unboxed, farthest-bound candidate binds
	if assert.Len(t, r.Flips, 2) {
		assert.ElementsMatch(t, []int{0, 1}, []int{r.Flips[0].Idx, r.Flips[1].Idx})
	}
}

func TestBoundFlippingFallsBackOncePotentialDecays(t *testing.T) {
	p := ratiotest.NewBoundFlipping(ratiotest.NewTextbook())
	p.FlipPotential = 0.001
	r := p.Select(boxedCase())
	assert.True(t, r.Found)
	assert.Equal(t, 0, r.Idx) // Textbook's nearest-bound answer, unchanged by flipping
}
