// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpsio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/mpsio"
)

const tinyLP = `\ a tiny LP-format instance
Minimize
 obj: -x1 - 2 x2
Subject To
 c1: x1 + x2 <= 4
 c2: x1 <= 3
Bounds
 x2 <= 10
End
`

func TestReadLPParsesObjectiveConstraintsAndBounds(t *testing.T) {
	prob, rowNames, colNames, err := mpsio.ReadLP(strings.NewReader(tinyLP))
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, rowNames)
	assert.Equal(t, []string{"x1", "x2"}, colNames)
	assert.Equal(t, []float64{-1, -2}, prob.Obj)
	assert.Equal(t, []float64{4, 3}, prob.RowUpper)
	assert.Equal(t, 0.0, prob.ColLower[1])
	assert.Equal(t, 10.0, prob.ColUpper[1])
	assert.True(t, lp.IsInfinite(prob.ColUpper[0]))
}

func TestReadLPDoubleSidedConstraintAndBound(t *testing.T) {
	text := "Minimize\n obj: x1\nSubject To\n -1 <= x1 - x2 <= 1\nBounds\n -5 <= x2 <= 5\nEnd\n"
	prob, _, _, err := mpsio.ReadLP(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, -1.0, prob.RowLower[0])
	assert.Equal(t, 1.0, prob.RowUpper[0])
	assert.Equal(t, -5.0, prob.ColLower[1])
	assert.Equal(t, 5.0, prob.ColUpper[1])
}

func TestReadLPFreeSection(t *testing.T) {
	text := "Minimize\n obj: x1 + x2\nSubject To\n c1: x1 + x2 >= 1\nFree\n x1\nEnd\n"
	prob, _, _, err := mpsio.ReadLP(strings.NewReader(text))
	require.NoError(t, err)
	assert.True(t, lp.IsInfinite(prob.ColLower[0]))
	assert.True(t, lp.IsInfinite(prob.ColUpper[0]))
	assert.Equal(t, 1.0, prob.RowLower[0])
}

func TestReadLPMaximizeSense(t *testing.T) {
	prob, _, _, err := mpsio.ReadLP(strings.NewReader("Maximize\n obj: x1\nSubject To\n c1: x1 <= 5\nEnd\n"))
	require.NoError(t, err)
	assert.Equal(t, lp.Maximize, prob.Sense)
}

func TestReadLPRejectsMalformedConstraint(t *testing.T) {
	_, _, _, err := mpsio.ReadLP(strings.NewReader("Minimize\n obj: x1\nSubject To\n c1: x1 <=\nEnd\n"))
	assert.Error(t, err)
}
