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

// afiroLikeMPS is a small free-MPS instance: minimize -x1 - 2x2 subject to
// x1 + x2 <= 4, x1 <= 3, 0 <= x1,x2.
const afiroLikeMPS = `NAME          TINY
ROWS
 N  COST
 L  LIM1
 L  LIM2
COLUMNS
    X1        COST            -1.0   LIM1             1.0
    X1        LIM2             1.0
    X2        COST            -2.0   LIM1             1.0
RHS
    RHS       LIM1             4.0   LIM2             3.0
BOUNDS
ENDATA
`

func TestReadMPSParsesRowsColumnsAndBounds(t *testing.T) {
	prob, rowNames, colNames, err := mpsio.ReadMPS(strings.NewReader(afiroLikeMPS))
	require.NoError(t, err)

	assert.Equal(t, []string{"LIM1", "LIM2"}, rowNames)
	assert.Equal(t, []string{"X1", "X2"}, colNames)
	assert.Equal(t, 2, prob.NumRows())
	assert.Equal(t, 2, prob.NumCols())
	assert.Equal(t, []float64{-1, -2}, prob.Obj)
	assert.Equal(t, []float64{-lp.Infinity, -lp.Infinity}, prob.RowLower)
	assert.Equal(t, []float64{4, 3}, prob.RowUpper)
	assert.Equal(t, []float64{0, 0}, prob.ColLower)
}

func TestReadMPSRejectsUnknownRowReference(t *testing.T) {
	bad := strings.Replace(afiroLikeMPS, "LIM2             1.0", "GHOST            1.0", 1)
	_, _, _, err := mpsio.ReadMPS(strings.NewReader(bad))
	assert.ErrorIs(t, err, mpsio.ErrParse)
}

func TestReadMPSAppliesRangesToEqualityRow(t *testing.T) {
	text := `NAME
ROWS
 N  COST
 E  R1
COLUMNS
    X1        COST             1.0   R1               1.0
RHS
    RHS       R1               5.0
RANGES
    RNG       R1               2.0
ENDATA
`
	prob, _, _, err := mpsio.ReadMPS(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 5.0, prob.RowLower[0])
	assert.Equal(t, 7.0, prob.RowUpper[0])
}

func TestReadMPSBoundTypes(t *testing.T) {
	text := `NAME
ROWS
 N  COST
 G  R1
COLUMNS
    X1        COST             1.0   R1               1.0
    X2        COST             1.0   R1               1.0
    X3        COST             1.0   R1               1.0
RHS
    RHS       R1               0.0
BOUNDS
 FR BND       X1
 FX BND       X2                3.0
 BV BND       X3
ENDATA
`
	prob, _, _, err := mpsio.ReadMPS(strings.NewReader(text))
	require.NoError(t, err)
	assert.True(t, lp.IsInfinite(prob.ColLower[0]))
	assert.True(t, lp.IsInfinite(prob.ColUpper[0]))
	assert.Equal(t, 3.0, prob.ColLower[1])
	assert.Equal(t, 3.0, prob.ColUpper[1])
	assert.Equal(t, 0.0, prob.ColLower[2])
	assert.Equal(t, 1.0, prob.ColUpper[2])
}

func TestSniffDistinguishesMPSAndLPFormat(t *testing.T) {
	format, replay, err := mpsio.Sniff(strings.NewReader(afiroLikeMPS))
	require.NoError(t, err)
	assert.Equal(t, mpsio.MPS, format)

	_, _, _, err = mpsio.ReadMPS(replay)
	require.NoError(t, err)

	format, _, err = mpsio.Sniff(strings.NewReader("MINIMIZE\n obj: x1\nEnd\n"))
	require.NoError(t, err)
	assert.Equal(t, mpsio.LPFormat, format)
}
