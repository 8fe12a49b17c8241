// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpsio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/mpsio"
)

func twoByTwoNames() (rowNames, colNames []string, colLower, colUpper, rowLower, rowUpper []float64) {
	return []string{"R1", "R2"}, []string{"X1", "X2"},
		[]float64{0, 0}, []float64{lp.Infinity, lp.Infinity},
		[]float64{-lp.Infinity, -lp.Infinity}, []float64{4, 3}
}

func TestReadBasisParsesXLAndXU(t *testing.T) {
	rowNames, colNames, colLower, colUpper, rowLower, rowUpper := twoByTwoNames()
	text := " XL X1 R1\n XU X2 R2\nENDATA\n"

	d, err := mpsio.ReadBasis(strings.NewReader(text), rowNames, colNames, colLower, colUpper, rowLower, rowUpper)
	require.NoError(t, err)

	n := len(colNames)
	assert.Equal(t, basis.Basic, d.Status(0))   // X1
	assert.Equal(t, basis.Basic, d.Status(1))   // X2
	assert.Equal(t, basis.POnLower, d.Status(n+0)) // R1's slack, paired by XL
	assert.Equal(t, basis.POnUpper, d.Status(n+1)) // R2's slack, paired by XU
	assert.NoError(t, d.Validate())
}

func TestReadBasisFallsBackToSlackForUnmentionedRows(t *testing.T) {
	rowNames, colNames, colLower, colUpper, rowLower, rowUpper := twoByTwoNames()
	d, err := mpsio.ReadBasis(strings.NewReader("ENDATA\n"), rowNames, colNames, colLower, colUpper, rowLower, rowUpper)
	require.NoError(t, err)

	n := len(colNames)
	assert.Equal(t, basis.Basic, d.Status(n+0))
	assert.Equal(t, basis.Basic, d.Status(n+1))
	assert.NoError(t, d.Validate())
}

func TestReadBasisRejectsUnknownColumn(t *testing.T) {
	rowNames, colNames, colLower, colUpper, rowLower, rowUpper := twoByTwoNames()
	_, err := mpsio.ReadBasis(strings.NewReader(" XL GHOST R1\nENDATA\n"), rowNames, colNames, colLower, colUpper, rowLower, rowUpper)
	assert.ErrorIs(t, err, mpsio.ErrParse)
}

func TestWriteBasisThenReadBasisRoundTrips(t *testing.T) {
	rowNames, colNames, colLower, colUpper, rowLower, rowUpper := twoByTwoNames()
	n, m := len(colNames), len(rowNames)

	d := basis.NewDescriptor(m, n+m)
	d.SetBasic(0, 0)                       // X1 basic in row R1's slot
	d.SetNonbasic(n+0, basis.POnUpper)      // R1's slack displaced, at upper
	d.SetNonbasic(1, basis.POnUpper)        // X2 nonbasic at upper (overrides default lower)
	d.SetBasic(1, n+1)                      // R2's own slack stays basic

	var buf bytes.Buffer
	require.NoError(t, mpsio.WriteBasis(&buf, d, rowNames, colNames, colLower, colUpper, n, m))
	assert.Contains(t, buf.String(), "ENDATA")

	got, err := mpsio.ReadBasis(&buf, rowNames, colNames, colLower, colUpper, rowLower, rowUpper)
	require.NoError(t, err)

	assert.Equal(t, d.Status(0), got.Status(0))
	assert.Equal(t, d.Status(1), got.Status(1))
	assert.Equal(t, d.Status(n+0), got.Status(n+0))
	assert.Equal(t, d.Status(n+1), got.Status(n+1))
}
