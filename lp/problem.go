// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lp holds the immutable linear-program instance the pivot engine
// consults: a sparse constraint matrix stored both column- and row-wise,
// the objective, and per-column/per-row bounds. Values at or beyond
// Infinity in absolute terms mark an absent bound.
package lp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Infinity is the sentinel magnitude (inclusive) marking an absent bound.
// Any bound b with math.Abs(b) >= Infinity is treated as ±∞.
const Infinity = 1e20

// Sense is the optimization direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// ErrBoundCrossing is returned when a lower bound exceeds its upper bound.
var ErrBoundCrossing = errors.New("lp: lower bound exceeds upper bound")

// ErrShape is returned when input slice/matrix dimensions are inconsistent.
var ErrShape = errors.New("lp: dimension mismatch")

// Problem is an immutable LP instance:
//
//	minimize/maximize  Obj · x
//	subject to         RowLower <= A*x <= RowUpper
//	                    ColLower <=  x  <= ColUpper
//
// A is stored both column-wise (for FTRAN-style column access) and
// row-wise (for dual/row-representation access), each entry appearing in
// both indexes.
type Problem struct {
	numRows, numCols int

	// column-wise (CSC-like): colStart has length numCols+1.
	colStart []int
	colRowIdx []int
	colVal    []float64

	// row-wise (CSR-like) mirror: rowStart has length numRows+1.
	rowStart  []int
	rowColIdx []int
	rowVal    []float64

	Obj      []float64
	ColLower []float64
	ColUpper []float64
	RowLower []float64
	RowUpper []float64
	Sense    Sense

	RowNames []string
	ColNames []string
}

// NumRows returns m, the number of constraint rows.
func (p *Problem) NumRows() int { return p.numRows }

// NumCols returns n, the number of structural columns.
func (p *Problem) NumCols() int { return p.numCols }

// IsInfinite reports whether v represents an absent bound.
func IsInfinite(v float64) bool {
	return v <= -Infinity || v >= Infinity
}

// Column returns, as parallel slices, the row indices and values of the
// nonzero entries of column j. The returned slices alias the Problem's
// internal storage and must not be mutated.
func (p *Problem) Column(j int) (rowIdx []int, val []float64) {
	lo, hi := p.colStart[j], p.colStart[j+1]
	return p.colRowIdx[lo:hi], p.colVal[lo:hi]
}

// Row returns, as parallel slices, the column indices and values of the
// nonzero entries of row i. The returned slices alias the Problem's
// internal storage and must not be mutated.
func (p *Problem) Row(i int) (colIdx []int, val []float64) {
	lo, hi := p.rowStart[i], p.rowStart[i+1]
	return p.rowColIdx[lo:hi], p.rowVal[lo:hi]
}

// NewFromTriplets builds a Problem from a coordinate-format (COO) list of
// nonzero entries plus the objective and bound vectors. rows/cols/vals
// must have equal length; duplicate (row,col) pairs are summed, matching
// the convention of gonum's sparse builders.
func NewFromTriplets(numRows, numCols int, rows, cols []int, vals []float64,
	obj, colLower, colUpper, rowLower, rowUpper []float64, sense Sense) (*Problem, error) {

	if len(rows) != len(cols) || len(cols) != len(vals) {
		return nil, errors.Wrap(ErrShape, "triplet slices")
	}
	if len(obj) != numCols || len(colLower) != numCols || len(colUpper) != numCols {
		return nil, errors.Wrap(ErrShape, "column vectors")
	}
	if len(rowLower) != numRows || len(rowUpper) != numRows {
		return nil, errors.Wrap(ErrShape, "row vectors")
	}
	for j := 0; j < numCols; j++ {
		if colLower[j] > colUpper[j] {
			return nil, errors.Wrapf(ErrBoundCrossing, "column %d", j)
		}
	}
	for i := 0; i < numRows; i++ {
		if rowLower[i] > rowUpper[i] {
			return nil, errors.Wrapf(ErrBoundCrossing, "row %d", i)
		}
	}

	p := &Problem{
		numRows:  numRows,
		numCols:  numCols,
		Obj:      append([]float64(nil), obj...),
		ColLower: append([]float64(nil), colLower...),
		ColUpper: append([]float64(nil), colUpper...),
		RowLower: append([]float64(nil), rowLower...),
		RowUpper: append([]float64(nil), rowUpper...),
		Sense:    sense,
	}

	merged := make(map[[2]int]int, len(vals))
	var mRows, mCols []int
	var mVals []float64
	for k := range vals {
		key := [2]int{rows[k], cols[k]}
		if at, ok := merged[key]; ok {
			mVals[at] += vals[k]
			continue
		}
		merged[key] = len(mVals)
		mRows, mCols, mVals = append(mRows, rows[k]), append(mCols, cols[k]), append(mVals, vals[k])
	}
	rows, cols, vals = mRows, mCols, mVals

	nnz := len(vals)

	colCount := make([]int, numCols+1)
	for _, c := range cols {
		colCount[c+1]++
	}
	for j := 0; j < numCols; j++ {
		colCount[j+1] += colCount[j]
	}
	p.colStart = colCount
	p.colRowIdx = make([]int, nnz)
	p.colVal = make([]float64, nnz)
	fillPos := append([]int(nil), colCount...)
	for k := range vals {
		j := cols[k]
		pos := fillPos[j]
		p.colRowIdx[pos] = rows[k]
		p.colVal[pos] = vals[k]
		fillPos[j]++
	}

	rowCount := make([]int, numRows+1)
	for _, r := range rows {
		rowCount[r+1]++
	}
	for i := 0; i < numRows; i++ {
		rowCount[i+1] += rowCount[i]
	}
	p.rowStart = rowCount
	p.rowColIdx = make([]int, nnz)
	p.rowVal = make([]float64, nnz)
	fillPos = append([]int(nil), rowCount...)
	for k := range vals {
		i := rows[k]
		pos := fillPos[i]
		p.rowColIdx[pos] = cols[k]
		p.rowVal[pos] = vals[k]
		fillPos[i]++
	}

	return p, nil
}

// FromDense builds a Problem from a dense gonum matrix, skipping exact
// zero entries. Useful for tests and for callers migrating from a
// dense-matrix formulation (c.f. gonum's optimize/convex/lp.Simplex, which
// takes A as a mat.Matrix directly).
func FromDense(A mat.Matrix, obj, colLower, colUpper, rowLower, rowUpper []float64, sense Sense) (*Problem, error) {
	m, n := A.Dims()
	var rows, cols []int
	var vals []float64
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if v := A.At(i, j); v != 0 {
				rows = append(rows, i)
				cols = append(cols, j)
				vals = append(vals, v)
			}
		}
	}
	return NewFromTriplets(m, n, rows, cols, vals, obj, colLower, colUpper, rowLower, rowUpper, sense)
}
