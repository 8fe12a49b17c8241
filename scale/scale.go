// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scale implements row/column scaling (C11): computing scale
// factors so that the pivot engine works against a numerically better
// conditioned LP, then unwinding those factors on the reported solution.
// The equilibration pass is grounded on spxequilisc.h's row-then-column
// max-abs-to-one scaling; BIEQUI, GEO1 and GEO8 generalize it per
// spec.md §6's four-way scaler option.
package scale

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/simplexgo/spx/lp"
)

// Method selects a scaling strategy.
type Method int

const (
	// Off applies no scaling; RowScale and ColScale are all 1.
	Off Method = iota
	// UniEqui performs one row-then-column equilibration pass so every
	// scaled row and column's largest magnitude entry is 1.
	UniEqui
	// BiEqui alternates row and column equilibration passes until they
	// stop changing materially or a pass cap is reached.
	BiEqui
	// Geo1 scales every row and column by the reciprocal geometric mean
	// of its entries' min and max absolute value.
	Geo1
	// Geo8 is Geo1 with scale factors rounded to the nearest power of 2,
	// a no-cost-to-undo-exactly refinement preserved from the original
	// SPxEquiliSC/GEO8 behavior.
	Geo8
)

func (m Method) String() string {
	switch m {
	case UniEqui:
		return "UNIEQUI"
	case BiEqui:
		return "BIEQUI"
	case Geo1:
		return "GEO1"
	case Geo8:
		return "GEO8"
	default:
		return "OFF"
	}
}

// maxBiEquiPasses bounds BIEQUI's alternating row/column sweeps.
const maxBiEquiPasses = 20

// Scaler holds the row and column scale factors computed by Scale, so a
// caller can unscale a reported solution, duals or ray certificate back
// into the original problem's units.
type Scaler struct {
	Method   Method
	RowScale []float64
	ColScale []float64
}

// Scale computes row/column scale factors for prob under method and
// returns a new, scaled Problem: row i's bounds are multiplied by
// RowScale[i], column j's bounds divided by ColScale[j] and its objective
// coefficient multiplied by ColScale[j], and every matrix entry a_ij
// scaled to RowScale[i]*a_ij*ColScale[j].
func Scale(prob *lp.Problem, method Method) (*lp.Problem, *Scaler, error) {
	m, n := prob.NumRows(), prob.NumCols()
	s := &Scaler{
		Method:   method,
		RowScale: ones(m),
		ColScale: ones(n),
	}
	if method == Off {
		return prob, s, nil
	}

	switch method {
	case UniEqui:
		equilibrateRows(prob, s.RowScale)
		equilibrateCols(prob, s.RowScale, s.ColScale)
	case BiEqui:
		for pass := 0; pass < maxBiEquiPasses; pass++ {
			rowBefore := append([]float64(nil), s.RowScale...)
			equilibrateRows(prob, s.RowScale)
			equilibrateCols(prob, s.RowScale, s.ColScale)
			if floats.EqualApprox(rowBefore, s.RowScale, 1e-6) {
				break
			}
		}
	case Geo1, Geo8:
		geometricScale(prob, s.RowScale, s.ColScale, method == Geo8)
	}

	scaled, err := rebuild(prob, s.RowScale, s.ColScale)
	if err != nil {
		return nil, nil, err
	}
	return scaled, s, nil
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// equilibrateRows sets RowScale[i] to 1/maxabs(row i), so the largest
// magnitude entry in every scaled row becomes 1.
func equilibrateRows(prob *lp.Problem, rowScale []float64) {
	for i := 0; i < prob.NumRows(); i++ {
		_, val := prob.Row(i)
		if max := maxAbs(val); max > 0 {
			rowScale[i] = 1 / max
		}
	}
}

// equilibrateCols sets ColScale[j] to 1/maxabs(scaled column j), given the
// current row scale, so the largest magnitude entry in every scaled
// column becomes 1 too.
func equilibrateCols(prob *lp.Problem, rowScale, colScale []float64) {
	for j := 0; j < prob.NumCols(); j++ {
		rowIdx, val := prob.Column(j)
		var max float64
		for t, r := range rowIdx {
			if a := math.Abs(val[t] * rowScale[r]); a > max {
				max = a
			}
		}
		if max > 0 {
			colScale[j] = 1 / max
		}
	}
}

// geometricScale sets every row/column's scale to the reciprocal
// geometric mean of its min and max absolute nonzero entry, optionally
// rounded to the nearest power of 2 for GEO8.
func geometricScale(prob *lp.Problem, rowScale, colScale []float64, pow2 bool) {
	for i := 0; i < prob.NumRows(); i++ {
		_, val := prob.Row(i)
		if lo, hi := minMaxAbs(val); hi > 0 {
			rowScale[i] = geoFactor(lo, hi, pow2)
		}
	}
	for j := 0; j < prob.NumCols(); j++ {
		rowIdx, val := prob.Column(j)
		scaled := make([]float64, len(val))
		for t, r := range rowIdx {
			scaled[t] = val[t] * rowScale[r]
		}
		if lo, hi := minMaxAbs(scaled); hi > 0 {
			colScale[j] = geoFactor(lo, hi, pow2)
		}
	}
}

func geoFactor(lo, hi float64, pow2 bool) float64 {
	factor := 1 / math.Sqrt(lo*hi)
	if pow2 {
		factor = math.Exp2(math.Round(math.Log2(factor)))
	}
	return factor
}

func maxAbs(val []float64) float64 {
	var max float64
	for _, v := range val {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

func minMaxAbs(val []float64) (lo, hi float64) {
	for _, v := range val {
		a := math.Abs(v)
		if a == 0 {
			continue
		}
		if hi == 0 || a > hi {
			hi = a
		}
		if lo == 0 || a < lo {
			lo = a
		}
	}
	return lo, hi
}

// rebuild constructs the scaled Problem: A' = diag(rowScale)*A*diag(colScale),
// bounds and objective rescaled to match.
func rebuild(prob *lp.Problem, rowScale, colScale []float64) (*lp.Problem, error) {
	m, n := prob.NumRows(), prob.NumCols()

	var rows, cols []int
	var vals []float64
	for j := 0; j < n; j++ {
		rowIdx, val := prob.Column(j)
		for t, r := range rowIdx {
			rows = append(rows, r)
			cols = append(cols, j)
			vals = append(vals, val[t]*rowScale[r]*colScale[j])
		}
	}

	obj := make([]float64, n)
	colLower := make([]float64, n)
	colUpper := make([]float64, n)
	for j := 0; j < n; j++ {
		obj[j] = prob.Obj[j] * colScale[j]
		colLower[j] = unscaleColBound(prob.ColLower[j], colScale[j])
		colUpper[j] = unscaleColBound(prob.ColUpper[j], colScale[j])
	}

	rowLower := make([]float64, m)
	rowUpper := make([]float64, m)
	for i := 0; i < m; i++ {
		rowLower[i] = scaleRowBound(prob.RowLower[i], rowScale[i])
		rowUpper[i] = scaleRowBound(prob.RowUpper[i], rowScale[i])
	}

	return lp.NewFromTriplets(m, n, rows, cols, vals, obj, colLower, colUpper, rowLower, rowUpper, prob.Sense)
}

func unscaleColBound(b, colScale float64) float64 {
	if lp.IsInfinite(b) {
		return b
	}
	return b / colScale
}

func scaleRowBound(b, rowScale float64) float64 {
	if lp.IsInfinite(b) {
		return b
	}
	return b * rowScale
}

// UnscaleX maps a solution vector computed against the scaled problem
// back to the original problem's units: x_j = x'_j * ColScale[j].
func (s *Scaler) UnscaleX(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		if j < len(s.ColScale) {
			out[j] = v * s.ColScale[j]
		} else {
			out[j] = v
		}
	}
	return out
}

// UnscaleY maps dual prices computed against the scaled problem back to
// the original problem's units: y_i = y'_i * RowScale[i].
func (s *Scaler) UnscaleY(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		if i < len(s.RowScale) {
			out[i] = v * s.RowScale[i]
		} else {
			out[i] = v
		}
	}
	return out
}
