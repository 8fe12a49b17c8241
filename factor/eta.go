// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factor

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrUpdateSingular is returned when an eta/Forest-Tomlin update vector is
// structurally singular at its pivot position.
var ErrUpdateSingular = errors.New("factor: update vector singular at pivot")

// etaChain represents a sequence of basis-column replacements, applied
// implicitly as the product of rank-one updates to the identity matrix
//
//	E_i = I + (y - e_k) * e_k^T
//
// such that B_current * E_0 * ... * E_[i-1] * y = v_i, the i-th column to
// be inserted at slot k. This is adapted directly from gonum's
// optimize/convex/lp.Swap type (gonum-gonum/optimize/convex/lp/swap.go),
// which is exactly an eta-file update mechanism; it is generalized here to
// back both the Eta and (as a simplified stand-in, see ForestTomlin in
// factorization.go) Forest-Tomlin update strategies named in spec.md §6.
type etaChain struct {
	dim       int
	slot      []int
	cache     []float64
	cond      float64
}

func newEtaChain(dim int) *etaChain {
	return &etaChain{dim: dim}
}

// Append adds eta vector y (pivoting at basis slot k) to the chain and
// folds its contribution into the running condition-number bound.
func (e *etaChain) Append(y []float64, k int) {
	if len(y) != e.dim {
		panic("factor: eta vector has wrong dimension")
	}
	c := etaCond(y, k)
	if e.Len() == 0 {
		e.cond = c
	} else {
		e.cond *= c
	}
	e.slot = append(e.slot, k)
	e.cache = append(e.cache, y...)
}

// Reset empties the chain without releasing its backing capacity.
func (e *etaChain) Reset() {
	e.slot = e.slot[:0]
	e.cache = e.cache[:0]
	e.cond = 0
}

// Len returns the number of eta vectors currently stored.
func (e *etaChain) Len() int {
	if e.dim == 0 {
		return 0
	}
	return len(e.cache) / e.dim
}

// Cond returns the running upper bound on the chain's condition number.
// Panics if the chain is empty, matching gonum's Swap.Cond.
func (e *etaChain) Cond() float64 {
	if e.Len() == 0 {
		panic("factor: eta chain is empty")
	}
	return e.cond
}

// SolveVec solves the system defined by the eta chain:
//
//	E_0 * ... * E_i * x = b              if trans == false (FTRAN leg)
//	E_i^T * ... * E_0^T * x = b          if trans == true  (BTRAN leg)
//
// via sequential Sherman-Morrison updates, exactly as gonum's Swap.SolveVec
// does. dst may alias b.
func (e *etaChain) SolveVec(dst *mat.VecDense, trans bool, b *mat.VecDense) error {
	n := e.dim
	if b.Len() != n {
		panic(mat.ErrShape)
	}
	if dst != b {
		dst.CopyVec(b)
	}

	m := e.Len()
	if !trans {
		for i := 0; i < m; i++ {
			k := e.slot[i]
			y := e.cache[i*n : (i+1)*n]
			a := y[k]
			if a == 0 {
				return ErrUpdateSingular
			}
			vk := dst.AtVec(k) / a
			yVec := mat.NewVecDense(n, y)
			dst.AddScaledVec(dst, -vk, yVec)
			dst.SetVec(k, vk)
		}
	} else {
		for i := m - 1; i >= 0; i-- {
			k := e.slot[i]
			y := e.cache[i*n : (i+1)*n]
			a := y[k]
			if a == 0 {
				return ErrUpdateSingular
			}
			yVec := mat.NewVecDense(n, y)
			vk := dst.AtVec(k)
			dst.SetVec(k, vk-(mat.Dot(yVec, dst)-vk)/a)
		}
	}
	return nil
}

func exclusiveAbsMax(y []float64, k int) float64 {
	n := len(y)
	switch {
	case k > 0 && k < n-1:
		return math.Max(floats.Norm(y[:k], math.Inf(1)), floats.Norm(y[k+1:], math.Inf(1)))
	case k == 0:
		return floats.Norm(y[1:], math.Inf(1))
	default:
		return floats.Norm(y[:n-1], math.Inf(1))
	}
}

// etaCond computes the condition number (infinity norm) of the rank-one
// update matrix E = I + (y - e_k) e_k^T, matching gonum's Swap's 'I'-norm
// branch of its cond helper.
func etaCond(y []float64, k int) float64 {
	yk := math.Abs(y[k])
	if yk == 0 {
		return math.Inf(1)
	}
	beta := 1 / yk
	ymax := exclusiveAbsMax(y, k)
	normA := math.Max(1+ymax, yk)
	normAInv := math.Max(1+beta*ymax, beta)
	return normA * normAInv
}
