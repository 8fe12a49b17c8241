// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparsevec implements the dense-with-delta vector kernels the
// pivot engine uses for pricing and basic-solution bookkeeping: a dense
// backing array paired with an indexed list of "touched" positions so that
// a pivot only needs to walk the handful of entries it actually changed,
// not the whole vector.
package sparsevec

import "gonum.org/v1/gonum/floats"

// Vector is a dense array of length N paired with a delta: an index list
// of positions touched since the last Setup or Clear. The delta is always
// a superset of the positions whose value differs from zero; callers must
// tolerate structural zeros when iterating it.
type Vector struct {
	dense  []float64
	idx    []int
	inIdx  []bool // inIdx[i] reports whether i is currently present in idx
}

// NewVector returns a zeroed Vector of length n with an empty delta.
func NewVector(n int) *Vector {
	return &Vector{
		dense: make([]float64, n),
		idx:   make([]int, 0, n),
		inIdx: make([]bool, n),
	}
}

// Len returns the dimension N of the vector.
func (v *Vector) Len() int { return len(v.dense) }

// Size returns the number of entries currently in the delta.
func (v *Vector) Size() int { return len(v.idx) }

// Value returns the dense value at position i.
func (v *Vector) Value(i int) float64 { return v.dense[i] }

// Indices returns the delta's index list. The slice is owned by the
// Vector; callers must not retain it across a mutating call.
func (v *Vector) Indices() []int { return v.idx }

// Values returns the dense values at the positions returned by Indices,
// in parallel order.
func (v *Vector) Values() []float64 {
	out := make([]float64, len(v.idx))
	for k, i := range v.idx {
		out[k] = v.dense[i]
	}
	return out
}

// touch records i as present in the delta, if it is not already.
func (v *Vector) touch(i int) {
	if !v.inIdx[i] {
		v.inIdx[i] = true
		v.idx = append(v.idx, i)
	}
}

// SetValue assigns x to position i and marks i as touched.
func (v *Vector) SetValue(i int, x float64) {
	v.dense[i] = x
	v.touch(i)
}

// ClearIdx removes i from the delta and zeroes its dense value. It is a
// no-op if i is not currently in the delta.
func (v *Vector) ClearIdx(i int) {
	if !v.inIdx[i] {
		return
	}
	v.dense[i] = 0
	v.inIdx[i] = false
	for k, j := range v.idx {
		if j == i {
			last := len(v.idx) - 1
			v.idx[k] = v.idx[last]
			v.idx = v.idx[:last]
			break
		}
	}
}

// Clear resets the vector to all zero with an empty delta.
func (v *Vector) Clear() {
	for _, i := range v.idx {
		v.dense[i] = 0
		v.inIdx[i] = false
	}
	v.idx = v.idx[:0]
}

// Setup rebuilds the delta by scanning the full dense array for nonzero
// entries, discarding any stale structural-zero indices. Expected to be
// called after a sequence of operations (e.g. MultAdd chains) that may
// have left the delta looser than necessary.
func (v *Vector) Setup() {
	for _, i := range v.idx {
		v.inIdx[i] = false
	}
	v.idx = v.idx[:0]
	for i, x := range v.dense {
		if x != 0 {
			v.inIdx[i] = true
			v.idx = append(v.idx, i)
		}
	}
}

// MultAdd accumulates alpha*other into the receiver's dense array,
// touching every index other has nonzero delta entries at.
func (v *Vector) MultAdd(alpha float64, other *Vector) {
	if alpha == 0 {
		return
	}
	for _, i := range other.idx {
		x := other.dense[i]
		if x == 0 {
			continue
		}
		v.dense[i] += alpha * x
		v.touch(i)
	}
}

// Dot returns the dense inner product of the receiver and other, scanning
// only the shorter of the two deltas.
func (v *Vector) Dot(other *Vector) float64 {
	scan, probe := v, other
	if len(probe.idx) < len(scan.idx) {
		scan, probe = probe, scan
	}
	var sum float64
	for _, i := range scan.idx {
		sum += scan.dense[i] * probe.dense[i]
	}
	return sum
}

// CopyFrom overwrites the receiver's dense array and delta with other's,
// giving the receiver its own index slice (no aliasing between vectors).
func (v *Vector) CopyFrom(other *Vector) {
	if len(v.dense) != len(other.dense) {
		v.dense = make([]float64, len(other.dense))
		v.inIdx = make([]bool, len(other.dense))
	} else {
		v.Clear()
	}
	copy(v.dense, other.dense)
	v.idx = append(v.idx[:0], other.idx...)
	for _, i := range v.idx {
		v.inIdx[i] = true
	}
}

// Norm2 returns the Euclidean norm of the dense values touched by the
// delta (an upper bound on the true norm if the delta holds stale zeros).
func (v *Vector) Norm2() float64 {
	return floats.Norm(v.Values(), 2)
}
