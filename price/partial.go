package price

import "github.com/simplexgo/spx/sparsevec"

// Partial wraps another Pricer and restricts it, per iteration, to a
// rotating window of the candidate set (spec.md §4.3's partial pricing).
// The window advances across the full set every call so that, across
// enough iterations, every candidate is eventually scanned — the
// "guaranteeing progress" property spec.md names. If a window comes up
// empty the full candidate set is scanned as a fallback, so partial
// pricing never misuses an empty window as a false optimality signal.
type Partial struct {
	inner  Pricer
	window int
	start  int
}

// NewPartial wraps inner, scanning windowSize candidates at a time.
func NewPartial(inner Pricer, windowSize int) *Partial {
	return &Partial{inner: inner, window: windowSize}
}

func (p *Partial) Reset(total int) {
	p.inner.Reset(total)
	p.start = 0
}

func (p *Partial) Select(test *sparsevec.Vector, candidates []int, tol float64) (int, bool) {
	if len(candidates) <= p.window {
		return p.inner.Select(test, candidates, tol)
	}

	slice := rotatingWindow(candidates, p.start, p.window)
	p.start = (p.start + p.window) % len(candidates)

	if idx, found := p.inner.Select(test, slice, tol); found {
		return idx, true
	}
	return p.inner.Select(test, candidates, tol)
}

func (p *Partial) Pivoted(info PivotInfo) { p.inner.Pivoted(info) }
func (p *Partial) Name() string           { return "PARMULT" }

func rotatingWindow(candidates []int, start, size int) []int {
	n := len(candidates)
	if size > n {
		size = n
	}
	out := make([]int, size)
	for i := 0; i < size; i++ {
		out[i] = candidates[(start+i)%n]
	}
	return out
}
