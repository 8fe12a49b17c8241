package price

import "github.com/simplexgo/spx/sparsevec"

// Devex maintains per-variable reference weights and scores candidates by
// violation²/weight (spec.md §4.3). On each pivot it raises the leaving
// variable's weight to (ReferenceNorm/PivotMagnitude)² times the entering
// variable's weight, raises the weight of every position in PivotRow to
// (alpha_j/PivotMagnitude)² times that same weight, and then resets the
// entering variable's weight to 1.
type Devex struct {
	weight []float64
}

// NewDevex returns a Devex pricer with no weights yet; Reset allocates
// them, each set to 1, once the variable count is known.
func NewDevex() *Devex { return &Devex{} }

func (p *Devex) Reset(total int) {
	p.weight = make([]float64, total)
	for i := range p.weight {
		p.weight[i] = 1
	}
}

func (p *Devex) Select(test *sparsevec.Vector, candidates []int, tol float64) (int, bool) {
	return bestOf(candidates, func(j int) float64 {
		mag, ok := violation(test.Value(j), tol)
		if !ok {
			return 0
		}
		return mag * mag / p.weight[j]
	})
}

func (p *Devex) Pivoted(info PivotInfo) {
	gammaQ := p.weight[info.EnterVar]
	ratio := 0.0
	if info.PivotMagnitude != 0 {
		ratio = info.ReferenceNorm / info.PivotMagnitude
	}
	candidate := ratio * ratio * gammaQ
	if candidate > p.weight[info.LeaveVar] {
		p.weight[info.LeaveVar] = candidate
	}
	if info.PivotRow != nil {
		for _, j := range info.PivotRow.Indices() {
			alpha := info.PivotRow.Value(j)
			if alpha == 0 || info.PivotMagnitude == 0 {
				continue
			}
			r := alpha / info.PivotMagnitude
			cand := r * r * gammaQ
			if cand > p.weight[j] {
				p.weight[j] = cand
			}
		}
	}
	p.weight[info.EnterVar] = 1
}

func (p *Devex) Name() string { return "DEVEX" }
