package price

import "github.com/simplexgo/spx/sparsevec"

// SteepestEdge maintains exact-ish weights gamma_j = ‖B⁻¹ A_j‖² + 1 and
// scores candidates by violation²/gamma_j, refreshing gamma after each
// pivot from the outgoing row's coefficients, per spec.md §4.3.
type SteepestEdge struct {
	gamma []float64
}

// NewSteepestEdge returns a SteepestEdge pricer; call Reset once the
// variable count is known.
func NewSteepestEdge() *SteepestEdge { return &SteepestEdge{} }

func (p *SteepestEdge) Reset(total int) {
	p.gamma = make([]float64, total)
	for i := range p.gamma {
		p.gamma[i] = 1
	}
}

func (p *SteepestEdge) Select(test *sparsevec.Vector, candidates []int, tol float64) (int, bool) {
	return bestOf(candidates, func(j int) float64 {
		mag, ok := violation(test.Value(j), tol)
		if !ok {
			return 0
		}
		return mag * mag / p.gamma[j]
	})
}

func (p *SteepestEdge) Pivoted(info PivotInfo) {
	gammaQ := p.gamma[info.EnterVar]
	if info.PivotRow != nil && info.PivotMagnitude != 0 {
		for _, j := range info.PivotRow.Indices() {
			alpha := info.PivotRow.Value(j)
			if alpha == 0 {
				continue
			}
			r := alpha / info.PivotMagnitude
			updated := p.gamma[j] - 2*r*alpha + r*r*gammaQ
			if updated < 1 {
				updated = 1
			}
			p.gamma[j] = updated
		}
	}
	newGamma := gammaQ / (info.PivotMagnitude * info.PivotMagnitude)
	if info.PivotMagnitude == 0 {
		newGamma = 1
	}
	if newGamma < 1 {
		newGamma = 1
	}
	p.gamma[info.LeaveVar] = newGamma
	p.gamma[info.EnterVar] = 1
}

func (p *SteepestEdge) Name() string { return "STEEP" }
