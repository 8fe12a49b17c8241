package price

import "github.com/simplexgo/spx/sparsevec"

// Dantzig is the textbook pricer: it picks the candidate of maximum
// feasibility/optimality violation with no auxiliary weighting, mirroring
// the plain MinIdx(r) scan in gonum's optimize/convex/lp.simplex (before
// the parametric rewrite added Devex-style weights).
type Dantzig struct{}

// NewDantzig returns a Dantzig pricer.
func NewDantzig() *Dantzig { return &Dantzig{} }

func (p *Dantzig) Select(test *sparsevec.Vector, candidates []int, tol float64) (int, bool) {
	return bestOf(candidates, func(j int) float64 {
		mag, ok := violation(test.Value(j), tol)
		if !ok {
			return 0
		}
		return mag
	})
}

func (p *Dantzig) Pivoted(PivotInfo) {}
func (p *Dantzig) Reset(int)         {}
func (p *Dantzig) Name() string      { return "DANTZIG" }
