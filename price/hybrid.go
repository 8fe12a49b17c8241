package price

import "github.com/simplexgo/spx/sparsevec"

// Hybrid runs SteepestEdge until the first NotifyRefactor call, then
// uses Devex for the rest of the solve (spec.md §4.3). The switch happens
// on that call alone; Hybrid does not inspect the steepest-edge weights
// before switching.
type Hybrid struct {
	steep      *SteepestEdge
	devex      *Devex
	refactored bool
}

// NewHybrid returns a Hybrid pricer; call Reset once the variable count
// is known.
func NewHybrid() *Hybrid {
	return &Hybrid{steep: NewSteepestEdge(), devex: NewDevex()}
}

func (p *Hybrid) Reset(total int) {
	p.steep.Reset(total)
	p.devex.Reset(total)
	p.refactored = false
}

// NotifyRefactor tells the pricer a factorization refactor just happened.
// The simplex driver calls this via the optional RefactorNotifiable
// interface; Hybrid is the only strategy that cares.
func (p *Hybrid) NotifyRefactor() {
	p.refactored = true
}

func (p *Hybrid) active() Pricer {
	if p.refactored {
		return p.devex
	}
	return p.steep
}

func (p *Hybrid) Select(test *sparsevec.Vector, candidates []int, tol float64) (int, bool) {
	return p.active().Select(test, candidates, tol)
}

func (p *Hybrid) Pivoted(info PivotInfo) {
	p.steep.Pivoted(info)
	p.devex.Pivoted(info)
}

func (p *Hybrid) Name() string { return "HYBRID" }

// RefactorNotifiable is implemented by pricers whose strategy depends on
// how many refactorizations have happened so far.
type RefactorNotifiable interface {
	NotifyRefactor()
}
