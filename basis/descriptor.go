package basis

import "github.com/pkg/errors"

// ErrBadBasisSize is returned when a descriptor's basic-slot count does
// not equal m at a point where that invariant is checked.
var ErrBadBasisSize = errors.New("basis: wrong number of basic variables")

// Descriptor holds the status of every one of the m+n structural and
// logical variables, plus the assignment of basic variables to basis
// slots (the column order the factorization consults).
type Descriptor struct {
	m, total int

	status []Status
	slotOf []int // slotOf[idx]: basis slot of idx if basic, else -1
	varOf  []int // varOf[slot]: variable index occupying that basis slot
}

// NewDescriptor allocates a descriptor for m basis slots and total
// (m+n) variables. All variables start nonbasic at PFree; callers
// (typically a Starter) populate the real initial status.
func NewDescriptor(m, total int) *Descriptor {
	d := &Descriptor{
		m:      m,
		total:  total,
		status: make([]Status, total),
		slotOf: make([]int, total),
		varOf:  make([]int, m),
	}
	for i := range d.status {
		d.status[i] = PFree
		d.slotOf[i] = -1
	}
	for i := range d.varOf {
		d.varOf[i] = -1
	}
	return d
}

// M returns the required number of basic variables.
func (d *Descriptor) M() int { return d.m }

// Total returns m+n, the number of structural+logical variables.
func (d *Descriptor) Total() int { return d.total }

// Status returns the status of variable idx.
func (d *Descriptor) Status(idx int) Status { return d.status[idx] }

// SlotOf returns the basis slot of variable idx, or -1 if it is nonbasic.
func (d *Descriptor) SlotOf(idx int) int { return d.slotOf[idx] }

// VarAt returns the variable index currently occupying basis slot k.
func (d *Descriptor) VarAt(k int) int { return d.varOf[k] }

// SetNonbasic marks idx nonbasic with status s (must not be Basic),
// vacating any basis slot it previously held.
func (d *Descriptor) SetNonbasic(idx int, s Status) {
	if s == Basic {
		panic("basis: SetNonbasic called with Basic status")
	}
	if slot := d.slotOf[idx]; slot >= 0 {
		d.varOf[slot] = -1
		d.slotOf[idx] = -1
	}
	d.status[idx] = s
}

// SetBasic assigns variable idx to basis slot k, vacating whatever
// variable previously occupied that slot (the caller is responsible for
// giving the displaced variable a nonbasic status via SetNonbasic).
func (d *Descriptor) SetBasic(k, idx int) {
	if prev := d.varOf[k]; prev >= 0 && prev != idx {
		d.slotOf[prev] = -1
	}
	d.varOf[k] = idx
	d.slotOf[idx] = k
	d.status[idx] = Basic
}

// Pivot swaps the basis membership of the variable leaving slot k with
// entering variable idx, setting the leaving variable's nonbasic status
// to leaveStatus. It is the single mutation C7 performs per iteration.
func (d *Descriptor) Pivot(k, leaveVar, enterVar int, leaveStatus Status) {
	d.SetNonbasic(leaveVar, leaveStatus)
	d.SetBasic(k, enterVar)
}

// NumBasic returns the number of variables currently marked Basic.
func (d *Descriptor) NumBasic() int {
	n := 0
	for _, v := range d.varOf {
		if v >= 0 {
			n++
		}
	}
	return n
}

// Validate checks the §3 invariant that exactly m variables are basic and
// that the slot/status bookkeeping is mutually consistent.
func (d *Descriptor) Validate() error {
	if d.NumBasic() != d.m {
		return errors.Wrapf(ErrBadBasisSize, "got %d want %d", d.NumBasic(), d.m)
	}
	for idx, slot := range d.slotOf {
		if slot < 0 {
			continue
		}
		if d.varOf[slot] != idx {
			return errors.Errorf("basis: slot %d claims var %d but var %d claims slot %d", slot, d.varOf[slot], idx, slot)
		}
		if d.status[idx] != Basic {
			return errors.Errorf("basis: var %d occupies slot %d but status is %s", idx, slot, d.status[idx])
		}
	}
	return nil
}
