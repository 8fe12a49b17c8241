// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package basis holds the per-variable status descriptor the pivot engine
// mutates every iteration: which of the m+n structural-and-logical
// variables are basic, and which bound side each nonbasic variable sits
// at.
package basis

// Status is the per-variable basis status. The zero value, Basic, marks a
// variable as a member of the current basis; all other values are
// nonbasic and name the bound side (primal view, P_*) or the dual analogue
// used by the row representation (D_*).
type Status int

const (
	// Basic marks a variable as a member of the current basis.
	Basic Status = iota
	// POnLower is a nonbasic variable fixed at its (finite) lower bound.
	POnLower
	// POnUpper is a nonbasic variable fixed at its (finite) upper bound.
	POnUpper
	// PFixed is a nonbasic variable whose lower and upper bound coincide.
	PFixed
	// PFree is a nonbasic free (unbounded both ways) variable, held at 0.
	PFree
	// DOnLower is the dual analogue of POnLower used by the row
	// representation.
	DOnLower
	// DOnUpper is the dual analogue of POnUpper used by the row
	// representation.
	DOnUpper
	// DOnBoth is the dual analogue of PFixed used by the row
	// representation.
	DOnBoth
	// DFree is the dual analogue of PFree used by the row representation.
	DFree
	// DUndefined marks a row-representation dual variable whose status has
	// not yet been assigned (used transiently during basis construction).
	DUndefined
)

// String renders a Status using the spec's mnemonic names.
func (s Status) String() string {
	switch s {
	case Basic:
		return "BASIC"
	case POnLower:
		return "P_ON_LOWER"
	case POnUpper:
		return "P_ON_UPPER"
	case PFixed:
		return "P_FIXED"
	case PFree:
		return "P_FREE"
	case DOnLower:
		return "D_ON_LOWER"
	case DOnUpper:
		return "D_ON_UPPER"
	case DOnBoth:
		return "D_ON_BOTH"
	case DFree:
		return "D_FREE"
	case DUndefined:
		return "D_UNDEFINED"
	default:
		return "UNKNOWN"
	}
}

// IsBasic reports whether s is the Basic status.
func (s Status) IsBasic() bool { return s == Basic }

// IsDual reports whether s is one of the row-representation dual variants.
func (s Status) IsDual() bool { return s >= DOnLower }
