// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"time"

	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/price"
	"github.com/simplexgo/spx/ratiotest"
	"github.com/simplexgo/spx/simplex"
	"github.com/simplexgo/spx/spxlog"
	"github.com/simplexgo/spx/start"
)

// ToOptions resolves s's enum selections into the concrete strategy
// objects simplex.Options needs, and carries across every tolerance and
// limit simplex.Options has a field for; FPFeasTol, FPOptTol,
// EpsilonUpdate and PartialPricing have no counterpart there and are not
// carried. log is wired in unmodified (settings has no opinion on where
// log records go; see package spxlog).
//
// Representation (ROW/COLUMN) is settings-only bookkeeping, round-tripped
// through Load/Save so a real SoPlex .set file still parses, but it does
// not gate any strategy here: this port's single Algorithm axis (ENTER
// picks the entering variable first, LEAVE the leaving row) already
// captures the primal/dual duality spec.md §2 describes COLUMN/ROW as
// shorthand for, and ratiotest.BoundFlipping's flips are applied only on
// simplex's own leaveIteration path regardless of this setting (see
// DESIGN.md's C7 ledger entry).
func (s *Settings) ToOptions(log spxlog.Config) simplex.Options {
	return simplex.Options{
		Algorithm:    s.Algorithm,
		Pricer:       s.buildPricer(),
		RatioTester:  s.buildRatioTester(),
		FactorMethod: s.FactorUpdate,
		Starter:      s.buildStarter(),
		Log:          log,
		MaxUpdate:    50,
		FeasTol:      s.FeasTol,
		OptTol:       s.OptTol,
		EpsilonZero:  s.EpsilonZero,
		FactorEpsilon: s.EpsilonFactorization,
		CondTol:      1e12,
		TimeLimit:    time.Duration(s.TimeLimitSeconds * float64(time.Second)),
		IterLimit:    s.IterLimit,
		// HasObjValLimit has no dedicated ".set" key of its own (spec.md §6
		// lists only objval_limit); a finite value is what turns the limit
		// on, matching how Default's 1e20 reads as "no limit".
		HasObjValLimit: !lp.IsInfinite(s.ObjValLimit),
		ObjValLimit:    s.ObjValLimit,
		CycleLimit:     1000,
	}
}

// buildPricer resolves PricerKind to a concrete price.Pricer. AUTO (and
// any range the enum table didn't cover) resolves to Hybrid, matching
// spec.md §9's Open Question #1 resolution recorded in DESIGN.md:
// out-of-range settings are caught earlier by Set's ErrInvalidValue, so by
// the time ToOptions runs, AUTO is the only case left needing a concrete
// default.
func (s *Settings) buildPricer() price.Pricer {
	switch s.PricerKind {
	case Dantzig:
		return price.NewDantzig()
	case ParMult:
		return price.NewPartial(price.NewDantzig(), 64)
	case Devex:
		return price.NewDevex()
	case Steep, SteepQuick:
		return price.NewSteepestEdge()
	case Hybrid:
		return price.NewHybrid()
	default: // Auto
		return price.NewHybrid()
	}
}

// buildRatioTester resolves RatioTester to a concrete ratiotest.Tester,
// with BoundFlipping falling back to Fast per spec.md §4.4.3's own
// fallback contract.
func (s *Settings) buildRatioTester() ratiotest.Tester {
	switch s.RatioTester {
	case Harris:
		return ratiotest.NewHarris()
	case Fast:
		return ratiotest.NewFast()
	case BoundFlipping:
		return ratiotest.NewBoundFlipping(ratiotest.NewFast())
	default: // Textbook
		return ratiotest.NewTextbook()
	}
}

// buildStarter resolves Starter to a concrete start.Starter. VECTOR has no
// approximate solution available from Settings alone (it is supplied by a
// caller, e.g. cmd/spxsolve's warm-start path), so it falls back to
// start.NewOff() here; a caller wanting VECTOR wires start.NewVector
// itself and passes the resulting simplex.Options.Starter directly
// instead of going through ToOptions.
func (s *Settings) buildStarter() start.Starter {
	switch s.Starter {
	case start.Weight:
		return start.NewWeight()
	case start.Sum:
		return start.NewSum()
	default:
		return start.NewOff()
	}
}
