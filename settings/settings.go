// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package settings holds the pivot engine's persisted, user-facing option
// surface (C8): the typed struct backing every option spec.md §6 names
// (algorithm, representation, factor_update, pricer, ratiotester, scaler,
// starter, simplifier, tolerances, limits, partial_pricing, objsense), a
// key=value ".set" text-format loader/saver mirroring SoPlex's
// default.set/soplex.set, and a pflag.FlagSet binding so the same option
// names work as --flag=value CLI overrides, per spec.md §9's design note
// ("global logging singleton/back-pointer" notwithstanding -- this package
// is the re-architected home for the option table soplexmain.cpp used to
// parse inline).
package settings

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/simplexgo/spx/factor"
	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/ratiotest"
	"github.com/simplexgo/spx/scale"
	"github.com/simplexgo/spx/simplex"
	"github.com/simplexgo/spx/start"
)

// ErrUnknownOption is returned for a key not in the recognized option set
// (spec.md §7's "Input: unknown option" error kind).
var ErrUnknownOption = errors.New("settings: unknown option")

// ErrInvalidValue is returned when a recognized option's value is out of
// its valid range or an unparseable enum name.
var ErrInvalidValue = errors.New("settings: invalid value")

// Algorithm mirrors simplex.Algorithm at the settings layer so this
// package doesn't have to import simplex's unexported state machine.
type Algorithm = simplex.Algorithm

// Representation selects which side of the problem the pivot engine
// prices against: COLUMN runs primal simplex over structural variables,
// ROW runs dual simplex over rows (spec.md §6's "representation" option).
// It is kept and round-tripped by Load/Save, but ToOptions does not use
// it: Algorithm alone selects ENTER or LEAVE.
type Representation int

const (
	Column Representation = iota
	Row
)

func (r Representation) String() string {
	if r == Row {
		return "ROW"
	}
	return "COLUMN"
}

// Pricer names one of spec.md §6's seven pricer option values. AUTO lets
// ToOptions pick a strategy (Hybrid) rather than a caller having to know one.
type Pricer int

const (
	Dantzig Pricer = iota
	ParMult
	Devex
	Hybrid
	Steep
	SteepQuick
	Auto
)

var pricerNames = map[Pricer]string{
	Dantzig: "DANTZIG", ParMult: "PARMULT", Devex: "DEVEX", Hybrid: "HYBRID",
	Steep: "STEEP", SteepQuick: "STEEP_QUICK", Auto: "AUTO",
}

func (p Pricer) String() string {
	if n, ok := pricerNames[p]; ok {
		return n
	}
	return "AUTO"
}

// RatioTester names one of spec.md §6's four ratiotester option values.
type RatioTester int

const (
	Textbook RatioTester = iota
	Harris
	Fast
	BoundFlipping
)

var ratioTesterNames = map[RatioTester]string{
	Textbook: "TEXTBOOK", Harris: "HARRIS", Fast: "FAST", BoundFlipping: "BOUNDFLIPPING",
}

func (r RatioTester) String() string {
	if n, ok := ratioTesterNames[r]; ok {
		return n
	}
	return "TEXTBOOK"
}

// Scaler names one of spec.md §6's five scaler option values, matching
// package scale's Method one-to-one.
type Scaler = scale.Method

// Starter names one of spec.md §6's four starter option values, matching
// package start's Method one-to-one.
type Starter = start.Method

// Simplifier names spec.md §6's two-value simplifier option. The
// simplifier itself is explicitly out of scope (spec.md §1's "presolve/
// simplification" exclusion); this setting exists only so a ".set" file
// produced by a real SoPlex run round-trips through Load/Save without
// ErrUnknownOption.
type Simplifier int

const (
	SimplifierOff Simplifier = iota
	SimplifierMain
)

func (s Simplifier) String() string {
	if s == SimplifierMain {
		return "MAIN"
	}
	return "OFF"
}

// FactorUpdate names spec.md §6's two-value factor_update option,
// matching package factor's UpdateMethod one-to-one.
type FactorUpdate = factor.UpdateMethod

// Settings is the complete, typed option surface spec.md §6 names. The
// zero value is not meaningful; use Default.
type Settings struct {
	Algorithm      Algorithm
	Representation Representation
	FactorUpdate   FactorUpdate
	PricerKind     Pricer
	RatioTester    RatioTester
	Scaler         Scaler
	Starter        Starter
	Simplifier     Simplifier

	FeasTol, OptTol       float64
	FPFeasTol, FPOptTol   float64
	EpsilonZero           float64
	EpsilonFactorization  float64
	EpsilonUpdate         float64
	TimeLimitSeconds      float64
	IterLimit             int
	ObjValLimit           float64
	PartialPricing        bool
	ObjSense              lp.Sense
}

// Default returns Settings tuned the way SoPlex ships its own defaults
// (per soplexmain.cpp's printUsage: LEAVE algorithm, COLUMN
// representation, Forest-Tomlin update, Steep pricer, Fast ratio tester).
func Default() Settings {
	return Settings{
		Algorithm:            simplex.Leave,
		Representation:       Column,
		FactorUpdate:         factor.ForestTomlin,
		PricerKind:           Steep,
		RatioTester:          Fast,
		Scaler:               scale.BiEqui,
		Starter:              start.Off,
		Simplifier:           SimplifierMain,
		FeasTol:              1e-6,
		OptTol:               1e-6,
		FPFeasTol:            1e-9,
		FPOptTol:             1e-9,
		EpsilonZero:          1e-16,
		EpsilonFactorization: 1e-20,
		EpsilonUpdate:        1e-16,
		TimeLimitSeconds:     0,
		IterLimit:            -1,
		ObjValLimit:          1e20,
		PartialPricing:       false,
		ObjSense:             lp.Minimize,
	}
}

// field describes one recognized "key=value" option for both Load/Save and
// flag binding, keeping the option table in one place instead of
// duplicating key names across three code paths.
type field struct {
	key string
	get func(*Settings) string
	set func(*Settings, string) error
}

func fields(s *Settings) []field {
	return []field{
		{"algorithm", func(s *Settings) string { return s.Algorithm.String() },
			func(s *Settings, v string) error { return setEnum(v, map[string]Algorithm{"ENTER": simplex.Enter, "LEAVE": simplex.Leave}, &s.Algorithm) }},
		{"representation", func(s *Settings) string { return s.Representation.String() },
			func(s *Settings, v string) error { return setEnum(v, map[string]Representation{"COLUMN": Column, "ROW": Row}, &s.Representation) }},
		{"factor_update", func(s *Settings) string { return s.FactorUpdate.String() },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]FactorUpdate{"ETA": factor.Eta, "FOREST_TOMLIN": factor.ForestTomlin}, &s.FactorUpdate)
			}},
		{"pricer", func(s *Settings) string { return s.PricerKind.String() },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]Pricer{
					"DANTZIG": Dantzig, "PARMULT": ParMult, "DEVEX": Devex, "HYBRID": Hybrid,
					"STEEP": Steep, "STEEP_QUICK": SteepQuick, "AUTO": Auto,
				}, &s.PricerKind)
			}},
		{"ratiotester", func(s *Settings) string { return s.RatioTester.String() },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]RatioTester{
					"TEXTBOOK": Textbook, "HARRIS": Harris, "FAST": Fast, "BOUNDFLIPPING": BoundFlipping,
				}, &s.RatioTester)
			}},
		{"scaler", func(s *Settings) string { return s.Scaler.String() },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]Scaler{
					"OFF": scale.Off, "UNIEQUI": scale.UniEqui, "BIEQUI": scale.BiEqui,
					"GEO1": scale.Geo1, "GEO8": scale.Geo8,
				}, &s.Scaler)
			}},
		{"starter", func(s *Settings) string { return s.Starter.String() },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]Starter{
					"OFF": start.Off, "WEIGHT": start.Weight, "SUM": start.Sum, "VECTOR": start.Vector,
				}, &s.Starter)
			}},
		{"simplifier", func(s *Settings) string { return s.Simplifier.String() },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]Simplifier{"OFF": SimplifierOff, "MAIN": SimplifierMain}, &s.Simplifier)
			}},
		{"feastol", func(s *Settings) string { return fmtFloat(s.FeasTol) }, floatSetter(&s.FeasTol)},
		{"opttol", func(s *Settings) string { return fmtFloat(s.OptTol) }, floatSetter(&s.OptTol)},
		{"fp_feastol", func(s *Settings) string { return fmtFloat(s.FPFeasTol) }, floatSetter(&s.FPFeasTol)},
		{"fp_opttol", func(s *Settings) string { return fmtFloat(s.FPOptTol) }, floatSetter(&s.FPOptTol)},
		{"epsilon_zero", func(s *Settings) string { return fmtFloat(s.EpsilonZero) }, floatSetter(&s.EpsilonZero)},
		{"epsilon_factorization", func(s *Settings) string { return fmtFloat(s.EpsilonFactorization) }, floatSetter(&s.EpsilonFactorization)},
		{"epsilon_update", func(s *Settings) string { return fmtFloat(s.EpsilonUpdate) }, floatSetter(&s.EpsilonUpdate)},
		{"time_limit", func(s *Settings) string { return fmtFloat(s.TimeLimitSeconds) }, floatSetter(&s.TimeLimitSeconds)},
		{"iter_limit", func(s *Settings) string { return strconv.Itoa(s.IterLimit) }, intSetter(&s.IterLimit)},
		{"objval_limit", func(s *Settings) string { return fmtFloat(s.ObjValLimit) }, floatSetter(&s.ObjValLimit)},
		{"partial_pricing", func(s *Settings) string { return strconv.FormatBool(s.PartialPricing) }, boolSetter(&s.PartialPricing)},
		{"objsense", func(s *Settings) string { return objSenseName(s.ObjSense) },
			func(s *Settings, v string) error {
				return setEnum(v, map[string]lp.Sense{"MINIMIZE": lp.Minimize, "MAXIMIZE": lp.Maximize}, &s.ObjSense)
			}},
	}
}

func objSenseName(sense lp.Sense) string {
	if sense == lp.Maximize {
		return "MAXIMIZE"
	}
	return "MINIMIZE"
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func floatSetter(dst *float64) func(*Settings, string) error {
	return func(_ *Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalidValue, "%q: %v", v, err)
		}
		*dst = f
		return nil
	}
}

func intSetter(dst *int) func(*Settings, string) error {
	return func(_ *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidValue, "%q: %v", v, err)
		}
		*dst = n
		return nil
	}
}

func boolSetter(dst *bool) func(*Settings, string) error {
	return func(_ *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidValue, "%q: %v", v, err)
		}
		*dst = b
		return nil
	}
}

func setEnum[T ~int](v string, names map[string]T, dst *T) error {
	if t, ok := names[strings.ToUpper(v)]; ok {
		*dst = t
		return nil
	}
	return errors.Wrapf(ErrInvalidValue, "%q", v)
}

// Set assigns the named option's value, returning ErrUnknownOption if key
// is not one of the recognized names and ErrInvalidValue if value cannot
// be parsed into that option's type.
func (s *Settings) Set(key, value string) error {
	for _, f := range fields(s) {
		if f.key == key {
			return f.set(s, value)
		}
	}
	return errors.Wrapf(ErrUnknownOption, "%q", key)
}

// Load reads a "key=value" ".set" file (SoPlex's default.set/soplex.set
// format) into s, skipping blank lines and lines starting with '#'.
func (s *Settings) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		k, v, ok := strings.Cut(text, "=")
		if !ok {
			return errors.Errorf("settings: line %d: missing '='", line)
		}
		if err := s.Set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return sc.Err()
}

// LoadFile opens path and calls Load.
func (s *Settings) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "settings: open")
	}
	defer f.Close()
	return s.Load(f)
}

// Save writes every recognized option as a "key=value" line, in a stable
// (sorted) order so repeated Saves of an unchanged Settings byte-match.
func (s *Settings) Save(w io.Writer) error {
	fs := fields(s)
	sort.Slice(fs, func(i, j int) bool { return fs[i].key < fs[j].key })
	for _, f := range fs {
		if _, err := fmt.Fprintf(w, "%s=%s\n", f.key, f.get(s)); err != nil {
			return err
		}
	}
	return nil
}

// SaveFile writes Save's output to path.
func (s *Settings) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "settings: create")
	}
	defer f.Close()
	return s.Save(f)
}

// BindFlags registers every option in fields as a --flag on fs, so the
// same key names a ".set" file uses are also valid CLI overrides (per
// SPEC_FULL.md §4.7: "flags taking precedence over a loaded file"). Call
// BindFlags before fs.Parse, then ApplyFlags after, so explicit flags win
// over whatever LoadFile already set.
func (s *Settings) BindFlags(fs *pflag.FlagSet) {
	for _, f := range fields(s) {
		fs.String(f.key, f.get(s), fmt.Sprintf("override %s", f.key))
	}
}

// ApplyFlags re-reads every flag BindFlags registered that the caller
// actually changed (fs.Changed), overwriting whatever Load already set.
func (s *Settings) ApplyFlags(fs *pflag.FlagSet) error {
	known := make(map[string]bool)
	for _, f := range fields(s) {
		known[f.key] = true
	}
	var firstErr error
	fs.Visit(func(flag *pflag.Flag) {
		if firstErr != nil || !known[flag.Name] {
			return
		}
		if err := s.Set(flag.Name, flag.Value.String()); err != nil {
			firstErr = err
		}
	})
	return firstErr
}
