// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpsio

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/simplexgo/spx/lp"
)

// lpSection names the blocks an LP-format file is organized into.
type lpSection int

const (
	lpNone lpSection = iota
	lpObjective
	lpConstraints
	lpBounds
	lpFree
	lpDone
)

var sectionHeaders = map[string]lpSection{
	"MINIMIZE": lpObjective, "MIN": lpObjective,
	"MAXIMIZE": lpObjective, "MAX": lpObjective,
	"SUBJECT TO": lpConstraints, "ST": lpConstraints, "S.T.": lpConstraints,
	"SUCH THAT": lpConstraints,
	"BOUNDS":    lpBounds, "BOUND": lpBounds,
	"FREE": lpFree,
	"END":  lpDone,
}

// termRe matches one signed term of a linear expression: an optional
// sign, an optional numeric coefficient, and a variable name.
var termRe = regexp.MustCompile(`([+-]?)\s*([0-9]*\.?[0-9]+(?:[eE][+-]?[0-9]+)?)?\s*\*?\s*([A-Za-z_][A-Za-z0-9_]*)`)

// relOpRe matches a relational operator (<=, >=, = and ASCII variants).
var relOpRe = regexp.MustCompile(`<=|>=|=<|=>|=`)

type lpConstraint struct {
	name             string
	lower, upper     float64
	terms            map[string]float64
}

// lpBuilder accumulates an LP-format file's sections before being
// assembled into an lp.Problem, mirroring mpsBuilder's parse/assemble
// split.
type lpBuilder struct {
	sense     lp.Sense
	objTerms  map[string]float64
	objName   string
	constrs   []lpConstraint
	colOrder  []string
	colIndex  map[string]int
	colLower  []float64
	colUpper  []float64
	boundSeen map[string]bool
}

// ReadLP parses CPLEX/lp_solve-style LP format text from r: an objective
// section (Minimize/Maximize), a constraint section (Subject To/ST),
// an optional Bounds section, an optional Free section naming unbounded
// variables, and an End terminator. Returns the populated Problem plus
// parallel row/column name tables in file order (the objective itself is
// not a row).
//
// Supports single- and double-sided constraints ("lo <= expr <= hi"),
// named constraints ("c1: expr <= b"), signed terms with or without an
// explicit '*', and Bounds lines of the shapes "lo <= x <= hi", "x >= lo",
// "x <= hi", "x = v", and "free x" / "x free".
func ReadLP(r io.Reader) (prob *lp.Problem, rowNames, colNames []string, err error) {
	b := &lpBuilder{
		objTerms:  map[string]float64{},
		colIndex:  map[string]int{},
		boundSeen: map[string]bool{},
	}
	ls := newLineScanner(r)

	section := lpNone
	for ls.next() {
		trimmed := strings.TrimSpace(ls.text)
		if trimmed == "" || strings.HasPrefix(trimmed, "\\") {
			continue
		}
		if hdr, ok := matchSectionHeader(trimmed); ok {
			section = hdr
			if section == lpObjective {
				b.sense = objSenseFromHeader(trimmed)
			}
			if section == lpDone {
				break
			}
			continue
		}

		var perr error
		switch section {
		case lpObjective:
			perr = b.parseObjective(trimmed)
		case lpConstraints:
			perr = b.parseConstraint(trimmed)
		case lpBounds:
			perr = b.parseBoundLine(trimmed)
		case lpFree:
			perr = b.parseFreeLine(trimmed)
		default:
			perr = errors.Errorf("content before a recognized section header: %q", trimmed)
		}
		if perr != nil {
			return nil, nil, nil, ls.err("%v", perr)
		}
	}
	if ls.sc.Err() != nil {
		return nil, nil, nil, ls.sc.Err()
	}

	prob, rowNames, colNames, err = b.build()
	if err != nil {
		return nil, nil, nil, err
	}
	return prob, rowNames, colNames, nil
}

func matchSectionHeader(line string) (lpSection, bool) {
	upper := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	if s, ok := sectionHeaders[upper]; ok {
		return s, true
	}
	return lpNone, false
}

func objSenseFromHeader(line string) lp.Sense {
	upper := strings.ToUpper(line)
	if strings.HasPrefix(upper, "MAX") {
		return lp.Maximize
	}
	return lp.Minimize
}

func (b *lpBuilder) colOf(name string) int {
	if idx, ok := b.colIndex[name]; ok {
		return idx
	}
	idx := len(b.colOrder)
	b.colIndex[name] = idx
	b.colOrder = append(b.colOrder, name)
	b.colLower = append(b.colLower, 0)
	b.colUpper = append(b.colUpper, lp.Infinity)
	return idx
}

// parseTerms extracts name:coefficient terms from expr, registering any
// new variable name it sees.
func (b *lpBuilder) parseTerms(expr string) map[string]float64 {
	terms := map[string]float64{}
	for _, m := range termRe.FindAllStringSubmatch(expr, -1) {
		sign, coefStr, name := m[1], m[2], m[3]
		coef := 1.0
		if coefStr != "" {
			coef, _ = strconv.ParseFloat(coefStr, 64)
		}
		if sign == "-" {
			coef = -coef
		}
		b.colOf(name)
		terms[name] += coef
	}
	return terms
}

func (b *lpBuilder) parseObjective(line string) error {
	name, expr := splitLabel(line)
	if name != "" {
		b.objName = name
	}
	for k, v := range b.parseTerms(expr) {
		b.objTerms[k] += v
	}
	return nil
}

// splitLabel separates a leading "name:" label from the rest of the line,
// if present.
func splitLabel(line string) (name, rest string) {
	if idx := strings.Index(line, ":"); idx >= 0 {
		label := strings.TrimSpace(line[:idx])
		if label != "" && !strings.ContainsAny(label, "+-<>=") {
			return label, line[idx+1:]
		}
	}
	return "", line
}

// parseConstraint handles both single-sided ("expr relop b") and
// double-sided ("lo relop expr relop hi") constraint lines.
func (b *lpBuilder) parseConstraint(line string) error {
	name, rest := splitLabel(line)
	ops := relOpRe.FindAllStringIndex(rest, -1)
	switch len(ops) {
	case 1:
		exprPart := rest[:ops[0][0]]
		rhsPart := rest[ops[0][1]:]
		rel := normalizeOp(rest[ops[0][0]:ops[0][1]])
		rhs, err := strconv.ParseFloat(strings.TrimSpace(rhsPart), 64)
		if err != nil {
			return errors.Errorf("constraint RHS %q: %v", rhsPart, err)
		}
		terms := b.parseTerms(exprPart)
		lo, hi := boundsFromOp(rel, rhs)
		b.addConstraint(name, terms, lo, hi)
	case 2:
		loPart := rest[:ops[0][0]]
		exprPart := rest[ops[0][1]:ops[1][0]]
		hiPart := rest[ops[1][1]:]
		lo, err := strconv.ParseFloat(strings.TrimSpace(loPart), 64)
		if err != nil {
			return errors.Errorf("constraint lower %q: %v", loPart, err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(hiPart), 64)
		if err != nil {
			return errors.Errorf("constraint upper %q: %v", hiPart, err)
		}
		terms := b.parseTerms(exprPart)
		b.addConstraint(name, terms, lo, hi)
	default:
		return errors.Errorf("constraint %q: expected 1 or 2 relational operators, found %d", line, len(ops))
	}
	return nil
}

func normalizeOp(op string) string {
	switch op {
	case "=<":
		return "<="
	case "=>":
		return ">="
	default:
		return op
	}
}

func boundsFromOp(rel string, rhs float64) (lo, hi float64) {
	switch rel {
	case "<=":
		return -lp.Infinity, rhs
	case ">=":
		return rhs, lp.Infinity
	default: // "="
		return rhs, rhs
	}
}

func (b *lpBuilder) addConstraint(name string, terms map[string]float64, lo, hi float64) {
	if name == "" {
		name = "c" + strconv.Itoa(len(b.constrs)+1)
	}
	b.constrs = append(b.constrs, lpConstraint{name: name, lower: lo, upper: hi, terms: terms})
}

// parseBoundLine handles "lo <= x <= hi", "x >= lo", "x <= hi", "x = v",
// and "free x" / "x free" bound declarations.
func (b *lpBuilder) parseBoundLine(line string) error {
	upper := strings.ToUpper(line)
	fields := strings.Fields(upper)
	if len(fields) == 2 && fields[0] == "FREE" {
		return b.markFree(strings.Fields(line)[1])
	}
	if len(fields) == 2 && fields[1] == "FREE" {
		return b.markFree(strings.Fields(line)[0])
	}

	ops := relOpRe.FindAllStringIndex(line, -1)
	switch len(ops) {
	case 1:
		lhs := strings.TrimSpace(line[:ops[0][0]])
		rhsStr := strings.TrimSpace(line[ops[0][1]:])
		rel := normalizeOp(line[ops[0][0]:ops[0][1]])
		val, err := strconv.ParseFloat(rhsStr, 64)
		if err != nil {
			return errors.Errorf("bound %q: %v", line, err)
		}
		idx := b.colOf(lhs)
		b.boundSeen[lhs] = true
		switch rel {
		case "<=":
			b.colUpper[idx] = val
		case ">=":
			b.colLower[idx] = val
		default:
			b.colLower[idx], b.colUpper[idx] = val, val
		}
	case 2:
		loStr := strings.TrimSpace(line[:ops[0][0]])
		name := strings.TrimSpace(line[ops[0][1]:ops[1][0]])
		hiStr := strings.TrimSpace(line[ops[1][1]:])
		lo, err := strconv.ParseFloat(loStr, 64)
		if err != nil {
			return errors.Errorf("bound lower %q: %v", loStr, err)
		}
		hi, err := strconv.ParseFloat(hiStr, 64)
		if err != nil {
			return errors.Errorf("bound upper %q: %v", hiStr, err)
		}
		idx := b.colOf(name)
		b.boundSeen[name] = true
		b.colLower[idx], b.colUpper[idx] = lo, hi
	default:
		return errors.Errorf("bound %q: expected 1 or 2 relational operators", line)
	}
	return nil
}

func (b *lpBuilder) markFree(name string) error {
	idx := b.colOf(name)
	b.boundSeen[name] = true
	b.colLower[idx], b.colUpper[idx] = -lp.Infinity, lp.Infinity
	return nil
}

func (b *lpBuilder) parseFreeLine(line string) error {
	for _, name := range strings.Fields(line) {
		if err := b.markFree(name); err != nil {
			return err
		}
	}
	return nil
}

func (b *lpBuilder) build() (prob *lp.Problem, rowNames, colNames []string, err error) {
	n, m := len(b.colOrder), len(b.constrs)
	obj := make([]float64, n)
	for name, v := range b.objTerms {
		obj[b.colIndex[name]] = v
	}

	var rows, cols []int
	var vals []float64
	rowLower := make([]float64, m)
	rowUpper := make([]float64, m)
	rowNames = make([]string, m)
	for i, c := range b.constrs {
		rowNames[i] = c.name
		rowLower[i], rowUpper[i] = c.lower, c.upper
		for name, v := range c.terms {
			rows = append(rows, i)
			cols = append(cols, b.colIndex[name])
			vals = append(vals, v)
		}
	}

	prob, err = lp.NewFromTriplets(m, n, rows, cols, vals, obj, b.colLower, b.colUpper, rowLower, rowUpper, b.sense)
	if err != nil {
		return nil, nil, nil, err
	}
	return prob, rowNames, append([]string(nil), b.colOrder...), nil
}
