// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpsio

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/simplexgo/spx/lp"
)

// rowKind is a ROWS section entry's relational type.
type rowKind byte

const (
	rowObjective rowKind = 'N'
	rowLessEq    rowKind = 'L'
	rowGreaterEq rowKind = 'G'
	rowEqual     rowKind = 'E'
)

type mpsRow struct {
	kind rowKind
	name string
}

// mpsBuilder accumulates a free-MPS file's section data before it is
// assembled into an lp.Problem by ReadMPS; splitting parse-from-sections
// and assemble-into-Problem keeps each section's logic (and its line
// numbers) independent of the final column-major storage lp.Problem
// requires.
type mpsBuilder struct {
	rows     []mpsRow
	rowIndex map[string]int // name -> index into rows (objective excluded)
	objRow   string

	colNames  []string
	colIndex  map[string]int
	colLower  []float64
	colUpper  []float64
	obj       []float64
	triplets  struct {
		rows, cols []int
		vals       []float64
	}

	rowLower, rowUpper []float64
	hasRange           []bool

	sense lp.Sense
}

// ReadMPS parses a free-format MPS file from r: sections NAME, ROWS,
// COLUMNS, RHS, an optional RANGES, an optional BOUNDS, and ENDATA. Only
// the first N row is treated as the objective; later N rows are kept as
// free (unbounded both ways) constraint rows rather than rejected, since
// real-world MPS files occasionally carry more than one. Returns the
// populated Problem plus parallel row/column name tables in file order.
//
// Simplifications against the full MPS dialect (documented rather than
// silently dropped, per spec.md §7): integer markers (MARKER/'INTORG'/
// 'INTEND') are recognized and skipped but do not change a column's
// bounds (this core has no integrality concept — spec.md §1 excludes
// general NLP/MIP); an RHS entry against the objective row (a constant
// offset) is accepted and ignored, since lp.Problem carries no constant
// term.
func ReadMPS(r io.Reader) (prob *lp.Problem, rowNames, colNames []string, err error) {
	b := &mpsBuilder{
		rowIndex: map[string]int{},
		colIndex: map[string]int{},
	}
	ls := newLineScanner(r)

	section := ""
	for ls.next() {
		raw := ls.text
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if !strings.HasPrefix(raw, " ") && !strings.HasPrefix(raw, "\t") {
			// Section header line (NAME, ROWS, COLUMNS, RHS, RANGES,
			// BOUNDS, ENDATA); free MPS keys off indentation, not column
			// position.
			fields := strings.Fields(trimmed)
			section = strings.ToUpper(fields[0])
			if section == "ENDATA" {
				break
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}

		var perr error
		switch section {
		case "ROWS":
			perr = b.parseRow(fields)
		case "COLUMNS":
			perr = b.parseColumn(fields)
		case "RHS":
			perr = b.parseRHS(fields)
		case "RANGES":
			perr = b.parseRange(fields)
		case "BOUNDS":
			perr = b.parseBound(fields)
		case "OBJSENSE":
			perr = b.parseObjSense(fields)
		default:
			continue
		}
		if perr != nil {
			return nil, nil, nil, ls.err("%v", perr)
		}
	}
	if ls.sc.Err() != nil {
		return nil, nil, nil, ls.sc.Err()
	}
	if b.objRow == "" {
		return nil, nil, nil, ls.err("missing objective (N) row")
	}

	prob, err = b.build()
	if err != nil {
		return nil, nil, nil, err
	}
	return prob, append([]string(nil), rowNamesOf(b)...), append([]string(nil), b.colNames...), nil
}

func rowNamesOf(b *mpsBuilder) []string {
	names := make([]string, len(b.rows))
	for i, r := range b.rows {
		names[i] = r.name
	}
	return names
}

func (b *mpsBuilder) parseRow(fields []string) error {
	if len(fields) < 2 {
		return errors.Errorf("ROWS: expected 'type name', got %q", strings.Join(fields, " "))
	}
	kind := rowKind(strings.ToUpper(fields[0])[0])
	name := fields[1]
	if kind == rowObjective && b.objRow == "" {
		b.objRow = name
		return nil
	}
	b.rowIndex[name] = len(b.rows)
	b.rows = append(b.rows, mpsRow{kind: kind, name: name})
	return nil
}

func (b *mpsBuilder) colOf(name string) int {
	if idx, ok := b.colIndex[name]; ok {
		return idx
	}
	idx := len(b.colNames)
	b.colIndex[name] = idx
	b.colNames = append(b.colNames, name)
	b.colLower = append(b.colLower, 0)
	b.colUpper = append(b.colUpper, lp.Infinity)
	b.obj = append(b.obj, 0)
	return idx
}

func (b *mpsBuilder) parseColumn(fields []string) error {
	if len(fields) >= 3 && strings.ToUpper(fields[1]) == "'MARKER'" {
		return nil // integer section marker; bounds handled in BOUNDS if present.
	}
	if len(fields) < 3 || len(fields)%2 != 1 {
		return errors.Errorf("COLUMNS: malformed entry %q", strings.Join(fields, " "))
	}
	col := b.colOf(fields[0])
	for i := 1; i+1 < len(fields); i += 2 {
		rowName := fields[i]
		val, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return errors.Errorf("COLUMNS: bad value %q", fields[i+1])
		}
		if rowName == b.objRow {
			b.obj[col] += val
			continue
		}
		rowIdx, ok := b.rowIndex[rowName]
		if !ok {
			return errors.Errorf("COLUMNS: unknown row %q", rowName)
		}
		b.triplets.rows = append(b.triplets.rows, rowIdx)
		b.triplets.cols = append(b.triplets.cols, col)
		b.triplets.vals = append(b.triplets.vals, val)
	}
	return nil
}

// parseObjSense handles the common free-MPS OBJSENSE extension: a section
// whose sole indented line is MAX/MAXIMIZE or MIN/MINIMIZE. Standard fixed
// MPS has no such section and always minimizes, which is this builder's
// zero-value default (lp.Minimize).
func (b *mpsBuilder) parseObjSense(fields []string) error {
	switch strings.ToUpper(fields[0]) {
	case "MAX", "MAXIMIZE":
		b.sense = lp.Maximize
	case "MIN", "MINIMIZE":
		b.sense = lp.Minimize
	default:
		return errors.Errorf("OBJSENSE: unknown sense %q", fields[0])
	}
	return nil
}

func (b *mpsBuilder) ensureRowBounds() {
	if b.rowLower != nil {
		return
	}
	n := len(b.rows)
	b.rowLower = make([]float64, n)
	b.rowUpper = make([]float64, n)
	b.hasRange = make([]bool, n)
	for i, r := range b.rows {
		switch r.kind {
		case rowLessEq:
			b.rowLower[i], b.rowUpper[i] = -lp.Infinity, 0
		case rowGreaterEq:
			b.rowLower[i], b.rowUpper[i] = 0, lp.Infinity
		case rowEqual:
			b.rowLower[i], b.rowUpper[i] = 0, 0
		default:
			b.rowLower[i], b.rowUpper[i] = -lp.Infinity, lp.Infinity
		}
	}
}

func (b *mpsBuilder) parseRHS(fields []string) error {
	b.ensureRowBounds()
	// fields[0] is the RHS set name; pairs of (row, value) follow.
	vals := fields[1:]
	if len(vals)%2 != 0 {
		return errors.Errorf("RHS: malformed entry %q", strings.Join(fields, " "))
	}
	for i := 0; i+1 < len(vals); i += 2 {
		rowName := vals[i]
		if rowName == b.objRow {
			continue // constant offset; lp.Problem carries no such term.
		}
		v, err := strconv.ParseFloat(vals[i+1], 64)
		if err != nil {
			return errors.Errorf("RHS: bad value %q", vals[i+1])
		}
		idx, ok := b.rowIndex[rowName]
		if !ok {
			return errors.Errorf("RHS: unknown row %q", rowName)
		}
		switch b.rows[idx].kind {
		case rowLessEq:
			b.rowUpper[idx] = v
		case rowGreaterEq:
			b.rowLower[idx] = v
		case rowEqual:
			b.rowLower[idx], b.rowUpper[idx] = v, v
		}
	}
	return nil
}

func (b *mpsBuilder) parseRange(fields []string) error {
	b.ensureRowBounds()
	vals := fields[1:]
	if len(vals)%2 != 0 {
		return errors.Errorf("RANGES: malformed entry %q", strings.Join(fields, " "))
	}
	for i := 0; i+1 < len(vals); i += 2 {
		rowName := vals[i]
		r, err := strconv.ParseFloat(vals[i+1], 64)
		if err != nil {
			return errors.Errorf("RANGES: bad value %q", vals[i+1])
		}
		idx, ok := b.rowIndex[rowName]
		if !ok {
			return errors.Errorf("RANGES: unknown row %q", rowName)
		}
		b.hasRange[idx] = true
		abs := r
		if abs < 0 {
			abs = -abs
		}
		switch b.rows[idx].kind {
		case rowEqual:
			if r >= 0 {
				b.rowUpper[idx] = b.rowLower[idx] + abs
			} else {
				b.rowLower[idx] = b.rowUpper[idx] - abs
			}
		case rowLessEq:
			b.rowLower[idx] = b.rowUpper[idx] - abs
		case rowGreaterEq:
			b.rowUpper[idx] = b.rowLower[idx] + abs
		}
	}
	return nil
}

func (b *mpsBuilder) parseBound(fields []string) error {
	if len(fields) < 2 {
		return errors.Errorf("BOUNDS: malformed entry %q", strings.Join(fields, " "))
	}
	kind := strings.ToUpper(fields[0])
	// fields[1] is the bound set name, fields[2] the column name.
	if len(fields) < 3 {
		return errors.Errorf("BOUNDS: malformed entry %q", strings.Join(fields, " "))
	}
	col := b.colOf(fields[2])
	var val float64
	var err error
	if len(fields) >= 4 {
		val, err = strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return errors.Errorf("BOUNDS: bad value %q", fields[3])
		}
	}
	switch kind {
	case "UP":
		b.colUpper[col] = val
		if val < 0 && b.colLower[col] == 0 {
			b.colLower[col] = -lp.Infinity
		}
	case "LO":
		b.colLower[col] = val
	case "FX":
		b.colLower[col], b.colUpper[col] = val, val
	case "FR":
		b.colLower[col], b.colUpper[col] = -lp.Infinity, lp.Infinity
	case "MI":
		b.colLower[col] = -lp.Infinity
	case "PL":
		b.colUpper[col] = lp.Infinity
	case "BV":
		b.colLower[col], b.colUpper[col] = 0, 1
	default:
		return errors.Errorf("BOUNDS: unknown bound type %q", kind)
	}
	return nil
}

func (b *mpsBuilder) build() (*lp.Problem, error) {
	b.ensureRowBounds()
	n, m := len(b.colNames), len(b.rows)
	if m == 0 {
		b.rowLower, b.rowUpper = nil, nil
	}
	return lp.NewFromTriplets(m, n, b.triplets.rows, b.triplets.cols, b.triplets.vals,
		b.obj, b.colLower, b.colUpper, b.rowLower, b.rowUpper, b.sense)
}
