// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpsio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/start"
)

// WriteBasis writes desc as a text basis listing in the format spec.md §6
// names: an XL/XU line for every basic structural variable, paired with
// the row whose logical (slack) variable it displaced (recording which
// bound that displaced slack would have sat at); an LL/UL override line
// for every nonbasic structural variable sitting away from the
// WEIGHT/SUM-style nearest-bound default ReadBasis would otherwise assume
// for it; terminated by ENDATA. n is the number of structural columns, m
// the number of rows, and colLower/colUpper the structural bounds used to
// compute that default (so ReadBasis's output round-trips: a variable
// ReadBasis placed at its default bound side produces no override line,
// and one round-tripped back through ReadBasis lands at the same side).
func WriteBasis(w io.Writer, desc *basis.Descriptor, rowNames, colNames []string,
	colLower, colUpper []float64, n, m int) error {

	bw := bufio.NewWriter(w)

	basicStruct := make([]int, 0, m)
	isBasicStruct := make([]bool, n)
	for j := 0; j < n; j++ {
		if desc.Status(j) == basis.Basic {
			basicStruct = append(basicStruct, j)
			isBasicStruct[j] = true
		}
	}
	nonbasicSlack := make([]int, 0, m)
	for i := 0; i < m; i++ {
		if desc.Status(n+i) != basis.Basic {
			nonbasicSlack = append(nonbasicSlack, i)
		}
	}

	for k, col := range basicStruct {
		if k >= len(nonbasicSlack) {
			break // more basic structurals than displaced slacks should never happen (§3 invariant 3).
		}
		row := nonbasicSlack[k]
		tag := "XL"
		if desc.Status(n+row) == basis.POnUpper {
			tag = "XU"
		}
		if _, err := fmt.Fprintf(bw, " %s %s %s\n", tag, colNames[col], rowNames[row]); err != nil {
			return err
		}
	}

	for j := 0; j < n; j++ {
		if isBasicStruct[j] {
			continue
		}
		actual := desc.Status(j)
		def := start.NearestBoundStatus(colLower[j], colUpper[j])
		if actual == def {
			continue
		}
		switch actual {
		case basis.POnLower:
			if _, err := fmt.Fprintf(bw, " LL %s\n", colNames[j]); err != nil {
				return err
			}
		case basis.POnUpper:
			if _, err := fmt.Fprintf(bw, " UL %s\n", colNames[j]); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(bw, "ENDATA"); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadBasis parses a text basis listing of the format WriteBasis produces
// (and real SoPlex .bas files: XL/XU/LL/UL entries terminated by ENDATA)
// against row/column name tables, returning a fresh basis.Descriptor. Any
// structural or logical variable not mentioned keeps the nearest-bound
// default start.NearestBoundStatus would assign it (computed from
// colLower/colUpper/rowLower/rowUpper, typically the lp.Problem being
// solved's own bounds), and any row whose logical variable wasn't
// displaced by an XL/XU entry falls back to basic, completing the basis.
func ReadBasis(r io.Reader, rowNames, colNames []string,
	colLower, colUpper, rowLower, rowUpper []float64) (*basis.Descriptor, error) {

	n, m := len(colNames), len(rowNames)
	rowIdx := indexOf(rowNames)
	colIdx := indexOf(colNames)

	d := basis.NewDescriptor(m, n+m)
	for j := 0; j < n; j++ {
		d.SetNonbasic(j, start.NearestBoundStatus(colLower[j], colUpper[j]))
	}
	for i := 0; i < m; i++ {
		d.SetNonbasic(n+i, start.NearestBoundStatus(rowLower[i], rowUpper[i]))
	}

	rowDisplaced := make([]bool, m)

	ls := newLineScanner(r)
	for ls.next() {
		trimmed := strings.TrimSpace(ls.text)
		if trimmed == "" {
			continue
		}
		if strings.ToUpper(trimmed) == "ENDATA" {
			break
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			return nil, ls.err("malformed basis entry %q", trimmed)
		}
		tag := strings.ToUpper(fields[0])
		switch tag {
		case "XL", "XU":
			if len(fields) < 3 {
				return nil, ls.err("%s entry needs a column and a row name", tag)
			}
			col, ok := colIdx[fields[1]]
			if !ok {
				return nil, ls.err("unknown column %q", fields[1])
			}
			row, ok := rowIdx[fields[2]]
			if !ok {
				return nil, ls.err("unknown row %q", fields[2])
			}
			slackStatus := basis.POnLower
			if tag == "XU" {
				slackStatus = basis.POnUpper
			}
			d.SetNonbasic(n+row, slackStatus)
			d.SetBasic(row, col)
			rowDisplaced[row] = true
		case "LL":
			col, ok := colIdx[fields[1]]
			if !ok {
				return nil, ls.err("unknown column %q", fields[1])
			}
			d.SetNonbasic(col, basis.POnLower)
		case "UL":
			col, ok := colIdx[fields[1]]
			if !ok {
				return nil, ls.err("unknown column %q", fields[1])
			}
			d.SetNonbasic(col, basis.POnUpper)
		default:
			return nil, ls.err("unknown basis entry type %q", tag)
		}
	}
	if err := ls.sc.Err(); err != nil {
		return nil, err
	}

	for i := 0; i < m; i++ {
		if !rowDisplaced[i] {
			d.SetBasic(i, n+i)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(err, "mpsio: incomplete basis listing")
	}
	return d, nil
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}
