// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mpsio implements the LP loader contract and basis I/O of
// spec.md §6 (C10): content sniffing between free MPS and LP-format text,
// readers for both that populate an lp.Problem plus row/column name
// tables, and a reader/writer for the fixed-format basis listing keyed by
// those names. This package is a genuinely external collaborator: the
// pivot engine (package simplex) never imports it; cmd/spxsolve wires the
// two together, per spec.md §1's "out of scope ... LP file readers"
// framing of spxfileio.cpp's readFile/readBasisFile dispatch.
package mpsio

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Format names the two LP file formats Sniff distinguishes.
type Format int

const (
	Unknown Format = iota
	MPS
	LPFormat
)

func (f Format) String() string {
	switch f {
	case MPS:
		return "MPS"
	case LPFormat:
		return "LP"
	default:
		return "UNKNOWN"
	}
}

// ErrParse is returned for malformed input, wrapped with a 1-based line
// number via errors.Wrapf(ErrParse, "line %d: ...", n).
var ErrParse = errors.New("mpsio: parse error")

// Sniff peeks at r's first non-blank, non-comment ('*' prefixed) token and
// reports MPS if it is "NAME" or LPFormat if it is one of
// MINIMIZE/MAXIMIZE/MIN/MAX (case-insensitive), matching spec.md §6's "MPS
// has leading NAME; LP starts with objective keywords" rule. The returned
// io.Reader replays the peeked line, so callers can pass it straight to
// ReadMPS/ReadLP without losing the first line.
func Sniff(r io.Reader) (Format, io.Reader, error) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "*") {
			fields := strings.Fields(trimmed)
			tok := strings.ToUpper(fields[0])
			format := Unknown
			switch tok {
			case "NAME":
				format = MPS
			case "MINIMIZE", "MAXIMIZE", "MIN", "MAX":
				format = LPFormat
			}
			replay := io.MultiReader(strings.NewReader(line), br)
			return format, replay, nil
		}
		if err != nil {
			if err == io.EOF {
				return Unknown, strings.NewReader(""), errors.Wrap(ErrParse, "empty file")
			}
			return Unknown, nil, err
		}
	}
}

// lineScanner wraps bufio.Scanner with a running 1-based line counter, the
// one piece of bookkeeping every section parser in this package needs for
// its "parse failure with line number" contract.
type lineScanner struct {
	sc   *bufio.Scanner
	line int
	text string
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{sc: bufio.NewScanner(r)}
}

func (s *lineScanner) next() bool {
	if !s.sc.Scan() {
		return false
	}
	s.line++
	s.text = s.sc.Text()
	return true
}

func (s *lineScanner) err(format string, args ...any) error {
	return errors.Wrapf(ErrParse, "line %d: "+format, append([]any{s.line}, args...)...)
}
