// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spxlog implements the pivot engine's logging surface (C9): a
// Sink interface the driver calls at well-defined iteration boundaries,
// configured through a Config rather than a global logger, per spec.md
// §9's "global logging singleton -> configuration object with pluggable
// sink" design note.
package spxlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a log severity, ordered so a numerically larger Level is more
// severe.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Sink receives log records. kv is an alternating key/value list, matching
// the teacher corpus's structured-logging convention without pulling in a
// dedicated structured-logging library (see DESIGN.md).
type Sink interface {
	Log(level Level, msg string, kv ...any)
}

// Config bundles a Sink with the minimum level it should actually emit;
// it is passed into the driver at construction rather than consulting a
// package-level logger.
type Config struct {
	Sink     Sink
	MinLevel Level
}

// NewConfig returns a Config writing through a StdSink to w at minLevel.
func NewConfig(w io.Writer, minLevel Level) Config {
	return Config{Sink: NewStdSink(w), MinLevel: minLevel}
}

// DefaultConfig writes Info and above to stderr, matching a CLI driver's
// usual expectation of quiet-unless-something-happened.
func DefaultConfig() Config {
	return NewConfig(os.Stderr, Info)
}

// Log emits msg at level through c's Sink if level meets MinLevel; a nil
// Sink silently discards every record.
func (c Config) Log(level Level, msg string, kv ...any) {
	if c.Sink == nil || level < c.MinLevel {
		return
	}
	c.Sink.Log(level, msg, kv...)
}

// StdSink is a Sink backed by the standard library's log.Logger, the
// Sink NewConfig wires in (a Config with a nil Sink discards) -- the teacher corpus
// carries no structured-logging dependency of its own, so this package
// doesn't introduce one either (see DESIGN.md).
type StdSink struct {
	logger *log.Logger
}

// NewStdSink returns a StdSink writing to w with a timestamped prefix.
func NewStdSink(w io.Writer) *StdSink {
	return &StdSink{logger: log.New(w, "", log.LstdFlags)}
}

func (s *StdSink) Log(level Level, msg string, kv ...any) {
	s.logger.Print(format(level, msg, kv))
}

func format(level Level, msg string, kv []any) string {
	b := fmt.Sprintf("[%s] %s", level, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		b += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	return b
}
