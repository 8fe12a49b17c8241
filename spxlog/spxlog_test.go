// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spxlog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexgo/spx/spxlog"
)

type spySink struct {
	records []string
}

func (s *spySink) Log(level spxlog.Level, msg string, kv ...any) {
	s.records = append(s.records, level.String()+":"+msg)
}

func TestConfigFiltersBelowMinLevel(t *testing.T) {
	spy := &spySink{}
	cfg := spxlog.Config{Sink: spy, MinLevel: spxlog.Warn}

	cfg.Log(spxlog.Debug, "too quiet to matter")
	cfg.Log(spxlog.Info, "still too quiet")
	cfg.Log(spxlog.Error, "iteration aborted")

	assert.Equal(t, []string{"ERROR:iteration aborted"}, spy.records)
}

func TestNilSinkDiscardsSilently(t *testing.T) {
	var cfg spxlog.Config
	assert.NotPanics(t, func() {
		cfg.Log(spxlog.Error, "no sink configured")
	})
}

func TestStdSinkWritesLevelAndKeyValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := spxlog.NewConfig(&buf, spxlog.Debug)

	cfg.Log(spxlog.Info, "refactor", "iter", 42, "cond", 1e6)

	out := buf.String()
	assert.True(t, strings.Contains(out, "[INFO] refactor"))
	assert.True(t, strings.Contains(out, "iter=42"))
	assert.True(t, strings.Contains(out, "cond=1e+06"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", spxlog.Debug.String())
	assert.Equal(t, "INFO", spxlog.Info.String())
	assert.Equal(t, "WARN", spxlog.Warn.String())
	assert.Equal(t, "ERROR", spxlog.Error.String())
}
