// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexgo/spx/settings"
	"github.com/simplexgo/spx/spxlog"
)

func TestDefaultRoundTripsThroughSaveAndLoad(t *testing.T) {
	want := settings.Default()

	var buf bytes.Buffer
	require.NoError(t, want.Save(&buf))

	var got settings.Settings
	require.NoError(t, got.Load(&buf))

	assert.Equal(t, want, got)
}

func TestSetRejectsUnknownOption(t *testing.T) {
	s := settings.Default()
	err := s.Set("not_a_real_option", "1")
	assert.ErrorIs(t, err, settings.ErrUnknownOption)
}

func TestSetRejectsInvalidValue(t *testing.T) {
	s := settings.Default()
	err := s.Set("feastol", "not-a-number")
	assert.ErrorIs(t, err, settings.ErrInvalidValue)

	err = s.Set("pricer", "NOT_A_PRICER")
	assert.ErrorIs(t, err, settings.ErrInvalidValue)
}

func TestLoadAppliesEveryRecognizedKey(t *testing.T) {
	s := settings.Default()
	text := "algorithm=ENTER\nratiotester=BOUNDFLIPPING\nfeastol=1e-3\niter_limit=500\n"
	require.NoError(t, s.Load(bytes.NewBufferString(text)))

	assert.Equal(t, "ENTER", s.Algorithm.String())
	assert.Equal(t, settings.BoundFlipping, s.RatioTester)
	assert.Equal(t, 1e-3, s.FeasTol)
	assert.Equal(t, 500, s.IterLimit)
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	s := settings.Default()
	err := s.Load(bytes.NewBufferString("this line has no equals sign\n"))
	assert.Error(t, err)
}

func TestToOptionsResolvesAutoPricerToHybrid(t *testing.T) {
	s := settings.Default()
	require.NoError(t, s.Set("pricer", "AUTO"))

	opts := s.ToOptions(spxlog.Config{})
	assert.Equal(t, "HYBRID", opts.Pricer.Name())
}
