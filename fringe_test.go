// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package gdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFringes(t *testing.T) {
	t.Parallel()

	t.Run("numeric tokens", func(t *testing.T) {
		t.Parallel()
		f, err := ParseFringes([]string{"0", " 123.456 ", "-7.5e3"})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 123.456, -7500}, f)
	})

	t.Run("bad token names its index", func(t *testing.T) {
		t.Parallel()
		_, err := ParseFringes([]string{"1.0", "x", "3.0"})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "fringe[1]", ce.Field)
		assert.Equal(t, "x", ce.Value)
	})
}

func TestPreprocess(t *testing.T) {
	t.Parallel()

	cal := NewCalib()
	cal.Lambda = 632.99158
	cal.Multiplex = 4
	cal.ScaleFactor = 250
	cal.RubiFreq = 1e7

	fringe := []float64{0, 100, 200, 300}
	fd := Preprocess(fringe, cal)
	require.Len(t, fd.Z, 4)
	require.Len(t, fd.TT, 4)

	// z[i] = lambda/2 * i * multiplex * scaleFactor
	step := 632.99158 / 2 * 4 * 250
	for i := range fd.Z {
		assert.InDelta(t, step*float64(i), fd.Z[i], 1e-6, "z[%d]", i)
	}

	// tt[i] = fringe[i] * (1e7/rubiFreq) + ksol * z[i]/C
	for i := range fd.TT {
		assert.InDelta(t, fringe[i]+fd.Z[i]/C, fd.TT[i], 1e-15, "tt[%d]", i)
	}
}

func TestPreprocessKsol(t *testing.T) {
	t.Parallel()

	cal := NewCalib()
	cal.Lambda = 632.99158
	cal.Multiplex = 1
	cal.ScaleFactor = 1
	cal.RubiFreq = 1e7

	fringe := []float64{0, 1, 2}

	cal.Ksol = 1
	plus := Preprocess(fringe, cal)
	cal.Ksol = -1
	minus := Preprocess(fringe, cal)

	// The light travel time term flips sign with ksol
	for i := 1; i < len(fringe); i++ {
		assert.InDelta(t, 2*plus.Z[i]/C, plus.TT[i]-minus.TT[i], 1e-18, "tt[%d]", i)
	}
	assert.Equal(t, plus.Z, minus.Z)
}
