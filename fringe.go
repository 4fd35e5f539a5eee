// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.18
//

package gdrop

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFringes converts the raw fringe readings of one drop from text tokens
// to numbers. A non-numeric token is a *ConfigError carrying its index.
func ParseFringes(tokens []string) ([]float64, error) {
	fringe := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("fringe[%d]", i), Value: tok, Err: err}
		}
		fringe[i] = v
	}
	return fringe, nil
}

// FringeData holds the preprocessed fringe series of one drop:
// the expected free-fall position and the light-time corrected time tag
// for every fringe index. Derived deterministically from the raw readings
// and the calibration, recomputed whenever either changes.
type FringeData struct {
	Z  []float64 // Expected position per fringe [nm]
	TT []float64 // Corrected fringe time [s]
}

// Preprocess computes the expected position and corrected time of every
// fringe:
//   - z[i]  = lambda/2 * i * multiplex * scaleFactor
//   - tt[i] = fringe[i] * (1e7/rubiFreq) + ksol * z[i]/C
//
// The ksol factor selects the sign convention of the light travel time term.
func Preprocess(fringe []float64, cal *Calib) *FringeData {
	n := len(fringe)
	fd := &FringeData{
		Z:  make([]float64, n),
		TT: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		fd.Z[i] = cal.Lambda / 2 * float64(i) * cal.Multiplex * cal.ScaleFactor
		fd.TT[i] = fringe[i]*(1e7/cal.RubiFreq) + cal.Ksol*fd.Z[i]/C
	}
	return fd
}
