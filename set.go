// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.25
//

package gdrop

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Set-level bookkeeping over per-drop results. The acceptance threshold is
// caller policy; the engine only reports the scatter statistic.

// SetSummary aggregates the corrected gravity of one measurement set.
type SetSummary struct {
	Set      int     // Set index
	Accepted int     // Number of accepted drops
	Rejected int     // Number of rejected drops
	Mean     float64 // Mean gTopCor of the accepted drops [nm/s^2]
	Std      float64 // Sample standard deviation [nm/s^2]
}

// SummarizeSet reduces the accepted gTopCor values of one set.
func SummarizeSet(set int, gTopCor []float64, rejected int) SetSummary {
	s := SetSummary{
		Set:      set,
		Accepted: len(gTopCor),
		Rejected: rejected,
	}
	if len(gTopCor) > 0 {
		s.Mean = stat.Mean(gTopCor, nil)
	}
	if len(gTopCor) > 1 {
		s.Std = stat.StdDev(gTopCor, nil)
	}
	return s
}

// RejectDrops flags the drops whose scatter statistic exceeds the limit.
// Returns the rejected indices in input order. limit <= 0 rejects nothing.
func RejectDrops(ssres []float64, limit float64) []int {
	var rej []int
	if limit <= 0 {
		return rej
	}
	for i, v := range ssres {
		if v > limit {
			rej = append(rej, i)
		}
	}
	return rej
}

// IsAccepted reports whether drop i survived rejection.
func IsAccepted(i int, rejected []int) bool {
	return !slices.Contains(rejected, i)
}
