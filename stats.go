// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.22
//

// Auxiliary statistics over already-computed drop series. None of these
// feed back into the per-drop fit.

package gdrop

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// AllanPoint is one cluster size of an Allan deviation series.
type AllanPoint struct {
	Tau int     // Cluster size [samples]
	Dev float64 // Allan deviation
	Err float64 // Estimation error of the deviation
	N   int     // Number of cluster pairs
}

// Allan computes the Allan standard deviation of a series for each of the
// given cluster sizes. Cluster sizes that leave fewer than two complete
// clusters are skipped.
func Allan(data []float64, tau []int) []AllanPoint {
	res := make([]AllanPoint, 0, len(tau))
	for _, f := range tau {
		if f <= 0 {
			continue
		}
		means := make([]float64, 0, len(data)/f)
		s := 0.0
		for k := 0; k+f <= len(data); k += f {
			means = append(means, stat.Mean(data[k:k+f], nil))
			if len(means) > 1 {
				d := means[len(means)-1] - means[len(means)-2]
				s += d * d
			}
		}
		if len(means)-1 > 0 {
			v := math.Sqrt(1 / (2 * float64(len(means)-1)) * s)
			res = append(res, AllanPoint{
				Tau: f,
				Dev: v,
				Err: v / math.Sqrt(math.Floor(float64(len(data))/float64(f))),
				N:   len(means) - 1,
			})
		}
	}
	return res
}

// MovingAverage returns the centered moving average of x with a kernel of
// n samples on each side (2n+1 values per window) and the index range the
// averages belong to.
func MovingAverage(x []float64, n int) ([]float64, []int) {
	res := make([]float64, 0, len(x))
	idx := make([]int, 0, len(x))
	for i := n; i < len(x)-n; i++ {
		res = append(res, stat.Mean(x[i-n:i+n+1], nil))
		idx = append(idx, i)
	}
	return res, idx
}

// Rssq returns the root sum of squares of each row of X.
func Rssq(X mat.Matrix) []float64 {
	r, c := X.Dims()
	res := make([]float64, r)
	for i := 0; i < r; i++ {
		s := 0.0
		for j := 0; j < c; j++ {
			s += X.At(i, j) * X.At(i, j)
		}
		res[i] = math.Sqrt(s)
	}
	return res
}
