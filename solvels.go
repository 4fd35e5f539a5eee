// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.19
//

package gdrop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RegResult is the outcome of one least-squares solve. Produced once,
// never mutated.
type RegResult struct {
	X    *mat.VecDense // Solution vector
	Cov  *mat.Dense    // Covariance matrix (A^t A)^-1
	M02  float64       // Variance factor, res^t res / (rows - cols - 1)
	StdX []float64     // Standard deviation of each unknown, sqrt(diag(Cov) * m02)
	Std  float64       // dot(StdX, StdX); instrument convention, not a standard statistic
	Res  *mat.VecDense // Residual vector, z - A x
}

// SolveLS solves the observation equation A x = z in the least-squares sense.
//   - x is found by a QR solve, not by inverting the normal equations
//   - the covariance matrix is (A^t A)^-1
//   - the variance factor is res^t res / (rows - cols - 1)
//
// Returns *UnderdeterminedError when the row count leaves no degrees of
// freedom and *SingularError when A^t A cannot be inverted. A failed solve
// never yields a partial result.
func SolveLS(A mat.Matrix, z mat.Vector) (*RegResult, error) {

	n, k := A.Dims()
	if z.Len() != n {
		return nil, fmt.Errorf("invalid matrix size. A(%d x %d), z(%d x 1)", n, k, z.Len())
	}
	dof := n - k - 1
	if dof <= 0 {
		return nil, &UnderdeterminedError{Rows: n, Cols: k}
	}

	// Solve for x
	var x mat.VecDense
	if err := x.SolveVec(A, z); !tolerable(err) {
		return nil, &SingularError{Rows: n, Cols: k, Err: err}
	}

	// Covariance matrix (A^t A)^-1
	var AtA mat.Dense
	AtA.Mul(A.T(), A)
	var cov mat.Dense
	if err := cov.Inverse(&AtA); !tolerable(err) {
		return nil, &SingularError{Rows: n, Cols: k, Err: err}
	}

	// Residuals (res = z - A x)
	var ax mat.VecDense
	ax.MulVec(A, &x)
	res := mat.NewVecDense(n, nil)
	res.SubVec(z, &ax)

	// Variance factor and standard deviations
	m02 := mat.Dot(res, res) / float64(dof)
	stdX := make([]float64, k)
	std := 0.0
	for j := 0; j < k; j++ {
		stdX[j] = math.Sqrt(cov.At(j, j) * m02)
		std += stdX[j] * stdX[j]
	}

	return &RegResult{
		X:    &x,
		Cov:  &cov,
		M02:  m02,
		StdX: stdX,
		Std:  std,
		Res:  res,
	}, nil
}

// tolerable reports whether a solve error may be ignored. Ill-conditioned
// systems (finite mat.Condition) still yield a usable solution; an infinite
// condition number means a genuinely rank-deficient matrix.
func tolerable(err error) bool {
	if err == nil {
		return true
	}
	c, ok := err.(mat.Condition)
	return ok && !math.IsInf(float64(c), 1)
}
