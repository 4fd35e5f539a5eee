// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package gdrop

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// parabolicSystem builds an n x 3 polynomial design {1, t, t^2/2} and the
// observation vector it generates from the given coefficients.
func parabolicSystem(n int, coef [3]float64) (*mat.Dense, *mat.VecDense) {
	A := mat.NewDense(n, 3, nil)
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := float64(i) * 0.05
		A.SetRow(i, []float64{1, t, t * t / 2})
		z.SetVec(i, coef[0]+coef[1]*t+coef[2]*t*t/2)
	}
	return A, z
}

func TestSolveLS_Recovery(t *testing.T) {
	t.Parallel()

	want := [3]float64{12.5, -3.75, 9.81}
	A, z := parabolicSystem(50, want)

	r, err := SolveLS(A, z)
	require.NoError(t, err)

	for j := 0; j < 3; j++ {
		assert.InEpsilon(t, want[j], r.X.AtVec(j), 1e-9, "coefficient %d", j)
	}

	// Noise-free data leaves no residual power
	assert.Less(t, r.M02, 1e-9)
	assert.Equal(t, 50, r.Res.Len())
	for j := 0; j < 3; j++ {
		assert.GreaterOrEqual(t, r.StdX[j], 0.0)
	}

	// The instrument combines the deviations as dot(stdX, stdX)
	sum := 0.0
	for _, s := range r.StdX {
		sum += s * s
	}
	assert.InDelta(t, sum, r.Std, 1e-12)
}

func TestSolveLS_VarianceFactor(t *testing.T) {
	t.Parallel()

	// A constant offset on a 1-column model: every residual is known, so
	// m0^2 = sum(res^2)/(n-k-1) has a closed form.
	n := 10
	A := mat.NewDense(n, 1, nil)
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		A.Set(i, 0, 1)
		z.SetVec(i, float64(i%2)) // alternating 0/1, mean 0.5
	}

	r, err := SolveLS(A, z)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.X.AtVec(0), 1e-12)

	// Residuals are +-0.5, RSS = n * 0.25, dof = n - 1 - 1
	assert.InDelta(t, float64(n)*0.25/float64(n-2), r.M02, 1e-12)
}

func TestSolveLS_Underdetermined(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows int
	}{
		{"rows equal cols", 3},
		{"one spare row", 4}, // dof = rows - cols - 1 = 0 still fails
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			A, z := parabolicSystem(tt.rows, [3]float64{1, 2, 3})
			_, err := SolveLS(A, z)
			var ue *UnderdeterminedError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.rows, ue.Rows)
			assert.Equal(t, 3, ue.Cols)
		})
	}
}

func TestSolveLS_SingularOnDuplicatedColumn(t *testing.T) {
	t.Parallel()

	// An exactly duplicated column makes A^t A rank deficient; the solver
	// must fail the drop rather than hand back a result.
	n := 20
	A := mat.NewDense(n, 3, nil)
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := float64(i) * 0.05
		A.SetRow(i, []float64{1, v, v})
		z.SetVec(i, 2+3*v)
	}

	_, err := SolveLS(A, z)
	var se *SingularError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, n, se.Rows)
	assert.Equal(t, 3, se.Cols)
}

// More observations of the same noise level must tighten every parameter.
func TestSolveLS_DofSensitivity(t *testing.T) {
	t.Parallel()

	coef := [3]float64{12.5, -3.75, 9.81}
	n := 500
	A, z := parabolicSystem(n, coef)
	// Deterministic pseudo noise of fixed amplitude
	for i := 0; i < n; i++ {
		z.SetVec(i, z.AtVec(i)+0.5*math.Sin(float64(i)*7.31))
	}

	narrow, err := SolveLS(A.Slice(0, 100, 0, 3), z.SliceVec(0, 100))
	require.NoError(t, err)
	wide, err := SolveLS(A, z)
	require.NoError(t, err)

	for j := 0; j < 3; j++ {
		assert.Less(t, wide.StdX[j], narrow.StdX[j], "parameter %d", j)
	}
}

func TestSolveLS_DimensionMismatch(t *testing.T) {
	t.Parallel()

	A, _ := parabolicSystem(20, [3]float64{1, 2, 3})
	z := mat.NewVecDense(19, nil)
	_, err := SolveLS(A, z)
	require.Error(t, err)

	var ue *UnderdeterminedError
	assert.False(t, errors.As(err, &ue))
}
