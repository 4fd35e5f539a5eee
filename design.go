// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.19
//

package gdrop

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Row structures for the fall model design matrices. A field holds the
// coefficient of the unknown it is named after, so the column order of each
// matrix is the field order written here and nowhere else.
//
// The periodic fringe terms are the partial derivatives
//
//	sc = sin(arg1)cos(arg2)  cc = cos(arg1)cos(arg2)
//	ss = sin(arg1)sin(arg2)  cs = cos(arg1)sin(arg2)
//
// with arg1 = 2*pi*fmod*tt and arg2 = 2*pi*fmod*2z/C. The instrument
// convention assigns them to the unknowns in the order a1=ss, a2=sc, a3=cs,
// a4=cc, not in derivative order. This pairing is load bearing: it fixes the
// meaning of the solution vector {z0,v0,g0,a1..a6} and must not be reordered.

// FreeRow is one row of the free fall model (no gradient correction).
type FreeRow struct {
	Z0 float64 // 1
	V0 float64 // tt
	G0 float64 // tt^2/2
	A1 float64 // sin(arg1)sin(arg2)
	A2 float64 // sin(arg1)cos(arg2)
	A3 float64 // cos(arg1)sin(arg2)
	A4 float64 // cos(arg1)cos(arg2)
	A5 float64 // sin(2*pi*z/Lpar)
	A6 float64 // cos(2*pi*z/Lpar)
}

func (r *FreeRow) vals() []float64 {
	return []float64{r.Z0, r.V0, r.G0, r.A1, r.A2, r.A3, r.A4, r.A5, r.A6}
}

// GradRow is one row of the gradient-corrected model. Only the velocity and
// acceleration columns differ from FreeRow: they carry the gradient series
// expansion of the trajectory.
type GradRow struct {
	Z0 float64 // 1
	V0 float64 // tt + gradient/6 * tt^3
	G0 float64 // tt^2/2 + gradient/24 * tt^4
	A1 float64 // sin(arg1)sin(arg2)
	A2 float64 // sin(arg1)cos(arg2)
	A3 float64 // cos(arg1)sin(arg2)
	A4 float64 // cos(arg1)cos(arg2)
	A5 float64 // sin(2*pi*z/Lpar)
	A6 float64 // cos(2*pi*z/Lpar)
}

func (r *GradRow) vals() []float64 {
	return []float64{r.Z0, r.V0, r.G0, r.A1, r.A2, r.A3, r.A4, r.A5, r.A6}
}

// ModRow is one row of the modulation-corrected model. The Mk column is
// filled later from the free and gradient solutions (see CalcDrop), so the
// builder leaves it at zero.
type ModRow struct {
	Z0 float64 // 1
	V0 float64 // tt
	Mk float64 // modulation residual term, populated after the primary fits
	A5 float64 // sin(2*pi*z/Lpar)
	A6 float64 // cos(2*pi*z/Lpar)
}

func (r *ModRow) vals() []float64 {
	return []float64{r.Z0, r.V0, r.Mk, r.A5, r.A6}
}

// Design holds the three full-range coefficient matrices of one drop.
// Fit-range restriction happens at solve time by row slicing.
type Design struct {
	Free *mat.Dense // n x 9, free fall model
	Grad *mat.Dense // n x 9, gradient-corrected model
	Mod  *mat.Dense // n x 5, modulation model (Mk column zero)
}

// BuildDesign fills the three design matrices over the full fringe range.
func BuildDesign(fd *FringeData, cal *Calib) *Design {
	n := len(fd.TT)
	d := &Design{
		Free: mat.NewDense(n, NFREE, nil),
		Grad: mat.NewDense(n, NFREE, nil),
		Mod:  mat.NewDense(n, NMOD, nil),
	}
	for i := 0; i < n; i++ {
		tt := fd.TT[i]
		z := fd.Z[i]

		arg1 := 2 * PI * cal.Fmod * tt
		arg2 := 2 * PI * cal.Fmod * 2 * z / C

		ss := math.Sin(arg1) * math.Sin(arg2)
		sc := math.Sin(arg1) * math.Cos(arg2)
		cs := math.Cos(arg1) * math.Sin(arg2)
		cc := math.Cos(arg1) * math.Cos(arg2)
		a5 := math.Sin(2 * PI * z / cal.Lpar)
		a6 := math.Cos(2 * PI * z / cal.Lpar)

		free := FreeRow{
			Z0: 1,
			V0: tt,
			G0: tt * tt / 2,
			A1: ss, A2: sc, A3: cs, A4: cc,
			A5: a5, A6: a6,
		}
		grad := GradRow{
			Z0: 1,
			V0: tt + cal.Gradient/6*tt*tt*tt,
			G0: tt*tt/2 + cal.Gradient/24*tt*tt*tt*tt,
			A1: ss, A2: sc, A3: cs, A4: cc,
			A5: a5, A6: a6,
		}
		mod := ModRow{
			Z0: 1,
			V0: tt,
			A5: a5, A6: a6,
		}

		d.Free.SetRow(i, free.vals())
		d.Grad.SetRow(i, grad.vals())
		d.Mod.SetRow(i, mod.vals())
	}
	return d
}

// fitRange slices the fit-range rows [frmin, frmax) out of a full matrix.
func fitRange(a *mat.Dense, cal *Calib) mat.Matrix {
	_, c := a.Dims()
	return a.Slice(cal.Frmin, cal.Frmax, 0, c)
}

// reduced returns the first NRED columns of the free matrix, the subsidiary
// model used for the g0/v0 cross check.
func reduced(free *mat.Dense, cal *Calib) mat.Matrix {
	return free.Slice(cal.Frmin, cal.Frmax, 0, NRED)
}
