// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.21
//

// Implements the least-squares reduction of one free-fall drop.

package gdrop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CalcDrop reduces the raw fringe readings of one drop to a gravity estimate.
// It runs the three regressions of the fall model in order:
//
//  1. free fall model over the fit range
//  2. gradient-corrected model over the same range
//  3. reduced 7-column model (g0/v0 cross check)
//
// then derives the scatter statistic from the full-range gradient residuals,
// builds the modulation-corrected observation vector from the first two
// solutions and runs the modulation regression. Any solver failure aborts
// the drop; there is no partial result.
//
// Parameters:
//   - fringe: raw fringe readings, one per sample index
//   - cal: per-drop calibration, not modified
//   - opt: external corrections and options
//
// Returns:
//   - DropSol: regression outputs, scatter statistic and derived quantities
//   - error: *ConfigError, *UnderdeterminedError or *SingularError
func CalcDrop(fringe []float64, cal *Calib, opt *DropOpt) (*DropSol, error) {

	if err := cal.Validate(len(fringe)); err != nil {
		return nil, err
	}

	// Preprocess fringes and build the design matrices
	fd := Preprocess(fringe, cal)
	d := BuildDesign(fd, cal)

	// Primary fits
	prim, err := solvePrimary(d, fd, cal)
	if err != nil {
		return nil, fmt.Errorf("primary fit failed: %w", err)
	}

	// Acceptance scatter statistic
	resGrad, ssres := calcScatter(d, fd, prim.grad, cal)

	// Modulation-corrected fit
	modFit, resMod, err := solveModulation(d, fd, prim, cal)
	if err != nil {
		return nil, fmt.Errorf("modulation fit failed: %w", err)
	}

	sol := &DropSol{
		Fringes: fd,
		FreeFit: prim.free,
		GradFit: prim.grad,
		RedFit:  prim.red,
		ModFit:  modFit,
		ResGrad: resGrad,
		ResMod:  resMod,
		Ssres:   ssres,
		Z0:      prim.free.X.AtVec(0),
		V0:      prim.free.X.AtVec(1),
		G0:      prim.free.X.AtVec(2),
		G0Gr:    prim.grad.X.AtVec(2),
	}
	derive(sol, cal, opt)

	return sol, nil
}

// DropOpt carries the externally supplied correction inputs of one drop.
// Tide, load, barometric and polar terms use the gTop/10 unit convention
// of the instrument software.
type DropOpt struct {
	Tide  float64 // Earth tide correction
	Load  float64 // Ocean load correction
	Baro  float64 // Barometric correction
	Polar float64 // Polar motion correction
}

// NewDropOpt creates a DropOpt with all corrections zero.
func NewDropOpt() *DropOpt {
	return &DropOpt{}
}

// DropSol is the final per-drop record. Created once all regressions of a
// drop complete, handed to the caller's sink and discarded; the engine keeps
// no state across drops.
type DropSol struct {
	Fringes *FringeData // Preprocessed fringe series
	FreeFit *RegResult  // Free fall model solution {z0,v0,g0,a1..a6}
	GradFit *RegResult  // Gradient-corrected solution
	RedFit  *RegResult  // Reduced 7-column cross check (not used downstream)
	ModFit  *RegResult  // Modulation-corrected solution {z0,v0,mk,a5,a6}
	ResGrad []float64   // Full-range residuals of the gradient solution
	ResMod  []float64   // Full-range residuals of the modulation solution
	Ssres   float64     // Drop acceptance scatter statistic

	Z0   float64 // Initial position, free model [nm]
	V0   float64 // Initial velocity, free model [nm/s]
	G0   float64 // Ground-level gravity, free model [nm/s^2]
	G0Gr float64 // Gravity referenced through the gradient model [nm/s^2]

	// Derived quantities, see derive.go
	H       float64 // Effective measurement height [nm]
	Grad    float64 // Apex velocity offset v0^2/(2 g0Gr) [nm]
	Htop    float64 // Effective height at top of trajectory [nm]
	EffZ    float64 // Effective position h + z0 [nm]
	GTop    float64 // Gravity at the effective top height [nm/s^2]
	GTopCor float64 // GTop with tide, load, baro and polar corrections applied
}

// primaryFit bundles the three fit-range regressions of stage one.
type primaryFit struct {
	free *RegResult
	grad *RegResult
	red  *RegResult
}

// solvePrimary runs the free, gradient-corrected and reduced regressions
// over the fit range against the expected position vector.
func solvePrimary(d *Design, fd *FringeData, cal *Calib) (*primaryFit, error) {

	z := mat.NewVecDense(cal.Frmax-cal.Frmin, fd.Z[cal.Frmin:cal.Frmax])

	free, err := SolveLS(fitRange(d.Free, cal), z)
	if err != nil {
		return nil, fmt.Errorf("free model: %w", err)
	}
	grad, err := SolveLS(fitRange(d.Grad, cal), z)
	if err != nil {
		return nil, fmt.Errorf("gradient model: %w", err)
	}
	red, err := SolveLS(reduced(d.Free, cal), z)
	if err != nil {
		return nil, fmt.Errorf("reduced model: %w", err)
	}

	return &primaryFit{free: free, grad: grad, red: red}, nil
}

// calcScatter computes the residuals of the gradient solution against the
// full (unrestricted) gradient matrix and reduces the statistics range
// [frminss, frmaxss) to the drop acceptance value. The divisor
// frmaxss - frminss + 1 is the instrument convention, kept as is.
func calcScatter(d *Design, fd *FringeData, grad *RegResult, cal *Calib) ([]float64, float64) {

	n := len(fd.Z)
	var ax mat.VecDense
	ax.MulVec(d.Grad, grad.X)

	res := make([]float64, n)
	for i := 0; i < n; i++ {
		res[i] = fd.Z[i] - ax.AtVec(i)
	}

	ss := 0.0
	for _, r := range res[cal.Frminss:cal.Frmaxss] {
		ss += r * r
	}
	ssres := math.Sqrt(ss / float64(cal.Frmaxss-cal.Frminss+1))

	return res, ssres
}

// solveModulation builds and solves the modulation-corrected model.
// The observation vector removes the parabolic term of the free solution and
// the projection of its periodic unknowns onto the gradient matrix; the mk
// column is the closed-form combination of the free coefficients x1, x2 and
// the gradient coefficient xg2, scaled by 1e-6.
func solveModulation(d *Design, fd *FringeData, prim *primaryFit, cal *Calib) (*RegResult, []float64, error) {

	n := len(fd.TT)
	x1 := prim.free.X.AtVec(1)
	x2 := prim.free.X.AtVec(2)
	xg2 := prim.grad.X.AtVec(2)

	// mk column
	for i := 0; i < n; i++ {
		tt := fd.TT[i]
		mk := (x1/6*tt*tt*tt + x2/24*tt*tt*tt*tt - (x2-xg2)*tt*tt/(cal.Gradient*2)) / 1e6
		d.Mod.Set(i, 2, mk)
	}

	// Observation vector: remove the parabolic term and the periodic
	// projection of the free solution
	var modkor mat.VecDense
	modkor.MulVec(d.Grad.Slice(0, n, 3, NFREE), prim.free.X.SliceVec(3, NFREE))

	zgrad := make([]float64, n)
	for i := 0; i < n; i++ {
		zgrad[i] = fd.Z[i] - x2/2*fd.TT[i]*fd.TT[i] - modkor.AtVec(i)
	}

	zfit := mat.NewVecDense(cal.Frmax-cal.Frmin, zgrad[cal.Frmin:cal.Frmax])
	modFit, err := SolveLS(fitRange(d.Mod, cal), zfit)
	if err != nil {
		return nil, nil, err
	}

	// Full-range residuals of the modulation solution
	var ax mat.VecDense
	ax.MulVec(d.Mod, modFit.X)
	resMod := make([]float64, n)
	for i := 0; i < n; i++ {
		resMod[i] = zgrad[i] - ax.AtVec(i)
	}

	return modFit, resMod, nil
}
