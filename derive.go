// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.21
//

package gdrop

// Derived physical quantities. Pure arithmetic on already-fitted drop
// outputs; each function is exported on its own so callers can rework a
// correction without refitting.

// EffectiveHeight is the height at which the free and gradient-corrected
// models agree: h = -(g0Gr - g0)/gradient.
func EffectiveHeight(g0Gr, g0, gradient float64) float64 {
	return -(g0Gr - g0) / gradient
}

// ApexOffset is the velocity term of the effective top height:
// v0^2 / (2 g0Gr).
func ApexOffset(v0, g0Gr float64) float64 {
	return v0 * v0 / (2 * g0Gr)
}

// GTopAt references gravity to the effective top height.
func GTopAt(g0Gr, gradient, apexOffset float64) float64 {
	return g0Gr - gradient*apexOffset
}

// GTopCorrected applies the external tide, load, barometric and polar
// corrections to gTop. The inputs use the gTop/10 unit convention, hence
// the factor of 10.
func GTopCorrected(gTop, tide, load, baro, polar float64) float64 {
	return gTop + 10*tide + 10*load + 10*baro + 10*polar
}

// derive fills the derived quantities of a fitted drop.
func derive(sol *DropSol, cal *Calib, opt *DropOpt) {
	sol.H = EffectiveHeight(sol.G0Gr, sol.G0, cal.Gradient)
	sol.Grad = ApexOffset(sol.V0, sol.G0Gr)
	sol.Htop = sol.H + sol.Grad
	sol.EffZ = sol.H + sol.Z0
	sol.GTop = GTopAt(sol.G0Gr, cal.Gradient, sol.Grad)
	sol.GTopCor = GTopCorrected(sol.GTop, opt.Tide, opt.Load, opt.Baro, opt.Polar)
}
