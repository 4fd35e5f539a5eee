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
)

// Calib holds the per-drop physical constants of the instrument.
// Values arrive as text tokens from the project and raw files, so every setter
// parses a string and reports a *ConfigError naming the offending field.
// A Calib must not be modified once a drop starts processing; callers running
// drops concurrently give each drop its own copy.
type Calib struct {
	Lambda      float64 // Laser wavelength [nm]
	ScaleFactor float64 // Interferometer scale factor
	Multiplex   float64 // Fringe multiplex factor
	Gradient    float64 // Vertical gravity gradient, scaled to [nm.s-2/nm]
	Fmod        float64 // Modulation frequency [Hz]
	Lpar        float64 // Wavelength of the parasitic periodic term [nm]
	RubiFreq    float64 // Rubidium reference oscillator frequency [Hz]
	Frmin       int     // First fringe of the fit range (0-based, inclusive)
	Frmax       int     // End of the fit range (exclusive)
	Frminss     int     // First fringe of the scatter statistic range (0-based, inclusive)
	Frmaxss     int     // End of the scatter statistic range (exclusive)
	Ksol        float64 // Sign of the light travel time term (+1/-1)
}

// NewCalib returns a Calib with the default solution branch (+1).
func NewCalib() *Calib {
	return &Calib{Ksol: 1}
}

func parseField(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ConfigError{Field: field, Value: s, Err: err}
	}
	return v, nil
}

func (c *Calib) SetLambda(s string) error {
	v, err := parseField("wavelength", s)
	if err != nil {
		return err
	}
	c.Lambda = v
	return nil
}

func (c *Calib) SetScaleFactor(s string) error {
	v, err := parseField("scaleFactor", s)
	if err != nil {
		return err
	}
	c.ScaleFactor = v
	return nil
}

func (c *Calib) SetMultiplex(s string) error {
	v, err := parseField("multiplex", s)
	if err != nil {
		return err
	}
	c.Multiplex = v
	return nil
}

// SetGradient converts the project file gradient [uGal/cm] to the internal
// per-unit-length convention: -100 * v * 1e-8.
func (c *Calib) SetGradient(s string) error {
	v, err := parseField("gradient", s)
	if err != nil {
		return err
	}
	c.Gradient = -100 * v * 1e-8
	return nil
}

func (c *Calib) SetModulFreq(s string) error {
	v, err := parseField("modulFreq", s)
	if err != nil {
		return err
	}
	c.Fmod = v
	return nil
}

func (c *Calib) SetLpar(s string) error {
	v, err := parseField("Lpar", s)
	if err != nil {
		return err
	}
	c.Lpar = v
	return nil
}

func (c *Calib) SetRubiFreq(s string) error {
	v, err := parseField("rubiFreq", s)
	if err != nil {
		return err
	}
	c.RubiFreq = v
	return nil
}

// SetFrRange sets the fit range from the 1-based instrument convention.
// frmin is shifted down by one, frmax stays as the exclusive end.
func (c *Calib) SetFrRange(frmin, frmax int) error {
	if frmin < 1 || frmin >= frmax {
		return &ConfigError{Field: "fitRange", Value: fmt.Sprintf("%d..%d", frmin, frmax)}
	}
	c.Frmin = frmin - 1
	c.Frmax = frmax
	return nil
}

// SetFRssRange sets the scatter statistic range, 1-based on the lower bound
// like the fit range. Argument order follows the instrument software.
func (c *Calib) SetFRssRange(frmaxss, frminss int) error {
	if frminss < 1 || frminss >= frmaxss {
		return &ConfigError{Field: "statsRange", Value: fmt.Sprintf("%d..%d", frminss, frmaxss)}
	}
	c.Frmaxss = frmaxss
	c.Frminss = frminss - 1
	return nil
}

// Validate checks the range invariants against the fringe count of a drop.
func (c *Calib) Validate(nfringe int) error {
	if c.Frmin < 0 || c.Frmin >= c.Frmax || c.Frmax > nfringe {
		return &ConfigError{Field: "fitRange", Value: fmt.Sprintf("%d..%d of %d", c.Frmin, c.Frmax, nfringe)}
	}
	if c.Frminss < 0 || c.Frminss >= c.Frmaxss || c.Frmaxss > nfringe {
		return &ConfigError{Field: "statsRange", Value: fmt.Sprintf("%d..%d of %d", c.Frminss, c.Frmaxss, nfringe)}
	}
	if c.RubiFreq == 0 {
		return &ConfigError{Field: "rubiFreq", Value: "0"}
	}
	if c.Lpar == 0 {
		return &ConfigError{Field: "Lpar", Value: "0"}
	}
	if c.Gradient == 0 {
		return &ConfigError{Field: "gradient", Value: "0"}
	}
	return nil
}
