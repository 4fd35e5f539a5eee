// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.22
//

package gdrop

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

// DateToMJD converts a Gregorian calendar date to the modified Julian date.
// Algorithm from Duffet-Smith and Zwart, Practical Astronomy, 4th ed.
func DateToMJD(year, month int, day float64) float64 {
	yearp := year
	monthp := month
	if month == 1 || month == 2 {
		yearp = year - 1
		monthp = month + 12
	}

	// Dates before 1582/10/15 precede the Gregorian calendar
	b := 0.0
	if year > 1582 || (year == 1582 && (month > 10 || (month == 10 && day >= 15))) {
		a := math.Trunc(float64(yearp) / 100)
		b = 2 - a + math.Trunc(a/4)
	}

	var c float64
	if yearp < 0 {
		c = math.Trunc(365.25*float64(yearp) - 0.75)
	} else {
		c = math.Trunc(365.25 * float64(yearp))
	}
	d := math.Trunc(30.6001 * float64(monthp+1))

	jd := b + c + d + day + 1720994.5
	return jd - 2400000.5
}

// ------------------------------------
// Debug print functions
// ------------------------------------

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(os.Stderr, "(%d x %d)\n", r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(os.Stderr, "%v\n", fa)
}

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}
