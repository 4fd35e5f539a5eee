// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package gdrop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectFixture = `Micro-g LaCoste g Processing Report
File Created: 07/25/12, 11:24:41

Project Name: TEST2012
g Acquisition Version: 8.081212
g Processing Version: 9.120327

Company/Institution:
Operator: tn

Station Data
Name: TestSite
Site Code: TS01
Lat: 36.10000 Long: 140.08000 Elev: 21.00 m
Setup Height: 72.00 cm
Transfer Height: 130.00 cm
Actual Height: 130.97 cm
Gradient: -3.000 µGal/cm

Nominal Air Pressure: 1010.93 mBar
Barometric Admittance Factor: 0.30
Polar Motion Coord: 0.1041 " 0.2718 "
Earth Tide (ETGTAB) Selected
Potential Filename: C:\gData\ETCPOT.dat
Delta Factor Filename: C:\gData\ETCPOT.dat

Instrument Data
Meter Type: FG5
Meter S/N: 104
Factory Height: 116.00 cm
Rubidium Frequency: 10000000.00000 Hz
Laser: WEO100 (233)
ID: 632.99177250 nm ( 0.42 V)
IE: 632.99176400 nm ( 1.94 V)
IF: 632.99175780 nm ( 3.33 V)
IG: 632.99177520 nm ( -0.38 V)
IH: 632.99178585 nm ( -1.87 V)
II: 632.99179370 nm ( -3.39 V)
IJ: 632.99176684 nm ( 0.00 V)
Modulation Frequency: 8333.3350 Hz

Processing Results
Date: 07/25/12
Time: 11:23:54
DOY: 207
Year: 2012
Time Offset (D h:m:s): 0 0:0:0
Gravity: 979955249.26 µGal
Set Scatter: 2.55 µGal
Measurement Precision: 0.57 µGal
Total Uncertainty: 24.75 µGal
Number of Sets Collected: 20
Number of Sets Processed: 20
Set #s Processed: 1-20
Number of Sets NOT Processed: 0
Number of Drops/Set: 100
Total Drops Accepted: 2000
Total Drops Rejected: 7
Total Fringes Acquired: 700
Fringe Start: 29
Processed Fringes: 650
GuideCard Multiplex: 4
GuideCard Scale Factor: 250

Gravity Corrections
Earth Tide (ETGTAB): -66.40 µGal
Polar Motion: 4.26 µGal
Barometric Pressure: 0.83 µGal
Transfer Height: -24.24 µGal
Reference Xo: 0.00 µGal
`

func TestReadProject(t *testing.T) {
	t.Parallel()

	p, err := ReadProject(strings.NewReader(projectFixture))
	require.NoError(t, err)

	t.Run("station", func(t *testing.T) {
		assert.Equal(t, "TEST2012", p.Station.ProjName)
		assert.Equal(t, "TestSite", p.Station.Name)
		assert.Equal(t, "TS01", p.Station.SiteCode)
		assert.Equal(t, "36.10000", p.Station.Lat)
		assert.Equal(t, "140.08000", p.Station.Long)
		assert.Equal(t, "21.00", p.Station.Elev)
		assert.Equal(t, "72.00", p.Station.SetupHeight)
		assert.Equal(t, "130.00", p.Station.TransferHeight)
		assert.Equal(t, "130.97", p.Station.ActualHeight)
		assert.Equal(t, "-3.000", p.Station.Gradient)
		assert.Equal(t, "1010.93", p.Station.AirPressure)
		assert.Equal(t, "0.30", p.Station.BarometricFactor)
		assert.Equal(t, "0.1041", p.Station.PolarX)
		assert.Equal(t, "0.2718", p.Station.PolarY)
	})

	t.Run("instrument", func(t *testing.T) {
		assert.Equal(t, "FG5", p.Instrument.MeterType)
		assert.Equal(t, "104", p.Instrument.MeterSN)
		assert.Equal(t, "116.00", p.Instrument.FactoryHeight)
		assert.Equal(t, "10000000.00000", p.Instrument.RubiFreq)
		assert.Equal(t, "WEO100", p.Instrument.Laser)
		assert.Equal(t, "632.99177250", p.Instrument.ID)
		assert.Equal(t, "0.42", p.Instrument.IDV)
		assert.Equal(t, "632.99179370", p.Instrument.II)
		assert.Equal(t, "-3.39", p.Instrument.IIV)
		assert.Equal(t, "8333.3350", p.Instrument.ModulFreq)
	})

	t.Run("results", func(t *testing.T) {
		assert.Equal(t, "07/25/12", p.Results.Date)
		assert.Equal(t, "11:23:54", p.Results.Time)
		assert.Equal(t, "207", p.Results.DOY)
		assert.Equal(t, "2012", p.Results.Year)
		assert.Equal(t, "979955249.26", p.Results.Gravity)
		assert.Equal(t, "2.55", p.Results.SetScatter)
		assert.Equal(t, "0.57", p.Results.Precision)
		assert.Equal(t, "24.75", p.Results.TotalUncertainty)
		assert.Equal(t, "20", p.Results.SetsCollected)
		assert.Equal(t, "20", p.Results.SetsProcessed)
		assert.Equal(t, "1-20", p.Results.ProcessedSets)
		assert.Equal(t, "0", p.Results.NumNotProcessed)
		assert.Equal(t, "100", p.Results.DropsInSet)
		assert.Equal(t, "2000", p.Results.AcceptedDrops)
		assert.Equal(t, "7", p.Results.RejectedDrops)
		assert.Equal(t, "700", p.Results.TotalFringes)
		assert.Equal(t, "29", p.Results.FringeStart)
		assert.Equal(t, "650", p.Results.ProcessedFringes)
		assert.Equal(t, "4", p.Results.Multiplex)
		assert.Equal(t, "250", p.Results.ScaleFactor)
	})

	t.Run("corrections", func(t *testing.T) {
		assert.Equal(t, "-66.40", p.Corrections.EarthTide)
		assert.Equal(t, "4.26", p.Corrections.PolarMotion)
		assert.Equal(t, "0.83", p.Corrections.BaroPress)
		assert.Equal(t, "-24.24", p.Corrections.TransferHeight)
		assert.Equal(t, "0.00", p.Corrections.ReferenceXo)
	})
}

func TestReadProjectEmpty(t *testing.T) {
	t.Parallel()

	_, err := ReadProject(strings.NewReader(""))
	require.Error(t, err)
}

// Calibration built from parsed project values must round-trip through the
// string setters.
func TestReadProjectIntoCalib(t *testing.T) {
	t.Parallel()

	p, err := ReadProject(strings.NewReader(projectFixture))
	require.NoError(t, err)

	cal := NewCalib()
	require.NoError(t, cal.SetGradient(p.Station.Gradient))
	require.NoError(t, cal.SetRubiFreq(p.Instrument.RubiFreq))
	require.NoError(t, cal.SetModulFreq(p.Instrument.ModulFreq))
	require.NoError(t, cal.SetScaleFactor(p.Results.ScaleFactor))
	require.NoError(t, cal.SetMultiplex(p.Results.Multiplex))

	assert.InDelta(t, 3e-6, cal.Gradient, 1e-18)
	assert.Equal(t, 1e7, cal.RubiFreq)
	assert.Equal(t, 8333.335, cal.Fmod)
	assert.Equal(t, 250.0, cal.ScaleFactor)
	assert.Equal(t, 4.0, cal.Multiplex)
}
