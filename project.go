// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.24
//

package gdrop

import (
	"bufio"
	"fmt"
	"io"
)

// The vendor project file is free-form text; values are located by the
// label tokens around them, the same way the instrument software does it.
// All values stay strings until a consumer parses them, so a malformed
// number surfaces as a *ConfigError at the point of use.

// StationData holds the site description block of the project file.
type StationData struct {
	ProjName         string
	Name             string
	SiteCode         string
	Lat              string
	Long             string
	Elev             string
	SetupHeight      string
	TransferHeight   string
	ActualHeight     string
	Gradient         string // Vertical gradient [uGal/cm]
	AirPressure      string
	BarometricFactor string
	PolarX           string
	PolarY           string
	PotentialFile    string
	DeltaFactorFile  string
}

// InstrumentData holds the meter description block.
type InstrumentData struct {
	MeterType     string
	MeterSN       string
	FactoryHeight string
	RubiFreq      string // Rubidium oscillator frequency [Hz]
	Laser         string
	ID, IDV       string // Laser mode frequencies and voltages
	IE, IEV       string
	IF, IFV       string
	IG, IGV       string
	IH, IHV       string
	II, IIV       string
	IJ, IJV       string
	ModulFreq     string // Modulation frequency [Hz]
}

// ProcessingResults holds the vendor software's own processing summary.
type ProcessingResults struct {
	Date             string
	Time             string
	DOY              string
	Year             string
	TimeOffset       string
	Gravity          string
	SetScatter       string
	Precision        string
	TotalUncertainty string
	SetsCollected    string
	SetsProcessed    string
	ProcessedSets    string
	NumNotProcessed  string
	DropsInSet       string
	AcceptedDrops    string
	RejectedDrops    string
	TotalFringes     string
	FringeStart      string
	ProcessedFringes string
	Multiplex        string
	ScaleFactor      string
}

// GravityCorrections holds the vendor-computed correction values.
type GravityCorrections struct {
	EarthTide      string
	PolarMotion    string
	BaroPress      string
	TransferHeight string
	ReferenceXo    string
}

// Project is the parsed content of one vendor project file.
type Project struct {
	Station     StationData
	Instrument  InstrumentData
	Results     ProcessingResults
	Corrections GravityCorrections
}

// ReadProject reads a vendor project file word by word and locates the
// known fields by their surrounding label tokens.
func ReadProject(r io.Reader) (*Project, error) {

	// Split the whole file into whitespace-separated tokens
	var w []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	for s.Scan() {
		w = append(w, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("project file is empty")
	}

	p := &Project{}
	at := func(i int) string {
		if i < 0 || i >= len(w) {
			return ""
		}
		return w[i]
	}

	for i := range w {
		switch w[i] {
		case "Name:":
			if at(i-1) == "Project" {
				p.Station.ProjName = at(i + 1)
			}
			if at(i-1) == "Data" {
				p.Station.Name = at(i + 1)
			}
		case "Code:":
			p.Station.SiteCode = at(i + 1)
		case "Lat:":
			p.Station.Lat = at(i + 1)
		case "Long:":
			p.Station.Long = at(i + 1)
		case "Elev:":
			p.Station.Elev = at(i + 1)
		case "Height:":
			switch at(i - 1) {
			case "Setup":
				p.Station.SetupHeight = at(i + 1)
			case "Transfer":
				if at(i-2) == "cm" {
					p.Station.TransferHeight = at(i + 1)
				}
			case "Actual":
				p.Station.ActualHeight = at(i + 1)
			case "Factory":
				p.Instrument.FactoryHeight = at(i + 1)
			}
			if at(i+2) == "µGal" {
				p.Corrections.TransferHeight = at(i + 1)
			}
		case "Gradient:":
			if at(i-1) == "cm" {
				p.Station.Gradient = at(i + 1)
			}
		case "Pressure:":
			switch at(i - 1) {
			case "Air":
				p.Station.AirPressure = at(i + 1)
			case "Barometric":
				p.Corrections.BaroPress = at(i + 1)
			}
		case "Factor:":
			switch at(i - 1) {
			case "Admittance":
				p.Station.BarometricFactor = at(i + 1)
			case "Scale":
				p.Results.ScaleFactor = at(i + 1)
			}
		case "Coord:":
			p.Station.PolarX = at(i + 1)
			p.Station.PolarY = at(i + 3)
		case "Filename:":
			switch at(i - 1) {
			case "Potential":
				p.Station.PotentialFile = at(i + 1)
			case "Factor":
				p.Station.DeltaFactorFile = at(i + 1)
			}
		case "Type:":
			if at(i-1) == "Meter" {
				p.Instrument.MeterType = at(i + 1)
			}
		case "S/N:":
			p.Instrument.MeterSN = at(i + 1)
		case "Frequency:":
			switch at(i - 1) {
			case "Rubidium":
				p.Instrument.RubiFreq = at(i + 1)
			case "Modulation":
				p.Instrument.ModulFreq = at(i + 1)
			}
		case "Laser:":
			if at(i+3) == "ID:" {
				p.Instrument.Laser = at(i + 1)
			}
		case "ID:":
			p.Instrument.ID = at(i + 1)
			p.Instrument.IDV = at(i + 4)
		case "IE:":
			p.Instrument.IE = at(i + 1)
			p.Instrument.IEV = at(i + 4)
		case "IF:":
			p.Instrument.IF = at(i + 1)
			p.Instrument.IFV = at(i + 4)
		case "IG:":
			p.Instrument.IG = at(i + 1)
			p.Instrument.IGV = at(i + 4)
		case "IH:":
			p.Instrument.IH = at(i + 1)
			p.Instrument.IHV = at(i + 4)
		case "II:":
			p.Instrument.II = at(i + 1)
			p.Instrument.IIV = at(i + 4)
		case "IJ:":
			p.Instrument.IJ = at(i + 1)
			p.Instrument.IJV = at(i + 4)
		case "Date:":
			p.Results.Date = at(i + 1)
		case "Time:":
			p.Results.Time = at(i + 1)
		case "DOY:":
			p.Results.DOY = at(i + 1)
		case "Year:":
			p.Results.Year = at(i + 1)
		case "Offset":
			p.Results.TimeOffset = at(i + 4)
		case "Gravity:":
			p.Results.Gravity = at(i + 1)
		case "Scatter:":
			p.Results.SetScatter = at(i + 1)
		case "Precision:":
			p.Results.Precision = at(i + 1)
		case "Uncertainty:":
			if at(i-1) == "Total" {
				p.Results.TotalUncertainty = at(i + 1)
			}
		case "Collected:":
			p.Results.SetsCollected = at(i + 1)
		case "Processed:":
			switch at(i - 1) {
			case "Sets":
				p.Results.SetsProcessed = at(i + 1)
			case "#s":
				p.Results.ProcessedSets = at(i + 1)
			case "NOT":
				if at(i-2) == "Sets" {
					p.Results.NumNotProcessed = at(i + 1)
				}
			}
		case "Drops/Set:":
			p.Results.DropsInSet = at(i + 1)
		case "Accepted:":
			p.Results.AcceptedDrops = at(i + 1)
		case "Rejected:":
			p.Results.RejectedDrops = at(i + 1)
		case "Acquired:":
			p.Results.TotalFringes = at(i + 1)
		case "Start:":
			p.Results.FringeStart = at(i + 1)
		case "Fringes:":
			p.Results.ProcessedFringes = at(i + 1)
		case "Multiplex:":
			p.Results.Multiplex = at(i + 1)
		case "(ETGTAB):":
			p.Corrections.EarthTide = at(i + 1)
		case "Motion:":
			if at(i-1) == "Polar" && i < 460 {
				p.Corrections.PolarMotion = at(i + 1)
			}
		case "Xo:":
			p.Corrections.ReferenceXo = at(i + 1)
		}
	}

	return p, nil
}
