// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.27
//

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	m "github.com/mkhts/gdrop"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Structure to hold command line argument information
type cmdOpt struct {
	projectFn string
	dropFn    string
	rawFn     string
	cfg       *m.Config
	lambda    float64
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] project_file drop_file [raw_file]

[Options]
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	var cfgFn string
	flag.StringVar(&cfgFn, "c", "", "Run configuration file (YAML). Flags override file values.")
	ksol := flag.Int("ksol", 0, "Sign of the light travel time term, +1 or -1. Overrides the config file.")
	lpar := flag.Float64("lpar", 0, "Wavelength of the parasitic periodic term [nm]. Overrides the config file.")
	flag.Float64Var(&a.lambda, "lambda", 632.99158, "Laser wavelength [nm]")
	frmin := flag.Int("frmin", 0, "First fringe of the fit range (1-based)")
	frmax := flag.Int("frmax", 0, "Last fringe of the fit range (exclusive end)")
	ssmin := flag.Int("ssmin", 0, "First fringe of the scatter statistic range (1-based). Defaults to the fit range.")
	ssmax := flag.Int("ssmax", 0, "End of the scatter statistic range. Defaults to the fit range.")
	rl := flag.Float64("rl", -1, "Drop rejection threshold on the scatter statistic [nm]. 0 disables rejection.")
	workers := flag.Int("w", 0, "Number of concurrent drop workers. 0 means one per CPU.")
	outDir := flag.String("o", "", "Output directory for estim and report files. Default: current directory.")
	dbFn := flag.String("db", "", "SQLite results database path. Empty disables the store.")
	chart := flag.Bool("chart", false, "Write the HTML residual/series report")
	tide := flag.Float64("tide", 0, "Earth tide correction override [gTop/10 units]")
	load := flag.Float64("load", 0, "Ocean load correction [gTop/10 units]")
	baro := flag.Float64("baro", 0, "Barometric correction override [gTop/10 units]")
	polar := flag.Float64("polar", 0, "Polar motion correction override [gTop/10 units]")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. 0(OFF), 1(display), 2(detailed), 3(more detailed)")
	flag.Parse()

	switch flag.NArg() {
	case 2:
		a.projectFn = flag.Arg(0)
		a.dropFn = flag.Arg(1)
	case 3:
		a.projectFn = flag.Arg(0)
		a.dropFn = flag.Arg(1)
		a.rawFn = flag.Arg(2)
	default:
		return a, fmt.Errorf("too few or many arguments")
	}

	// Load config file, then lay the flags over it
	if len(cfgFn) > 0 {
		a.cfg, err = m.LoadConfig(cfgFn)
		if err != nil {
			return a, err
		}
	} else {
		a.cfg = m.NewConfig()
	}
	if *ksol != 0 {
		a.cfg.Ksol = *ksol
	}
	if *lpar != 0 {
		a.cfg.Lpar = *lpar
	}
	if *frmin != 0 || *frmax != 0 {
		a.cfg.FitRange = m.RangeConfig{Min: *frmin, Max: *frmax}
	}
	if *ssmin != 0 || *ssmax != 0 {
		a.cfg.StatsRange = m.RangeConfig{Min: *ssmin, Max: *ssmax}
	}
	if *rl >= 0 {
		a.cfg.RejectLimit = *rl
	}
	if *workers > 0 {
		a.cfg.Workers = *workers
	}
	if len(*outDir) > 0 {
		a.cfg.OutDir = *outDir
	}
	if len(*dbFn) > 0 {
		a.cfg.Database = *dbFn
	}
	if *chart {
		a.cfg.Chart = true
	}
	if *tide != 0 {
		a.cfg.Corrections.Tide = *tide
	}
	if *load != 0 {
		a.cfg.Corrections.Load = *load
	}
	if *baro != 0 {
		a.cfg.Corrections.Baro = *baro
	}
	if *polar != 0 {
		a.cfg.Corrections.Polar = *polar
	}
	m.DBG_ = dbg

	return a, a.cfg.Validate()
}

// Main application processing
func runApplication(args cmdOpt) error {

	// Load input files
	proj, drops, err := loadInputFiles(args)
	if err != nil {
		return fmt.Errorf("failed to load input files: %w", err)
	}

	// Build the calibration from project file and configuration
	cal, opt, err := buildCalibration(proj, args)
	if err != nil {
		return fmt.Errorf("failed to build calibration: %w", err)
	}

	// Parse the drop records
	recs, err := drops.Records()
	if err != nil {
		return fmt.Errorf("failed to parse drop records: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("no drops in %s", filepath.Base(args.dropFn))
	}
	m.PrintD(1, "%d drops to process\n", len(recs))

	// Prepare the estim output
	name := proj.Station.ProjName
	if len(name) == 0 {
		name = "gdrop"
	}
	estim, err := m.OpenEstim(args.cfg.OutDir, name)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer estim.Close()

	// Process all drops through the worker pool
	outcomes := processDrops(recs, cal, opt, args.cfg.Workers)

	// Emit results
	return emitResults(args, recs, outcomes, estim)
}

// Load input files
func loadInputFiles(args cmdOpt) (*m.Project, *m.DropFile, error) {

	pf, err := os.Open(args.projectFn)
	if err != nil {
		return nil, nil, err
	}
	defer pf.Close()
	proj, err := m.ReadProject(pf)
	if err != nil {
		return nil, nil, err
	}

	df, err := os.Open(args.dropFn)
	if err != nil {
		return nil, nil, err
	}
	defer df.Close()
	drops, err := m.ReadDropFile(df)
	if err != nil {
		return nil, nil, err
	}

	// The raw file is only echoed in debug output; its per-drop environment
	// columns are not needed for the fit itself
	if len(args.rawFn) > 0 && m.DBG_ >= 1 {
		rf, err := os.Open(args.rawFn)
		if err != nil {
			return nil, nil, err
		}
		raw, err := m.ReadRawFile(rf)
		rf.Close()
		if err != nil {
			return nil, nil, err
		}
		m.PrintA("raw file: %d drops, header: %v\n", len(raw.Lines), raw.Header1)
	}

	return proj, drops, nil
}

// Build the per-drop calibration from the project file, with configuration
// values taking precedence
func buildCalibration(proj *m.Project, args cmdOpt) (*m.Calib, *m.DropOpt, error) {

	cal := m.NewCalib()
	cal.Lambda = args.lambda
	cal.Ksol = float64(args.cfg.Ksol)

	if err := cal.SetGradient(proj.Station.Gradient); err != nil {
		return nil, nil, err
	}
	if err := cal.SetRubiFreq(proj.Instrument.RubiFreq); err != nil {
		return nil, nil, err
	}
	if err := cal.SetModulFreq(proj.Instrument.ModulFreq); err != nil {
		return nil, nil, err
	}
	if err := cal.SetScaleFactor(proj.Results.ScaleFactor); err != nil {
		return nil, nil, err
	}
	if err := cal.SetMultiplex(proj.Results.Multiplex); err != nil {
		return nil, nil, err
	}
	if args.cfg.Lpar > 0 {
		cal.Lpar = args.cfg.Lpar
	}

	// Without an explicit fit range, fall back to the fringe window the
	// vendor software recorded in the project file
	fr := args.cfg.FitRange
	if fr.Min == 0 && fr.Max == 0 {
		start, err1 := strconv.Atoi(proj.Results.FringeStart)
		count, err2 := strconv.Atoi(proj.Results.ProcessedFringes)
		if err1 != nil || err2 != nil {
			return nil, nil, fmt.Errorf("no fit range given and none usable in the project file")
		}
		fr = m.RangeConfig{Min: start, Max: start + count}
	}
	if err := cal.SetFrRange(fr.Min, fr.Max); err != nil {
		return nil, nil, err
	}
	ss := args.cfg.StatsRange
	if ss.Min == 0 && ss.Max == 0 {
		ss = fr
	}
	if err := cal.SetFRssRange(ss.Max, ss.Min); err != nil {
		return nil, nil, err
	}

	// Corrections default to the vendor-computed values of the project file
	opt := m.NewDropOpt()
	opt.Tide = parseCorr(proj.Corrections.EarthTide)
	opt.Baro = parseCorr(proj.Corrections.BaroPress)
	opt.Polar = parseCorr(proj.Corrections.PolarMotion)
	if args.cfg.Corrections.Tide != 0 {
		opt.Tide = args.cfg.Corrections.Tide
	}
	if args.cfg.Corrections.Load != 0 {
		opt.Load = args.cfg.Corrections.Load
	}
	if args.cfg.Corrections.Baro != 0 {
		opt.Baro = args.cfg.Corrections.Baro
	}
	if args.cfg.Corrections.Polar != 0 {
		opt.Polar = args.cfg.Corrections.Polar
	}

	m.PrintD(1, "calibration: lambda=%g grad=%g rubi=%g fmod=%g sf=%g mpx=%g fit=%d..%d ss=%d..%d ksol=%g\n",
		cal.Lambda, cal.Gradient, cal.RubiFreq, cal.Fmod, cal.ScaleFactor, cal.Multiplex,
		cal.Frmin, cal.Frmax, cal.Frminss, cal.Frmaxss, cal.Ksol)

	return cal, opt, nil
}

func parseCorr(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Outcome of one drop
type outcome struct {
	sol *m.DropSol
	err error
}

// Process all drops concurrently. Each worker gets its own calibration
// copy; results land in a fixed slot so batch order stays deterministic.
func processDrops(recs []m.DropRecord, cal *m.Calib, opt *m.DropOpt, workers int) []outcome {

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	outcomes := make([]outcome, len(recs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range recs {
		i := i
		g.Go(func() error {
			calCopy := *cal
			fringe, err := m.ParseFringes(recs[i].Fringes)
			if err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}
			sol, err := m.CalcDrop(fringe, &calCopy, opt)
			outcomes[i] = outcome{sol: sol, err: err}
			return nil
		})
	}
	g.Wait() // Workers report per-drop failures via their outcome slot

	return outcomes
}

// Emit estim records, the results database, set summaries and the report
func emitResults(args cmdOpt, recs []m.DropRecord, outcomes []outcome, estim *m.EstimWriter) error {

	// Open the results store if configured
	var store *m.Store
	if len(args.cfg.Database) > 0 {
		var err error
		store, err = m.NewStore(args.cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open results database: %w", err)
		}
		defer store.Close()
	}

	// Rejection by scatter statistic (failed drops are rejected outright)
	ssres := make([]float64, len(outcomes))
	for i, o := range outcomes {
		if o.err == nil {
			ssres[i] = o.sol.Ssres
		}
	}
	rejected := m.RejectDrops(ssres, args.cfg.RejectLimit)

	perSet := map[int][]float64{}
	setRejected := map[int]int{}
	report := &m.ReportData{}
	nfail := 0

	for i, o := range outcomes {
		rec := recs[i]
		if o.err != nil {
			m.PrintA("drop %d/%d failed: %s\n", rec.Set, rec.Drop, o.err.Error())
			nfail++
			setRejected[rec.Set]++
			continue
		}

		if err := estim.WriteDrop(rec.Set, rec.Drop, o.sol); err != nil {
			return err
		}

		accepted := m.IsAccepted(i, rejected)
		if accepted {
			perSet[rec.Set] = append(perSet[rec.Set], o.sol.GTopCor)
		} else {
			setRejected[rec.Set]++
			m.PrintD(1, "drop %d/%d rejected: ssres=%.3f > %.3f\n", rec.Set, rec.Drop, o.sol.Ssres, args.cfg.RejectLimit)
		}

		if store != nil {
			if err := store.RecordDrop(rec.Set, rec.Drop, accepted, o.sol); err != nil {
				return err
			}
		}

		report.GTopCor = append(report.GTopCor, o.sol.GTopCor)
		report.Ssres = append(report.Ssres, o.sol.Ssres)
		report.Labels = append(report.Labels, fmt.Sprintf("%d/%d", rec.Set, rec.Drop))
		if len(report.Residual) == 0 {
			report.Residual = o.sol.ResGrad
			report.RefLabel = fmt.Sprintf("%d/%d", rec.Set, rec.Drop)
		}
	}

	// Set summaries to stdout
	fmt.Printf("%% set  accepted  rejected            mean [nm.s-2]             std [nm.s-2]\n")
	for _, set := range sortedKeys(perSet) {
		s := m.SummarizeSet(set, perSet[set], setRejected[set])
		fmt.Printf("%5d %9d %9d %24.3f %24.3f\n", s.Set, s.Accepted, s.Rejected, s.Mean, s.Std)
	}
	if nfail > 0 {
		m.PrintA("%d of %d drops failed\n", nfail, len(outcomes))
	}

	// HTML report
	if args.cfg.Chart && len(report.GTopCor) > 0 {
		path := filepath.Join(args.cfg.OutDir, "report.html")
		if err := m.WriteReport(path, report); err != nil {
			return err
		}
		m.PrintD(1, "report written to %s\n", path)
	}

	return nil
}

func sortedKeys(perSet map[int][]float64) []int {
	keys := make([]int, 0, len(perSet))
	for k := range perSet {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
