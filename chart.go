// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.26
//

package gdrop

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTML report of a batch run: the corrected gravity series over all drops
// and the full-range residuals of a reference drop. Replaces the plotting
// the instrument software does offline; diagnostics only.

// ReportData collects the series the report renders.
type ReportData struct {
	GTopCor  []float64 // Corrected gravity per processed drop, batch order
	Ssres    []float64 // Scatter statistic per drop
	Labels   []string  // "set/drop" label per drop
	Residual []float64 // Full-range gradient residuals of the reference drop
	RefLabel string    // Label of the reference drop
}

// WriteReport renders the report to path.
func WriteReport(path string, data *ReportData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	return RenderReport(f, data)
}

// RenderReport renders the report charts to w.
func RenderReport(w io.Writer, data *ReportData) error {
	page := components.NewPage()
	page.AddCharts(
		gravityChart(data),
		scatterChart(data),
		residualChart(data),
	)
	return page.Render(w)
}

func gravityChart(data *ReportData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Corrected gravity per drop"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "gTopCor [nm/s2]", Scale: opts.Bool(true)}),
	)
	series := make([]opts.LineData, len(data.GTopCor))
	for i, v := range data.GTopCor {
		series[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(data.Labels).AddSeries("gTopCor", series)
	return line
}

func scatterChart(data *ReportData) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Drop scatter statistic"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ssres [nm]", Scale: opts.Bool(true)}),
	)
	series := make([]opts.ScatterData, len(data.Ssres))
	for i, v := range data.Ssres {
		series[i] = opts.ScatterData{Value: v}
	}
	sc.SetXAxis(data.Labels).AddSeries("ssres", series)
	return sc
}

func residualChart(data *ReportData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Gradient model residuals, drop " + data.RefLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: "residual [nm]", Scale: opts.Bool(true)}),
	)
	xs := make([]int, len(data.Residual))
	series := make([]opts.LineData, len(data.Residual))
	for i, v := range data.Residual {
		xs[i] = i
		series[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(xs).AddSeries("residual", series)
	return line
}
