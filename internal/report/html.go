package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders the run summary as one self-contained HTML page of
// interactive line charts.
func WriteHTML(path string, s RunSeries) error {
	if err := s.Validate(); err != nil {
		return err
	}

	steps := make([]string, s.Steps())
	for k := range steps {
		steps[k] = fmt.Sprintf("%d", k)
	}

	page := components.NewPage()
	page.AddCharts(cardinalityChart(steps, s), meanPDChart(steps, s))
	if s.OSPA != nil {
		page.AddCharts(ospaChart(steps, s))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func cardinalityChart(steps []string, s RunSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Cardinality"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	est := make([]opts.LineData, len(s.EstimatedCounts))
	for k, n := range s.EstimatedCounts {
		est[k] = opts.LineData{Value: n}
	}
	line.SetXAxis(steps).AddSeries("estimated", est)

	if s.TrueCounts != nil {
		truth := make([]opts.LineData, len(s.TrueCounts))
		for k, n := range s.TrueCounts {
			truth[k] = opts.LineData{Value: n}
		}
		line.AddSeries("truth", truth)
	}
	return line
}

func meanPDChart(steps []string, s RunSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean detection probability"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	pd := make([]opts.LineData, len(s.MeanPD))
	for k, v := range s.MeanPD {
		pd[k] = opts.LineData{Value: v}
	}
	line.SetXAxis(steps).AddSeries("estimated", pd)

	if s.TruePD > 0 {
		ref := make([]opts.LineData, len(s.MeanPD))
		for k := range ref {
			ref[k] = opts.LineData{Value: s.TruePD}
		}
		line.AddSeries("truth", ref)
	}
	return line
}

func ospaChart(steps []string, s RunSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "OSPA distance"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	ospa := make([]opts.LineData, len(s.OSPA))
	for k, v := range s.OSPA {
		ospa[k] = opts.LineData{Value: v}
	}
	line.SetXAxis(steps).AddSeries("ospa", ospa)
	return line
}
