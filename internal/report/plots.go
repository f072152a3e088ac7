package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	estimateColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	truthColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// WritePlots renders the run's PNG plots into dir: cardinality vs truth,
// mean detection probability, OSPA (when present), and the XY overview of
// estimated against true positions.
func WritePlots(dir string, s RunSeries) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	if err := writeCardinalityPlot(filepath.Join(dir, "cardinality.png"), s); err != nil {
		return err
	}
	if err := writeMeanPDPlot(filepath.Join(dir, "mean_pd.png"), s); err != nil {
		return err
	}
	if s.OSPA != nil {
		if err := writeOSPAPlot(filepath.Join(dir, "ospa.png"), s); err != nil {
			return err
		}
	}
	return writeXYPlot(filepath.Join(dir, "positions.png"), s)
}

func writeCardinalityPlot(path string, s RunSeries) error {
	p := plot.New()
	p.Title.Text = "Estimated vs true cardinality"
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Target count"

	est := make(plotter.XYs, s.Steps())
	for k, n := range s.EstimatedCounts {
		est[k] = plotter.XY{X: float64(k), Y: float64(n)}
	}
	estLine, err := plotter.NewLine(est)
	if err != nil {
		return err
	}
	estLine.Color = estimateColor
	estLine.Width = vg.Points(1.5)
	p.Add(estLine)
	p.Legend.Add("estimated", estLine)

	if s.TrueCounts != nil {
		truth := make(plotter.XYs, len(s.TrueCounts))
		for k, n := range s.TrueCounts {
			truth[k] = plotter.XY{X: float64(k), Y: float64(n)}
		}
		truthLine, err := plotter.NewLine(truth)
		if err != nil {
			return err
		}
		truthLine.Color = truthColor
		truthLine.Width = vg.Points(1)
		truthLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(truthLine)
		p.Legend.Add("truth", truthLine)
	}

	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func writeMeanPDPlot(path string, s RunSeries) error {
	p := plot.New()
	p.Title.Text = "Estimated mean detection probability"
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "pD"
	p.Y.Min, p.Y.Max = 0, 1

	pts := make(plotter.XYs, s.Steps())
	for k, v := range s.MeanPD {
		pts[k] = plotter.XY{X: float64(k), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = estimateColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("estimated", line)

	if s.TruePD > 0 {
		ref := make(plotter.XYs, s.Steps())
		for k := range ref {
			ref[k] = plotter.XY{X: float64(k), Y: s.TruePD}
		}
		refLine, err := plotter.NewLine(ref)
		if err != nil {
			return err
		}
		refLine.Color = truthColor
		refLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(refLine)
		p.Legend.Add("truth", refLine)
	}

	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func writeOSPAPlot(path string, s RunSeries) error {
	p := plot.New()
	p.Title.Text = "OSPA distance"
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "OSPA"

	pts := make(plotter.XYs, len(s.OSPA))
	for k, v := range s.OSPA {
		pts[k] = plotter.XY{X: float64(k), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = estimateColor
	line.Width = vg.Points(1.5)
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func writeXYPlot(path string, s RunSeries) error {
	p := plot.New()
	p.Title.Text = "Estimated and true positions"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if len(s.TruthXY) > 0 {
		pts := make(plotter.XYs, len(s.TruthXY))
		for i, xy := range s.TruthXY {
			pts[i] = plotter.XY{X: xy[0], Y: xy[1]}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.Color = truthColor
		sc.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("truth", sc)
	}
	if len(s.EstimatedXY) > 0 {
		pts := make(plotter.XYs, len(s.EstimatedXY))
		for i, xy := range s.EstimatedXY {
			pts[i] = plotter.XY{X: xy[0], Y: xy[1]}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.Color = estimateColor
		sc.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("estimated", sc)
	}

	p.Legend.Top = true
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
