package visualization

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"aperturesynth/pkg/metrics"
)

// HistogramFile is the file name written by PlotHistograms in the CLI.
const HistogramFile = "histograms.png"

// HistogramSeries is one named intensity histogram.
type HistogramSeries struct {
	Name      string
	Histogram metrics.Histogram
}

var seriesColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

// Series returns the histograms to plot: the original scene, the
// reconstruction and, when present, the gain-normalized baseline.
func (v *Viewer) Series() []HistogramSeries {
	series := []HistogramSeries{
		{Name: "Original", Histogram: v.result.Quality.Original},
		{Name: "Reconstructed", Histogram: v.result.Quality.Compared},
	}
	if v.result.BaselineQuality != nil {
		series = append(series, HistogramSeries{Name: "Baseline", Histogram: v.result.BaselineQuality.Compared})
	}
	return series
}

// PlotHistograms draws the intensity histograms as lines over the 256 bins
// and saves the plot. The format follows the file extension.
func (v *Viewer) PlotHistograms(path string) error {
	p := plot.New()
	p.Title.Text = "Intensity Histograms"
	p.X.Label.Text = "Intensity"
	p.Y.Label.Text = "Pixels"
	p.X.Min = 0
	p.X.Max = metrics.Bins - 1

	for i, s := range v.Series() {
		pts := make(plotter.XYs, metrics.Bins)
		for bin, count := range s.Histogram {
			pts[bin] = plotter.XY{X: float64(bin), Y: count}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = seriesColors[i%len(seriesColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram plot: %w", err)
	}
	return nil
}
