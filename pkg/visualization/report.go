package visualization

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"aperturesynth/pkg/metrics"
)

// ReportFile is the file name of the HTML report written by the CLI.
const ReportFile = "report.html"

// RenderReport writes an HTML page with a chart of the quality scores and a
// chart of the intensity histograms.
func (v *Viewer) RenderReport(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(v.scoreChart(), v.histogramChart())
	return page.Render(w)
}

// WriteReport renders the report to path.
func (v *Viewer) WriteReport(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := v.RenderReport(file); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func (v *Viewer) scoreChart() *charts.Bar {
	res := v.result
	subtitle := fmt.Sprintf("angles=%d snr=%g rmse=%.3f", len(res.Samples), res.SNR, res.Quality.RMSE)
	if !res.Quality.Similarity.Defined {
		subtitle += " (histogram similarity undefined)"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Reconstruction Quality", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	bar.SetXAxis([]string{"Histogram similarity", "SSIM"}).
		AddSeries("Reconstructed", scoreData(res.Quality),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	if res.BaselineQuality != nil {
		bar.AddSeries("Baseline", scoreData(*res.BaselineQuality),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	}
	return bar
}

func scoreData(r metrics.Report) []opts.BarData {
	return []opts.BarData{
		{Value: round3(r.Similarity.Score)},
		{Value: round3(r.SSIM)},
	}
}

func (v *Viewer) histogramChart() *charts.Line {
	bins := make([]string, metrics.Bins)
	for i := range bins {
		bins[i] = strconv.Itoa(i)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Intensity Histograms"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Intensity", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Pixels"}),
	)
	line.SetXAxis(bins)
	for _, s := range v.Series() {
		data := make([]opts.LineData, metrics.Bins)
		for i, count := range s.Histogram {
			data[i] = opts.LineData{Value: count}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}

func round3(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	return v
}
