package experiment

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// histogramBins is the bin count for the finished-per-run histogram.
const histogramBins = 20

// WriteHistogram renders the distribution of finished counts to a PNG.
func WriteHistogram(counts []float64, path string) error {
	if len(counts) == 0 {
		return fmt.Errorf("no run results to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Vehicles finished per run (%d runs)", len(counts))
	p.X.Label.Text = "Vehicles finished"
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(plotter.Values(counts), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
