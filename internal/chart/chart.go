// Package chart renders the model-comparison bar chart.
package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/shotafuji/cartml/internal/eval"
)

// RenderScores writes a grouped bar chart of precision/recall/F1 per model
// family to path (format from the file extension, e.g. .png).
func RenderScores(path string, scores []eval.Score) error {
	if len(scores) == 0 {
		return fmt.Errorf("chart: no scores to render")
	}

	p := plot.New()
	p.Title.Text = "Classifier comparison"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1.05

	precision := make(plotter.Values, len(scores))
	recall := make(plotter.Values, len(scores))
	f1 := make(plotter.Values, len(scores))
	names := make([]string, len(scores))
	for i, s := range scores {
		precision[i] = s.Precision
		recall[i] = s.Recall
		f1[i] = s.F1
		names[i] = string(s.Family)
	}

	width := vg.Points(16)

	barsP, err := plotter.NewBarChart(precision, width)
	if err != nil {
		return fmt.Errorf("chart: precision bars: %w", err)
	}
	barsP.Offset = -width
	barsP.Color = plotutil.Color(0)

	barsR, err := plotter.NewBarChart(recall, width)
	if err != nil {
		return fmt.Errorf("chart: recall bars: %w", err)
	}
	barsR.Color = plotutil.Color(1)

	barsF, err := plotter.NewBarChart(f1, width)
	if err != nil {
		return fmt.Errorf("chart: f1 bars: %w", err)
	}
	barsF.Offset = width
	barsF.Color = plotutil.Color(2)

	p.Add(barsP, barsR, barsF)
	p.Legend.Add("precision", barsP)
	p.Legend.Add("recall", barsR)
	p.Legend.Add("f1", barsF)
	p.Legend.Top = true
	p.NominalX(names...)

	if err := p.Save(7*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: saving %s: %w", path, err)
	}
	return nil
}
