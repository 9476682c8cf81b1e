// Package diagnostics renders training histories as learning curves.
package diagnostics

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/nlplearn/algorithm"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/trainer"
)

// Default image size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// Series is one line of a learning curve: a value per epoch or sweep.
type Series struct {
	Name   string
	Values []float64
}

// HistoryLabel names what Result.History measures for kind.
func HistoryLabel(kind algorithm.Kind) string {
	switch kind {
	case algorithm.HingeLoss, algorithm.LogisticLoss:
		return "training accuracy (%)"
	case algorithm.L2LR:
		return "max sub-problem gradient"
	default:
		return "projected gradient gap"
	}
}

// SeriesFromReport turns every run of a report into a series. labelNames
// names one-vs-all columns; joint and streaming runs are called "joint".
func SeriesFromReport(r *trainer.Report, labelNames []string) []Series {
	out := make([]Series, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Result == nil || len(res.History) == 0 {
			continue
		}
		name := "joint"
		if res.Label >= 0 {
			name = fmt.Sprintf("label %d", res.Label)
			if res.Label < len(labelNames) {
				name = labelNames[res.Label]
			}
		}
		out = append(out, Series{Name: name, Values: res.History})
	}
	return out
}

// LearningCurve plots series against the iteration number, starting at 1.
func LearningCurve(title, yLabel string, series []Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, errors.NewValueError("LearningCurve", "no series to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = yLabel

	lines := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			return nil, errors.NewValueError("LearningCurve", fmt.Sprintf("series %q is empty", s.Name))
		}
		pts := make(plotter.XYs, len(s.Values))
		for i, v := range s.Values {
			pts[i].X = float64(i + 1)
			pts[i].Y = v
		}
		lines = append(lines, s.Name, pts)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, errors.Wrap(err, "add learning curve lines")
	}
	return p, nil
}

// ReportCurve is LearningCurve over every run of a report.
func ReportCurve(r *trainer.Report, labelNames []string) (*plot.Plot, error) {
	title := fmt.Sprintf("%s (%s)", r.Algorithm, r.Mode)
	return LearningCurve(title, HistoryLabel(r.Algorithm), SeriesFromReport(r, labelNames))
}

// WritePNG renders p as a PNG image of the default size.
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return errors.Wrap(err, "render png")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write png")
	}
	return nil
}

// SavePNG writes p to path; the format follows the file extension.
func SavePNG(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
