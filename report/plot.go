// Package report renders diagnostics for a trained model.
package report

import (
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
)

// Size is the edge length of saved plots.
const Size = 5 * vg.Inch

var formats = map[string]bool{
	".png": true, ".svg": true, ".pdf": true, ".eps": true,
	".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

// PredictionPlot scatters predicted against actual values with the identity
// line y = x for reference.
func PredictionPlot(yTrue, yPred *mat.VecDense, title string) (*plot.Plot, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return nil, errors.NewValueError("PredictionPlot", "no values to plot")
	}
	if yTrue.Len() != yPred.Len() {
		return nil, errors.NewDimensionError("PredictionPlot", yTrue.Len(), yPred.Len(), 0)
	}

	n := yTrue.Len()
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = yTrue.AtVec(i)
		pts[i].Y = yPred.AtVec(i)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	s.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)

	all := append(append([]float64(nil), yTrue.RawVector().Data...), yPred.RawVector().Data...)
	lo, hi := floats.Min(all), floats.Max(all)
	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, errors.Wrap(err, "identity line")
	}
	ident.LineStyle.Color = color.RGBA{R: 200, A: 255}
	ident.LineStyle.Width = vg.Points(1)
	ident.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(s, ident)
	p.Legend.Add("prediction", s)
	p.Legend.Add("y = x", ident)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// SavePredictionPlot renders PredictionPlot to path. The image format follows
// the file extension.
func SavePredictionPlot(path string, yTrue, yPred *mat.VecDense, title string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !formats[ext] {
		return errors.NewValueError("SavePredictionPlot", "unsupported plot format '"+ext+"'")
	}

	p, err := PredictionPlot(yTrue, yPred, title)
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return errors.Wrapf(err, "save plot to %s", path)
	}

	log.GetLoggerWithName("report").Info("Saved prediction plot",
		log.PathKey, path,
		log.SamplesKey, yTrue.Len(),
	)
	return nil
}
