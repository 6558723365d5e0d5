package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"pancompare/pkg/model"
)

// IntegerTicks marks every whole subset size on the x axis.
type IntegerTicks struct{}

func (IntegerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i := int(math.Ceil(min)); i <= int(math.Floor(max)); i++ {
		ticks = append(ticks, plot.Tick{
			Value: float64(i),
			Label: fmt.Sprintf("%d", i),
		})
	}
	return ticks
}

// RenderSaturationPlot draws mean core and accessory counts against subset
// size as an SVG line chart.
func RenderSaturationPlot(group string, curve []model.SizeSummary) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Pan-genome saturation: " + group
	p.X.Label.Text = "Genomes sampled"
	p.Y.Label.Text = "Mean ortholog count"

	p.X.Tick.Marker = IntegerTicks{}

	corePoints := make(plotter.XYs, len(curve))
	accessoryPoints := make(plotter.XYs, len(curve))
	for i, size := range curve {
		corePoints[i].X = float64(size.Size)
		corePoints[i].Y = size.Core.Mean
		accessoryPoints[i].X = float64(size.Size)
		accessoryPoints[i].Y = size.Accessory.Mean
	}

	coreLine, err := plotter.NewLine(corePoints)
	if err != nil {
		return nil, err
	}
	coreLine.LineStyle.Color = color.RGBA{R: 50, G: 100, B: 200, A: 255}
	coreLine.LineStyle.Width = vg.Points(2)
	p.Add(coreLine)
	p.Legend.Add("Core", coreLine)

	accessoryLine, err := plotter.NewLine(accessoryPoints)
	if err != nil {
		return nil, err
	}
	accessoryLine.LineStyle.Color = color.RGBA{R: 200, G: 80, B: 50, A: 255}
	accessoryLine.LineStyle.Width = vg.Points(2)
	accessoryLine.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(accessoryLine)
	p.Legend.Add("Accessory", accessoryLine)
	p.Legend.Top = true

	// Write to SVG
	var buf bytes.Buffer
	writer, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "svg")
	if err != nil {
		return nil, err
	}
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
