package piechart

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
)

// go-chart has no exploded wedges, so the largest slices get a heavy outline instead.
const (
	defaultStrokeWidth  = 1.0
	explodedStrokeWidth = 6.0
)

var explodedStroke = drawing.ColorFromHex("333333")

// Renderer draws nutrient pie charts as PNG images.
type Renderer struct {
	width  int
	height int
}

// NewRenderer constructs a renderer producing images of the given size.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// RenderPie implements nutrition.ChartRenderer.
func (r *Renderer) RenderPie(title string, slices []nutrition.PieSlice) ([]byte, error) {
	if len(slices) == 0 {
		return nil, errors.New("no slices to render")
	}
	pie := chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: pieValues(slices),
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

func pieValues(slices []nutrition.PieSlice) []chart.Value {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		style := chart.Style{StrokeWidth: defaultStrokeWidth}
		if s.Exploded {
			style.StrokeWidth = explodedStrokeWidth
			style.StrokeColor = explodedStroke
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", s.Label, s.PercentLabel),
			Value: s.Value,
			Style: style,
		})
	}
	return values
}

var _ nutrition.ChartRenderer = (*Renderer)(nil)
