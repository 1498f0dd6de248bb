// Package charts renders analysis results as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/finmodel/internal/models"
)

var (
	colorPrimary  = drawing.ColorFromHex("2563eb") // blue-600
	colorNegative = drawing.ColorFromHex("dc2626") // red-600
	colorMuted    = drawing.ColorFromHex("9ca3af") // gray-400
)

func money(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	switch abs := math.Abs(f); {
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fm", f/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.0fk", f/1e3)
	default:
		return fmt.Sprintf("$%.0f", f)
	}
}

// paddedRange returns a non-degenerate axis range covering lo..hi.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	span := hi - lo
	if span <= 0 {
		span = math.Max(1, math.Abs(hi))
	}
	return &chart.ContinuousRange{Min: lo - span*0.05, Max: hi + span*0.05}
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(r renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderHistogram draws the binned distribution of one simulated output.
func RenderHistogram(dist models.OutputDistribution) ([]byte, error) {
	if len(dist.Histogram) == 0 {
		return nil, fmt.Errorf("distribution %q has no histogram", dist.Name)
	}

	labelEvery := int(math.Max(1, math.Ceil(float64(len(dist.Histogram))/10)))
	bars := make([]chart.Value, len(dist.Histogram))
	maxCount := 0.0
	for i, bin := range dist.Histogram {
		label := ""
		if i%labelEvery == 0 {
			label = money((bin.Lower + bin.Upper) / 2)
		}
		style := chart.Style{FillColor: colorPrimary, StrokeColor: colorPrimary}
		if bin.Upper <= 0 {
			style = chart.Style{FillColor: colorNegative, StrokeColor: colorNegative}
		}
		bars[i] = chart.Value{Value: float64(bin.Count), Label: label, Style: style}
		maxCount = math.Max(maxCount, float64(bin.Count))
	}

	graph := chart.BarChart{
		Title:      strings.ReplaceAll(dist.Name, "_", " "),
		Width:      900,
		Height:     400,
		BarWidth:   int(math.Max(4, math.Min(60, 800/float64(len(bars))-4))),
		BarSpacing: 4,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, maxCount*1.1)},
		},
		Bars: bars,
	}
	return render(&graph)
}

// RenderTornado draws the low and high NPV of each perturbed variable around the base NPV.
func RenderTornado(sens models.ProjectSensitivity) ([]byte, error) {
	if len(sens.Tornado) == 0 {
		return nil, fmt.Errorf("sensitivity for %q has no tornado bars", sens.Project)
	}

	lo, hi := sens.BaseNPV, sens.BaseNPV
	bars := make([]chart.Value, 0, 2*len(sens.Tornado))
	for _, bar := range sens.Tornado {
		name := strings.ReplaceAll(string(bar.Variable), "_", " ")
		bars = append(bars,
			chart.Value{Value: bar.LowNPV, Label: name + " low", Style: chart.Style{FillColor: colorNegative, StrokeColor: colorNegative}},
			chart.Value{Value: bar.HighNPV, Label: name + " high", Style: chart.Style{FillColor: colorPrimary, StrokeColor: colorPrimary}},
		)
		lo = math.Min(lo, math.Min(bar.LowNPV, bar.HighNPV))
		hi = math.Max(hi, math.Max(bar.LowNPV, bar.HighNPV))
	}

	graph := chart.BarChart{
		Title:        fmt.Sprintf("NPV sensitivity: %s", sens.Project),
		Width:        900,
		Height:       400,
		BarWidth:     50,
		BarSpacing:   20,
		UseBaseValue: true,
		BaseValue:    sens.BaseNPV,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range:          paddedRange(lo, hi),
			ValueFormatter: money,
		},
		Bars: bars,
	}
	return render(&graph)
}

// RenderFanChart draws the p5/p50/p95 net income band for each projection year.
func RenderFanChart(bands []models.YearBand) ([]byte, error) {
	if len(bands) < 2 {
		return nil, fmt.Errorf("need at least 2 projection years, got %d", len(bands))
	}

	years := make([]float64, len(bands))
	p5 := make([]float64, len(bands))
	p50 := make([]float64, len(bands))
	p95 := make([]float64, len(bands))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, b := range bands {
		years[i] = float64(b.Year)
		p5[i], p50[i], p95[i] = b.NetIncomeP5, b.NetIncomeP50, b.NetIncomeP95
		lo = math.Min(lo, b.NetIncomeP5)
		hi = math.Max(hi, b.NetIncomeP95)
	}

	band := func(name string, ys []float64, width float64, dashed bool) chart.ContinuousSeries {
		style := chart.Style{StrokeColor: colorMuted, StrokeWidth: width}
		if dashed {
			style.StrokeDashArray = []float64{5.0, 3.0}
		} else {
			style.StrokeColor = colorPrimary
		}
		return chart.ContinuousSeries{Name: name, Style: style, XValues: years, YValues: ys}
	}

	graph := chart.Chart{
		Title:  "Net income (p5 / p50 / p95)",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("Y%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range:          paddedRange(lo, hi),
			ValueFormatter: money,
		},
		Series: []chart.Series{
			band("p95", p95, 1.5, true),
			band("p50", p50, 2.5, false),
			band("p5", p5, 1.5, true),
		},
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}
	return render(&graph)
}
