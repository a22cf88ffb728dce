// Package chart renders ledger aggregates as PNG images.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iljabvh/firstserve/internal/model"
)

// WinRate is the pseudo-statistic name selecting the match win rate.
const WinRate = "WinRate"

// Point is one plotted player.
type Point struct {
	Name    string
	Samples int // matches played, or observations of the statistic
	Value   float64
}

// Points extracts (samples, value) pairs for metric, keeping players with at
// least minSamples. Players whose metric is undefined are left out.
func Points(players []model.PlayerRecord, metric string, minSamples int) []Point {
	var out []Point
	for _, p := range players {
		var pt Point
		if metric == WinRate {
			if !p.HasWinRate() {
				continue
			}
			pt = Point{Name: p.Name, Samples: p.MatchesPlayed, Value: p.WinRate}
		} else {
			f, ok := p.Stats[metric]
			if !ok || f.Observations == 0 {
				continue
			}
			pt = Point{Name: p.Name, Samples: f.Observations, Value: f.Value}
		}
		if pt.Samples < minSamples {
			continue
		}
		out = append(out, pt)
	}
	return out
}

// Scatter plots value against sample size, one labelled dot per player.
func Scatter(points []Point, metric string, labels bool) ([]byte, error) {
	if len(points) == 0 {
		return renderNoDataPlaceholder(fmt.Sprintf("No players qualify for %s", metric))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	var annotations []chart.Value2
	for i, p := range points {
		xs[i] = float64(p.Samples)
		ys[i] = p.Value
		if labels {
			annotations = append(annotations, chart.Value2{XValue: xs[i], YValue: ys[i], Label: p.Name})
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    metric,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    drawing.ColorFromHex("1f77b4"),
			},
		},
	}
	if len(annotations) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: annotations})
	}

	graph := chart.Chart{
		Width:  1024,
		Height: 640,
		XAxis: chart.XAxis{
			Name: "Samples",
		},
		YAxis: chart.YAxis{
			Name: metric,
		},
		Series: series,
	}
	if metric == WinRate {
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	// Render needs at least one visible series; this one is transparent.
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		XAxis:  chart.XAxis{Style: chart.Hidden()},
		YAxis:  chart.YAxis{Style: chart.Hidden()},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buffer.Bytes(), nil
}
