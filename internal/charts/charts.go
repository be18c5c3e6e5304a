// Package charts renders report and projection figures as PNG images
package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	width  = 900
	height = 400
)

var (
	incomeColor  = drawing.ColorFromHex("16a34a") // green-600
	expenseColor = drawing.ColorFromHex("dc2626") // red-600
	balanceColor = drawing.ColorFromHex("2563eb") // blue-600
	capitalColor = drawing.ColorFromHex("9ca3af") // gray-400
)

// paddedRange returns a y range that always has a non-zero span and includes zero
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// RenderMonthlyNets renders one bar per "YYYY-MM" key, oldest first.
// Positive months are green, negative months red.
func RenderMonthlyNets(nets map[string]domain.Money) ([]byte, error) {
	if len(nets) == 0 {
		return nil, fmt.Errorf("need at least 1 month, got 0")
	}

	months := make([]string, 0, len(nets))
	for month := range nets {
		months = append(months, month)
	}
	sort.Strings(months)

	bars := make([]chart.Value, 0, len(months))
	values := make([]float64, 0, len(months))
	for _, month := range months {
		v := nets[month].Decimal().InexactFloat64()
		color := incomeColor
		if v < 0 {
			color = expenseColor
		}
		bars = append(bars, chart.Value{
			Label: month,
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
		values = append(values, v)
	}

	graph := chart.BarChart{
		Title:  "Net by Month",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: paddedRange(values),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderProjection renders the accumulated balance against the capital put in,
// starting from month 0 (the initial amount).
func RenderProjection(p *domain.Projection) ([]byte, error) {
	if p == nil || len(p.Schedule) == 0 {
		return nil, fmt.Errorf("need at least 1 projected month")
	}

	initial := p.InitialAmount.Decimal().InexactFloat64()
	xValues := []float64{0}
	balanceY := []float64{initial}
	capitalY := []float64{initial}

	capital := initial
	for _, row := range p.Schedule {
		capital += row.Contribution.Decimal().InexactFloat64()
		xValues = append(xValues, float64(row.Month))
		balanceY = append(balanceY, row.AccumulatedBalance.Decimal().InexactFloat64())
		capitalY = append(capitalY, capital)
	}

	graph := chart.Chart{
		Title:  "Projected Balance",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Month",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(append(append([]float64{}, balanceY...), capitalY...)),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Balance",
				Style:   chart.Style{StrokeColor: balanceColor, StrokeWidth: 2.5},
				XValues: xValues,
				YValues: balanceY,
			},
			chart.ContinuousSeries{
				Name: "Invested",
				Style: chart.Style{
					StrokeColor:     capitalColor,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: capitalY,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
