package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
)

// RenderValueChart renders the USD value trajectories as a PNG line
// chart, applying the computed axis domain and ticks. Returns raw PNG
// bytes.
func RenderValueChart(rows []TrajectoryRow, axis domain.AxisSpec) ([]byte, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(rows))
	}

	xValues, err := chartDates(rows)
	if err != nil {
		return nil, err
	}

	goldY := make([]float64, len(rows))
	silverY := make([]float64, len(rows))
	strategyY := make([]float64, len(rows))
	for i, row := range rows {
		goldY[i] = row.GoldValue
		silverY[i] = row.SilverValue
		strategyY[i] = row.StrategyValue
	}

	graph := chart.Chart{
		Title:  "Buy-and-Hold vs Switching Strategy",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: dateXAxis(),
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Gold",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("d4a017"),
					StrokeWidth: 1.5,
				},
				XValues: xValues,
				YValues: goldY,
			},
			chart.TimeSeries{
				Name: "Silver",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("9ca3af"),
					StrokeWidth: 1.5,
				},
				XValues: xValues,
				YValues: silverY,
			},
			chart.TimeSeries{
				Name: "Strategy",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: strategyY,
			},
		},
	}
	applyAxis(&graph.YAxis, axis)

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderRatioChart renders the gold/silver ratio as a PNG line chart.
func RenderRatioChart(rows []TrajectoryRow, axis domain.AxisSpec) ([]byte, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(rows))
	}

	xValues, err := chartDates(rows)
	if err != nil {
		return nil, err
	}

	ratioY := make([]float64, len(rows))
	for i, row := range rows {
		ratioY[i] = row.GSR
	}

	graph := chart.Chart{
		Title:  "Gold/Silver Ratio",
		Width:  900,
		Height: 300,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: dateXAxis(),
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "GSR",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("7c3aed"),
					StrokeWidth: 2.0,
				},
				XValues: xValues,
				YValues: ratioY,
			},
		},
	}
	applyAxis(&graph.YAxis, axis)

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// applyAxis pins the Y axis to the computed domain and ticks. An auto
// axis spec leaves the library's own scaling in place.
func applyAxis(y *chart.YAxis, axis domain.AxisSpec) {
	if axis.Auto {
		return
	}
	y.Range = &chart.ContinuousRange{Min: axis.Min, Max: axis.Max}
	ticks := make([]chart.Tick, 0, len(axis.Ticks))
	for _, v := range axis.Ticks {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	y.Ticks = ticks
}

func dateXAxis() chart.XAxis {
	return chart.XAxis{
		TickPosition: chart.TickPositionBetweenTicks,
		ValueFormatter: func(v interface{}) string {
			if t, ok := v.(float64); ok {
				return chart.TimeFromFloat64(t).Format("Jan 06")
			}
			return ""
		},
	}
}

func chartDates(rows []TrajectoryRow) ([]time.Time, error) {
	xValues := make([]time.Time, len(rows))
	for i, row := range rows {
		date, ok := datecode.FromKey(row.DateKey)
		if !ok {
			return nil, fmt.Errorf("decode date key %q", row.DateKey)
		}
		xValues[i] = date
	}
	return xValues, nil
}
