package positions

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmccarthy/chainfolio/internal/models"
)

// BuildPnLSeries derives the cumulative realized P&L time series from a
// position list. Only closed positions contribute; points are ordered by
// close date.
func BuildPnLSeries(positions []models.Position) []models.PnLPoint {
	closed := make([]models.Position, 0, len(positions))
	for _, p := range positions {
		if p.Status == models.PositionStatusClosed && p.CloseDate != nil {
			closed = append(closed, p)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].CloseDate.Before(*closed[j].CloseDate)
	})

	points := make([]models.PnLPoint, 0, len(closed))
	cumulative := 0.0
	for _, p := range closed {
		cumulative += p.RealizedPnL
		points = append(points, models.PnLPoint{
			Date:        *p.CloseDate,
			RealizedPnL: cumulative,
		})
	}
	return points
}

// RenderRealizedPnLChart renders a PNG line chart of cumulative realized
// P&L. Returns raw PNG bytes.
func RenderRealizedPnLChart(points []models.PnLPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date
		yValues[i] = p.RealizedPnL
	}

	pnlSeries := chart.TimeSeries{
		Name: "Realized P&L",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  "Cumulative Realized P&L",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			pnlSeries,
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
