package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/sim"
)

// PlotBands draws the neutral, negative and positive counts on one chart.
func PlotBands(histories map[string][]float64, width, height int) string {
	series := [][]float64{
		histories[metrics.Neutral],
		histories[metrics.Negative],
		histories[metrics.Positive],
	}
	for _, s := range series {
		if len(s) == 0 {
			return ""
		}
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Gray, asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends(metrics.Neutral, metrics.Negative, metrics.Positive),
		asciigraph.Caption("opinion bands per tick"),
	)
}

// PlotHistory draws a single metric, or returns "" when it has no samples.
func PlotHistory(name string, data []float64, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(name),
	)
}

// PlotHistories renders every named metric, one chart after another.
func PlotHistories(names []string, histories map[string][]float64, width, height int) string {
	var b strings.Builder
	for _, name := range names {
		g := PlotHistory(name, histories[name], width, height)
		if g == "" {
			continue
		}
		b.WriteString(g)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Summary is the ratio text shown next to the charts.
func Summary(s *sim.Simulation) string {
	return SummaryText(s.PositiveNegativeRatio(), s.Count(agent.Positive), s.Count(agent.Negative))
}

func SummaryText(ratio float64, positive, negative int) string {
	return fmt.Sprintf("Positive/Negative Ratio: %.2f\nPositive Opinion: %d\nNegative Opinion: %d", ratio, positive, negative)
}
