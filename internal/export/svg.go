// Package export renders simulation state as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/semodel/internal/viz"
)

const background = "#ffffff"

// NetworkToSVG draws the portrayal with nodes on a circle, in node order.
func NetworkToSVG(p viz.Portrayal, size int) string {
	if len(p.Nodes) == 0 || size <= 0 {
		return ""
	}

	center := float64(size) / 2
	radius := center * 0.85
	pos := make(map[int][2]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		theta := 2 * math.Pi * float64(i) / float64(len(p.Nodes))
		pos[n.ID] = [2]float64{center + radius*math.Cos(theta), center + radius*math.Sin(theta)}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background))

	sb.WriteString("<g>\n")
	for _, e := range p.Edges {
		a, b := pos[e.Source], pos[e.Target]
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%d"/>
`, a[0], a[1], b[0], b[1], e.Color, e.Width))
	}
	sb.WriteString("</g>\n<g>\n")
	for _, n := range p.Nodes {
		c := pos[n.ID]
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%d" fill="%s"><title>%s</title></circle>
`, c[0], c[1], n.Size, n.Color, strings.ReplaceAll(n.Tooltip, "<br>", "\n")))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HistoryToSVG draws one metric history as a polyline scaled to the canvas.
func HistoryToSVG(data []float64, width, height int, strokeColor string) string {
	if len(data) < 2 {
		return ""
	}

	minY, maxY := data[0], data[0]
	for _, v := range data {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range data {
		x := float64(i) / float64(len(data)-1) * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
