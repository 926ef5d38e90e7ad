package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/throwsim/internal/bodies"
	"github.com/san-kum/throwsim/internal/flight"
)

// TrajectorySVG renders the flight path with silhouette snapshots as a
// standalone SVG document. stride <= 0 picks roughly a dozen snapshots.
func TrajectorySVG(body bodies.Body, result *flight.Result, width, height, stride int) string {
	if result.Len() < 2 {
		return ""
	}
	if stride <= 0 {
		stride = result.Len() / 12
		if stride < 1 {
			stride = 1
		}
	}

	// World bounds over the path, padded for the body outline.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, x := range result.States {
		minX = math.Min(minX, x[flight.IX])
		minY = math.Min(minY, x[flight.IY])
		maxX = math.Max(maxX, x[flight.IX])
		maxY = math.Max(maxY, x[flight.IY])
	}
	margin := body.Reach() * 1.5
	minX -= margin
	maxX += margin
	minY = math.Min(minY-margin, -0.1)
	maxY += margin

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	px := func(wx float64) float64 { return (wx - minX) / rangeX * float64(width) }
	py := func(wy float64) float64 { return float64(height) - (wy-minY)/rangeY*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#141414"/>
`, width, height, width, height))

	// Ground line.
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#aaaaaa" stroke-width="1"/>
`, py(0), width, py(0)))

	// Center-of-mass path.
	sb.WriteString(`<path fill="none" stroke="#4a90d9" stroke-width="1.5" d="M`)
	for i, x := range result.States {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(x[flight.IX]), py(x[flight.IY])))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(x[flight.IX]), py(x[flight.IY])))
		}
	}
	sb.WriteString("\"/>\n")

	// Silhouette snapshots.
	sb.WriteString(`<g stroke="#f0c850" stroke-width="2" stroke-linecap="round">
`)
	for i := 0; i < result.Len(); i += stride {
		for _, seg := range body.Silhouette(result.States[i]) {
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, px(seg.A.X), py(seg.A.Y), px(seg.B.X), py(seg.B.Y)))
		}
	}
	sb.WriteString("</g>\n</svg>")

	return sb.String()
}
