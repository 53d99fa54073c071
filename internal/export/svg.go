package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.DotsWide()) * scale)
	height := int(float64(canvas.DotsHigh()) * scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// brailleScale is the SVG size of one canvas dot.
const brailleScale = 4

// BrailleSVG draws the flight on a Braille canvas sized to roughly
// width x height pixels and exports its dots. Flights with fewer than two
// samples render nothing.
func BrailleSVG(res *dynamo.Result, width, height int) string {
	if res == nil || len(res.Samples) < 2 {
		return ""
	}
	cols := max(width/(2*brailleScale), 1)
	rows := max(height/(4*brailleScale), 1)
	c := viz.NewCanvas(cols, rows)
	viz.DrawTrajectory(c, res, viz.Fit(res), len(res.Samples)-1)
	return CanvasToSVG(c, brailleScale)
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b bounds) project(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / (b.maxX - b.minX) * float64(width)
	py := float64(height) - (y-b.minY)/(b.maxY-b.minY)*float64(height)
	return px, py
}

// flightBounds covers the path and the ground with 10% padding.
func flightBounds(xs, ys []float64) bounds {
	b := bounds{minX: xs[0], maxX: xs[0]}
	for i := range xs {
		b.minX, b.maxX = min(b.minX, xs[i]), max(b.maxX, xs[i])
		b.minY, b.maxY = min(b.minY, ys[i]), max(b.maxY, ys[i])
	}

	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

// TrajectorySVG draws a flight path with one stroke per phase, colored by the
// current theme, over a ground line. Vertical flights are drawn as height
// against time.
func TrajectorySVG(res *dynamo.Result, width, height int) string {
	if len(res.Samples) < 2 {
		return ""
	}

	vertical := res.Model == "vertical"
	xs := make([]float64, len(res.Samples))
	ys := res.Series(func(s dynamo.Sample) float64 { return s.Y })
	for i, s := range res.Samples {
		if vertical {
			xs[i] = s.Time
		} else {
			xs[i] = s.X
		}
	}
	b := flightBounds(xs, ys)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)

	_, gy := b.project(0, 0, width, height)
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-dasharray="4 4"/>`+"\n", gy, width, gy)

	start := 0
	for i := 1; i <= len(res.Samples); i++ {
		if i < len(res.Samples) && res.Samples[i].Phase == res.Samples[start].Phase {
			continue
		}
		// Segments share their first point with the previous segment's end.
		from := max(start-1, 0)
		phase := res.Samples[start].Phase
		fmt.Fprintf(&sb, `<path class="%s" fill="none" stroke="%s" stroke-width="1.5" d="`,
			phase, string(viz.CurrentTheme.PhaseColor(phase)))
		for j := from; j < i; j++ {
			x, y := b.project(xs[j], ys[j], width, height)
			if j == from {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>` + "\n")
		start = i
	}

	apex := 0
	for i, y := range ys {
		if y > ys[apex] {
			apex = i
		}
	}
	ax, ay := b.project(xs[apex], ys[apex], width, height)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"/>`+"\n", ax, ay)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#ffffff" font-size="12">%.2f m</text>`+"\n", ax+6, ay-6, ys[apex])

	sb.WriteString("</svg>")
	return sb.String()
}
