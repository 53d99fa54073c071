package analysis

import (
	"strings"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

type Point struct{ X, Y float64 }

// Portrait holds two sample quantities plotted against each other, such as
// height against vertical speed.
type Portrait struct {
	XLabel, YLabel string
	Points         []Point
}

func GeneratePortrait(
	res *dynamo.Result,
	xLabel string, x func(dynamo.Sample) float64,
	yLabel string, y func(dynamo.Sample) float64,
) *Portrait {
	portrait := &Portrait{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, 0, len(res.Samples)),
	}
	for _, s := range res.Samples {
		portrait.Points = append(portrait.Points, Point{X: x(s), Y: y(s)})
	}
	return portrait
}

// PortraitToASCII draws the portrait with axes through zero when visible.
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// 10% padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	sb.WriteString(portrait.YLabel + " vs " + portrait.XLabel + "\n")
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
