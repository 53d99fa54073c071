package viz

import (
	"math"
	"strings"
)

// brailleBlank is U+2800, the empty braille cell. Each cell holds 2x4 dots
// numbered
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Its resolution in dots is
// (Width*2) x (Height*4), with y growing downwards.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for row := range c.Grid {
		c.Grid[row] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) DotsWide() int { return c.Width * 2 }
func (c *Canvas) DotsHigh() int { return c.Height * 4 }

// dot returns the cell holding dot (x, y) and the bit for it.
func (c *Canvas) dot(x, y int) (*rune, rune, bool) {
	if x < 0 || y < 0 || x >= c.DotsWide() || y >= c.DotsHigh() {
		return nil, 0, false
	}
	return &c.Grid[y/4][x/2], dotBits[y%4][x%2], true
}

// Set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if cell, bit, ok := c.dot(x, y); ok {
		*cell |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	cell, bit, ok := c.dot(x, y)
	return ok && *cell&bit != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for col := range row {
			row[col] = brailleBlank
		}
	}
}

// DrawLine lights every dot between the two end points, stepping one dot at
// a time along the longer axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		c.Set(x0, y0)
		return
	}
	sx := float64(x1-x0) / float64(steps)
	sy := float64(y1-y0) / float64(steps)
	for i := 0; i <= steps; i++ {
		c.Set(x0+int(math.Round(sx*float64(i))), y0+int(math.Round(sy*float64(i))))
	}
}

// Dashes lights every other dot of row y, the way the ground is drawn.
func (c *Canvas) Dashes(y int) {
	for x := 0; x < c.DotsWide(); x += 2 {
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
