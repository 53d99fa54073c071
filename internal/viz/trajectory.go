package viz

import (
	"math"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

// Projection maps flight coordinates onto canvas dots. Vertical flights are
// drawn as height against time, planar flights as height against range.
type Projection struct {
	MinX, MaxX float64
	MinY, MaxY float64
	vertical   bool
}

func horizontal(s dynamo.Sample, vertical bool) float64 {
	if vertical {
		return s.Time
	}
	return s.X
}

// Fit returns a projection covering every sample, with the ground included.
func Fit(res *dynamo.Result) Projection {
	p := Projection{vertical: res.Model == "vertical"}
	if len(res.Samples) == 0 {
		p.MaxX, p.MaxY = 1, 1
		return p
	}

	p.MinX, p.MaxX = math.Inf(1), math.Inf(-1)
	p.MinY, p.MaxY = 0, 0
	for _, s := range res.Samples {
		h := horizontal(s, p.vertical)
		p.MinX = min(p.MinX, h)
		p.MaxX = max(p.MaxX, h)
		p.MinY = min(p.MinY, s.Y)
		p.MaxY = max(p.MaxY, s.Y)
	}
	if p.MaxX-p.MinX < 1e-9 {
		p.MinX -= 1
		p.MaxX += 1
	}
	if p.MaxY-p.MinY < 1e-9 {
		p.MaxY += 1
	}
	return p
}

func (p Projection) Point(c *Canvas, s dynamo.Sample) (int, int) {
	w, h := c.DotsWide()-1, c.DotsHigh()-1
	x := (horizontal(s, p.vertical) - p.MinX) / (p.MaxX - p.MinX) * float64(w)
	y := (s.Y - p.MinY) / (p.MaxY - p.MinY) * float64(h)
	return int(math.Round(x)), h - int(math.Round(y))
}

// Ground returns the dot row of y = 0.
func (p Projection) Ground(c *Canvas) int {
	h := c.DotsHigh() - 1
	return h - int(math.Round((0-p.MinY)/(p.MaxY-p.MinY)*float64(h)))
}

// DrawTrajectory draws the ground line and the flight path up to and
// including sample upto.
func DrawTrajectory(c *Canvas, res *dynamo.Result, p Projection, upto int) {
	c.Dashes(p.Ground(c))

	upto = min(upto, len(res.Samples)-1)
	for i := 1; i <= upto; i++ {
		x0, y0 := p.Point(c, res.Samples[i-1])
		x1, y1 := p.Point(c, res.Samples[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Trajectory renders the whole flight on a fresh w x h cell canvas.
func Trajectory(res *dynamo.Result, w, h int) string {
	c := NewCanvas(w, h)
	DrawTrajectory(c, res, Fit(res), len(res.Samples)-1)
	return c.String()
}
