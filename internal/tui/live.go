package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	minScale    = 10.0
)

type point struct{ x, y float64 }

// LiveRenderer draws a flight while it is being simulated. It is attached to
// a simulator as an observer and emits one frame per 1/frameRate seconds of
// simulated time. With realtime set it sleeps so frames keep wall-clock pace.
type LiveRenderer struct {
	out       io.Writer
	model     string
	frameRate int
	realtime  bool
	start     time.Time
	lastFrame float64
	frames    int
	canvas    [][]rune
	trail     []point
	maxX      float64
	maxY      float64
	sleep     func(time.Duration)
}

func NewLiveRenderer(out io.Writer, model string, frameRate int, realtime bool) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		model:     model,
		frameRate: frameRate,
		realtime:  realtime,
		lastFrame: math.Inf(-1),
		canvas:    canvas,
		trail:     make([]point, 0, 256),
		maxX:      minScale,
		maxY:      minScale,
		sleep:     time.Sleep,
	}
}

func (r *LiveRenderer) OnSample(s dynamo.Sample) {
	if r.start.IsZero() {
		r.start = time.Now()
	}

	horizontal := s.X
	if r.model == "vertical" {
		horizontal = s.Time
	}
	r.maxX = max(r.maxX, math.Abs(horizontal)*1.2)
	r.maxY = max(r.maxY, s.Y*1.2)

	last := s.Phase == dynamo.PhaseLanded
	if s.Time-r.lastFrame < 1/float64(r.frameRate) && !last {
		return
	}
	r.lastFrame = s.Time
	r.trail = append(r.trail, point{horizontal, s.Y})

	if r.realtime {
		wait := time.Duration(s.Time*float64(time.Second)) - time.Since(r.start)
		if wait > 0 {
			r.sleep(wait)
		}
	}

	r.clear()
	r.draw()
	r.render(s)
	r.frames++
}

func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// cell maps flight coordinates to the canvas. Row height-1 is the ground.
func (r *LiveRenderer) cell(p point) (int, int) {
	x := int(math.Round(p.x / r.maxX * float64(width-1)))
	y := height - 1 - int(math.Round(p.y/r.maxY*float64(height-1)))
	return x, y
}

func (r *LiveRenderer) draw() {
	for x := 0; x < width; x++ {
		r.set(x, height-1, '_')
	}
	for i, p := range r.trail {
		x, y := r.cell(p)
		if i == len(r.trail)-1 {
			r.set(x, y, '^')
		} else {
			r.set(x, y, '.')
		}
	}
}

func (r *LiveRenderer) render(s dynamo.Sample) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  %s\n", r.model, s.Time, s.Phase))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  y=%.2fm  x=%.2fm  v=%.2fm/s  water=%.0fg\n", s.Y, s.X, s.Speed(), s.WaterMass*1000))

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
