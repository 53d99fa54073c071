package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

const (
	replayWidth  = 60
	replayHeight = 20
	frameRate    = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Replay plays back a finished flight. The playhead advances in simulated
// time at Speed times real time and can be scrubbed in both directions.
type Replay struct {
	result   *dynamo.Result
	proj     Projection
	canvas   *Canvas
	playHead int
	speed    float64
	running  bool
	showHelp bool
	dt       float64
}

func NewReplay(res *dynamo.Result) Replay {
	dt := dynamo.DefaultDt
	if len(res.Samples) > 1 {
		dt = res.Samples[1].Time - res.Samples[0].Time
	}
	c := NewCanvas(replayWidth, replayHeight)
	return Replay{
		result:  res,
		proj:    Fit(res),
		canvas:  c,
		speed:   1,
		running: true,
		dt:      dt,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
			m.running = true
		case "[":
			m.running = false
			m.scrub(-m.stride())
		case "]":
			m.running = false
			m.scrub(m.stride())
		case "+", "=":
			m.speed = min(m.speed*2, 16)
		case "-", "_":
			m.speed = max(m.speed/2, 0.0625)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.scrub(m.stride())
			if m.Finished() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

// stride is the number of samples covered by one frame at the current speed.
func (m Replay) stride() int {
	n := int(m.speed / (frameRate * m.dt))
	return max(n, 1)
}

func (m *Replay) scrub(n int) {
	last := len(m.result.Samples) - 1
	m.playHead = max(0, min(m.playHead+n, last))
}

func (m Replay) Finished() bool {
	return m.playHead >= len(m.result.Samples)-1
}

func (m Replay) Current() dynamo.Sample {
	if len(m.result.Samples) == 0 {
		return dynamo.Sample{}
	}
	return m.result.Samples[m.playHead]
}

func (m Replay) View() string {
	m.canvas.Clear()
	DrawTrajectory(m.canvas, m.result, m.proj, m.playHead)

	cur := m.Current()
	if len(m.result.Samples) > 0 {
		x, y := m.proj.Point(m.canvas, cur)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				m.canvas.Set(x+dx, y+dy)
			}
		}
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	status := "PLAYING"
	switch {
	case m.Finished():
		status = "FINISHED"
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.result.Model)+" FLIGHT") + "\n")
	s.WriteString(fmt.Sprintf("%s  x%.2g\n\n", status, m.speed))

	if m.playHead > 1 {
		heights := make([]float64, 0, m.playHead+1)
		for _, smp := range m.result.Samples[:m.playHead+1] {
			heights = append(heights, smp.Y)
		}
		chart := asciigraph.Plot(Resample(heights, 30), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("height"))
		s.WriteString(GraphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Phase") + PhaseBadge(cur.Phase) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", cur.Time)) + "\n")
	s.WriteString(labelStyle.Render("Height") + valueStyle.Render(fmt.Sprintf("%.2fm", cur.Y)) + "\n")
	if m.result.Model != "vertical" {
		s.WriteString(labelStyle.Render("Range") + valueStyle.Render(fmt.Sprintf("%.2fm", cur.X)) + "\n")
	}
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2fm/s", cur.Speed())) + "\n")
	s.WriteString(labelStyle.Render("Water") + valueStyle.Render(fmt.Sprintf("%.1fg", cur.WaterMass*1000)) + "\n")
	s.WriteString(labelStyle.Render("Pressure") + valueStyle.Render(fmt.Sprintf("%.1fkPa", cur.Pressure/1000)) + "\n\n")

	progress := 0.0
	if n := len(m.result.Samples); n > 1 {
		progress = float64(m.playHead) / float64(n-1)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit\nT:Theme  ?:Help\n[ ]:Scrub  +-:Speed"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from launch      ║
║  Q        - Quit                     ║
║  [        - Step back                ║
║  ]        - Step forward             ║
║  + / -    - Change playback speed    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Play runs the replay in the terminal until the user quits.
func Play(res *dynamo.Result) error {
	_, err := tea.NewProgram(NewReplay(res), tea.WithAltScreen()).Run()
	return err
}
