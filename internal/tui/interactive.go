package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/experiment"
	"github.com/san-kum/waterrocket/internal/optim"
	"github.com/san-kum/waterrocket/internal/physics"
	"github.com/san-kum/waterrocket/internal/report"
	"github.com/san-kum/waterrocket/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type action int

const (
	actionConfigure action = iota
	actionVertical
	actionPlanar
	actionWater
	actionPressure
	actionAngle
	actionReset
	actionQuit
)

var menuItems = []struct {
	action action
	label  string
	desc   string
}{
	{actionConfigure, "configure rocket", "pressure, water, nozzle, ..."},
	{actionVertical, "launch vertical", "straight up flight"},
	{actionPlanar, "launch planar", "flight at the launch angle"},
	{actionWater, "optimise water", "best water load for height"},
	{actionPressure, "compare pressures", "40 to 100 psi"},
	{actionAngle, "compare angles", "30 to 90 degrees"},
	{actionReset, "reset defaults", "restore the default rocket"},
	{actionQuit, "quit", ""},
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateBusy
	stateResult
)

type flightMsg struct {
	result *dynamo.Result
	err    error
}

type sweepMsg struct {
	plan    optim.Plan
	outcome *optim.Outcome
	err     error
}

type model struct {
	state  state
	cursor int

	design      physics.Design
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	status  string
	err     error
	flight  *dynamo.Result
	sweep   *optim.Outcome
	plan    optim.Plan
	logger  *slog.Logger
	ctx     context.Context
	cfg     dynamo.Config
	running string
}

func NewInteractiveApp(ctx context.Context, d physics.Design, cfg dynamo.Config, logger *slog.Logger) *model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &model{
		state:      stateMenu,
		design:     d,
		paramNames: physics.ParamNames(),
		logger:     logger,
		ctx:        ctx,
		cfg:        cfg,
	}
}

// RunInteractive opens the menu in the terminal until the user quits.
func RunInteractive(ctx context.Context, d physics.Design, cfg dynamo.Config, logger *slog.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(ctx, d, cfg, logger), tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case flightMsg:
		m.err = msg.err
		m.flight = msg.result
		m.sweep = nil
		m.state = stateResult
		return m, nil
	case sweepMsg:
		m.err = msg.err
		m.sweep = msg.outcome
		m.plan = msg.plan
		m.flight = nil
		m.state = stateResult
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateResult:
		switch msg.String() {
		case "q", "esc", "enter", " ":
			m.state = stateMenu
		}
	case stateBusy:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.choose(menuItems[m.cursor].action)
	}
	return m, nil
}

func (m model) choose(a action) (model, tea.Cmd) {
	m.status = ""
	switch a {
	case actionConfigure:
		m.state = stateConfig
		m.paramCursor = 0
	case actionVertical:
		return m.launch("vertical")
	case actionPlanar:
		return m.launch("planar")
	case actionWater:
		return m.compare(optim.WaterPlan(m.design))
	case actionPressure:
		return m.compare(optim.PressurePlan())
	case actionAngle:
		return m.compare(optim.AnglePlan())
	case actionReset:
		m.design = physics.DefaultDesign()
		m.status = "defaults restored"
	case actionQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) launch(name string) (model, tea.Cmd) {
	if err := m.design.Validate(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.state = stateBusy
	m.running = "simulating " + name + " flight"
	ctx, d, cfg := m.ctx, m.design, m.cfg
	return m, func() tea.Msg {
		res, err := experiment.Run(ctx, name, d, cfg)
		return flightMsg{result: res, err: err}
	}
}

func (m model) compare(plan optim.Plan) (model, tea.Cmd) {
	if err := m.design.Validate(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.state = stateBusy
	m.running = fmt.Sprintf("sweeping %s over %d values", plan.Param, len(plan.Values))
	ctx, d, logger := m.ctx, m.design, m.logger
	return m, func() tea.Msg {
		out, err := optim.Sweep(ctx, d, plan, logger)
		return sweepMsg{plan: plan, outcome: out, err: err}
	}
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	name := m.paramNames[m.paramCursor]

	if m.editing {
		switch msg.String() {
		case "enter":
			m.editing = false
			val, err := strconv.ParseFloat(m.editBuf, 64)
			m.editBuf = ""
			if err != nil {
				m.status = fmt.Sprintf("%s: not a number", name)
				return m, nil
			}
			m.apply(name, val)
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.design.GetParams()[name], 'g', -1, 64)
	case "left", "h":
		m.apply(name, m.design.GetParams()[name]*0.95)
	case "right", "l":
		m.apply(name, m.design.GetParams()[name]*1.05)
	}
	return m, nil
}

// apply sets one parameter and keeps it only if the design stays valid.
func (m *model) apply(name string, val float64) {
	next := m.design
	if err := next.SetParam(name, val); err != nil {
		m.status = err.Error()
		return
	}
	if err := next.Validate(); err != nil {
		m.status = err.Error()
		return
	}
	m.design = next
	m.status = ""
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateBusy:
		return "\n   " + yellow.Render("○ ") + dim.Render(m.running+"...") + "\n"
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	return "\n" + red.Render("      "+strings.ReplaceAll(m.status, "\n", "\n      ")) + "\n"
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("w a t e r r o c k e t") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")
	b.WriteString(dim.Render(fmt.Sprintf("      %.0f psi  %.2f/%.2f L  nozzle %.2f cm2  %.0f°",
		m.design.PressurePSI, m.design.WaterLiters, m.design.BottleLiters, m.design.NozzleCm2, m.design.LaunchAngleDeg)) + "\n\n")

	for i, item := range menuItems {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-20s", item.label)) + dim.Render(item.desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-20s", item.label)) + dimmer.Render(item.desc) + "\n")
		}
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter choose   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render("rocket") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	params := m.design.GetParams()
	for i, name := range m.paramNames {
		val := fmt.Sprintf("%9.3f", params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%9s", m.editBuf+"▋")
		}
		unit := dimmer.Render(" " + physics.ParamUnit(name))
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + magenta.Render(val) + unit + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dim.Render(val) + unit + "\n")
		}
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  esc back") + "\n")

	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(red.Render("   "+m.err.Error()) + "\n")
	case m.flight != nil:
		b.WriteString(report.Summarize(m.flight, m.design.SI()).Render() + "\n\n")
		b.WriteString(viz.Trajectory(m.flight, 50, 10))
	case m.sweep != nil:
		b.WriteString(report.Sweep(m.sweep, m.plan.Param) + "\n\n")
		if len(m.sweep.Points) > 1 {
			b.WriteString(asciigraph.Plot(m.sweep.Values(),
				asciigraph.Height(8),
				asciigraph.Width(40),
				asciigraph.Caption(fmt.Sprintf("%s by %s", m.sweep.Metric, m.plan.Param)),
			) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("   enter back to menu") + "\n")
	return b.String()
}
