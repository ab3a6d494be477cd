package tui

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/eulersim/internal/dynamo"
)

const (
	plotWidth  = 64
	plotHeight = 12
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	runStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	pauseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

type TickMsg time.Time

// Model pulls points from a trajectory stream a few at a time on each tick
// and plots what it has so far.
type Model struct {
	title   string
	total   int
	perTick int
	fps     int

	next func() (dynamo.Point, error, bool)
	stop func()

	points  []dynamo.Point
	running bool
	done    bool
	err     error
}

// NewModel streams p through solver. perTick points are taken per frame.
func NewModel(ctx context.Context, solver *dynamo.Solver, p dynamo.Problem, title string, fps, perTick int) Model {
	if fps <= 0 {
		fps = 30
	}
	if perTick <= 0 {
		perTick = 1
	}
	next, stop := iter.Pull2(solver.Stream(ctx, p))
	return Model{
		title:   title,
		total:   p.Steps + 1,
		perTick: perTick,
		fps:     fps,
		next:    next,
		stop:    stop,
		points:  make([]dynamo.Point, 0, p.Steps+1),
		running: true,
	}
}

func (m Model) Points() []dynamo.Point { return m.points }
func (m Model) Err() error             { return m.err }
func (m Model) Done() bool             { return m.done }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stop()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.perTick; i++ {
		pt, err, ok := m.next()
		if !ok {
			m.done = true
			return
		}
		if err != nil {
			m.err = err
			m.done = true
			m.stop()
			return
		}
		m.points = append(m.points, pt)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render(m.title) + "\n\n")

	if len(m.points) < 2 {
		b.WriteString("  " + labelStyle.Render("waiting for samples...") + "\n")
	} else {
		values := make([]float64, 0, plotWidth)
		start := 0
		if len(m.points) > plotWidth {
			start = len(m.points) - plotWidth
		}
		for _, p := range m.points[start:] {
			values = append(values, p.Y)
		}
		b.WriteString(asciigraph.Plot(values,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Offset(4),
			asciigraph.Caption("y(t), most recent samples"),
		))
		b.WriteString("\n\n")
	}

	if len(m.points) > 0 {
		last := m.points[len(m.points)-1]
		b.WriteString(fmt.Sprintf("  %s %s  %s %s  %s %s\n",
			labelStyle.Render("t"), valueStyle.Render(fmt.Sprintf("%.4f", last.T)),
			labelStyle.Render("y"), valueStyle.Render(fmt.Sprintf("%.6g", last.Y)),
			labelStyle.Render("samples"), valueStyle.Render(fmt.Sprintf("%d/%d", len(m.points), m.total)),
		))
	}

	switch {
	case m.err != nil:
		b.WriteString("  " + errStyle.Render(dynamo.Kind(m.err)+": "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString("  " + runStyle.Render("complete") + "\n")
	case m.running:
		b.WriteString("  " + runStyle.Render("running") + "\n")
	default:
		b.WriteString("  " + pauseStyle.Render("paused") + "\n")
	}

	b.WriteString("\n  " + hintStyle.Render("space pause  q quit") + "\n")
	return b.String()
}

// Run shows the live view until the user quits and returns the stream error,
// if any.
func Run(ctx context.Context, solver *dynamo.Solver, p dynamo.Problem, title string, fps, perTick int) error {
	m := NewModel(ctx, solver, p, title, fps, perTick)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		m.stop()
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
