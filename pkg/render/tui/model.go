// Package tui hosts the orrery in a terminal using bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-orrery/pkg/orrery"
	"github.com/opd-ai/go-orrery/pkg/render"
)

// DefaultFrameInterval is roughly 30 frames per second.
const DefaultFrameInterval = time.Second / 30

// Camera control step sizes
const (
	rotateStep = 0.08
	dollyStep  = 0.9
	panStep    = 0.05
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a0a0a0"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffcc33"))
)

// frameMsg is delivered once per frame interval.
type frameMsg time.Time

// Options configures the terminal host.
type Options struct {
	Title string
	// FrameInterval defaults to DefaultFrameInterval.
	FrameInterval time.Duration
	// MaxFrames quits after that many frames when non-zero.
	MaxFrames uint64
}

// Model is the bubbletea model driving the orrery.
type Model struct {
	driver   *orrery.Driver
	viewport *orrery.Viewport
	renderer *render.TerminalRenderer
	opts     Options

	width    int
	height   int
	quitting bool
}

// New creates a model. renderer must be the renderer the driver's state
// renders into.
func New(driver *orrery.Driver, viewport *orrery.Viewport, renderer *render.TerminalRenderer, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	return Model{driver: driver, viewport: viewport, renderer: renderer, opts: opts}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// One line is kept for the status bar; each text row holds two
		// pixel rows.
		m.viewport.OnResize(msg.Width, (msg.Height-1)*2)
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.driver.OnFrame()
		if m.opts.MaxFrames > 0 && m.driver.Frames() >= m.opts.MaxFrames {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controls := m.driver.State().Controls
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "left":
		controls.Rotate(-rotateStep, 0)
	case "right":
		controls.Rotate(rotateStep, 0)
	case "up":
		controls.Rotate(0, -rotateStep)
	case "down":
		controls.Rotate(0, rotateStep)
	case "+", "=":
		controls.Dolly(dollyStep)
	case "-", "_":
		controls.Dolly(1 / dollyStep)
	case "a":
		controls.Pan(-panStep, 0)
	case "d":
		controls.Pan(panStep, 0)
	case "w":
		controls.Pan(0, panStep)
	case "s":
		controls.Pan(0, -panStep)
	case "r":
		controls.Reset()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w, h := m.renderer.Size()
	status := fmt.Sprintf(" frame %d  %dx%d  ←↑↓→ orbit  +/- zoom  wasd pan  r reset  q quit",
		m.driver.Frames(), w, h)
	title := m.opts.Title
	if title == "" {
		title = "orrery"
	}
	return m.renderer.String() + "\n" + titleStyle.Render(title) + statusStyle.Render(status)
}

// Run runs the model full screen until the user quits, MaxFrames is
// reached or ctx is cancelled. Cancellation is a clean exit.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return runError(ctx, err)
}

// runError maps the program's exit error, treating a kill caused by ctx
// as success.
func runError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("terminal renderer: %w", err)
}
