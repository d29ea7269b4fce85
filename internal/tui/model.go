// Package tui liga a máquina de fases ao bubbletea. O loop do bubbletea é o
// único dono da Machine: ticks drenam snapshots do poller, teclas viram
// transições e View só desenha o estado local.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/radieske/wicketick/internal/phase"
)

// TickInterval é a cadência do loop de render/input
const TickInterval = 50 * time.Millisecond

type tickMsg time.Time

// Styles do quadro; o padrão é texto branco sobre fundo azul
type Styles struct {
	Frame  lipgloss.Style
	Status lipgloss.Style
	Notice lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Padding(1, 2),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Faint(true),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Background(lipgloss.Color("4")).
			Bold(true),
	}
}

// Model implementa tea.Model sobre uma phase.Machine
type Model struct {
	machine *phase.Machine
	keys    KeyMap
	styles  Styles
	now     func() time.Time

	width, height int
	quitting      bool
}

func NewModel(machine *phase.Machine) Model {
	return Model{
		machine: machine,
		keys:    DefaultKeyMap,
		styles:  DefaultStyles(),
		now:     time.Now,
	}
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(at time.Time) tea.Msg { return tickMsg(at) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.machine.Update()
		return m, tick()

	case tea.KeyMsg:
		in := m.keys.Input(msg)
		if in == phase.InputNone {
			return m, nil
		}
		if m.machine.HandleInput(in) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	frame := m.machine.Draw(m.now())

	parts := []string{frame.Body, "", m.styles.Status.Render(frame.Status)}
	if frame.Notice != "" {
		parts = append(parts, m.styles.Notice.Render(frame.Notice))
	}
	style := m.styles.Frame
	if m.width > 0 && m.height > 0 {
		style = style.Width(m.width).Height(m.height)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
