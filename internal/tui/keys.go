package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/radieske/wicketick/internal/phase"
)

// KeyMap liga as teclas aos inputs da máquina de fases
type KeyMap struct {
	Quit    key.Binding
	Select  key.Binding
	Refresh key.Binding
}

// DefaultKeyMap: q sai, 1 seleciona, r faz refresh manual
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Select: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "select"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

// Input traduz uma tecla; teclas desconhecidas viram InputNone
func (k KeyMap) Input(msg tea.KeyMsg) phase.Input {
	switch {
	case key.Matches(msg, k.Quit):
		return phase.InputQuit
	case key.Matches(msg, k.Select):
		return phase.InputSelect
	case key.Matches(msg, k.Refresh):
		return phase.InputRefresh
	}
	return phase.InputNone
}
