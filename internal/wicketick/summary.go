package wicketick

import (
	"fmt"
	"strings"
	"time"
)

// Innings resume a entrada corrente: corridas, wickets, overs e alvo opcional
type Innings struct {
	Runs    uint32  `json:"runs"`
	Wickets uint32  `json:"wickets"`
	Overs   string  `json:"overs"`
	Target  *uint32 `json:"target,omitempty"`
}

// Display gera "<runs>-<wickets> <overs>", ex: "120-4 35.2"
func (i Innings) Display() string {
	return fmt.Sprintf("%d-%d %s", i.Runs, i.Wickets, i.Overs)
}

// Batter é um rebatedor ativo no momento do snapshot
type Batter struct {
	Name       string `json:"name"`
	Runs       uint32 `json:"runs"`
	BallsFaced uint32 `json:"ballsFaced"`
	OnStrike   bool   `json:"onStrike"`
}

// Display gera "<nome>[*] <runs> (<bolas>)"; o asterisco marca o striker.
func (b Batter) Display() string {
	name := b.Name
	if b.OnStrike {
		name += "*"
	}
	return fmt.Sprintf("%s %d (%d)", name, b.Runs, b.BallsFaced)
}

// Bowler é um arremessador ativo no momento do snapshot
type Bowler struct {
	Name     string `json:"name"`
	Overs    Overs  `json:"overs"`
	Wickets  uint32 `json:"wickets"`
	Conceded uint32 `json:"conceded"`
}

// Display gera "<nome> <wickets>-<corridas cedidas> (<overs>)"
func (b Bowler) Display() string {
	return fmt.Sprintf("%s %d-%d (%s)", b.Name, b.Wickets, b.Conceded, b.Overs)
}

// ActivePlayers guarda até dois rebatedores e dois arremessadores.
type ActivePlayers struct {
	BatterOne *Batter `json:"batterOne,omitempty"`
	BatterTwo *Batter `json:"batterTwo,omitempty"`
	BowlerOne *Bowler `json:"bowlerOne,omitempty"`
	BowlerTwo *Bowler `json:"bowlerTwo,omitempty"`
}

// Snapshot é a foto imutável do estado da partida num instante.
// Cada fetch produz um Snapshot novo; ninguém altera campos depois de criado.
type Snapshot struct {
	CurrentInnings Innings       `json:"currentInnings"`
	ActivePlayers  ActivePlayers `json:"activePlayers"`
	Debug          string        `json:"debug,omitempty"`
	FetchedAt      time.Time     `json:"fetchedAt"`
}

// Display monta o texto completo: placar, alvo, jogadores ativos e o diagnóstico.
func (s Snapshot) Display() string {
	var b strings.Builder
	b.WriteString(s.CurrentInnings.Display())
	if t := s.CurrentInnings.Target; t != nil {
		fmt.Fprintf(&b, "\ntarget %d", *t)
	}

	var batters []string
	for _, p := range []*Batter{s.ActivePlayers.BatterOne, s.ActivePlayers.BatterTwo} {
		if p != nil {
			batters = append(batters, p.Display())
		}
	}
	if len(batters) > 0 {
		b.WriteString("\n" + strings.Join(batters, "   "))
	}

	var bowlers []string
	for _, p := range []*Bowler{s.ActivePlayers.BowlerOne, s.ActivePlayers.BowlerTwo} {
		if p != nil {
			bowlers = append(bowlers, p.Display())
		}
	}
	if len(bowlers) > 0 {
		b.WriteString("\n" + strings.Join(bowlers, "   "))
	}

	if s.Debug != "" {
		b.WriteString("\n" + s.Debug)
	}
	return b.String()
}
