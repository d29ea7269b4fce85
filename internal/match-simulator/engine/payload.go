package engine

import "strconv"

// Formato do feed de partidas (mesmos nomes de campo do cricinfo).
// Números de rebatedores vão como string, como o feed real faz às vezes.

type Payload struct {
	Live PayloadLive   `json:"live"`
	Team []PayloadTeam `json:"team"`
}

type PayloadLive struct {
	Innings PayloadInnings  `json:"innings"`
	Batting []PayloadBatter `json:"batting"`
	Bowling []PayloadBowler `json:"bowling"`
}

type PayloadInnings struct {
	Runs    uint32 `json:"runs"`
	Wickets uint32 `json:"wickets"`
	Target  uint32 `json:"target"`
	Overs   string `json:"overs"`
}

type PayloadBatter struct {
	PlayerID        string `json:"player_id"`
	Runs            string `json:"runs"`
	BallsFaced      string `json:"balls_faced"`
	LiveCurrentName string `json:"live_current_name"`
}

type PayloadBowler struct {
	PlayerID        string `json:"player_id"`
	Overs           string `json:"overs"`
	Wickets         uint32 `json:"wickets"`
	Conceded        uint32 `json:"conceded"`
	LiveCurrentName string `json:"live_current_name"`
}

type PayloadTeam struct {
	TeamID        string          `json:"team_id"`
	TeamName      string          `json:"team_name"`
	TeamShortName string          `json:"team_short_name"`
	Player        []PayloadPlayer `json:"player"`
}

type PayloadPlayer struct {
	PlayerID    string `json:"player_id"`
	KnownAs     string `json:"known_as"`
	PopularName string `json:"popular_name"`
}

// Payload tira uma foto do estado atual
func (m *Match) Payload() Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := Payload{
		Live: PayloadLive{
			Innings: PayloadInnings{
				Runs:    m.runs,
				Wickets: m.wickets,
				Target:  m.target,
				Overs:   formatOvers(m.balls),
			},
		},
	}

	for _, b := range []struct {
		state *batterState
		role  string
	}{{m.striker, "striker"}, {m.nonStriker, "non-striker"}} {
		if b.state == nil || b.state.id == "" {
			continue
		}
		p.Live.Batting = append(p.Live.Batting, PayloadBatter{
			PlayerID:        b.state.id,
			Runs:            uint32String(b.state.runs),
			BallsFaced:      uint32String(b.state.balls),
			LiveCurrentName: b.role,
		})
	}

	for _, slot := range []struct {
		index int
		role  string
	}{{m.current, "current bowler"}, {m.previous, "previous bowler"}} {
		if slot.index < 0 || slot.index >= len(m.bowlers) {
			continue
		}
		b := m.bowlers[slot.index]
		p.Live.Bowling = append(p.Live.Bowling, PayloadBowler{
			PlayerID:        b.id,
			Overs:           formatOvers(b.balls),
			Wickets:         b.wickets,
			Conceded:        b.conceded,
			LiveCurrentName: slot.role,
		})
	}

	for ti, t := range m.teams {
		pt := PayloadTeam{TeamID: t.ID, TeamName: t.Name, TeamShortName: t.ShortName}
		for pi, name := range t.Players {
			pt.Player = append(pt.Player, PayloadPlayer{
				PlayerID:    playerID(ti, pi),
				KnownAs:     name,
				PopularName: name,
			})
		}
		p.Team = append(p.Team, pt)
	}
	return p
}

func uint32String(n uint32) string {
	return strconv.FormatUint(uint64(n), 10)
}
