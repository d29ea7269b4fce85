package cricinfo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/radieske/wicketick/internal/wicketick"
)

// Só os campos do JSON do cricinfo que o ticker usa de fato.
// O feed mistura número e string no mesmo campo, por isso o tipo count.

type matchSummary struct {
	Live liveState `json:"live"`
	Team []team    `json:"team"`
}

type liveState struct {
	Innings innings  `json:"innings"`
	Batting []batter `json:"batting"`
	Bowling []bowler `json:"bowling"`
}

type innings struct {
	Runs    count  `json:"runs"`
	Wickets count  `json:"wickets"`
	Target  count  `json:"target"`
	Overs   string `json:"overs"`
}

type batter struct {
	PlayerID        string `json:"player_id"`
	Runs            count  `json:"runs"`
	BallsFaced      count  `json:"balls_faced"`
	LiveCurrentName string `json:"live_current_name"`
}

type bowler struct {
	PlayerID        string `json:"player_id"`
	Overs           string `json:"overs"`
	Wickets         count  `json:"wickets"`
	Conceded        count  `json:"conceded"`
	LiveCurrentName string `json:"live_current_name"`
}

type team struct {
	TeamID        string   `json:"team_id"`
	TeamName      string   `json:"team_name"`
	TeamShortName string   `json:"team_short_name"`
	Player        []player `json:"player"`
}

type player struct {
	PlayerID    string `json:"player_id"`
	KnownAs     string `json:"known_as"`
	PopularName string `json:"popular_name"`
}

// count aceita 12, "12" ou lixo; lixo vira 0.
type count uint32

func (c *count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		*c = 0
		return nil
	}
	*c = count(n)
	return nil
}

const unknownPlayer = "Unknown"

// lookupPlayerName procura o known_as na listagem de times
func (m *matchSummary) lookupPlayerName(playerID string) string {
	for _, t := range m.Team {
		for _, p := range t.Player {
			if p.PlayerID == playerID {
				return p.KnownAs
			}
		}
	}
	return unknownPlayer
}

// toSnapshot converte o payload do feed no Snapshot normalizado.
// Mapeia no máximo dois rebatedores e dois arremessadores, na ordem do feed.
func (m *matchSummary) toSnapshot() wicketick.Snapshot {
	var target *uint32
	if t := uint32(m.Live.Innings.Target); t != 0 {
		target = &t
	}

	var active wicketick.ActivePlayers
	batters := make([]*wicketick.Batter, 0, 2)
	for _, b := range m.Live.Batting {
		if len(batters) == 2 {
			break
		}
		batters = append(batters, &wicketick.Batter{
			Name:       m.lookupPlayerName(b.PlayerID),
			Runs:       uint32(b.Runs),
			BallsFaced: uint32(b.BallsFaced),
			OnStrike:   b.LiveCurrentName == "striker",
		})
	}
	if len(batters) > 0 {
		active.BatterOne = batters[0]
	}
	if len(batters) > 1 {
		active.BatterTwo = batters[1]
	}

	bowlers := make([]*wicketick.Bowler, 0, 2)
	for _, b := range m.Live.Bowling {
		if len(bowlers) == 2 {
			break
		}
		bowlers = append(bowlers, &wicketick.Bowler{
			Name:     m.lookupPlayerName(b.PlayerID),
			Overs:    wicketick.ParseOvers(b.Overs),
			Wickets:  uint32(b.Wickets),
			Conceded: uint32(b.Conceded),
		})
	}
	if len(bowlers) > 0 {
		active.BowlerOne = bowlers[0]
	}
	if len(bowlers) > 1 {
		active.BowlerTwo = bowlers[1]
	}

	return wicketick.Snapshot{
		CurrentInnings: wicketick.Innings{
			Runs:    uint32(m.Live.Innings.Runs),
			Wickets: uint32(m.Live.Innings.Wickets),
			Overs:   m.Live.Innings.Overs,
			Target:  target,
		},
		ActivePlayers: active,
	}
}

// decode lê o payload e devolve o snapshot ainda sem FetchedAt
func decode(data []byte) (wicketick.Snapshot, error) {
	var m matchSummary
	if err := json.Unmarshal(data, &m); err != nil {
		return wicketick.Snapshot{}, err
	}
	return m.toSnapshot(), nil
}
