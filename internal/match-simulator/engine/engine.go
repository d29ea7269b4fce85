// Package engine simula uma partida T20 bola a bola e expõe o estado no
// mesmo formato JSON do feed de partidas do cricinfo.
package engine

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
)

const (
	ballsPerOver = 6
	maxOvers     = 20
	maxWickets   = 10
)

// outcome é o resultado de uma bola: corridas ou wicket
type outcome struct {
	runs   uint32
	wicket bool
	weight int
}

// distribuição aproximada de um T20
var outcomes = []outcome{
	{runs: 0, weight: 35},
	{runs: 1, weight: 33},
	{runs: 2, weight: 8},
	{runs: 3, weight: 1},
	{runs: 4, weight: 12},
	{runs: 6, weight: 6},
	{wicket: true, weight: 5},
}

type batterState struct {
	id    string
	runs  uint32
	balls uint32
}

type bowlerState struct {
	id       string
	balls    uint32
	wickets  uint32
	conceded uint32
}

// Team é a escalação usada pelo simulador
type Team struct {
	ID        string
	Name      string
	ShortName string
	Players   []string // nomes; ids são gerados
}

// Match guarda o estado de uma partida. Seguro para uso concorrente.
type Match struct {
	mu  sync.Mutex
	id  string
	rng *rand.Rand

	teams   [2]Team
	batting int // índice do time rebatendo

	runs, wickets, balls uint32
	target               uint32

	striker, nonStriker *batterState
	nextBatter          int
	bowlers             []*bowlerState
	current, previous   int // índices em bowlers; -1 quando não há
	innings             int
}

// NewMatch cria a partida já no início do primeiro innings
func NewMatch(id string, home, away Team, seed int64) *Match {
	m := &Match{
		id:    id,
		rng:   rand.New(rand.NewSource(seed)),
		teams: [2]Team{home, away},
	}
	m.startInnings(0, 0)
	return m
}

func (m *Match) ID() string { return m.id }

func playerID(team, index int) string {
	return strconv.Itoa((team+1)*1000 + index + 1)
}

func (m *Match) startInnings(batting int, target uint32) {
	m.batting = batting
	m.target = target
	m.runs, m.wickets, m.balls = 0, 0, 0
	m.striker = &batterState{id: playerID(batting, 0)}
	m.nonStriker = &batterState{id: playerID(batting, 1)}
	m.nextBatter = 2

	fielding := 1 - batting
	m.bowlers = m.bowlers[:0]
	for i := 0; i < 5; i++ {
		// os cinco últimos da escalação arremessam
		m.bowlers = append(m.bowlers, &bowlerState{id: playerID(fielding, len(m.teams[fielding].Players)-1-i)})
	}
	m.current, m.previous = 0, -1
	m.innings++
}

func (m *Match) pick() outcome {
	total := 0
	for _, o := range outcomes {
		total += o.weight
	}
	n := m.rng.Intn(total)
	for _, o := range outcomes {
		if n < o.weight {
			return o
		}
		n -= o.weight
	}
	return outcomes[0]
}

// Step bowla uma bola e avança o estado. Retorna false quando a partida acabou.
func (m *Match) Step() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bowl(m.pick())
}

func (m *Match) bowl(o outcome) bool {
	if m.finished() {
		return false
	}
	bowler := m.bowlers[m.current]
	bowler.balls++
	m.balls++
	m.striker.balls++

	if o.wicket {
		bowler.wickets++
		m.wickets++
		m.striker = m.newBatter()
	} else {
		m.runs += o.runs
		m.striker.runs += o.runs
		bowler.conceded += o.runs
		if o.runs%2 == 1 {
			m.striker, m.nonStriker = m.nonStriker, m.striker
		}
	}

	if m.inningsOver() {
		if m.innings == 1 {
			m.startInnings(1, m.runs+1)
		}
		return !m.finished()
	}

	if m.balls%ballsPerOver == 0 {
		m.striker, m.nonStriker = m.nonStriker, m.striker
		m.previous = m.current
		m.current = (m.current + 1) % len(m.bowlers)
	}
	return true
}

func (m *Match) newBatter() *batterState {
	if m.wickets >= maxWickets || m.nextBatter >= len(m.teams[m.batting].Players) {
		return &batterState{id: ""}
	}
	b := &batterState{id: playerID(m.batting, m.nextBatter)}
	m.nextBatter++
	return b
}

func (m *Match) inningsOver() bool {
	if m.wickets >= maxWickets || m.balls >= maxOvers*ballsPerOver {
		return true
	}
	return m.target > 0 && m.runs >= m.target
}

func (m *Match) finished() bool {
	return m.innings == 2 && m.inningsOver()
}

func formatOvers(balls uint32) string {
	if balls%ballsPerOver == 0 {
		return strconv.Itoa(int(balls / ballsPerOver))
	}
	return fmt.Sprintf("%d.%d", balls/ballsPerOver, balls%ballsPerOver)
}
