package engine

import (
	"sort"
	"sync"
)

// Catálogo fixo de times usados nas partidas simuladas
var (
	WestIndies = Team{ID: "4", Name: "West Indies", ShortName: "WI", Players: []string{
		"Brandon King", "Shai Hope", "Nicholas Pooran", "Rovman Powell", "Sherfane Rutherford",
		"Andre Russell", "Romario Shepherd", "Akeal Hosein", "Alzarri Joseph", "Gudakesh Motie", "Obed McCoy",
	}}
	England = Team{ID: "1", Name: "England", ShortName: "ENG", Players: []string{
		"Phil Salt", "Jos Buttler", "Will Jacks", "Jonny Bairstow", "Harry Brook",
		"Liam Livingstone", "Moeen Ali", "Sam Curran", "Jofra Archer", "Adil Rashid", "Mark Wood",
	}}
	India = Team{ID: "6", Name: "India", ShortName: "IND", Players: []string{
		"Rohit Sharma", "Virat Kohli", "Rishabh Pant", "Suryakumar Yadav", "Shivam Dube",
		"Hardik Pandya", "Ravindra Jadeja", "Axar Patel", "Kuldeep Yadav", "Jasprit Bumrah", "Arshdeep Singh",
	}}
	Australia = Team{ID: "2", Name: "Australia", ShortName: "AUS", Players: []string{
		"Travis Head", "David Warner", "Mitchell Marsh", "Glenn Maxwell", "Marcus Stoinis",
		"Tim David", "Matthew Wade", "Pat Cummins", "Mitchell Starc", "Adam Zampa", "Josh Hazlewood",
	}}
)

// Catalog indexa as partidas simuladas por id
type Catalog struct {
	mu      sync.RWMutex
	matches map[string]*Match
}

// DefaultCatalog cria as partidas padrão do simulador
func DefaultCatalog(seed int64) *Catalog {
	c := &Catalog{matches: make(map[string]*Match)}
	c.Add(NewMatch("1410472", WestIndies, England, seed))
	c.Add(NewMatch("1410473", India, Australia, seed+1))
	return c
}

func (c *Catalog) Add(m *Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.matches == nil {
		c.matches = make(map[string]*Match)
	}
	c.matches[m.ID()] = m
}

func (c *Catalog) Get(id string) (*Match, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// IDs retorna os ids em ordem
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.matches))
	for id := range c.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StepAll avança uma bola em todas as partidas; retorna quantas seguem vivas
func (c *Catalog) StepAll() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	live := 0
	for _, m := range c.matches {
		if m.Step() {
			live++
		}
	}
	return live
}
