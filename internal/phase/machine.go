package phase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/feed"
	"github.com/radieske/wicketick/internal/ticker"
	"github.com/radieske/wicketick/internal/wicketick"
)

// stopGrace limita a espera pelo fim da goroutine do poller ao trocar de fase
const stopGrace = 2 * time.Second

// Config reúne o que a máquina precisa para construir Tickers e pollers
type Config struct {
	Template     wicketick.Source // variante vinda da CLI, com ou sem identificador
	Candidates   []string         // partidas/arquivos oferecidos na seleção
	PollInterval time.Duration
	FetchTimeout time.Duration // limite do refresh manual
	Fetcher      feed.Fetcher
	Poller       ticker.PollerConfig
	Log          *zap.Logger

	OnManualRefresh func(err error) // métricas
}

// Machine guarda a fase corrente. Todos os métodos rodam na goroutine do loop
// de render/input; só o poller roda em paralelo.
type Machine struct {
	ctx     context.Context
	cfg     Config
	log     *zap.Logger
	current Phase
	closed  bool
}

// New cria a máquina em SourceSelect. ctx é o pai de todos os pollers.
func New(ctx context.Context, cfg Config) *Machine {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Template.Kind == 0 {
		cfg.Template = wicketick.Remote("")
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = ticker.DefaultFetchTimeout
	}
	if cfg.Poller.Log == nil {
		cfg.Poller.Log = log
	}
	if cfg.Poller.FetchTimeout <= 0 {
		cfg.Poller.FetchTimeout = cfg.FetchTimeout
	}
	return &Machine{ctx: ctx, cfg: cfg, log: log, current: &SourceSelect{}}
}

// Phase retorna a fase corrente
func (m *Machine) Phase() Phase { return m.current }

// Begin monta a fase inicial a partir dos argumentos da CLI: com identificador
// concreto já entra em LiveStream; com template vai para MatchSelect.
// Só é chamado quando a CLI nomeia um source; erro aqui é fatal para o processo.
func (m *Machine) Begin() error {
	tpl := m.cfg.Template
	if !tpl.Concrete() {
		m.current = &MatchSelect{Template: tpl}
		return nil
	}
	live, err := m.enter(tpl, m.indexOf(tpl.Identifier()))
	if err != nil {
		return err
	}
	m.current = live
	return nil
}

// Update drena no máximo um snapshot pendente e o aplica ao Ticker da fase.
// Retorna false quando não havia snapshot ou ele era mais velho que o corrente.
func (m *Machine) Update() bool {
	live, ok := m.current.(*LiveStream)
	if !ok {
		return false
	}
	select {
	case snap, open := <-live.updates:
		if !open {
			live.updates = nil
			return false
		}
		return live.Ticker.Apply(snap)
	default:
		return false
	}
}

// HandleInput consome um evento e aplica a transição. Retorna true quando o
// loop deve encerrar; nesse caso o poller da fase já foi cancelado.
func (m *Machine) HandleInput(in Input) bool {
	next, quit := m.transition(m.current, in)
	m.current = next
	if quit {
		m.closed = true
	}
	return quit
}

// Close derruba o poller corrente, se houver. Pode ser chamado mais de uma vez.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if live, ok := m.current.(*LiveStream); ok {
		m.leave(live)
	}
}

// transition é a única função que troca de fase.
func (m *Machine) transition(cur Phase, in Input) (Phase, bool) {
	if in == InputQuit {
		if live, ok := cur.(*LiveStream); ok {
			m.leave(live)
		}
		return cur, true
	}

	switch p := cur.(type) {
	case *SourceSelect:
		if in == InputSelect {
			return &MatchSelect{Template: m.cfg.Template}, false
		}
	case *MatchSelect:
		if in == InputSelect {
			return m.selectMatch(p), false
		}
	case *LiveStream:
		switch in {
		case InputRefresh:
			m.refresh(p)
		case InputSelect:
			return m.reselect(p), false
		}
	default:
		panic(fmt.Sprintf("phase: unknown phase %T", cur))
	}
	return cur, false
}

func (m *Machine) selectMatch(p *MatchSelect) Phase {
	src := p.Template
	index := m.indexOf(src.Identifier())
	if !src.Concrete() {
		if len(m.cfg.Candidates) == 0 {
			p.Notice = wicketick.ErrNoSelection.Error()
			return p
		}
		index = 0
		src = src.WithIdentifier(m.cfg.Candidates[0])
	}

	live, err := m.enter(src, index)
	if err != nil {
		p.Notice = err.Error()
		return p
	}
	return live
}

// reselect troca a partida acompanhada pela próxima candidata.
// O poller antigo é derrubado antes do novo nascer.
func (m *Machine) reselect(p *LiveStream) Phase {
	n := len(m.cfg.Candidates)
	next := p.candidate + 1
	if n == 0 || (n == 1 && p.candidate == 0) {
		p.Notice = "no other match to switch to"
		return p
	}
	next %= n

	src := p.Ticker.Source().WithIdentifier(m.cfg.Candidates[next])
	m.leave(p)
	live, err := m.enter(src, next)
	if err != nil {
		return &MatchSelect{Template: src, Notice: err.Error()}
	}
	return live
}

func (m *Machine) enter(src wicketick.Source, candidate int) (*LiveStream, error) {
	tk, err := ticker.New(src, m.cfg.Fetcher, m.cfg.PollInterval)
	if err != nil {
		return nil, err
	}
	handle, updates := ticker.Spawn(m.ctx, tk, m.cfg.Poller)
	m.log.Info("live stream started",
		zap.String("source", src.Key()),
		zap.String("poller_id", handle.ID()),
		zap.Duration("interval", tk.PollInterval()),
	)
	return &LiveStream{Ticker: tk, handle: handle, updates: updates, candidate: candidate}, nil
}

// leave cancela o poller da fase e espera a goroutine sair
func (m *Machine) leave(p *LiveStream) {
	if p.handle == nil {
		return
	}
	p.handle.Cancel()
	select {
	case <-p.handle.Done():
	case <-time.After(stopGrace):
		m.log.Warn("poller did not stop in time", zap.String("poller_id", p.handle.ID()))
	}
	p.updates = nil
	m.log.Info("live stream stopped", zap.String("poller_id", p.handle.ID()))
}

// refresh é o refresh manual: síncrono, no loop. Falha mantém o snapshot atual.
func (m *Machine) refresh(p *LiveStream) {
	ctx, cancel := context.WithTimeout(m.ctx, m.cfg.FetchTimeout)
	defer cancel()

	err := p.Ticker.Refresh(ctx)
	if m.cfg.OnManualRefresh != nil {
		m.cfg.OnManualRefresh(err)
	}
	if err != nil {
		m.log.Warn("manual refresh failed", zap.Error(err))
		p.Notice = "refresh failed: " + err.Error()
		return
	}
	p.Notice = ""
}

func (m *Machine) indexOf(id string) int {
	for i, c := range m.cfg.Candidates {
		if c == id {
			return i
		}
	}
	return -1
}
