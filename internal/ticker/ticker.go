package ticker

import (
	"context"
	"fmt"
	"time"

	"github.com/radieske/wicketick/internal/feed"
	"github.com/radieske/wicketick/internal/wicketick"
)

// DefaultPollInterval é o intervalo quando a CLI não informa --time-interval
const DefaultPollInterval = 30 * time.Second

// Ticker guarda o último snapshot de um source concreto.
// Só o loop de render/input escreve nos campos mutáveis (Refresh e Apply);
// o poller usa apenas Refetch, que não altera nada.
type Ticker struct {
	source       wicketick.Source
	fetcher      feed.Fetcher
	pollInterval time.Duration
	now          func() time.Time

	summary     *wicketick.Snapshot
	lastRefresh time.Time
}

// New cria o Ticker; falha se o source ainda for um template sem identificador.
func New(src wicketick.Source, fetcher feed.Fetcher, pollInterval time.Duration) (*Ticker, error) {
	if !src.Concrete() {
		return nil, fmt.Errorf("new ticker for %s: %w", src, wicketick.ErrNoSelection)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("new ticker for %s: nil fetcher", src)
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Ticker{
		source:       src,
		fetcher:      fetcher,
		pollInterval: pollInterval,
		now:          time.Now,
	}, nil
}

func (t *Ticker) Source() wicketick.Source { return t.source }

func (t *Ticker) PollInterval() time.Duration { return t.pollInterval }

// Summary retorna o último snapshot aplicado, se houver
func (t *Ticker) Summary() (wicketick.Snapshot, bool) {
	if t.summary == nil {
		return wicketick.Snapshot{}, false
	}
	return *t.summary, true
}

// LastRefresh retorna o instante do fetch que produziu o snapshot corrente
func (t *Ticker) LastRefresh() (time.Time, bool) {
	return t.lastRefresh, !t.lastRefresh.IsZero()
}

// Refresh busca de forma síncrona e substitui summary + lastRefresh.
// Em erro o estado anterior fica intacto e o erro volta para o chamador.
func (t *Ticker) Refresh(ctx context.Context) error {
	snap, err := t.Refetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", t.source, err)
	}
	t.Apply(snap)
	return nil
}

// Refetch busca um snapshot novo sem tocar no Ticker; é o que o poller chama.
func (t *Ticker) Refetch(ctx context.Context) (wicketick.Snapshot, error) {
	snap, err := t.fetcher.Fetch(ctx, t.source)
	if err != nil {
		return wicketick.Snapshot{}, err
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = t.now()
	}
	return snap, nil
}

// Apply incorpora um snapshot recebido pelo canal do poller (ou pelo Refresh).
// lastRefresh passa a ser o FetchedAt do snapshot. Snapshot buscado antes do
// lastRefresh corrente é descartado e Apply retorna false.
func (t *Ticker) Apply(snap wicketick.Snapshot) bool {
	if !snap.FetchedAt.IsZero() && snap.FetchedAt.Before(t.lastRefresh) {
		return false
	}
	t.summary = &snap
	if !snap.FetchedAt.IsZero() {
		t.lastRefresh = snap.FetchedAt
	}
	return true
}
