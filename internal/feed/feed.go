// Package feed liga cada variante de Source ao colaborador que sabe buscá-la.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/radieske/wicketick/internal/cricinfo"
	"github.com/radieske/wicketick/internal/wicketick"
)

// Fetcher devolve um snapshot novo para o source informado
type Fetcher interface {
	Fetch(ctx context.Context, src wicketick.Source) (wicketick.Snapshot, error)
}

// FetcherFunc adapta uma função comum para Fetcher
type FetcherFunc func(ctx context.Context, src wicketick.Source) (wicketick.Snapshot, error)

func (f FetcherFunc) Fetch(ctx context.Context, src wicketick.Source) (wicketick.Snapshot, error) {
	return f(ctx, src)
}

// CurrentReader lê o snapshot corrente publicado pelo snapshot-relay
type CurrentReader interface {
	GetCurrent(ctx context.Context, matchID string) (wicketick.Snapshot, bool, error)
}

// ErrNotCached indica que o relay ainda não tem snapshot para a partida
var ErrNotCached = errors.New("no snapshot cached for match")

// Router despacha por SourceKind. Relay é opcional (nil quando REDIS_ADDR não está setado).
// Snapshot lido do relay sai com FetchedAt = instante da leitura (Now, ou time.Now).
type Router struct {
	Cricinfo *cricinfo.Client
	Relay    CurrentReader
	Now      func() time.Time
}

func (r *Router) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Router) Fetch(ctx context.Context, src wicketick.Source) (wicketick.Snapshot, error) {
	if !src.Concrete() {
		return wicketick.Snapshot{}, wicketick.ErrNoSelection
	}

	switch src.Kind {
	case wicketick.SourceRemote:
		return r.Cricinfo.MatchSummary(ctx, src.MatchID)
	case wicketick.SourceLocal:
		return r.Cricinfo.LoadMatchSummary(src.Path)
	case wicketick.SourceRelay:
		if r.Relay == nil {
			return wicketick.Snapshot{}, fmt.Errorf("%w: relay cache not configured", wicketick.ErrUnsupportedSource)
		}
		snap, ok, err := r.Relay.GetCurrent(ctx, src.MatchID)
		if err != nil {
			return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageIO, Source: src, Err: err}
		}
		if !ok {
			return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageIO, Source: src, Err: ErrNotCached}
		}
		snap.FetchedAt = r.now()
		return snap, nil
	}
	return wicketick.Snapshot{}, fmt.Errorf("%w: %s", wicketick.ErrUnsupportedSource, src.Kind)
}

// Coalesce junta fetches simultâneos do mesmo source num só (singleflight):
// um refresh manual disparado durante um poll reaproveita a requisição em voo.
func Coalesce(next Fetcher) Fetcher {
	var group singleflight.Group
	return FetcherFunc(func(ctx context.Context, src wicketick.Source) (wicketick.Snapshot, error) {
		v, err, _ := group.Do(src.Key(), func() (any, error) {
			return next.Fetch(ctx, src)
		})
		if err != nil {
			return wicketick.Snapshot{}, err
		}
		return v.(wicketick.Snapshot), nil
	})
}
