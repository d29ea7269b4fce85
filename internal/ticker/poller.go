package ticker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/wicketick"
)

// DefaultFetchTimeout limita cada fetch do poller
const DefaultFetchTimeout = 10 * time.Second

// Sink recebe cada snapshot publicado pelo poller (ex: tópico Kafka).
// version cresce por poller; pollerID identifica quem produziu.
type Sink interface {
	PublishSnapshot(ctx context.Context, pollerID string, src wicketick.Source, version int64, snap wicketick.Snapshot) error
}

// Hooks são callbacks de métricas, todos opcionais
type Hooks struct {
	OnFetched   func(elapsed time.Duration) // fetch ok (histogram/counter)
	OnError     func(stage string)          // falha por estágio
	OnCoalesced func()                      // snapshot não lido foi sobrescrito
	OnPublished func()                      // sink aceitou o snapshot
}

// PollerConfig parametriza o loop do poller
type PollerConfig struct {
	FetchTimeout time.Duration
	Sink         Sink
	Log          *zap.Logger
	Hooks        Hooks
}

var activePollers atomic.Int64

// ActivePollers conta goroutines de poller ainda rodando (gauge + testes).
func ActivePollers() int64 { return activePollers.Load() }

// Handle é o dono do poller em background. Cancel é idempotente.
type Handle struct {
	id      string
	source  wicketick.Source
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr atomic.Pointer[error]
}

func (h *Handle) ID() string { return h.id }

func (h *Handle) Source() wicketick.Source { return h.source }

// Cancel interrompe o loop no próximo ponto de suspensão (fetch ou sleep).
func (h *Handle) Cancel() { h.cancel() }

// Done fecha quando a goroutine do poller termina
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait bloqueia até a goroutine terminar
func (h *Handle) Wait() { <-h.done }

// LastErr retorna o erro do último ciclo (nil se o último fetch deu certo)
func (h *Handle) LastErr() error {
	if p := h.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

func (h *Handle) setErr(err error) {
	if err == nil {
		h.lastErr.Store(nil)
		return
	}
	h.lastErr.Store(&err)
}

// Spawn inicia o poller do Ticker: fetch -> envia no canal -> dorme -> repete.
// O canal tem capacidade 1 e a política é "o mais recente vence".
// O canal é fechado quando o poller termina.
func Spawn(parent context.Context, t *Ticker, cfg PollerConfig) (*Handle, <-chan wicketick.Snapshot) {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{
		id:     uuid.NewString(),
		source: t.Source(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	box := make(latest, 1)

	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	p := &poller{
		ticker: t,
		cfg:    cfg,
		handle: h,
		box:    box,
		log:    log.With(zap.String("poller_id", h.id), zap.String("source", h.source.Key())),
	}

	activePollers.Add(1)
	go p.run(ctx)
	return h, box
}

type poller struct {
	ticker  *Ticker
	cfg     PollerConfig
	handle  *Handle
	box     latest
	log     *zap.Logger
	version int64
}

func (p *poller) run(ctx context.Context) {
	defer close(p.handle.done)
	defer activePollers.Add(-1)
	defer close(p.box)

	p.log.Info("poller started", zap.Duration("interval", p.ticker.PollInterval()))
	for {
		if ctx.Err() != nil {
			break
		}
		p.pollOnce(ctx)

		sleep := time.NewTimer(p.ticker.PollInterval())
		select {
		case <-ctx.Done():
			sleep.Stop()
		case <-sleep.C:
		}
	}
	p.log.Info("poller stopped")
}

func (p *poller) pollOnce(ctx context.Context) {
	fetchCtx, cancel := p.fetchContext(ctx)
	start := time.Now()
	snap, err := p.ticker.Refetch(fetchCtx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			// cancelado durante o fetch: não é falha do feed
			return
		}
		p.handle.setErr(err)
		stage := wicketick.FetchStage(err)
		p.log.Warn("poll fetch failed", zap.String("stage", stage), zap.Error(err))
		if p.cfg.Hooks.OnError != nil {
			p.cfg.Hooks.OnError(stage)
		}
		return
	}

	p.handle.setErr(nil)
	if p.cfg.Hooks.OnFetched != nil {
		p.cfg.Hooks.OnFetched(time.Since(start))
	}
	if p.box.offer(snap) && p.cfg.Hooks.OnCoalesced != nil {
		p.cfg.Hooks.OnCoalesced()
	}
	p.version++
	p.log.Debug("snapshot published", zap.Int64("version", p.version))

	if p.cfg.Sink == nil {
		return
	}
	sinkCtx, sinkCancel := p.fetchContext(ctx)
	defer sinkCancel()
	if err := p.cfg.Sink.PublishSnapshot(sinkCtx, p.handle.id, p.handle.source, p.version, snap); err != nil {
		p.log.Warn("snapshot sink failed", zap.Error(err))
		if p.cfg.Hooks.OnError != nil {
			p.cfg.Hooks.OnError("publish")
		}
		return
	}
	if p.cfg.Hooks.OnPublished != nil {
		p.cfg.Hooks.OnPublished()
	}
}

func (p *poller) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.cfg.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// latest é o canal de capacidade 1 entre poller e loop de render.
type latest chan wicketick.Snapshot

// offer entrega o snapshot sem bloquear, descartando um valor ainda não lido.
// Só o poller envia, então depois de esvaziar o slot o envio final não bloqueia.
func (l latest) offer(snap wicketick.Snapshot) (coalesced bool) {
	select {
	case l <- snap:
		return false
	default:
	}
	select {
	case <-l:
		coalesced = true
	default:
	}
	l <- snap
	return coalesced
}
