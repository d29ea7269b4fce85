package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/pkg/contracts/events"
)

// MessageReader é o lado de leitura do kafka.Reader
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// MessageWriter recebe mensagens que não decodificam (DLQ)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// CurrentStore guarda o snapshot corrente; false indica update atrasado
type CurrentStore interface {
	SetCurrent(ctx context.Context, ev events.SnapshotUpdate) (bool, error)
}

// Processor consome snapshots do Kafka, atualiza o cache e avisa o broadcast
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log    *zap.Logger
	Reader MessageReader
	Cache  CurrentStore
	DLQ    MessageWriter // opcional

	OnConsumed func()       // métricas (counter++)
	OnCached   func()       // métricas
	OnStale    func()       // update mais velho que o cache
	OnError    func(string) // métricas por fase

	// Após gravar no cache, repassa o update (ex: Redis Pub/Sub -> WS)
	OnAfterCache func(ctx context.Context, ev events.SnapshotUpdate)

	// intervalo entre tentativas quando a leitura falha
	RetryDelay time.Duration
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	delay := p.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem já lida
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var ev events.SnapshotUpdate
	if err := json.Unmarshal(m.Value, &ev); err != nil || ev.MatchID == "" {
		p.Log.Warn("invalid message", zap.ByteString("key", m.Key), zap.Error(err))
		p.fail("decode")
		p.deadLetter(ctx, m)
		return
	}

	stored, err := p.Cache.SetCurrent(ctx, ev)
	if err != nil {
		p.Log.Warn("redis set failed", zap.String("match_id", ev.MatchID), zap.Error(err))
		p.fail("cache")
		return
	}
	if !stored {
		if p.OnStale != nil {
			p.OnStale()
		}
		p.Log.Debug("stale snapshot dropped", zap.String("match_id", ev.MatchID), zap.Int64("version", ev.Version))
		return
	}
	if p.OnCached != nil {
		p.OnCached() // callback de métrica: cache atualizado
	}
	if p.OnAfterCache != nil {
		p.OnAfterCache(ctx, ev)
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	dlq := kafka.Message{Key: m.Key, Value: m.Value, Headers: m.Headers, Time: time.Now()}
	if err := p.DLQ.WriteMessages(ctx, dlq); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
		p.fail("dlq")
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
