package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/snapshot-relay/pubsub"
)

// StartRedisSubscriber escuta o canal Redis Pub/Sub numa goroutine e repassa
// cada update para os clientes WebSocket inscritos via Hub.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	go Relay(ctx, sub.Channel(), hub, log, func() { _ = sub.Close() })
}

// Relay consome mensagens até ctx acabar ou ch fechar; onStop roda na saída.
func Relay(ctx context.Context, ch <-chan *redis.Message, hub *Hub, log *zap.Logger, onStop func()) {
	if onStop != nil {
		defer onStop() // encerra a inscrição ao finalizar o contexto
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg == nil {
				continue
			}
			var upd pubsub.WSUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
				log.Warn("ws subscriber unmarshal error", zap.Error(err))
				continue
			}
			hub.Broadcast(upd)
		}
	}
}
