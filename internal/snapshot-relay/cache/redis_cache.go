package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/wicketick/internal/wicketick"
	"github.com/radieske/wicketick/pkg/contracts/events"
)

// kv é o subconjunto de comandos Redis usado pelo cache (*redis.Client serve)
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache guarda o snapshot corrente de cada partida no Redis
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client kv
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c kv, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis do snapshot atual de uma partida
func key(matchID string) string { return "wicketick:snapshot:current:" + matchID }

// SetCurrent grava o update se ele for mais novo que o atual.
// Retorna false quando o update foi descartado por estar atrasado.
func (r *RedisCache) SetCurrent(ctx context.Context, ev events.SnapshotUpdate) (bool, error) {
	cur, ok, err := r.Current(ctx, ev.MatchID)
	if err != nil {
		return false, err
	}
	if ok && !ev.Newer(cur) {
		return false, nil
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return false, err
	}
	if err := r.Client.Set(ctx, key(ev.MatchID), b, r.TTL).Err(); err != nil {
		return false, fmt.Errorf("redis set %s: %w", ev.MatchID, err)
	}
	return true, nil
}

// Current retorna o último update guardado para a partida
func (r *RedisCache) Current(ctx context.Context, matchID string) (events.SnapshotUpdate, bool, error) {
	b, err := r.Client.Get(ctx, key(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return events.SnapshotUpdate{}, false, nil
	}
	if err != nil {
		return events.SnapshotUpdate{}, false, fmt.Errorf("redis get %s: %w", matchID, err)
	}

	var ev events.SnapshotUpdate
	if err := json.Unmarshal(b, &ev); err != nil {
		return events.SnapshotUpdate{}, false, fmt.Errorf("decode cached snapshot %s: %w", matchID, err)
	}
	return ev, true, nil
}

// GetCurrent é a visão usada pelo source relay do TUI
func (r *RedisCache) GetCurrent(ctx context.Context, matchID string) (wicketick.Snapshot, bool, error) {
	ev, ok, err := r.Current(ctx, matchID)
	if err != nil || !ok {
		return wicketick.Snapshot{}, ok, err
	}
	return ev.Snapshot, true, nil
}
