package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/wicketick/pkg/contracts/events"
)

// ChannelSnapshots é o canal padrão de broadcast do relay
const ChannelSnapshots = "match_snapshots_broadcast"

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = ChannelSnapshots
	}
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) Channel() string { return b.channel }

func (b *RedisBroadcaster) Publish(ctx context.Context, payload []byte) error {
	return b.r.Publish(ctx, b.channel, payload).Err()
}

// Payload padrão para o WS do relay
type WSUpdate struct {
	MatchID string                `json:"matchId"`
	Payload events.SnapshotUpdate `json:"payload"`
}
