package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	sharedcache "github.com/radieske/wicketick/internal/shared/cache"
	"github.com/radieske/wicketick/internal/shared/config"
	sharedkafka "github.com/radieske/wicketick/internal/shared/kafka"
	"github.com/radieske/wicketick/internal/shared/logger"
	"github.com/radieske/wicketick/internal/shared/metrics"
	"github.com/radieske/wicketick/internal/snapshot-relay/cache"
	"github.com/radieske/wicketick/internal/snapshot-relay/consumer"
	"github.com/radieske/wicketick/internal/snapshot-relay/httpapi"
	"github.com/radieske/wicketick/internal/snapshot-relay/pubsub"
	"github.com/radieske/wicketick/internal/snapshot-relay/ws"
	"github.com/radieske/wicketick/pkg/contracts/events"
	ctopics "github.com/radieske/wicketick/pkg/contracts/topics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, "")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.KafkaBrokers == "" {
		cfg.KafkaBrokers = "localhost:9092"
	}

	redisClient, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Cache do snapshot corrente por partida
	rcache := cache.NewRedisCache(redisClient, cfg.SnapshotTTL)

	// Consumer Kafka (consumer group snapshot-relay) + DLQ
	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicSnapshots, "snapshot-relay")
	defer reader.Close()
	dlq := sharedkafka.NewWriter(cfg.KafkaBrokers, ctopics.MatchSnapshotsDLQ)
	defer dlq.Close()

	// Métricas Prometheus do relay
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "relay_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "relay_cache_sets_total", Help: "sets no cache"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{Name: "relay_stale_snapshots_total", Help: "updates mais velhos que o cache"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "relay_errors_total", Help: "erros por estágio"}, []string{"stage"})
	wsDelivered := prometheus.NewCounter(prometheus.CounterOpts{Name: "relay_ws_messages_sent_total", Help: "mensagens WS entregues"})
	prometheus.MustRegister(consumed, cached, stale, errorsBy, wsDelivered)

	// Broadcaster para publicar updates no Redis Pub/Sub (lido pelo hub WS)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel)

	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		Cache:      rcache,
		DLQ:        dlq,
		OnConsumed: func() { consumed.Inc() },
		OnCached:   func() { cached.Inc() },
		OnStale:    func() { stale.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após gravar no cache, envia o update para o WebSocket via Redis Pub/Sub
		OnAfterCache: func(ctx context.Context, ev events.SnapshotUpdate) {
			b, err := json.Marshal(pubsub.WSUpdate{MatchID: ev.MatchID, Payload: ev})
			if err != nil {
				return
			}
			pctx, pcancel := context.WithTimeout(ctx, 500*time.Millisecond)
			defer pcancel()
			if err := broadcaster.Publish(pctx, b); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
				errorsBy.WithLabelValues("broadcast").Inc()
			}
		},
	}

	// Hub WS + assinatura do canal Redis
	hub := ws.NewHub(func(r *http.Request) bool { return true }, log)
	hub.OnBroadcast = func(n int) { wsDelivered.Add(float64(n)) }
	ws.StartRedisSubscriber(ctx, redisClient, broadcaster.Channel(), hub, log)

	// Servidor público: REST + /ws
	srv := httpapi.NewServer(cfg.HTTPPort, &httpapi.API{Cache: rcache}, hub.HandleWS)
	go func() {
		log.Info("relay http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Servidor de métricas e health check
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}, log)

	log.Info("snapshot-relay started", zap.String("topic", cfg.TopicSnapshots))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("snapshot-relay stopped")
}
