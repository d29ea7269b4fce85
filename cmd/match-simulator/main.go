package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/match-simulator/engine"
	"github.com/radieske/wicketick/internal/match-simulator/server"
	"github.com/radieske/wicketick/internal/shared/config"
	"github.com/radieske/wicketick/internal/shared/logger"
	"github.com/radieske/wicketick/internal/shared/metrics"
)

var (
	// Métricas Prometheus do simulador
	served = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_match_requests_total",
		Help: "Payloads de partida servidos",
	}, []string{"match_id"})
	notFound = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulator_match_not_found_total",
		Help: "Requisições para partidas inexistentes",
	})
	balls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulator_balls_total",
		Help: "Rodadas de simulação (uma bola por partida)",
	})
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, "")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(served, notFound, balls)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	catalog := engine.DefaultCatalog(time.Now().UnixNano())
	s := &server.Server{
		Catalog:    catalog,
		Log:        log,
		OnServed:   func(id string) { served.WithLabelValues(id).Inc() },
		OnNotFound: func() { notFound.Inc() },
	}

	// Uma bola a cada POLL_INTERVAL_SECONDS / 10: o ticker sempre vê mudança
	every := cfg.PollInterval / 10
	if every < 200*time.Millisecond {
		every = 200 * time.Millisecond
	}
	go s.Play(ctx, every, func() { balls.Inc() })

	// ==== ROUTER PÚBLICO: /matches e /matches/engine/match/{id}.json
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/", s.Router())

	publicSrv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("match simulator (public) running",
			zap.String("addr", publicSrv.Addr),
			zap.Strings("matches", catalog.IDs()),
		)
		if err := publicSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	// ==== /healthz e /metrics
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil, log)

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	_ = publicSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
