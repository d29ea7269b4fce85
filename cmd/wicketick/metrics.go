package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/radieske/wicketick/internal/ticker"
)

// Métricas Prometheus do ticker; ligadas ao poller via callbacks
var (
	fetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicketick_poll_fetches_total",
		Help: "fetches do poller concluídos com sucesso",
	})
	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wicketick_poll_errors_total",
		Help: "erros do poller por estágio",
	}, []string{"stage"})
	fetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wicketick_poll_fetch_seconds",
		Help:    "latência dos fetches do poller",
		Buckets: prometheus.DefBuckets,
	})
	coalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicketick_snapshots_coalesced_total",
		Help: "snapshots sobrescritos antes de serem lidos pelo loop",
	})
	published = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicketick_snapshots_published_total",
		Help: "snapshots aceitos pelo sink Kafka",
	})
	manualRefresh = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wicketick_manual_refresh_total",
		Help: "refreshes manuais por resultado",
	}, []string{"result"})
	_ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "wicketick_active_pollers",
		Help: "pollers rodando em background",
	}, func() float64 { return float64(ticker.ActivePollers()) })
)

func pollerHooks() ticker.Hooks {
	return ticker.Hooks{
		OnFetched: func(elapsed time.Duration) {
			fetched.Inc()
			fetchLatency.Observe(elapsed.Seconds())
		},
		OnError:     func(stage string) { fetchErrors.WithLabelValues(stage).Inc() },
		OnCoalesced: func() { coalesced.Inc() },
		OnPublished: func() { published.Inc() },
	}
}

func onManualRefresh(err error) {
	if err != nil {
		manualRefresh.WithLabelValues("error").Inc()
		return
	}
	manualRefresh.WithLabelValues("ok").Inc()
}
