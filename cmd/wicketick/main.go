package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/cricinfo"
	"github.com/radieske/wicketick/internal/feed"
	"github.com/radieske/wicketick/internal/phase"
	sharedcache "github.com/radieske/wicketick/internal/shared/cache"
	"github.com/radieske/wicketick/internal/shared/config"
	"github.com/radieske/wicketick/internal/shared/logger"
	"github.com/radieske/wicketick/internal/shared/metrics"
	"github.com/radieske/wicketick/internal/snapshot-ingest/publisher"
	relaycache "github.com/radieske/wicketick/internal/snapshot-relay/cache"
	"github.com/radieske/wicketick/internal/ticker"
	"github.com/radieske/wicketick/internal/tui"
	"github.com/radieske/wicketick/internal/wicketick"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts, flagSet, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.help {
		printHelp(flagSet)
		return nil
	}

	// carrega config: env -> YAML -> flags
	cfg := config.Load()
	if path := firstNonEmpty(opts.configPath, os.Getenv("WICKETICK_CONFIG")); path != "" {
		if cfg, err = config.LoadFile(cfg, path); err != nil {
			return err
		}
	}
	if opts.intervalOK {
		cfg.PollInterval = time.Duration(opts.interval) * time.Second
	}
	if len(opts.candidates) > 0 {
		cfg.Candidates = opts.candidates
	}

	// o TUI ocupa o terminal: log só em arquivo
	log := zap.NewNop()
	if cfg.LogFile != "" {
		if log, err = logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile); err != nil {
			return fmt.Errorf("logger init: %w", err)
		}
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	router := &feed.Router{Cricinfo: cricinfo.New(cfg.MatchFeedURL, cfg.FetchTimeout)}

	// Redis opcional: habilita o source relay
	if cfg.RedisAddr != "" {
		rdb, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		router.Relay = relaycache.NewRedisCache(rdb, cfg.SnapshotTTL)
		log.Info("relay source enabled", zap.String("redis", cfg.RedisAddr))
	} else if opts.kind == wicketick.SourceRelay {
		return fmt.Errorf("relay source needs REDIS_ADDR")
	}

	pollerCfg := ticker.PollerConfig{
		FetchTimeout: cfg.FetchTimeout,
		Log:          log,
		Hooks:        pollerHooks(),
	}

	// Kafka opcional: cada snapshot do poller vira um evento
	if cfg.KafkaBrokers != "" && !opts.publishesSnapshots() {
		log.Info("kafka publishing disabled for source", zap.String("source", opts.template().Kind.String()))
	} else if cfg.KafkaBrokers != "" {
		if cfg.Env == "local" || cfg.Env == "dev" {
			tctx, tcancel := context.WithTimeout(ctx, 10*time.Second)
			if err := publisher.EnsureTopic(tctx, cfg.KafkaBrokers, cfg.TopicSnapshots, log); err != nil {
				log.Warn("kafka topic not ensured", zap.Error(err))
			}
			tcancel()
		}
		pub, err := publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicSnapshots, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		pollerCfg.Sink = pub
	}

	// métricas e health só quando METRICS_PORT está setado
	if cfg.MetricsPort != "" {
		srv := metrics.StartMetricsServer(cfg.MetricsPort, nil, log)
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	machine := phase.New(ctx, phase.Config{
		Template:        opts.template(),
		Candidates:      cfg.Candidates,
		PollInterval:    cfg.PollInterval,
		FetchTimeout:    cfg.FetchTimeout,
		Fetcher:         feed.Coalesce(router),
		Poller:          pollerCfg,
		Log:             log,
		OnManualRefresh: onManualRefresh,
	})
	defer machine.Close()

	if opts.kind != 0 {
		if err := machine.Begin(); err != nil {
			return fmt.Errorf("start %s: %w", opts.template(), err)
		}
	}

	log.Info("ticker starting",
		zap.String("source", opts.template().String()),
		zap.Duration("interval", cfg.PollInterval),
	)
	program := tea.NewProgram(tui.NewModel(machine), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
