package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ctopics "github.com/radieske/wicketick/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos binários
// Inclui feed, conexões, tópicos, canais e portas
type Config struct {
	Env         string `yaml:"env"`          // "local", "dev", "prod"
	ServiceName string `yaml:"service_name"` // ex: "wicketick", "snapshot-relay", ...

	// Feed de partidas
	MatchFeedURL string        `yaml:"match_feed_url"`
	PollInterval time.Duration `yaml:"-"`
	FetchTimeout time.Duration `yaml:"-"`
	Candidates   []string      `yaml:"candidates"`

	// Arquivo de log (TUI); vazio desliga o log
	LogFile string `yaml:"log_file"`

	RedisAddr    string `yaml:"redis_addr"`
	KafkaBrokers string `yaml:"kafka_brokers"` // "a:9092,b:9092"

	// Tópicos/canais
	TopicSnapshots     string `yaml:"kafka_topic_snapshots"`
	RedisPubSubChannel string `yaml:"redis_pubsub_channel"`

	// Validade do snapshot corrente no cache do relay
	SnapshotTTL time.Duration `yaml:"-"`

	// Portas do serviço atual
	HTTPPort    string `yaml:"http_port"`    // Porta pública (ex.: API REST)
	MetricsPort string `yaml:"metrics_port"` // Porta exclusiva para /metrics e /healthz
}

// overlay espelha os campos de duração do YAML em segundos
type overlay struct {
	Config              `yaml:",inline"`
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	SnapshotTTLSeconds  int `yaml:"snapshot_ttl_seconds"`
}

// Load carrega variáveis de ambiente e define defaults para cada binário
// Resolve portas conforme o SERVICE_NAME
func Load() Config {
	svc := getEnv("SERVICE_NAME", "wicketick")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,

		MatchFeedURL: getEnv("MATCH_FEED_URL", "https://www.espncricinfo.com"),
		PollInterval: getSeconds("POLL_INTERVAL_SECONDS", 30),
		FetchTimeout: getSeconds("FETCH_TIMEOUT_SECONDS", 10),
		Candidates:   splitList(getEnv("MATCH_CANDIDATES", "")),

		LogFile: getEnv("LOG_FILE", ""),

		// vazio desliga a integração no TUI; os serviços exigem os dois
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),

		TopicSnapshots:     getEnv("KAFKA_TOPIC_SNAPSHOTS", ctopics.MatchSnapshots),
		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", "match_snapshots_broadcast"),
		SnapshotTTL:        getSeconds("SNAPSHOT_TTL_SECONDS", 300),
	}

	// Define portas padrão para cada binário
	switch svc {
	case "snapshot-relay":
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	case "match-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT", "8081")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9094")
	default:
		// o TUI não expõe HTTP público; métricas só quando pedidas
		cfg.HTTPPort = getEnv("HTTP_PORT", "")
		cfg.MetricsPort = getEnv("METRICS_PORT", "")
	}

	return cfg
}

// LoadFile aplica um YAML por cima de base. Campos ausentes no arquivo
// mantêm o valor de base.
func LoadFile(base Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}

	o := overlay{Config: base}
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := o.Config
	if o.PollIntervalSeconds > 0 {
		cfg.PollInterval = time.Duration(o.PollIntervalSeconds) * time.Second
	}
	if o.FetchTimeoutSeconds > 0 {
		cfg.FetchTimeout = time.Duration(o.FetchTimeoutSeconds) * time.Second
	}
	if o.SnapshotTTLSeconds > 0 {
		cfg.SnapshotTTL = time.Duration(o.SnapshotTTLSeconds) * time.Second
	}
	return cfg, nil
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// getSeconds lê um inteiro em segundos; valores inválidos ou <= 0 caem no default
func getSeconds(key string, def int) time.Duration {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
