package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVICE_NAME", "POLL_INTERVAL_SECONDS", "FETCH_TIMEOUT_SECONDS", "MATCH_CANDIDATES", "HTTP_PORT", "METRICS_PORT", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.ServiceName != "wicketick" {
		t.Errorf("service = %q", cfg.ServiceName)
	}
	if cfg.PollInterval != 30*time.Second || cfg.FetchTimeout != 10*time.Second {
		t.Errorf("intervals = %v / %v", cfg.PollInterval, cfg.FetchTimeout)
	}
	if cfg.MetricsPort != "" || cfg.KafkaBrokers != "" {
		t.Errorf("tui should not enable metrics/kafka by default: %+v", cfg)
	}
	if len(cfg.Candidates) != 0 {
		t.Errorf("candidates = %v", cfg.Candidates)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVICE_NAME", "snapshot-relay")
	t.Setenv("POLL_INTERVAL_SECONDS", "5")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "nope")
	t.Setenv("MATCH_CANDIDATES", " 1410472, ,1410473 ")
	t.Setenv("HTTP_PORT", "")
	os.Unsetenv("HTTP_PORT")

	cfg := Load()
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("invalid timeout should fall back to default, got %v", cfg.FetchTimeout)
	}
	if want := []string{"1410472", "1410473"}; !reflect.DeepEqual(cfg.Candidates, want) {
		t.Errorf("candidates = %v", cfg.Candidates)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("relay http port = %q", cfg.HTTPPort)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wicketick.yaml")
	doc := `
match_feed_url: http://localhost:8081
poll_interval_seconds: 12
candidates: [a.json, b.json]
log_file: /tmp/wicketick.log
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	base := Config{
		ServiceName:  "wicketick",
		MatchFeedURL: "https://www.espncricinfo.com",
		PollInterval: 30 * time.Second,
		FetchTimeout: 10 * time.Second,
		RedisAddr:    "redis:6379",
	}
	cfg, err := LoadFile(base, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MatchFeedURL != "http://localhost:8081" || cfg.PollInterval != 12*time.Second {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.FetchTimeout != 10*time.Second || cfg.RedisAddr != "redis:6379" || cfg.ServiceName != "wicketick" {
		t.Errorf("overlay clobbered base fields: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Candidates, []string{"a.json", "b.json"}) || cfg.LogFile != "/tmp/wicketick.log" {
		t.Errorf("overlay = %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(Config{}, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("poll_interval_seconds: [1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(Config{}, path); err == nil {
		t.Error("malformed yaml accepted")
	}
}
