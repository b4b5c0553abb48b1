package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
exchanges:
  tidex:
    api_key: k
    api_secret: s
    rate_limit_ms: 1500
    http_timeout_sec: 20
    max_tries: 3
  zb:
    urls:
      public: https://mirror.example.com/data
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %s", cfg.Logging.Level)
	}
	tidex := cfg.Exchange("tidex")
	if tidex.APIKey != "k" || tidex.APISecret != "s" {
		t.Fatalf("credentials = %q/%q", tidex.APIKey, tidex.APISecret)
	}
	opts := tidex.Options()
	if opts.RateLimit != 1500*time.Millisecond {
		t.Fatalf("RateLimit = %v", opts.RateLimit)
	}
	if opts.HTTPTimeout != 20*time.Second {
		t.Fatalf("HTTPTimeout = %v", opts.HTTPTimeout)
	}
	if opts.MaxTries != 3 {
		t.Fatalf("MaxTries = %d", opts.MaxTries)
	}
	if cfg.Exchange("zb").URLs["public"] != "https://mirror.example.com/data" {
		t.Fatalf("zb urls = %v", cfg.Exchange("zb").URLs)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
  verbosity: high
`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown field should fail strict decoding")
	}
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n---\nlogging:\n  level: debug\n")
	if _, err := Load(path); err == nil {
		t.Fatal("multi-document config should fail")
	}
}

func TestLoadValidates(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"negative rate limit", "exchanges:\n  zb:\n    rate_limit_ms: -1\n"},
		{"excessive timeout", "exchanges:\n  zb:\n    http_timeout_sec: 600\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}

func TestEnvOverlay(t *testing.T) {
	path := writeConfig(t, `
exchanges:
  yobit:
    api_key: from-file
`)
	t.Setenv("CCXT_YOBIT_API_KEY", "from-env")
	t.Setenv("CCXT_YOBIT_API_SECRET", "secret-env")
	t.Setenv("CCXT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	yobit := cfg.Exchange("yobit")
	if yobit.APIKey != "from-env" {
		t.Fatalf("APIKey = %s, want env to win", yobit.APIKey)
	}
	if yobit.APISecret != "secret-env" {
		t.Fatalf("APISecret = %s", yobit.APISecret)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("level = %s, want warn from env", cfg.Logging.Level)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Exchange("tidex").APIKey != "" {
		t.Fatal("absent exchange should be zero-valued")
	}
}
