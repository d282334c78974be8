package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
  read_timeout: 30s
store:
  backend: s3
  s3:
    bucket: constellations
    endpoint: http://localhost:9000
build:
  max_genre_degree: 6
challenge:
  min_hops: 2
  max_hops: 4
events:
  bridge:
    listen: tcp://0.0.0.0:7701
    peers: [tcp://10.0.0.2:7701]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected port 9090 and 30s read timeout, got %d and %v", cfg.Server.Port, cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("Expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Build.MaxGenreDegree != 6 || cfg.Build.MaxVisibleSimilar != 5 {
		t.Errorf("Expected build overrides merged with defaults, got %+v", cfg.Build)
	}
	if cfg.Challenge.MinHops != 2 || cfg.Challenge.MaxAttempts != 50 {
		t.Errorf("Expected challenge overrides merged with defaults, got %+v", cfg.Challenge)
	}
	if !cfg.Events.Enabled() {
		t.Error("Expected events bridge to be enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected parsed config to be valid, got: %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("server:\n  prot: 80\n")); err == nil {
		t.Error("Expected error for misspelt field")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Expected empty input to give defaults, got: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port, got %d", cfg.Server.Port)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		"PORT":                       "3000",
		"LOG_LEVEL":                  "DEBUG",
		"CONSTELLATION_STORE":        "postgres",
		"DATABASE_URL":               "postgres://app@db/constellations",
		"CONSTELLATION_EVENTS_PEERS": "tcp://a:7701, ,tcp://b:7701",
	}))

	if cfg.Server.Port != 3000 {
		t.Errorf("Expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug, got %s", cfg.LogLevel)
	}
	if cfg.Store.Backend != StorePostgres {
		t.Errorf("Expected postgres, got %s", cfg.Store.Backend)
	}
	if len(cfg.Events.Bridge.Peers) != 2 {
		t.Errorf("Expected 2 peers, got %v", cfg.Events.Bridge.Peers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestApplyEnvIgnoresBadPort(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{"PORT": "eighty"}))
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port to stay 8080, got %d", cfg.Server.Port)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Store.Backend = StoreS3
	cfg.Challenge.MinHops = 0
	cfg.Events.Bridge.Peers = []string{"http://nope"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, field := range []string{"Server.Port", "Store.S3.Bucket", "Challenge", "Peers[0]"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Expected error to mention %s, got: %v", field, err)
		}
	}
}

func TestValidateStoreBackends(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{"memory", func(c *Config) {}, false},
		{"file", func(c *Config) { c.Store.Backend = StoreFile }, false},
		{"file without dir", func(c *Config) { c.Store.Backend = StoreFile; c.Store.DataDir = "" }, true},
		{"postgres without url", func(c *Config) { c.Store.Backend = StorePostgres }, true},
		{"postgres", func(c *Config) {
			c.Store.Backend = StorePostgres
			c.Store.DatabaseURL = "postgresql://localhost/db"
		}, false},
		{"unknown", func(c *Config) { c.Store.Backend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constellations.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\ncache:\n  size: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "8181")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.Cache.Size != 8 || cfg.Server.Port != 8181 {
		t.Errorf("Unexpected config: log=%s cache=%d port=%d", cfg.LogLevel, cfg.Cache.Size, cfg.Server.Port)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRateLimitValidation(t *testing.T) {
	cfg := Default()
	cfg.Server.RateLimit = RateLimitConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected a disabled limiter to be valid, got: %v", err)
	}

	cfg.Server.RateLimit = RateLimitConfig{RequestsPerSecond: 10}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "Server.RateLimit.Burst") {
		t.Errorf("Expected burst error, got: %v", err)
	}
}

func TestApplyEnvServerLists(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		"CONSTELLATION_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"TRUSTED_PROXIES":               "10.0.0.0/8",
	}))
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
	if len(cfg.Server.TrustedProxies) != 1 {
		t.Errorf("Unexpected proxies: %v", cfg.Server.TrustedProxies)
	}
}

func TestTLSConfig(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{"CONSTELLATION_TLS_CERT": "/etc/tls/server.crt"}))
	if !cfg.Server.TLS.Enabled {
		t.Fatal("Expected a certificate path to enable TLS")
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "Server.TLS") {
		t.Errorf("Expected a missing key to be reported, got: %v", err)
	}

	cfg.ApplyEnv(env(map[string]string{"CONSTELLATION_TLS_KEY": "/etc/tls/server.key"}))
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}

	cfg = Default()
	cfg.Server.TLS.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected auto-generated TLS to be valid, got: %v", err)
	}
	cfg.Server.TLS.AutoGenerate = false
	if err := cfg.Validate(); err == nil {
		t.Error("Expected TLS without a certificate to be rejected")
	}
}
