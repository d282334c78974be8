// Package config loads server configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/pubsub"
	tlsconfig "github.com/dd0wney/cluso-constellations/pkg/tls"
	"github.com/dd0wney/cluso-constellations/pkg/validation"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreS3       = "s3"
	StorePostgres = "postgres"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig                `yaml:"server"`
	LogLevel  string                      `yaml:"log_level"`
	Store     StoreConfig                 `yaml:"store"`
	Events    EventsConfig                `yaml:"events"`
	Cache     CacheConfig                 `yaml:"cache"`
	Sessions  SessionsConfig              `yaml:"sessions"`
	Build     constellation.BuildOptions  `yaml:"build"`
	Challenge algorithms.ChallengeOptions `yaml:"challenge"`
}

type ServerConfig struct {
	Port            int              `yaml:"port"`
	ReadTimeout     time.Duration    `yaml:"read_timeout"`
	WriteTimeout    time.Duration    `yaml:"write_timeout"`
	ShutdownTimeout time.Duration    `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64            `yaml:"max_body_bytes"`
	AllowedOrigins  []string         `yaml:"allowed_origins"`
	TrustedProxies  []string         `yaml:"trusted_proxies"` // CIDRs whose X-Forwarded-For is believed
	RateLimit       RateLimitConfig  `yaml:"rate_limit"`
	TLS             tlsconfig.Config `yaml:"tls"`
}

// RateLimitConfig is a per-client token bucket. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type StoreConfig struct {
	Backend     string            `yaml:"backend"`
	DataDir     string            `yaml:"data_dir"`
	S3          discover.S3Config `yaml:"s3"`
	DatabaseURL string            `yaml:"database_url"`
}

// EventsConfig enables the cross-process event bridge.
type EventsConfig struct {
	BufferSize int                 `yaml:"buffer_size"`
	Bridge     pubsub.BridgeConfig `yaml:"bridge"`
}

// Enabled reports whether the bridge has anything to do.
func (e EventsConfig) Enabled() bool {
	return e.Bridge.Listen != "" || len(e.Bridge.Peers) > 0
}

type CacheConfig struct {
	Size            int `yaml:"size"`
	WarmParallelism int `yaml:"warm_parallelism"`
}

type SessionsConfig struct {
	Max int `yaml:"max"`
}

// Default returns a configuration that runs a single in-memory server.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
			AllowedOrigins:  []string{"*"},
			RateLimit:       RateLimitConfig{RequestsPerSecond: 50, Burst: 100},
			TLS:             tlsconfig.DefaultConfig(),
		},
		LogLevel: "info",
		Store: StoreConfig{
			Backend: StoreMemory,
			DataDir: "./data/constellations",
		},
		Events:    EventsConfig{BufferSize: 100},
		Cache:     CacheConfig{Size: 32, WarmParallelism: 4},
		Sessions:  SessionsConfig{Max: 1000},
		Build:     constellation.DefaultBuildOptions(),
		Challenge: algorithms.DefaultChallengeOptions(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("PORT"); ok {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v, ok := lookup("CONSTELLATION_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = splitList(v)
	}
	if v, ok := lookup("CONSTELLATION_TLS_CERT"); ok {
		c.Server.TLS.CertFile = v
		c.Server.TLS.Enabled = true
	}
	if v, ok := lookup("CONSTELLATION_TLS_KEY"); ok {
		c.Server.TLS.KeyFile = v
		c.Server.TLS.Enabled = true
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("CONSTELLATION_STORE"); ok {
		c.Store.Backend = v
	}
	if v, ok := lookup("CONSTELLATION_DATA_DIR"); ok {
		c.Store.DataDir = v
	}
	if v, ok := lookup("CONSTELLATION_S3_BUCKET"); ok {
		c.Store.S3.Bucket = v
	}
	if v, ok := lookup("CONSTELLATION_S3_ENDPOINT"); ok {
		c.Store.S3.Endpoint = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		c.Store.DatabaseURL = v
	}
	if v, ok := lookup("CONSTELLATION_EVENTS_LISTEN"); ok {
		c.Events.Bridge.Listen = v
	}
	if v, ok := lookup("CONSTELLATION_EVENTS_PEERS"); ok {
		c.Events.Bridge.Peers = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	peerSchemes := []string{"tcp", "ipc", "inproc", "ws", "tls+tcp"}

	cv := validation.NewConfigValidator("Config").
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, 0).
		Positive("Server.MaxBodyBytes", int(c.Server.MaxBodyBytes)).
		When(c.Server.RateLimit.RequestsPerSecond != 0, func(v *validation.ConfigValidator) {
			v.PositiveFloat("Server.RateLimit.RequestsPerSecond", c.Server.RateLimit.RequestsPerSecond).
				Positive("Server.RateLimit.Burst", c.Server.RateLimit.Burst)
		}).
		When(c.Server.TLS.Enabled, func(v *validation.ConfigValidator) {
			v.Custom("Server.TLS", func() error {
				t := c.Server.TLS
				if (t.CertFile == "") != (t.KeyFile == "") {
					return errors.New("cert_file and key_file must be set together")
				}
				if t.CertFile == "" && !t.AutoGenerate {
					return tlsconfig.ErrNoCertificate
				}
				return nil
			})
		}).
		OneOf("LogLevel", c.LogLevel, []string{"debug", "info", "warn", "warning", "error"}).
		OneOf("Store.Backend", c.Store.Backend, []string{StoreMemory, StoreFile, StoreS3, StorePostgres}).
		When(c.Store.Backend == StoreFile, func(v *validation.ConfigValidator) {
			v.Required("Store.DataDir", c.Store.DataDir)
		}).
		When(c.Store.Backend == StoreS3, func(v *validation.ConfigValidator) {
			v.Required("Store.S3.Bucket", c.Store.S3.Bucket)
		}).
		When(c.Store.Backend == StorePostgres, func(v *validation.ConfigValidator) {
			v.URL("Store.DatabaseURL", c.Store.DatabaseURL, "postgres", "postgresql")
		}).
		Positive("Events.BufferSize", c.Events.BufferSize).
		When(c.Events.Bridge.Listen != "", func(v *validation.ConfigValidator) {
			v.URL("Events.Bridge.Listen", c.Events.Bridge.Listen, peerSchemes...)
		}).
		Positive("Cache.Size", c.Cache.Size).
		Positive("Cache.WarmParallelism", c.Cache.WarmParallelism).
		Positive("Sessions.Max", c.Sessions.Max).
		Custom("Build", func() error { return validation.ValidateBuildOptions(c.Build) }).
		Custom("Challenge", func() error { return validation.ValidateChallengeOptions(c.Challenge) })

	for i, peer := range c.Events.Bridge.Peers {
		cv.URL(fmt.Sprintf("Events.Bridge.Peers[%d]", i), peer, peerSchemes...)
	}
	return cv.Validate()
}
