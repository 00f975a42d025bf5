// Package config carrega a configuração dos binários: valores padrão, depois
// o arquivo YAML (--config), depois variáveis de ambiente, e por fim valida.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	ListenAddr       string        `yaml:"listen_addr"`
	UpstreamURL      string        `yaml:"upstream_url"`
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`
	MetricsNamespace string        `yaml:"metrics_namespace"`

	Admission   AdmissionConfig   `yaml:"admission"`
	Rate        RateConfig        `yaml:"rate"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Stats       StatsConfig       `yaml:"stats"`
	Log         LogConfig         `yaml:"log"`
	Mock        MockConfig        `yaml:"mock"`
}

// AdmissionConfig: Limit/Backoff zerados significam "sortear na inicialização".
// Seed nil usa crypto/rand.
type AdmissionConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Limit      int           `yaml:"limit"`
	Backoff    time.Duration `yaml:"backoff"`
	Seed       *uint64       `yaml:"seed"`
	AddHeaders bool          `yaml:"add_headers"`
}

type RateConfig struct {
	Enabled    bool          `yaml:"enabled"`
	RPS        float64       `yaml:"rps"`
	Burst      int           `yaml:"burst"`
	KeyHeader  string        `yaml:"key_header"`
	TrustXFF   bool          `yaml:"trust_xff"`
	RetryAfter time.Duration `yaml:"retry_after"`
	AddHeaders bool          `yaml:"add_headers"`
}

type ConcurrencyConfig struct {
	Max            int           `yaml:"max"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
}

type StatsConfig struct {
	RedisEnabled  bool          `yaml:"redis_enabled"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	Prefix        string        `yaml:"prefix"`
	TTL           time.Duration `yaml:"ttl"`
	Bucket        string        `yaml:"bucket"`
	TrackKeys     bool          `yaml:"track_keys"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "json" ou "console"
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Stderr     bool   `yaml:"stderr"`
}

type MockConfig struct {
	SeedEmployees int `yaml:"seed_employees"`
}

// Defaults devolve a configuração base; listenAddr muda por binário.
func Defaults(listenAddr string) Config {
	return Config{
		ListenAddr:       listenAddr,
		UpstreamURL:      "http://localhost:8112/api/v1/employee",
		UpstreamTimeout:  5 * time.Second,
		MetricsNamespace: "employee_gateway",
		Admission: AdmissionConfig{
			Enabled: true,
		},
		Rate: RateConfig{
			RPS:        10,
			Burst:      20,
			RetryAfter: time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Max: 100,
		},
		Stats: StatsConfig{
			Prefix: "employee-gateway:stats",
			TTL:    24 * time.Hour,
			Bucket: "minute",
		},
		Log: LogConfig{
			Level:     "info",
			Format:    "json",
			MaxSizeMB: 50,
			Stderr:    true,
		},
		Mock: MockConfig{
			SeedEmployees: 50,
		},
	}
}

// Load aplica arquivo (se path != "") e ambiente sobre defaults e valida.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, errors.New("listen_addr must be set"))
	}
	if c.UpstreamURL != "" {
		u, err := url.Parse(c.UpstreamURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid upstream_url %q", c.UpstreamURL))
		}
	}
	if c.UpstreamTimeout < 0 {
		errs = append(errs, errors.New("upstream_timeout must be >= 0"))
	}
	if c.Admission.Limit < 0 {
		errs = append(errs, errors.New("admission.limit must be >= 0"))
	}
	if c.Admission.Backoff < 0 {
		errs = append(errs, errors.New("admission.backoff must be >= 0"))
	}
	if c.Rate.Enabled {
		if c.Rate.RPS <= 0 {
			errs = append(errs, errors.New("rate.rps must be > 0"))
		}
		if c.Rate.Burst <= 0 {
			errs = append(errs, errors.New("rate.burst must be > 0"))
		}
	}
	if c.Concurrency.Max < 0 {
		errs = append(errs, errors.New("concurrency.max must be >= 0"))
	}
	if c.Stats.RedisEnabled && strings.TrimSpace(c.Stats.RedisAddr) == "" {
		errs = append(errs, errors.New("stats.redis_addr is required when stats.redis_enabled=true"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Mock.SeedEmployees < 0 {
		errs = append(errs, errors.New("mock.seed_employees must be >= 0"))
	}

	return errors.Join(errs...)
}
