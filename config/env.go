package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// applyEnv sobrepõe a configuração com variáveis de ambiente definidas e não vazias.
func applyEnv(c *Config) error {
	e := envReader{}

	e.str("LISTEN_ADDR", &c.ListenAddr)
	e.str("UPSTREAM_URL", &c.UpstreamURL)
	e.duration("UPSTREAM_TIMEOUT", &c.UpstreamTimeout)
	e.str("METRICS_NAMESPACE", &c.MetricsNamespace)

	e.bool("ADMISSION_ENABLED", &c.Admission.Enabled)
	e.int("ADMISSION_LIMIT", &c.Admission.Limit)
	e.duration("ADMISSION_BACKOFF", &c.Admission.Backoff)
	e.uint64Ptr("ADMISSION_SEED", &c.Admission.Seed)
	e.bool("ADMISSION_HEADERS", &c.Admission.AddHeaders)

	e.bool("RATE_ENABLED", &c.Rate.Enabled)
	e.float("RATE_RPS", &c.Rate.RPS)
	e.int("RATE_BURST", &c.Rate.Burst)
	e.str("RATE_KEY_HEADER", &c.Rate.KeyHeader)
	e.bool("TRUST_XFF", &c.Rate.TrustXFF)
	e.duration("RETRY_AFTER", &c.Rate.RetryAfter)
	e.bool("ADD_RATELIMIT_HEADERS", &c.Rate.AddHeaders)

	e.int("CONCURRENCY_MAX", &c.Concurrency.Max)
	e.duration("CONCURRENCY_TIMEOUT", &c.Concurrency.AcquireTimeout)

	e.bool("RATE_STATS_ENABLED", &c.Stats.RedisEnabled)
	e.str("RATE_STATS_REDIS_ADDR", &c.Stats.RedisAddr)
	e.str("RATE_STATS_REDIS_PASSWORD", &c.Stats.RedisPassword)
	e.int("RATE_STATS_REDIS_DB", &c.Stats.RedisDB)
	e.str("RATE_STATS_PREFIX", &c.Stats.Prefix)
	e.duration("RATE_STATS_TTL", &c.Stats.TTL)
	e.str("RATE_STATS_BUCKET", &c.Stats.Bucket)
	e.bool("RATE_STATS_TRACK_KEYS", &c.Stats.TrackKeys)

	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)
	e.str("LOG_FILE", &c.Log.File)
	e.int("LOG_MAX_SIZE_MB", &c.Log.MaxSizeMB)
	e.int("LOG_MAX_BACKUPS", &c.Log.MaxBackups)
	e.bool("LOG_STDERR", &c.Log.Stderr)

	e.int("MOCK_SEED_EMPLOYEES", &c.Mock.SeedEmployees)

	return errors.Join(e.errs...)
}

type envReader struct {
	errs []error
}

func (e *envReader) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	return v, ok && v != ""
}

func (e *envReader) fail(k, v string, err error) {
	e.errs = append(e.errs, fmt.Errorf("invalid %s=%q: %w", k, v, err))
}

func (e *envReader) str(k string, dst *string) {
	if v, ok := e.lookup(k); ok {
		*dst = v
	}
}

func (e *envReader) int(k string, dst *int) {
	v, ok := e.lookup(k)
	if !ok {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail(k, v, err)
		return
	}
	*dst = i
}

func (e *envReader) uint64Ptr(k string, dst **uint64) {
	v, ok := e.lookup(k)
	if !ok {
		return
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		e.fail(k, v, err)
		return
	}
	*dst = &u
}

func (e *envReader) float(k string, dst *float64) {
	v, ok := e.lookup(k)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(k, v, err)
		return
	}
	*dst = f
}

func (e *envReader) bool(k string, dst *bool) {
	v, ok := e.lookup(k)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(k, v, err)
		return
	}
	*dst = b
}

func (e *envReader) duration(k string, dst *time.Duration) {
	v, ok := e.lookup(k)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(k, v, err)
		return
	}
	*dst = d
}
