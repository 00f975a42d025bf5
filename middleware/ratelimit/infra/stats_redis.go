package infra

import (
	"context"
	"strings"
	"time"

	"employee-gateway/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore acumula decisões em hashes do Redis:
//
//	<prefix>:<stage>:total            allowed/denied (cumulativo, sem TTL)
//	<prefix>:<stage>:minute:<yyyymmddhhmm>
//	<prefix>:<stage>:route            "<METHOD> <path>:allowed|denied"
//	<prefix>:<stage>:key:<key>        apenas com trackKeys
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por key.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "employee-gateway:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// hincr é um HINCRBY planejado; expire indica se a chave recebe TTL.
type hincr struct {
	key    string
	field  string
	expire bool
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, op := range s.plan(ev) {
		pipe.HIncrBy(ctx, op.key, op.field, 1)
		if op.expire && s.ttl > 0 {
			pipe.Expire(ctx, op.key, s.ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

// plan monta os incrementos de um evento sem tocar no Redis.
func (s *RedisStatsStore) plan(ev domain.StatsEvent) []hincr {
	result := "denied"
	if ev.Allowed {
		result = "allowed"
	}
	stage := ev.Stage
	if stage == "" {
		stage = domain.StageAdmission
	}
	base := s.prefix + ":" + string(stage)

	ops := []hincr{{key: base + ":total", field: result}}

	if s.bucket == "minute" {
		at := ev.At
		if at.IsZero() {
			at = time.Now()
		}
		ops = append(ops, hincr{
			key:    base + ":minute:" + at.UTC().Format("200601021504"),
			field:  result,
			expire: true,
		})
	}

	if route := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path)); route != "" {
		ops = append(ops, hincr{key: base + ":route", field: route + ":" + result})
	}

	if k := strings.TrimSpace(string(ev.Key)); s.trackKeys && k != "" {
		ops = append(ops, hincr{key: base + ":key:" + k, field: result, expire: true})
	}
	return ops
}
