package ratelimit

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"employee-gateway/middleware/ratelimit/application"
	"employee-gateway/middleware/ratelimit/domain"
)

// RateLimitOptions configura o estágio opcional de token bucket por cliente.
type RateLimitOptions struct {
	Store domain.LimiterStore
	Stats domain.StatsStore
	// KeyFn tem prioridade sobre KeyHeader/TrustXForwardedFor.
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	RejectStatus       int
	RetryAfter         time.Duration
	// AddHeaders expõe X-RateLimit-Key/RPS/Burst.
	AddHeaders bool
	Clock      domain.Clock
	Logger     *zap.Logger
}

type bucketInfo interface {
	RPS() float64
	Burst() int
}

// RateLimitMiddleware decide por chave de cliente. Deve ficar atrás da
// admissão: uma requisição barrada lá não consome token aqui.
func RateLimitMiddleware(opts RateLimitOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	svc := application.RateLimitService{Store: opts.Store, RetryAfter: opts.RetryAfter}
	info, hasInfo := opts.Store.(bucketInfo)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			if opts.AddHeaders {
				h := w.Header()
				h.Set("X-RateLimit-Key", key)
				if hasInfo {
					h.Set("X-RateLimit-RPS", formatFloat(info.RPS()))
					h.Set("X-RateLimit-Burst", formatInt(info.Burst()))
				}
			}

			dec := svc.Decide(domain.Key(key))
			at := opts.Clock()
			if !dec.Allowed {
				opts.Logger.Debug("request rejected by rate limit",
					zap.String("key", key),
					zap.String("path", r.URL.Path))
				reject(w, opts.RejectStatus, dec.RetryAfter)
				recordDecision(r, opts.Stats, opts.Logger, domain.StageRateLimit, key, false, at)
				return
			}

			next.ServeHTTP(w, r)
			recordDecision(r, opts.Stats, opts.Logger, domain.StageRateLimit, key, true, at)
		})
	}
}
