package application

import (
	"time"

	"employee-gateway/middleware/ratelimit/domain"
)

const defaultRateRetryAfter = time.Second

// RateLimitService é o estágio por chave que roda depois da admissão.
// O token bucket não informa quando libera, então RetryAfter é fixo.
type RateLimitService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s RateLimitService) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Allow()
	}
	if lim := s.Store.Get(key); lim != nil && !lim.Allow() {
		return domain.Deny(s.retryAfter())
	}
	return domain.Allow()
}

func (s RateLimitService) retryAfter() time.Duration {
	if s.RetryAfter <= 0 {
		return defaultRateRetryAfter
	}
	return s.RetryAfter
}
