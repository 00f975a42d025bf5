package domain

import "time"

// Decision é o resultado de qualquer estágio (admissão, rate limit).
// RetryAfter só tem sentido quando Allowed é false; zero = sem sugestão.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(retryAfter time.Duration) Decision {
	return Decision{RetryAfter: retryAfter}
}
