package application

import (
	"time"

	"employee-gateway/middleware/ratelimit/domain"
)

// AdmissionService aplica o controle de admissão do processo.
//
// Ele não sabe nada sobre HTTP: lê o relógio, chama Decide uma única vez e
// normaliza o RetryAfter para segundos inteiros (mínimo 1s) quando bloqueia.
type AdmissionService struct {
	Admission domain.Admission
	Clock     domain.Clock
}

func (s AdmissionService) Decide() domain.Decision {
	if s.Admission == nil {
		return domain.Allow()
	}
	now := time.Now
	if s.Clock != nil {
		now = s.Clock
	}

	dec := s.Admission.Decide(now())
	if dec.Allowed {
		return domain.Allow()
	}
	return domain.Deny(ceilSeconds(dec.RetryAfter))
}

func ceilSeconds(d time.Duration) time.Duration {
	if d <= time.Second {
		return time.Second
	}
	if r := d % time.Second; r != 0 {
		d += time.Second - r
	}
	return d
}
