package application

import (
	"context"
	"sync"
	"time"

	"employee-gateway/middleware/ratelimit/domain"
)

// ConcurrencyService controla as vagas de requisições em voo, sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - AcquireTimeout <= 0: espera até o ctx cancelar.
//   - AcquireTimeout > 0: espera no máximo esse tempo.
//
// O release retornado pode ser chamado mais de uma vez; só a primeira libera a vaga.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(ctx)
	if !ok {
		return func() {}, false
	}
	var once sync.Once
	return func() { once.Do(release) }, true
}
