package infra

import (
	"context"

	"employee-gateway/middleware/ratelimit/domain"
)

// ChanPool limita requisições em voo com um channel bufferizado; InFlight e
// Cap alimentam os gauges de concorrência.
type ChanPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*ChanPool)(nil)

func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return func() {}, false
	}
}

// InFlight é o número de vagas ocupadas agora.
func (p *ChanPool) InFlight() int { return len(p.sem) }

func (p *ChanPool) Cap() int { return cap(p.sem) }
