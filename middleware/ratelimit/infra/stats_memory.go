package infra

import (
	"context"
	"maps"
	"sync"

	"employee-gateway/middleware/ratelimit/domain"
)

type Counters struct {
	Allowed int64 `json:"allowed"`
	Denied  int64 `json:"denied"`
}

func (c *Counters) add(allowed bool) {
	if allowed {
		c.Allowed++
		return
	}
	c.Denied++
}

// MemoryStatsStore guarda contadores em memória, por estágio, rota e
// (opcionalmente) chave. Não expira; alimenta o GET /stats dos binários.
type MemoryStatsStore struct {
	mu      sync.Mutex
	byStage map[domain.Stage]Counters
	byRoute map[string]Counters
	byKey   map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byStage: make(map[domain.Stage]Counters),
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.byStage[ev.Stage]
	st.add(ev.Allowed)
	s.byStage[ev.Stage] = st

	r := s.byRoute[route]
	r.add(ev.Allowed)
	s.byRoute[route] = r

	if s.trackKeys {
		k := s.byKey[string(ev.Key)]
		k.add(ev.Allowed)
		s.byKey[string(ev.Key)] = k
	}
	return nil
}

// Total soma todos os estágios.
func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out Counters
	for _, c := range s.byStage {
		out.Allowed += c.Allowed
		out.Denied += c.Denied
	}
	return out
}

func (s *MemoryStatsStore) Stage(stage domain.Stage) Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byStage[stage]
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byRoute)
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byKey)
}
