package infra

import (
	"context"
	"sync"
	"time"

	"employee-gateway/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

// Store é o segundo estágio (opcional) depois da admissão: token-bucket por
// cliente (x/time/rate) com cache por chave e limpeza periódica.
type Store struct {
	mu           sync.Mutex
	entries      map[string]*storeEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	clock        domain.Clock
	onCleanup    func(removed int)
}

type storeEntry struct {
	b        *bucket
	lastSeen time.Time
}

// bucket consulta o token bucket no relógio do Store, não em time.Now.
type bucket struct {
	lim   *rate.Limiter
	clock domain.Clock
}

func (b *bucket) Allow() bool { return b.lim.AllowN(b.clock(), 1) }

type StoreOption func(*Store)

func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

// WithOnCleanup recebe quantas chaves cada rodada do janitor removeu.
func WithOnCleanup(fn func(removed int)) StoreOption {
	return func(s *Store) { s.onCleanup = fn }
}

func WithStoreClock(c domain.Clock) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

func NewStore(rps float64, burst int, opts ...StoreOption) *Store {
	s := &Store{
		entries:      make(map[string]*storeEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RPS() float64 { return float64(s.rps) }
func (s *Store) Burst() int   { return s.burst }

// Len é o número de chaves em cache.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get implementa domain.LimiterStore; cria o bucket da chave no primeiro uso.
func (s *Store) Get(key domain.Key) domain.Limiter {
	now := s.clock()
	k := string(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[k]; ok {
		ent.lastSeen = now
		return ent.b
	}
	b := &bucket{lim: rate.NewLimiter(s.rps, s.burst), clock: s.clock}
	s.entries[k] = &storeEntry{b: b, lastSeen: now}
	return b
}

// Cleanup remove chaves sem uso há mais de idleTTL e retorna quantas saíram.
func (s *Store) Cleanup() int {
	cutoff := s.clock().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *Store) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.Cleanup(); n > 0 && s.onCleanup != nil {
					s.onCleanup(n)
				}
			}
		}
	}()
}
