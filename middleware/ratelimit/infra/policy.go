package infra

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"employee-gateway/middleware/ratelimit/domain"
)

// Faixas da política sorteada. Limites superiores são exclusivos.
const (
	MinAdmissionLimit   = 5
	MaxAdmissionLimit   = 10
	MinAdmissionBackoff = 30 * time.Second
	MaxAdmissionBackoff = 90 * time.Second
)

type policyConfig struct {
	seed    uint64
	hasSeed bool
	limit   int
	backoff time.Duration
}

type PolicyOption func(*policyConfig)

// WithPolicySeed torna o sorteio determinístico (útil em testes).
func WithPolicySeed(seed uint64) PolicyOption {
	return func(c *policyConfig) { c.seed, c.hasSeed = seed, true }
}

// WithPolicyLimit fixa o limite em vez de sortear. n <= 0 é ignorado.
func WithPolicyLimit(n int) PolicyOption {
	return func(c *policyConfig) { c.limit = n }
}

// WithPolicyBackoff fixa o backoff em vez de sortear. d <= 0 é ignorado.
func WithPolicyBackoff(d time.Duration) PolicyOption {
	return func(c *policyConfig) { c.backoff = d }
}

// NewAdmissionPolicy sorteia limit em [5,10) e backoff em [30s,90s) (segundos
// inteiros). Sem seed explícita, a semente vem de crypto/rand; falha aqui
// deve derrubar a inicialização do processo.
func NewAdmissionPolicy(opts ...PolicyOption) (domain.AdmissionPolicy, error) {
	cfg := policyConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.hasSeed {
		seed, err := cryptoSeed()
		if err != nil {
			return domain.AdmissionPolicy{}, err
		}
		cfg.seed = seed
	}

	p := RandomPolicy(rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)))
	if cfg.limit > 0 {
		p.Limit = cfg.limit
	}
	if cfg.backoff > 0 {
		p.Backoff = cfg.backoff
	}
	return p, nil
}

// RandomPolicy sorteia os parâmetros a partir de r.
func RandomPolicy(r *rand.Rand) domain.AdmissionPolicy {
	backoffSpan := int((MaxAdmissionBackoff - MinAdmissionBackoff) / time.Second)
	return domain.AdmissionPolicy{
		Limit:   MinAdmissionLimit + r.IntN(MaxAdmissionLimit-MinAdmissionLimit),
		Backoff: MinAdmissionBackoff + time.Duration(r.IntN(backoffSpan))*time.Second,
	}
}

var errNoEntropy = errors.New("no entropy available")

func cryptoSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("admission policy seed: %w: %w", errNoEntropy, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
