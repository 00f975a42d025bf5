package infra

import (
	"sync/atomic"
	"time"

	"employee-gateway/middleware/ratelimit/domain"
)

// FixedWindow é o controle de admissão do processo: um contador de janela fixa
// com limite e backoff definidos uma única vez (ver NewAdmissionPolicy).
//
// O estado é um registro imutável trocado via compare-and-swap, então cada
// Decide é linearizável sem lock e nunca bloqueia.
type FixedWindow struct {
	policy domain.AdmissionPolicy
	state  atomic.Pointer[domain.AdmissionState]
}

var _ domain.Admission = (*FixedWindow)(nil)

// NewFixedWindow cria o controle com estado inicial {0, now}.
func NewFixedWindow(policy domain.AdmissionPolicy, now time.Time) *FixedWindow {
	w := &FixedWindow{policy: policy}
	w.state.Store(&domain.AdmissionState{LastAdmittedAt: now})
	return w
}

// Decide implementa domain.Admission.
//
//   - count < limit: admite e grava {count+1, now}
//   - janela cheia e now-backoff < lastAdmittedAt: rejeita sem tocar no estado
//   - janela cheia e velha: admite e grava {0, now}
//
// No último caso a requisição que reinicia a janela não é contada, ou seja,
// a janela nova ganha uma vaga a mais. Comportamento mantido de propósito;
// ver DESIGN.md antes de "corrigir".
func (w *FixedWindow) Decide(now time.Time) domain.Decision {
	for {
		cur := w.state.Load()

		if cur.Count < w.policy.Limit {
			next := &domain.AdmissionState{
				Count:          cur.Count + 1,
				LastAdmittedAt: latest(cur.LastAdmittedAt, now),
			}
			if w.state.CompareAndSwap(cur, next) {
				return domain.Allow()
			}
			continue
		}

		threshold := now.Add(-w.policy.Backoff)
		if threshold.Before(cur.LastAdmittedAt) {
			return domain.Deny(cur.LastAdmittedAt.Add(w.policy.Backoff).Sub(now))
		}

		next := &domain.AdmissionState{LastAdmittedAt: now}
		if w.state.CompareAndSwap(cur, next) {
			return domain.Allow()
		}
	}
}

// Snapshot devolve uma cópia do estado atual.
func (w *FixedWindow) Snapshot() domain.AdmissionState {
	return *w.state.Load()
}

func (w *FixedWindow) Policy() domain.AdmissionPolicy { return w.policy }

// Remaining é quantas admissões ainda cabem na janela atual sem reset.
func (w *FixedWindow) Remaining() int {
	n := w.policy.Limit - w.state.Load().Count
	if n < 0 {
		return 0
	}
	return n
}

// latest mantém lastAdmittedAt monotônico quando chamadas concorrentes
// leram o relógio fora de ordem.
func latest(a, b time.Time) time.Time {
	if b.Before(a) {
		return a
	}
	return b
}
