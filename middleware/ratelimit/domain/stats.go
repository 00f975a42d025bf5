package domain

import (
	"context"
	"time"
)

// Stage identifica qual camada tomou a decisão.
type Stage string

const (
	StageAdmission Stage = "admission"
	StageRateLimit Stage = "ratelimit"
)

// StatsEvent representa um evento de decisão (admissão ou rate limit por chave).
//
// Path é o padrão da rota (ex. /employees/employeeById/{id}) ou "unmatched",
// nunca o path bruto: os stores indexam por ele e não expiram.
// Key continua vindo do cliente; por isso só é indexada com trackKeys.
type StatsEvent struct {
	Stage   Stage
	Key     Key
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas das decisões.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O middleware trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
