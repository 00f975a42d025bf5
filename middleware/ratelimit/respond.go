package ratelimit

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"employee-gateway/middleware/ratelimit/domain"
)

// UnmatchedRoute é o rótulo de rota para requisições sem padrão chi
// (404, 405 ou mux sem chi).
const UnmatchedRoute = "unmatched"

// statsRecordTimeout limita quanto um store lento (Redis) segura a requisição.
const statsRecordTimeout = 100 * time.Millisecond

// reject encerra a requisição bloqueada e envia a resposta na hora, antes de
// qualquer registro de estatística. Retry-After só vai quando há sugestão.
func reject(w http.ResponseWriter, status int, retryAfter time.Duration) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", formatSeconds(retryAfter))
	}
	http.Error(w, http.StatusText(status), status)
	_ = http.NewResponseController(w).Flush()
}

// routeLabel usa o padrão da rota (ex. /employees/employeeById/{id}), nunca o
// path bruto: o cliente não controla a cardinalidade dos contadores.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return UnmatchedRoute
}

// recordDecision é best-effort: falha vira WARN e a requisição segue.
func recordDecision(r *http.Request, stats domain.StatsStore, log *zap.Logger, stage domain.Stage, key string, allowed bool, at time.Time) {
	if stats == nil {
		return
	}
	ev := domain.StatsEvent{
		Stage:   stage,
		Key:     domain.Key(key),
		Allowed: allowed,
		Method:  r.Method,
		Path:    routeLabel(r),
		At:      at,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), statsRecordTimeout)
	defer cancel()
	if err := stats.Record(ctx, ev); err != nil {
		log.Warn(string(stage)+" stats record failed", zap.Error(err))
	}
}
