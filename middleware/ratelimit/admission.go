package ratelimit

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"employee-gateway/middleware/ratelimit/application"
	"employee-gateway/middleware/ratelimit/domain"
)

type AdmissionOptions struct {
	Admission domain.Admission
	Clock     domain.Clock
	Stats     domain.StatsStore
	// KeyFn só identifica o cliente nas estatísticas; a decisão não depende dela.
	KeyFn        KeyFunc
	RejectStatus int
	// AddHeaders expõe X-Admission-Limit/Remaining. Desligado por padrão:
	// revelar o limite sorteado facilita contorná-lo.
	AddHeaders bool
	Logger     *zap.Logger
}

type windowInfo interface {
	Policy() domain.AdmissionPolicy
	Remaining() int
}

// AdmissionMiddleware consulta o controle de admissão uma vez por requisição,
// antes de qualquer handler, independente de rota ou método.
// Bloqueado: responde 429 + Retry-After e não chama o próximo handler.
func AdmissionMiddleware(opts AdmissionOptions) func(next http.Handler) http.Handler {
	if opts.Admission == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc("", false)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	svc := application.AdmissionService{
		Admission: opts.Admission,
		Clock:     opts.Clock,
	}
	info, hasInfo := opts.Admission.(windowInfo)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dec := svc.Decide()

			if opts.AddHeaders && hasInfo {
				w.Header().Set("X-Admission-Limit", formatInt(info.Policy().Limit))
				w.Header().Set("X-Admission-Remaining", formatInt(info.Remaining()))
			}

			at := opts.Clock()
			if !dec.Allowed {
				opts.Logger.Debug("request rejected by admission control",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("retry_after", dec.RetryAfter))
				reject(w, opts.RejectStatus, dec.RetryAfter)
				recordDecision(r, opts.Stats, opts.Logger, domain.StageAdmission, opts.KeyFn(r), false, at)
				return
			}

			// registrado depois do handler: aí o padrão da rota já está completo
			next.ServeHTTP(w, r)
			recordDecision(r, opts.Stats, opts.Logger, domain.StageAdmission, opts.KeyFn(r), true, at)
		})
	}
}
