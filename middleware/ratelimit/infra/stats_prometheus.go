package infra

import (
	"context"

	"employee-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore exporta as decisões como métricas Prometheus.
// Labels ficam em stage/result para manter a cardinalidade baixa.
type PrometheusStatsStore struct {
	decisions *prometheus.CounterVec
}

func NewPrometheusStatsStore(reg prometheus.Registerer, namespace string) (*PrometheusStatsStore, error) {
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_decisions_total",
			Help:      "Total de decisões de admissão/rate limit por estágio e resultado.",
		},
		[]string{"stage", "result"},
	)
	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	return &PrometheusStatsStore{decisions: decisions}, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	result := "denied"
	if ev.Allowed {
		result = "allowed"
	}
	s.decisions.WithLabelValues(string(ev.Stage), result).Inc()
	return nil
}

// RegisterAdmissionGauges expõe a política e o estado do controle de admissão.
// As funções são lidas a cada scrape.
func RegisterAdmissionGauges(reg prometheus.Registerer, namespace string, w *FixedWindow) error {
	p := w.Policy()
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_limit",
			Help:      "Limite de requisições por janela (sorteado na inicialização).",
		}, func() float64 { return float64(p.Limit) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_backoff_seconds",
			Help:      "Backoff da janela (sorteado na inicialização).",
		}, func() float64 { return p.Backoff.Seconds() }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_window_count",
			Help:      "Requisições admitidas na janela atual.",
		}, func() float64 { return float64(w.Snapshot().Count) }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPoolGauges expõe ocupação e capacidade do limite de concorrência.
func RegisterPoolGauges(reg prometheus.Registerer, namespace string, p *ChanPool) error {
	for _, c := range []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inflight_requests",
			Help:      "Requisições ocupando vaga de concorrência agora.",
		}, func() float64 { return float64(p.InFlight()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inflight_capacity",
			Help:      "Capacidade do limite de concorrência.",
		}, func() float64 { return float64(p.Cap()) }),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
