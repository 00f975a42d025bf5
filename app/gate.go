// Package app monta a pilha de proteção comum aos dois binários a partir da
// Config: admissão, rate limit opcional por cliente, limite de concorrência,
// estatísticas (Prometheus sempre, Redis opcional) e o roteador base.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"employee-gateway/config"
	"employee-gateway/httpjson"
	"employee-gateway/middleware/accesslog"
	"employee-gateway/middleware/ratelimit"
	"employee-gateway/middleware/ratelimit/domain"
	"employee-gateway/middleware/ratelimit/infra"
	"employee-gateway/server"
)

const redisPingTimeout = 2 * time.Second

type Gate struct {
	Window   *infra.FixedWindow
	Registry *prometheus.Registry
	Stats    domain.StatsStore
	Memory   *infra.MemoryStatsStore

	cfg         config.Config
	log         *zap.Logger
	clock       domain.Clock
	store       *infra.Store
	pool        *infra.ChanPool
	rdbOverride redis.Cmdable
	closers     []func() error
}

type Option func(*Gate)

// WithClock troca o relógio usado pela admissão (testes).
func WithClock(c domain.Clock) Option {
	return func(g *Gate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithRedis usa um cliente já criado em vez de abrir um a partir da Config.
func WithRedis(rdb redis.Cmdable) Option {
	return func(g *Gate) { g.rdbOverride = rdb }
}

// NewGate sorteia (ou fixa) a política de admissão e prepara os stores de
// estatística. Falhar aqui deve abortar a inicialização.
func NewGate(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...Option) (*Gate, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{
		Registry: prometheus.NewRegistry(),
		cfg:      cfg,
		log:      log,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	promStats, err := infra.NewPrometheusStatsStore(g.Registry, cfg.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("register decision metrics: %w", err)
	}
	g.Memory = infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.Stats.TrackKeys))
	stats := infra.MultiStatsStore{promStats, g.Memory}

	rdb, err := g.redis(ctx)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		stats = append(stats, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.Stats.Prefix),
			infra.WithStatsTTL(cfg.Stats.TTL),
			infra.WithStatsBucket(cfg.Stats.Bucket),
			infra.WithStatsTrackKeys(cfg.Stats.TrackKeys),
		))
	}
	g.Stats = stats

	if cfg.Admission.Enabled {
		if err := g.initAdmission(); err != nil {
			_ = g.Close()
			return nil, err
		}
	}

	if cfg.Concurrency.Max > 0 {
		g.pool = infra.NewChanPool(cfg.Concurrency.Max)
		if err := infra.RegisterPoolGauges(g.Registry, cfg.MetricsNamespace, g.pool); err != nil {
			_ = g.Close()
			return nil, fmt.Errorf("register concurrency gauges: %w", err)
		}
	}

	if cfg.Rate.Enabled {
		g.store = infra.NewStore(cfg.Rate.RPS, cfg.Rate.Burst,
			infra.WithStoreClock(g.clock),
			infra.WithOnCleanup(func(n int) {
				g.log.Debug("rate limit janitor removed idle keys", zap.Int("removed", n))
			}),
		)
		g.store.StartJanitor(ctx)
	}

	return g, nil
}

func (g *Gate) initAdmission() error {
	a := g.cfg.Admission
	var opts []infra.PolicyOption
	if a.Seed != nil {
		opts = append(opts, infra.WithPolicySeed(*a.Seed))
	}
	if a.Limit > 0 {
		opts = append(opts, infra.WithPolicyLimit(a.Limit))
	}
	if a.Backoff > 0 {
		opts = append(opts, infra.WithPolicyBackoff(a.Backoff))
	}

	policy, err := infra.NewAdmissionPolicy(opts...)
	if err != nil {
		return fmt.Errorf("admission policy: %w", err)
	}
	g.Window = infra.NewFixedWindow(policy, g.clock())

	if err := infra.RegisterAdmissionGauges(g.Registry, g.cfg.MetricsNamespace, g.Window); err != nil {
		return fmt.Errorf("register admission gauges: %w", err)
	}

	g.log.Info("admission policy",
		zap.Int("limit", policy.Limit),
		zap.Duration("backoff", policy.Backoff),
		zap.Bool("seeded", a.Seed != nil),
		zap.Bool("limit_override", a.Limit > 0),
		zap.Bool("backoff_override", a.Backoff > 0))
	return nil
}

func (g *Gate) redis(ctx context.Context) (redis.Cmdable, error) {
	if g.rdbOverride != nil {
		return g.rdbOverride, nil
	}
	s := g.cfg.Stats
	if !s.RedisEnabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis stats ping %s: %w", s.RedisAddr, err)
	}
	g.closers = append(g.closers, rdb.Close)
	g.log.Info("redis stats enabled",
		zap.String("addr", s.RedisAddr),
		zap.String("bucket", s.Bucket),
		zap.Duration("ttl", s.TTL),
		zap.Bool("track_keys", s.TrackKeys))
	return rdb, nil
}

// Protect aplica, de fora para dentro: admissão, rate limit por cliente
// (se habilitado) e limite de concorrência.
func (g *Gate) Protect(h http.Handler) http.Handler {
	c := g.cfg
	if g.pool != nil {
		h = ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
			Pool:           g.pool,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: c.Concurrency.AcquireTimeout,
		})(h)
	}
	if g.store != nil {
		h = ratelimit.RateLimitMiddleware(ratelimit.RateLimitOptions{
			Store:              g.store,
			Stats:              g.Stats,
			KeyHeader:          c.Rate.KeyHeader,
			TrustXForwardedFor: c.Rate.TrustXFF,
			RejectStatus:       http.StatusTooManyRequests,
			RetryAfter:         c.Rate.RetryAfter,
			AddHeaders:         c.Rate.AddHeaders,
			Clock:              g.clock,
			Logger:             g.log,
		})(h)
	}
	if g.Window != nil {
		h = ratelimit.AdmissionMiddleware(ratelimit.AdmissionOptions{
			Admission:  g.Window,
			Clock:      g.clock,
			Stats:      g.Stats,
			KeyFn:      ratelimit.DefaultKeyFunc(c.Rate.KeyHeader, c.Rate.TrustXFF),
			AddHeaders: c.Admission.AddHeaders,
			Logger:     g.log,
		})(h)
	}
	return h
}

type statsResponse struct {
	Total     infra.Counters            `json:"total"`
	Admission infra.Counters            `json:"admission"`
	RateLimit infra.Counters            `json:"ratelimit"`
	Routes    map[string]infra.Counters `json:"routes"`
	Keys      map[string]infra.Counters `json:"keys,omitempty"`
	Window    *windowResponse           `json:"window,omitempty"`
}

type windowResponse struct {
	Count     int       `json:"count"`
	Remaining int       `json:"remaining"`
	LastAt    time.Time `json:"last_admitted_at"`
}

// stats não expõe limit/backoff; eles só aparecem em /metrics.
func (g *Gate) stats(w http.ResponseWriter, _ *http.Request) {
	resp := statsResponse{
		Total:     g.Memory.Total(),
		Admission: g.Memory.Stage(domain.StageAdmission),
		RateLimit: g.Memory.Stage(domain.StageRateLimit),
		Routes:    g.Memory.ByRoute(),
	}
	if g.cfg.Stats.TrackKeys {
		resp.Keys = g.Memory.ByKey()
	}
	if g.Window != nil {
		st := g.Window.Snapshot()
		resp.Window = &windowResponse{Count: st.Count, Remaining: g.Window.Remaining(), LastAt: st.LastAdmittedAt}
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// Router devolve o roteador base: request id, access log e recover em tudo;
// /healthz, /metrics e /stats ficam fora da proteção e mount recebe um grupo protegido.
func (g *Gate) Router(mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accesslog.Middleware(g.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(g.Registry, promhttp.HandlerOpts{}))
	r.Get("/stats", g.stats)

	r.Group(func(r chi.Router) {
		r.Use(g.Protect)
		mount(r)
	})
	r.NotFound(g.Protect(http.HandlerFunc(notFound)).ServeHTTP)
	r.MethodNotAllowed(g.Protect(http.HandlerFunc(methodNotAllowed)).ServeHTTP)
	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, r, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

func (g *Gate) Close() error {
	var errs []error
	for _, c := range g.closers {
		errs = append(errs, c())
	}
	g.closers = nil
	return errors.Join(errs...)
}
