package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"employee-gateway/middleware/ratelimit/domain"
	"employee-gateway/middleware/ratelimit/infra"
)

func TestRouteLabel_UsesChiPattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/employees/employeeById/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = routeLabel(r)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/employees/employeeById/123", nil))
	require.Equal(t, "/employees/employeeById/{id}", got)
}

func TestRouteLabel_UnmatchedWithoutChi(t *testing.T) {
	require.Equal(t, UnmatchedRoute, routeLabel(httptest.NewRequest(http.MethodGet, "/x/1", nil)))
}

func TestAdmissionMiddleware_RouteCardinalityIsBounded(t *testing.T) {
	stats := infra.NewMemoryStatsStore()
	r := chi.NewRouter()
	r.Use(AdmissionMiddleware(AdmissionOptions{
		Admission: infra.NewFixedWindow(domain.AdmissionPolicy{Limit: 3, Backoff: time.Minute}, time.Now()),
		Stats:     stats,
	}))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 50; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+formatInt(i), nil))
	}

	routes := stats.ByRoute()
	require.Len(t, routes, 1)
	require.Equal(t, infra.Counters{Allowed: 3, Denied: 47}, routes["GET /items/{id}"])
}

// slowStats segura Record até o contexto expirar e guarda o que viu.
type slowStats struct {
	rec         *httptest.ResponseRecorder
	flushed     bool
	code        int
	hasDeadline bool
}

func (s *slowStats) Record(ctx context.Context, ev domain.StatsEvent) error {
	if !ev.Allowed {
		s.flushed = s.rec.Flushed
		s.code = s.rec.Code
	}
	_, s.hasDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func TestAdmissionMiddleware_RejectIsSentBeforeSlowStats(t *testing.T) {
	w := httptest.NewRecorder()
	stats := &slowStats{rec: w}
	h := AdmissionMiddleware(AdmissionOptions{
		Admission: infra.NewFixedWindow(domain.AdmissionPolicy{Limit: 0, Backoff: time.Minute}, time.Now()),
		Stats:     stats,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	start := time.Now()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))

	require.True(t, stats.flushed, "429 must be flushed before stats are recorded")
	require.Equal(t, http.StatusTooManyRequests, stats.code)
	require.True(t, stats.hasDeadline)
	require.Less(t, time.Since(start), time.Second)
}
