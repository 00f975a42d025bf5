package infra

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"employee-gateway/middleware/ratelimit/domain"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func fullWindow(t *testing.T, limit int, backoff time.Duration) *FixedWindow {
	t.Helper()
	w := NewFixedWindow(domain.AdmissionPolicy{Limit: limit, Backoff: backoff}, t0)
	for i := 0; i < limit; i++ {
		require.True(t, w.Decide(at(i)).Allowed, "call %d", i)
	}
	return w
}

func TestFixedWindow_InitialState(t *testing.T) {
	w := NewFixedWindow(domain.AdmissionPolicy{Limit: 5, Backoff: time.Minute}, t0)

	s := w.Snapshot()
	require.Equal(t, 0, s.Count)
	require.Equal(t, t0, s.LastAdmittedAt)
	require.Equal(t, 5, w.Remaining())
}

func TestFixedWindow_AdmitsUntilFull(t *testing.T) {
	w := fullWindow(t, 7, 45*time.Second)

	s := w.Snapshot()
	require.Equal(t, 7, s.Count)
	require.Equal(t, at(6), s.LastAdmittedAt)
	require.Equal(t, 0, w.Remaining())

	dec := w.Decide(at(7))
	require.False(t, dec.Allowed)
}

func TestFixedWindow_RejectLeavesStateUntouched(t *testing.T) {
	w := fullWindow(t, 5, time.Minute)
	before := w.Snapshot()

	dec := w.Decide(at(30))
	require.False(t, dec.Allowed)
	require.Equal(t, before, w.Snapshot())
	// lastAdmittedAt(4) + 60s - 30s
	require.Equal(t, 34*time.Second, dec.RetryAfter)
}

func TestFixedWindow_NoResetJustBeforeBackoff(t *testing.T) {
	w := fullWindow(t, 5, time.Minute)
	before := w.Snapshot()

	now := at(4).Add(time.Minute - time.Nanosecond)
	dec := w.Decide(now)
	require.False(t, dec.Allowed)
	require.Equal(t, time.Nanosecond, dec.RetryAfter)
	require.Equal(t, before, w.Snapshot())
}

func TestFixedWindow_ResetsExactlyAtBackoff(t *testing.T) {
	w := fullWindow(t, 5, time.Minute)

	now := at(4).Add(time.Minute)
	require.True(t, w.Decide(now).Allowed)

	s := w.Snapshot()
	require.Equal(t, 0, s.Count, "a requisição que reinicia a janela não conta")
	require.Equal(t, now, s.LastAdmittedAt)
}

func TestFixedWindow_ResetGrantsOneFreeSlot(t *testing.T) {
	w := fullWindow(t, 5, time.Minute)

	base := 200
	require.True(t, w.Decide(at(base)).Allowed) // reset
	for i := 1; i <= 5; i++ {
		require.True(t, w.Decide(at(base+i)).Allowed, "call %d after reset", i)
	}
	require.False(t, w.Decide(at(base+6)).Allowed)
}

func TestFixedWindow_Scenario(t *testing.T) {
	w := NewFixedWindow(domain.AdmissionPolicy{Limit: 5, Backoff: 60 * time.Second}, t0)

	for _, sec := range []int{0, 1, 2, 3, 4} {
		require.True(t, w.Decide(at(sec)).Allowed, "t=%d", sec)
	}
	require.Equal(t, 5, w.Snapshot().Count)

	require.False(t, w.Decide(at(10)).Allowed)

	require.True(t, w.Decide(at(65)).Allowed)
	require.Equal(t, domain.AdmissionState{Count: 0, LastAdmittedAt: at(65)}, w.Snapshot())
}

func TestFixedWindow_LastAdmittedAtNeverGoesBack(t *testing.T) {
	w := NewFixedWindow(domain.AdmissionPolicy{Limit: 5, Backoff: time.Minute}, t0)

	require.True(t, w.Decide(at(10)).Allowed)
	require.True(t, w.Decide(at(3)).Allowed)

	s := w.Snapshot()
	require.Equal(t, 2, s.Count)
	require.Equal(t, at(10), s.LastAdmittedAt)
}

func TestFixedWindow_ConcurrentCallsAdmitExactlyLimit(t *testing.T) {
	const (
		limit = 8
		n     = 500
	)
	w := NewFixedWindow(domain.AdmissionPolicy{Limit: limit, Backoff: time.Minute}, t0)
	now := at(1)

	var (
		allowed  atomic.Int64
		rejected atomic.Int64
		maxSeen  atomic.Int64
		start    = make(chan struct{})
		wg       sync.WaitGroup
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			<-start
			if w.Decide(now).Allowed {
				allowed.Add(1)
			} else {
				rejected.Add(1)
			}
			c := int64(w.Snapshot().Count)
			for {
				m := maxSeen.Load()
				if c <= m || maxSeen.CompareAndSwap(m, c) {
					break
				}
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int64(limit), allowed.Load())
	require.Equal(t, int64(n-limit), rejected.Load())
	require.LessOrEqual(t, maxSeen.Load(), int64(limit))
	require.Equal(t, limit, w.Snapshot().Count)
}

func TestFixedWindow_CountStaysInRange(t *testing.T) {
	policy := domain.AdmissionPolicy{Limit: 6, Backoff: 30 * time.Second}
	w := NewFixedWindow(policy, t0)

	// passos irregulares, alguns maiores que o backoff
	steps := []int{0, 1, 1, 2, 5, 8, 9, 40, 41, 41, 42, 90, 91, 92, 93, 94, 95, 96, 97, 200, 201}
	for _, sec := range steps {
		w.Decide(at(sec))
		c := w.Snapshot().Count
		require.GreaterOrEqual(t, c, 0)
		require.LessOrEqual(t, c, policy.Limit)
	}
}
