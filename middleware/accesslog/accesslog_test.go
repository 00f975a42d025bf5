package accesslog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsStatusAndLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux.HandleFunc("/limited", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	h := Middleware(log)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/limited", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
	require.EqualValues(t, 2, entries[0].ContextMap()["bytes"])

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.EqualValues(t, http.StatusTooManyRequests, entries[1].ContextMap()["status"])
	require.Equal(t, "/limited", entries[1].ContextMap()["path"])
}
