package employee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var aliceID = uuid.MustParse("4a3a170b-22cd-4ac2-aad1-9bb5b34a1507")

func upstream(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1/employee", time.Second)
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "status": "Successfully processed request."})
}

func TestClient_ListAll(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/employee", r.URL.Path)
		writeEnvelope(w, []Employee{{ID: aliceID, Name: "Alice", Salary: 100}})
	})

	all := c.ListAll(context.Background())
	require.Len(t, all, 1)
	require.Equal(t, "Alice", all[0].Name)
	require.Equal(t, aliceID, all[0].ID)
}

func TestClient_ListAllDegradesToEmpty(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status 429": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		},
		"null data": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, nil)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			all := upstream(t, h).ListAll(context.Background())
			require.NotNil(t, all)
			require.Empty(t, all)
		})
	}
}

func TestClient_ListAllNetworkError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api/v1/employee", 200*time.Millisecond)
	require.Empty(t, c.ListAll(context.Background()))
}

func TestClient_GetByID(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/employee/"+aliceID.String() {
			writeEnvelope(w, Employee{ID: aliceID, Name: "Alice"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	e, ok := c.GetByID(context.Background(), aliceID.String())
	require.True(t, ok)
	require.Equal(t, "Alice", e.Name)

	_, ok = c.GetByID(context.Background(), "missing")
	require.False(t, ok)
}

func TestClient_Create(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in CreateInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeEnvelope(w, Employee{ID: aliceID, Name: in.Name, Salary: in.Salary, Age: in.Age, Title: in.Title})
	})

	e, ok := c.Create(context.Background(), CreateInput{Name: "Alice", Salary: 10, Age: 30, Title: "Dev"})
	require.True(t, ok)
	require.Equal(t, "Alice", e.Name)
	require.Equal(t, 10, e.Salary)
}

func TestClient_CreateRejected(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	_, ok := c.Create(context.Background(), CreateInput{})
	require.False(t, ok)
}

func TestClient_DeleteByNameSendsBody(t *testing.T) {
	var got DeleteInput
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/employee", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, true)
	})

	msg, ok := c.DeleteByName(context.Background(), "Alice")
	require.True(t, ok)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "Employee with name Alice deleted successfully.", msg)
}

func TestClient_DeleteByNameFailure(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	msg, ok := c.DeleteByName(context.Background(), "Alice")
	require.False(t, ok)
	require.Empty(t, msg)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", time.Second)
	require.Equal(t, DefaultBaseURL, c.base)
}
