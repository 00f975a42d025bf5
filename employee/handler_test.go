package employee

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"employee-gateway/httpjson"
)

func router(up *fakeUpstream) http.Handler {
	r := chi.NewRouter()
	Handler{Service: Service{Upstream: up}}.Routes(r)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestHandler_GetAll(t *testing.T) {
	w := serve(router(&fakeUpstream{employees: staff(3)}), http.MethodGet, "/employees/getAllEmployees", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)
}

func TestHandler_GetAllEmptyIsArray(t *testing.T) {
	w := serve(router(&fakeUpstream{employees: []Employee{}}), http.MethodGet, "/employees/getAllEmployees", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestHandler_SearchNotFound(t *testing.T) {
	w := serve(router(&fakeUpstream{}), http.MethodGet, "/employees/search/Bob", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `["No employee found with name: Bob"]`, w.Body.String())
}

func TestHandler_ByID(t *testing.T) {
	emps := staff(1)
	h := router(&fakeUpstream{employees: emps})

	w := serve(h, http.MethodGet, "/employees/employeeById/"+emps[0].ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"employee_name":"emp00"`)

	w = serve(h, http.MethodGet, "/employees/employeeById/xyz", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `["No employee found with id: xyz"]`, w.Body.String())
}

func TestHandler_HighestSalaryAndTopTen(t *testing.T) {
	h := router(&fakeUpstream{employees: staff(2)})

	w := serve(h, http.MethodGet, "/employees/highestSalary", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "2000", w.Body.String())

	w = serve(h, http.MethodGet, "/employees/topTenHighestEarningEmployeeNames", "")
	require.JSONEq(t, `["emp01 - 2000","emp00 - 1000"]`, w.Body.String())
}

func TestHandler_Create(t *testing.T) {
	h := router(&fakeUpstream{createOK: true})
	w := serve(h, http.MethodPost, "/employees/postEmployee", `{"name":"Ana","salary":10,"age":30,"title":"Dev"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"employee_name":"Ana"`)
}

func TestHandler_CreateErrors(t *testing.T) {
	w := serve(router(&fakeUpstream{createOK: true}), http.MethodPost, "/employees/postEmployee", "{")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router(&fakeUpstream{}), http.MethodPost, "/employees/postEmployee", `{"name":"Ana"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body httpjson.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "UPSTREAM_ERROR", body.Error.Code)
}

func TestHandler_Delete(t *testing.T) {
	emps := staff(1)
	h := router(&fakeUpstream{employees: emps, deleteOK: true})

	w := serve(h, http.MethodDelete, "/employees/delete/"+emps[0].ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	require.Equal(t, "Employee with name emp00 deleted successfully.", w.Body.String())

	w = serve(h, http.MethodDelete, "/employees/delete/nope", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Employee with ID nope not found.", w.Body.String())
}
