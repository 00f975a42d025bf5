package employee

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"employee-gateway/httpjson"
)

type Handler struct {
	Service Service
	Log     *zap.Logger
}

// Routes monta /employees no roteador recebido.
func (h Handler) Routes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/getAllEmployees", h.getAll)
		r.Get("/search/{searchName}", h.search)
		r.Get("/employeeById/{id}", h.byID)
		r.Get("/highestSalary", h.highestSalary)
		r.Get("/topTenHighestEarningEmployeeNames", h.topTen)
		r.Post("/postEmployee", h.create)
		r.Delete("/delete/{id}", h.delete)
	})
}

func (h Handler) getAll(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.Service.All(r.Context()))
}

func (h Handler) search(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "searchName")
	found := h.Service.SearchByName(r.Context(), name)
	if len(found) == 0 {
		httpjson.Write(w, http.StatusNotFound, []string{"No employee found with name: " + name})
		return
	}
	httpjson.Write(w, http.StatusOK, found)
}

func (h Handler) byID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.Service.ByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpjson.Write(w, http.StatusNotFound, []string{"No employee found with id: " + id})
		return
	}
	httpjson.Write(w, http.StatusOK, e)
}

func (h Handler) highestSalary(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.Service.HighestSalary(r.Context()))
}

func (h Handler) topTen(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.Service.TopTenHighestEarningNames(r.Context()))
}

func (h Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid employee payload")
		return
	}
	e, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, e)
}

func (h Handler) delete(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Service.DeleteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	// mensagem em texto puro, sem aspas de JSON
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, msg)
}

func (h Handler) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if h.Log != nil {
		h.Log.Warn("employee operation failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if errors.Is(err, ErrUpstream) {
		httpjson.Error(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}
	httpjson.Error(w, r, http.StatusInternalServerError, "INTERNAL", err.Error())
}
