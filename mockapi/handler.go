package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"employee-gateway/employee"
	"employee-gateway/httpjson"
)

const (
	MinAge = 16
	MaxAge = 75

	statusOK = "Successfully processed request."
)

type Handler struct {
	Store *Store
	Log   *zap.Logger
}

func (h Handler) Routes(r chi.Router) {
	r.Route("/api/v1/employee", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/", h.create)
		r.Delete("/", h.delete)
	})
}

func ok[T any](w http.ResponseWriter, data T) {
	httpjson.Write(w, http.StatusOK, employee.Response[T]{Data: data, Status: statusOK})
}

func (h Handler) list(w http.ResponseWriter, _ *http.Request) {
	ok(w, h.Store.List())
}

func (h Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, r, http.StatusNotFound, "NOT_FOUND", "employee not found")
		return
	}
	e, found := h.Store.Get(id)
	if !found {
		httpjson.Error(w, r, http.StatusNotFound, "NOT_FOUND", "employee not found")
		return
	}
	ok(w, e)
}

func (h Handler) create(w http.ResponseWriter, r *http.Request) {
	var in employee.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}
	if err := validateCreate(in); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	e := h.Store.Create(in)
	if h.Log != nil {
		h.Log.Debug("employee created", zap.Stringer("id", e.ID), zap.String("name", e.Name))
	}
	ok(w, e)
}

func (h Handler) delete(w http.ResponseWriter, r *http.Request) {
	var in employee.DeleteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		httpjson.Error(w, r, http.StatusBadRequest, "VALIDATION", "name must not be blank")
		return
	}
	ok(w, h.Store.DeleteByName(in.Name))
}

func validateCreate(in employee.CreateInput) error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, errors.New("name must not be blank"))
	}
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, errors.New("title must not be blank"))
	}
	if in.Salary <= 0 {
		errs = append(errs, errors.New("salary must be > 0"))
	}
	if in.Age < MinAge || in.Age > MaxAge {
		errs = append(errs, errors.New("age must be between 16 and 75"))
	}
	return errors.Join(errs...)
}
