// Package mockapi é a API upstream simulada: funcionários em memória,
// servidos em /api/v1/employee.
package mockapi

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"employee-gateway/employee"
)

const emailDomain = "company.com"

type Store struct {
	mu    sync.RWMutex
	items []employee.Employee
}

func NewStore(seed ...employee.Employee) *Store {
	return &Store{items: slices.Clone(seed)}
}

func (s *Store) List() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]employee.Employee, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id uuid.UUID) (employee.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.items, func(e employee.Employee) bool { return e.ID == id })
	if i < 0 {
		return employee.Employee{}, false
	}
	return s.items[i], true
}

// Create não valida; a validação fica no handler.
func (s *Store) Create(in employee.CreateInput) employee.Employee {
	e := employee.Employee{
		ID:     uuid.New(),
		Name:   in.Name,
		Salary: in.Salary,
		Age:    in.Age,
		Title:  in.Title,
		Email:  emailFor(in.Name),
	}
	s.mu.Lock()
	s.items = append(s.items, e)
	s.mu.Unlock()
	return e
}

// DeleteByName remove o primeiro funcionário com esse nome exato.
func (s *Store) DeleteByName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(e employee.Employee) bool { return e.Name == name })
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func emailFor(name string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	if local == "" {
		local = "employee"
	}
	return local + "@" + emailDomain
}

var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Fabio", "Gabriela", "Hugo", "Iris", "Joao", "Karen", "Lucas", "Marina", "Nuno", "Olga", "Paulo"}
	lastNames  = []string{"Silva", "Souza", "Costa", "Pereira", "Almeida", "Ferreira", "Rocha", "Lima", "Gomes", "Ribeiro"}
	titles     = []string{"Engineer", "Senior Engineer", "Manager", "Analyst", "Designer", "Support", "Director"}
)

// SeedEmployees gera n funcionários válidos (salário > 0, idade em [16,75]).
func SeedEmployees(r *rand.Rand, n int) []employee.Employee {
	out := make([]employee.Employee, 0, n)
	for range n {
		name := fmt.Sprintf("%s %s", firstNames[r.IntN(len(firstNames))], lastNames[r.IntN(len(lastNames))])
		out = append(out, employee.Employee{
			ID:     uuid.New(),
			Name:   name,
			Salary: 30_000 + r.IntN(270_001),
			Age:    MinAge + r.IntN(MaxAge-MinAge+1),
			Title:  titles[r.IntN(len(titles))],
			Email:  emailFor(name),
		})
	}
	return out
}
