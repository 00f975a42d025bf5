package employee

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrNotFound = errors.New("employee not found")
	ErrUpstream = errors.New("upstream request failed")
)

const topEarners = 10

type Upstream interface {
	ListAll(ctx context.Context) []Employee
	GetByID(ctx context.Context, id string) (Employee, bool)
	Create(ctx context.Context, in CreateInput) (Employee, bool)
	DeleteByName(ctx context.Context, name string) (string, bool)
}

type Service struct {
	Upstream Upstream
}

func (s Service) All(ctx context.Context) []Employee {
	return s.Upstream.ListAll(ctx)
}

// SearchByName compara o nome inteiro, sem diferenciar maiúsculas.
func (s Service) SearchByName(ctx context.Context, name string) []Employee {
	return lo.Filter(s.Upstream.ListAll(ctx), func(e Employee, _ int) bool {
		return strings.EqualFold(e.Name, name)
	})
}

func (s Service) ByID(ctx context.Context, id string) (Employee, error) {
	e, ok := s.Upstream.GetByID(ctx, id)
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

func (s Service) HighestSalary(ctx context.Context) int {
	all := s.Upstream.ListAll(ctx)
	if len(all) == 0 {
		return 0
	}
	return lo.MaxBy(all, func(a, b Employee) bool { return a.Salary > b.Salary }).Salary
}

// TopTenHighestEarningNames devolve "<nome> - <salário>", do maior para o menor.
func (s Service) TopTenHighestEarningNames(ctx context.Context) []string {
	all := slices.Clone(s.Upstream.ListAll(ctx))
	slices.SortStableFunc(all, func(a, b Employee) int { return cmp.Compare(b.Salary, a.Salary) })
	if len(all) > topEarners {
		all = all[:topEarners]
	}
	return lo.Map(all, func(e Employee, _ int) string {
		return fmt.Sprintf("%s - %d", e.Name, e.Salary)
	})
}

func (s Service) Create(ctx context.Context, in CreateInput) (Employee, error) {
	e, ok := s.Upstream.Create(ctx, in)
	if !ok {
		return Employee{}, fmt.Errorf("failed to create employee: %w", ErrUpstream)
	}
	return e, nil
}

// DeleteByID resolve o nome pelo id e remove pelo nome. Id inexistente não é
// erro: volta a mensagem "not found".
func (s Service) DeleteByID(ctx context.Context, id string) (string, error) {
	e, ok := s.Upstream.GetByID(ctx, id)
	if !ok {
		return fmt.Sprintf("Employee with ID %s not found.", id), nil
	}
	msg, ok := s.Upstream.DeleteByName(ctx, e.Name)
	if !ok {
		return "", fmt.Errorf("employee %s could not be deleted: %w", id, ErrUpstream)
	}
	return msg, nil
}
