package mockapi

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"employee-gateway/employee"
)

func TestStore_CreateGetDelete(t *testing.T) {
	s := NewStore()
	e := s.Create(employee.CreateInput{Name: "Ana Silva", Salary: 10, Age: 30, Title: "Dev"})

	require.NotEqual(t, uuid.Nil, e.ID)
	require.Equal(t, "ana.silva@company.com", e.Email)

	got, ok := s.Get(e.ID)
	require.True(t, ok)
	require.Equal(t, e, got)

	require.True(t, s.DeleteByName("Ana Silva"))
	require.False(t, s.DeleteByName("Ana Silva"))
	_, ok = s.Get(e.ID)
	require.False(t, ok)
}

func TestStore_DeleteRemovesOnlyFirstMatch(t *testing.T) {
	s := NewStore()
	s.Create(employee.CreateInput{Name: "Ana", Salary: 1, Age: 20, Title: "x"})
	s.Create(employee.CreateInput{Name: "Ana", Salary: 2, Age: 20, Title: "x"})

	require.True(t, s.DeleteByName("Ana"))
	require.Equal(t, 1, s.Len())
	require.Equal(t, 2, s.List()[0].Salary)
}

func TestStore_ListIsACopy(t *testing.T) {
	s := NewStore(employee.Employee{ID: uuid.New(), Name: "Ana"})
	l := s.List()
	l[0].Name = "changed"
	require.Equal(t, "Ana", s.List()[0].Name)
}

func TestStore_ConcurrentCreates(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Create(employee.CreateInput{Name: "x", Salary: 1, Age: 20, Title: "t"})
		}()
	}
	wg.Wait()
	require.Equal(t, 50, s.Len())
}

func TestSeedEmployees_AreValid(t *testing.T) {
	emps := SeedEmployees(rand.New(rand.NewPCG(1, 2)), 100)
	require.Len(t, emps, 100)
	for _, e := range emps {
		require.NoError(t, validateCreate(employee.CreateInput{Name: e.Name, Salary: e.Salary, Age: e.Age, Title: e.Title}))
		require.Contains(t, e.Email, "@company.com")
	}
}
