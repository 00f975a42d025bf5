// Package employee é a fachada sobre a API upstream de funcionários: cliente
// HTTP tolerante a falhas, regras de consulta e as rotas /employees.
package employee

import "github.com/google/uuid"

type Employee struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"employee_name"`
	Salary int       `json:"employee_salary"`
	Age    int       `json:"employee_age"`
	Title  string    `json:"employee_title"`
	Email  string    `json:"employee_email"`
}

type CreateInput struct {
	Name   string `json:"name"`
	Salary int    `json:"salary"`
	Age    int    `json:"age"`
	Title  string `json:"title"`
}

type DeleteInput struct {
	Name string `json:"name"`
}

// Response é o envelope usado pelo upstream.
type Response[T any] struct {
	Data   T      `json:"data"`
	Status string `json:"status"`
}
