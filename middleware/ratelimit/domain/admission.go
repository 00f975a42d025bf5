package domain

import "time"

// AdmissionPolicy é fixada na inicialização do processo e nunca muda depois.
type AdmissionPolicy struct {
	// Limit é quantas requisições cabem numa janela.
	Limit int
	// Backoff é quanto tempo precisa passar desde a última admissão para
	// uma janela cheia ser considerada velha e reiniciada.
	Backoff time.Duration
}

// AdmissionState é o registro compartilhado pelo processo inteiro.
//
// Count fica sempre em [0, Limit] e LastAdmittedAt nunca retrocede.
type AdmissionState struct {
	Count          int
	LastAdmittedAt time.Time
}

// Admission decide, para cada requisição de entrada, se ela segue para o handler.
//
// A decisão é a mesma para qualquer rota, método ou payload: só depende do
// instante da checagem. Decide nunca bloqueia nem faz I/O.
type Admission interface {
	Decide(now time.Time) Decision
}

// Clock devolve o instante atual. Injetável para testes.
type Clock func() time.Time
