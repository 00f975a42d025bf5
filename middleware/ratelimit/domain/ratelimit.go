package domain

// Key identifica um cliente no estágio por chave: IP, API key, etc.
type Key string

// Limiter é o balde de um único cliente.
type Limiter interface {
	Allow() bool
}

// LimiterStore devolve o Limiter da chave, criando sob demanda.
// Pode devolver nil; o serviço trata nil como "sem limite".
type LimiterStore interface {
	Get(Key) Limiter
}
