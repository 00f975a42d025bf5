// Package domain reúne os tipos de admissão, rate limit por chave,
// concorrência e estatísticas. Sem net/http e sem implementações.
package domain
