// Package application traduz os contratos de domain em decisões prontas para
// os adapters: relógio lido uma vez, RetryAfter normalizado, release idempotente.
// Não importa net/http.
package application
