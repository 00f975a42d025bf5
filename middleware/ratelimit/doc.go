// Package ratelimit fornece adapters HTTP (net/http) para admissão, rate limit
// por cliente e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (janela fixa, token bucket, semáforo, stats)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução para status/headers
//
// Ordem no servidor:
//
//  1. AdmissionMiddleware: gate global do processo, 429 quando a janela está cheia
//  2. RateLimitMiddleware (opcional): token bucket por cliente, 429
//  3. ConcurrencyMiddleware: vagas em voo, 503
//  4. handler
package ratelimit
