// Package infra implementa os contratos de domain.
//
//   - FixedWindow e NewAdmissionPolicy: controle de admissão do processo
//   - Store: token bucket por chave (golang.org/x/time/rate) com janitor
//   - ChanPool: vagas de concorrência
//   - Memory/Redis/Prometheus/MultiStatsStore: estatísticas de decisão,
//     mais os gauges de RegisterAdmissionGauges e RegisterPoolGauges
package infra
