// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain da fila.
//
// Exemplos:
//   - MemoryStatsStore: contadores em memória (testes e desenvolvimento)
//   - RedisStatsStore: contadores em Redis com buckets por minuto
//   - PrometheusStatsStore: métricas expostas em /metrics
//   - Tee: repassa o mesmo evento para várias stores
package infra
