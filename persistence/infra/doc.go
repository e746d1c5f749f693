// Package infra contém implementações concretas dos tiers de persistência
// definidos no pacote domain.
//
// Exemplos:
//   - BoltStore, MemorySyncStore: tier síncrono
//   - SQLiteStore, RedisStore, MemoryAsyncStore: tier assíncrono de documentos
//   - WritePool: vagas para gravações assíncronas simultâneas
package infra
