// Package domain define os contratos da persistência em dois níveis (tiers):
//
//   - sync: chave/valor síncrono para estado pequeno lido na inicialização
//   - async: documentos assíncronos para coleções maiores ou sem pressa
//
// Também define os registros tipados (Record) e o envelope versionado usado para
// gravar cada valor. Não depende de nenhuma implementação concreta de armazenamento.
package domain
