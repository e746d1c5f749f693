// Package application contém o orquestrador de persistência: sequência de boot
// (lê os dois tiers antes de liberar escritas) e roteamento de cada escrita para o
// tier do registro, preservando a ordem por chave no tier assíncrono.
//
// Falhas de leitura viram o valor padrão do registro; falhas de escrita viram log.
// Nada disso chega ao chamador.
package application
