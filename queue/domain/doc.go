// Package domain define contratos e tipos de domínio da fila de chamadas com limite
// por janela (sliding window).
//
// Este pacote não depende de relógio real, goroutines nem de implementações concretas.
// A intenção é permitir testes de unidade puros da contabilidade da janela.
package domain
