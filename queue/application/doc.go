// Package application contém o caso de uso central da fila: admitir chamadas ao
// serviço externo em ordem FIFO respeitando o limite por janela.
//
// Ele depende apenas do pacote domain. Relógio, estatísticas e logger são injetados.
// Ex.: Execute(ctx, limiter, "chat", task) enfileira a task e espera o resultado dela.
package application
