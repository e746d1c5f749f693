// Package appstate é a raiz de agregação do planejador: listas de tarefas, convidados,
// conversa, galeria, faturas e clientes, mais a identidade ativa.
//
// Todo mutador valida a entrada, altera o estado em memória e grava explicitamente o
// registro afetado pelo orquestrador de persistência. Antes do boot terminar os
// mutadores devolvem ErrNotReady e não alteram nada.
package appstate
