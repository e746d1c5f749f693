// Package assistant traduz as chamadas do planejador (conversa, busca de fornecedores,
// sugestão de tarefas e geração de imagem) em chamadas ao serviço generativo.
//
// Toda chamada passa pela fila (queue/application.Limiter); o pacote não guarda estado
// além dela. O backend concreto fica atrás da interface Backend (ver assistant/gemini).
package assistant
