package domain

import (
	"context"
	"time"
)

type EventKind string

const (
	// EventAdmitted: uma chamada foi liberada para o serviço externo.
	EventAdmitted EventKind = "admitted"
	// EventWaited: a fila suspendeu o processamento esperando a janela virar.
	EventWaited EventKind = "waited"
)

// StatsEvent representa um evento da fila (admissão ou espera por janela).
//
// Label é livre (ex.: "chat", "tasks", "image") e serve só para agrupar.
// Cuidado com cardinalidade ao usar Label em bases como Redis/Prometheus.
type StatsEvent struct {
	Kind  EventKind
	Label string

	// Wait só é preenchido em EventWaited.
	Wait time.Duration
	// Pending é o tamanho da fila no momento do evento.
	Pending int

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas da fila.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// A fila trata erro como best-effort (nunca interrompe o processamento).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
