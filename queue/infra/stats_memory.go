package infra

import (
	"context"
	"sync"
	"time"

	"planner-core/queue/domain"
)

type Counters struct {
	Admitted int64
	Waited   int64
	// WaitTotal é a soma das esperas por janela.
	WaitTotal time.Duration
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byLabel map[string]Counters

	trackLabels bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackLabels(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackLabels = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byLabel: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = apply(s.total, ev)
	if s.trackLabels && ev.Label != "" {
		s.byLabel[ev.Label] = apply(s.byLabel[ev.Label], ev)
	}
	return nil
}

func apply(c Counters, ev domain.StatsEvent) Counters {
	switch ev.Kind {
	case domain.EventAdmitted:
		c.Admitted++
	case domain.EventWaited:
		c.Waited++
		c.WaitTotal += ev.Wait
	}
	return c
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByLabel() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byLabel))
	for k, v := range s.byLabel {
		out[k] = v
	}
	return out
}
