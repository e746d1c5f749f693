package infra

import (
	"context"
	"sync"
	"time"

	"planner-core/persistence/domain"
)

// MemorySyncStore é o tier síncrono em memória.
// Útil para testes e desenvolvimento; não sobrevive ao processo.
type MemorySyncStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySyncStore() *MemorySyncStore {
	return &MemorySyncStore{data: make(map[string][]byte)}
}

func (s *MemorySyncStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySyncStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySyncStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// MemoryAsyncStore é o tier assíncrono em memória, com latência opcional
// para simular um armazenamento lento.
type MemoryAsyncStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	latency func(op, key string) time.Duration
}

type MemoryAsyncOption func(*MemoryAsyncStore)

// WithLatency define o atraso de cada operação ("load" ou "save") por chave.
func WithLatency(fn func(op, key string) time.Duration) MemoryAsyncOption {
	return func(s *MemoryAsyncStore) { s.latency = fn }
}

func NewMemoryAsyncStore(opts ...MemoryAsyncOption) *MemoryAsyncStore {
	s := &MemoryAsyncStore{data: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryAsyncStore) delay(ctx context.Context, op, key string) error {
	if s.latency == nil {
		return ctx.Err()
	}
	d := s.latency(op, key)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryAsyncStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := s.delay(ctx, "load", key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryAsyncStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.delay(ctx, "save", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}
