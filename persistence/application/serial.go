package application

import (
	"context"
	"sync"
)

// keyedSerial executa funções em série por chave e em paralelo entre chaves.
//
// Uma função enfileirada para a chave K só começa depois que a anterior de K terminou.
type keyedSerial struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
	wg    sync.WaitGroup
}

func newKeyedSerial() *keyedSerial {
	return &keyedSerial{tails: make(map[string]chan struct{})}
}

func (s *keyedSerial) enqueue(key string, fn func()) {
	done := make(chan struct{})

	s.mu.Lock()
	prev := s.tails[key]
	s.tails[key] = done
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if prev != nil {
			<-prev
		}

		fn()
		close(done)

		s.mu.Lock()
		if s.tails[key] == done {
			delete(s.tails, key)
		}
		s.mu.Unlock()
	}()
}

// wait bloqueia até todas as funções enfileiradas terminarem ou ctx encerrar.
func (s *keyedSerial) wait(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
