package infra

import (
	"context"
	"sync"

	"planner-core/persistence/domain"
)

// WritePool limita as gravações assíncronas simultâneas entre chaves diferentes.
// Gravações da mesma chave já chegam em série; o pool só controla o paralelismo.
type WritePool struct {
	slots chan struct{}
}

var _ domain.SlotPool = (*WritePool)(nil)

// NewWritePool cria um pool com size vagas (mínimo 1).
func NewWritePool(size int) *WritePool {
	return &WritePool{slots: make(chan struct{}, max(size, 1))}
}

// Acquire ocupa uma vaga. O release devolvido pode ser chamado mais de uma vez;
// só a primeira chamada libera a vaga.
func (p *WritePool) Acquire(ctx context.Context) (func(), bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(func() { <-p.slots }) }, true
}

// InUse devolve quantas vagas estão ocupadas agora.
func (p *WritePool) InUse() int { return len(p.slots) }

func (p *WritePool) Size() int { return cap(p.slots) }
